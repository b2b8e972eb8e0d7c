// Package config provides configuration types and defaults for armature.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/chazu/armature/pkg/arm"
	"github.com/chazu/armature/pkg/engine"
	"github.com/chazu/armature/pkg/kernel/sdfx"
	"github.com/chazu/armature/pkg/tessellate"
)

// Config holds all configuration options for armature.
type Config struct {
	Arm    arm.Limits   `mapstructure:"arm" yaml:"arm"`
	Engine EngineConfig `mapstructure:"engine" yaml:"engine"`
	Mesh   MeshConfig   `mapstructure:"mesh" yaml:"mesh"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// EngineConfig controls script evaluation.
type EngineConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// MeshConfig controls tessellation.
type MeshConfig struct {
	Cells       int     `mapstructure:"cells" yaml:"cells"`
	LinkRadius  float64 `mapstructure:"link_radius" yaml:"link_radius"`
	JointRadius float64 `mapstructure:"joint_radius" yaml:"joint_radius"`
}

// Options returns the tessellation options for this mesh configuration.
func (m MeshConfig) Options() tessellate.Options {
	return tessellate.Options{LinkRadius: m.LinkRadius, JointRadius: m.JointRadius}
}

// LogConfig controls logging.
type LogConfig struct {
	Verbose      bool   `mapstructure:"verbose" yaml:"verbose"`
	DisableColor bool   `mapstructure:"disable_color" yaml:"disable_color"`
	File         string `mapstructure:"file" yaml:"file"` // log directory; empty disables file logging
}

// Defaults returns the default configuration.
func Defaults() Config {
	mesh := tessellate.DefaultOptions()
	return Config{
		Arm:    arm.DefaultLimits(),
		Engine: EngineConfig{Timeout: engine.DefaultEvalTimeout},
		Mesh: MeshConfig{
			Cells:       sdfx.DefaultMeshCells,
			LinkRadius:  mesh.LinkRadius,
			JointRadius: mesh.JointRadius,
		},
	}
}

// Validate checks every section and reports all problems at once.
func (c Config) Validate() error {
	var result *multierror.Error

	positive := func(name string, v float64) {
		if math.IsNaN(v) || v <= 0 {
			result = multierror.Append(result, errors.Errorf("%s must be positive, got %g", name, v))
		}
	}

	if math.IsNaN(c.Arm.MinSeparation) || c.Arm.MinSeparation < 0 {
		result = multierror.Append(result, errors.Errorf("arm.min_separation must not be negative, got %g", c.Arm.MinSeparation))
	}
	positive("arm.max_root_pitch", c.Arm.MaxRootPitch)
	positive("arm.max_root_yaw", c.Arm.MaxRootYaw)

	if c.Engine.Timeout <= 0 {
		result = multierror.Append(result, errors.Errorf("engine.timeout must be positive, got %s", c.Engine.Timeout))
	}

	if c.Mesh.Cells <= 0 {
		result = multierror.Append(result, errors.Errorf("mesh.cells must be positive, got %d", c.Mesh.Cells))
	}
	positive("mesh.link_radius", c.Mesh.LinkRadius)
	positive("mesh.joint_radius", c.Mesh.JointRadius)

	return result.ErrorOrNil()
}

// DefaultConfigTemplate returns the commented YAML written on first run.
func DefaultConfigTemplate() string {
	d := Defaults()
	return fmt.Sprintf(`# armature configuration

arm:
  # Two endpoints of one chain closer than this collide.
  min_separation: %g
  # Bounds on the link attached to the base, in radians.
  max_root_pitch: %g
  max_root_yaw: %g

engine:
  timeout: %s

mesh:
  # Marching cubes resolution along the longest axis of each link.
  cells: %d
  link_radius: %g
  joint_radius: %g

log:
  verbose: false
  disable_color: false
  # Directory for a daily-rotated log file. Empty disables file logging.
  file: ""
`, d.Arm.MinSeparation, d.Arm.MaxRootPitch, d.Arm.MaxRootYaw,
		d.Engine.Timeout, d.Mesh.Cells, d.Mesh.LinkRadius, d.Mesh.JointRadius)
}

// WriteDefaultConfig creates configPath with DefaultConfigTemplate.
func WriteDefaultConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	return nil
}
