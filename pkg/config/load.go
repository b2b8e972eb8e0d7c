package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. ARMATURE_MESH_CELLS.
const EnvPrefix = "ARMATURE"

// SetDefaults registers Defaults() with v so unset keys fall back to them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("arm.min_separation", d.Arm.MinSeparation)
	v.SetDefault("arm.max_root_pitch", d.Arm.MaxRootPitch)
	v.SetDefault("arm.max_root_yaw", d.Arm.MaxRootYaw)
	v.SetDefault("engine.timeout", d.Engine.Timeout)
	v.SetDefault("mesh.cells", d.Mesh.Cells)
	v.SetDefault("mesh.link_radius", d.Mesh.LinkRadius)
	v.SetDefault("mesh.joint_radius", d.Mesh.JointRadius)
	v.SetDefault("log.verbose", d.Log.Verbose)
	v.SetDefault("log.disable_color", d.Log.DisableColor)
	v.SetDefault("log.file", d.Log.File)
}

// BindEnv makes every key overridable from ARMATURE_* variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decoding config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}
