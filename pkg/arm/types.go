package arm

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// LinkID identifies a link within a manipulator.
type LinkID int

// BaseID is the fixed base. It is the origin of the global frame and is
// never stored as an ordinary link.
const BaseID LinkID = 0

// IsBase reports whether id refers to the fixed base.
func (id LinkID) IsBase() bool {
	return id == BaseID
}

func (id LinkID) String() string {
	if id.IsBase() {
		return "base"
	}
	return fmt.Sprintf("#%d", int(id))
}

// Position is an absolute point in the global frame.
type Position = v3.Vec

// Origin is the position of the base.
var Origin = Position{}

// Direction is a link orientation in radians. Pitch is measured from the
// vertical (z) axis, yaw in the horizontal plane. Roll spins a link about
// its own axis and never moves anything.
type Direction struct {
	Pitch float64 `json:"pitch" yaml:"pitch"`
	Yaw   float64 `json:"yaw" yaml:"yaw"`
	Roll  float64 `json:"roll" yaml:"roll"`
}

func (d Direction) String() string {
	return fmt.Sprintf("(pitch=%.4f yaw=%.4f roll=%.4f)", d.Pitch, d.Yaw, d.Roll)
}

// Finite reports whether every angle of d is a real number.
func (d Direction) Finite() bool {
	for _, a := range [...]float64{d.Pitch, d.Yaw, d.Roll} {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return false
		}
	}
	return true
}

// Displacement projects a segment of length r along d into the global frame.
func Displacement(r float64, d Direction) Position {
	sp, cp := math.Sincos(d.Pitch)
	sy, cy := math.Sincos(d.Yaw)
	return Position{
		X: r * cy * sp,
		Y: r * sy * sp,
		Z: r * cp,
	}
}

// Limits bounds the configurations a manipulator accepts.
type Limits struct {
	// MinSeparation is the smallest distance allowed between any two link
	// endpoints of one chain.
	MinSeparation float64 `json:"min_separation" yaml:"min_separation" mapstructure:"min_separation"`
	// MaxRootPitch and MaxRootYaw bound the link attached to the base.
	MaxRootPitch float64 `json:"max_root_pitch" yaml:"max_root_pitch" mapstructure:"max_root_pitch"`
	MaxRootYaw   float64 `json:"max_root_yaw" yaml:"max_root_yaw" mapstructure:"max_root_yaw"`
}

// Default limits.
const (
	DefaultMinSeparation = 0.1
	DefaultMaxRootPitch  = math.Pi / 2
	DefaultMaxRootYaw    = math.Pi / 2
)

// DefaultLimits returns the stock limits: 0.1 separation, pi/2 root pitch and yaw.
func DefaultLimits() Limits {
	return Limits{
		MinSeparation: DefaultMinSeparation,
		MaxRootPitch:  DefaultMaxRootPitch,
		MaxRootYaw:    DefaultMaxRootYaw,
	}
}
