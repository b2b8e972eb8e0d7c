// Package tessellate turns a manipulator into triangle meshes using a
// geometry kernel. One mesh is produced for the base and one per link
// that resolves.
package tessellate

import (
	"math"

	"github.com/pkg/errors"

	"github.com/chazu/armature/pkg/arm"
	"github.com/chazu/armature/pkg/kernel"
)

// BaseMeshName names the mesh drawn at the origin.
const BaseMeshName = "base"

// Options controls link and joint thickness.
type Options struct {
	LinkRadius  float64 `json:"link_radius" yaml:"link_radius" mapstructure:"link_radius"`
	JointRadius float64 `json:"joint_radius" yaml:"joint_radius" mapstructure:"joint_radius"`
}

// DefaultOptions returns the radii used when none are configured.
func DefaultOptions() Options {
	return Options{LinkRadius: 0.1, JointRadius: 0.15}
}

// LinkError records a link that was left out of the output.
type LinkError struct {
	Link arm.LinkID
	Err  error
}

func (e LinkError) Error() string {
	return "link " + e.Link.String() + ": " + e.Err.Error()
}

func (e LinkError) Unwrap() error { return e.Err }

// Result is the output of Tessellate.
type Result struct {
	Meshes  []*kernel.Mesh
	Skipped []LinkError
}

// Tessellate draws the base as a joint sphere and every resolvable link as
// a cylinder from its start to its end, capped with a joint sphere. A
// zero-length link is drawn as a joint sphere only. Links that do not
// resolve are reported in Skipped. A kernel failure aborts tessellation.
//
// Tessellate is read-only and never mutates the manipulator.
func Tessellate(m *arm.Manipulator, k kernel.Kernel, opts Options) (*Result, error) {
	if m == nil {
		return &Result{}, nil
	}
	if opts.LinkRadius <= 0 || opts.JointRadius <= 0 {
		return nil, errors.Errorf("tessellate: radii must be positive, got link=%g joint=%g",
			opts.LinkRadius, opts.JointRadius)
	}

	res := &Result{}

	base, err := k.Sphere(opts.JointRadius)
	if err != nil {
		return nil, errors.Wrap(err, "tessellate: base")
	}
	mesh, err := k.ToMesh(base)
	if err != nil {
		return nil, errors.Wrap(err, "tessellate: base")
	}
	mesh.Name = BaseMeshName
	res.Meshes = append(res.Meshes, mesh)

	for _, p := range m.Placements() {
		if p.Err != nil {
			res.Skipped = append(res.Skipped, LinkError{Link: p.ID, Err: p.Err})
			continue
		}
		solid, err := linkSolid(k, p.Length, p.Direction, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "tessellate: link %s", p.ID)
		}
		solid = k.Translate(solid, p.Start.X, p.Start.Y, p.Start.Z)

		mesh, err := k.ToMesh(solid)
		if err != nil {
			return nil, errors.Wrapf(err, "tessellate: ToMesh failed for link %s", p.ID)
		}
		mesh.Name = p.ID.String()
		res.Meshes = append(res.Meshes, mesh)
	}

	return res, nil
}

// linkSolid builds a link of length r at the origin: along +Z, then pitched
// about Y and yawed about Z, matching arm.Displacement.
func linkSolid(k kernel.Kernel, r float64, d arm.Direction, opts Options) (kernel.Solid, error) {
	joint, err := k.Sphere(opts.JointRadius)
	if err != nil {
		return nil, err
	}

	if r == 0 {
		return joint, nil
	}

	cyl, err := k.Cylinder(r, opts.LinkRadius)
	if err != nil {
		return nil, err
	}
	solid := k.Union(k.Translate(cyl, 0, 0, r/2), k.Translate(joint, 0, 0, r))

	return k.Rotate(solid, 0, degrees(d.Pitch), degrees(d.Yaw)), nil
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
