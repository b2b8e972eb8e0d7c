// Package kernel defines the geometry kernel used to render a manipulator
// as triangle meshes. The sdfx subpackage is the only backend.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds and meshes the solids a manipulator is drawn with.
type Kernel interface {
	// Primitives, centred on the origin. Cylinders run along +Z.
	Cylinder(height, radius float64) (Solid, error)
	Sphere(radius float64) (Solid, error)

	Union(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees, applied X then Y then Z

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
