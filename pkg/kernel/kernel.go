// Package kernel defines the abstract solid modelling kernel used by the
// geometry engine. Implementations (sdfx) build solids from the primitive
// items of an element shape and tessellate them into triangle meshes.
package kernel

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Point2 is a vertex of an extrusion profile.
type Point2 struct {
	X, Y float64
}

// Kernel is the abstract solid modelling interface.
type Kernel interface {
	// Primitives. Box has its minimum corner at the origin, Cylinder and
	// Extrude stand on the XY plane and grow along +Z.
	Box(x, y, z float64) (Solid, error)
	Cylinder(height, radius float64) (Solid, error)
	Extrude(profile []Point2, depth float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
