// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/bim2city/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution along
// the longest side of a solid's bounding box.
const DefaultMeshCells = 64

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	meshCells int
}

// Option configures an SdfxKernel.
type Option func(*SdfxKernel)

// WithMeshCells sets the marching cubes resolution. Values below 8 are
// raised to 8.
func WithMeshCells(n int) Option {
	return func(k *SdfxKernel) {
		if n < 8 {
			n = 8
		}
		k.meshCells = n
	}
}

// New returns a new SdfxKernel.
func New(opts ...Option) *SdfxKernel {
	k := &SdfxKernel{meshCells: DefaultMeshCells}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// MeshCells returns the configured marching cubes resolution.
func (k *SdfxKernel) MeshCells() int { return k.meshCells }

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box with its minimum corner at the origin. sdf.Box3D
// centers the box, so it is shifted by half its size.
func (k *SdfxKernel) Box(x, y, z float64) (kernel.Solid, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, fmt.Errorf("sdfx: box size (%g, %g, %g) must be positive", x, y, z)
	}
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: box: %w", err)
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return wrap(sdf.Transform3D(s, m)), nil
}

// Cylinder creates a cylinder standing on the XY plane around the Z axis.
func (k *SdfxKernel) Cylinder(height, radius float64) (kernel.Solid, error) {
	if height <= 0 || radius <= 0 {
		return nil, fmt.Errorf("sdfx: cylinder height %g and radius %g must be positive", height, radius)
	}
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: cylinder: %w", err)
	}
	m := sdf.Translate3d(v3.Vec{Z: height / 2})
	return wrap(sdf.Transform3D(s, m)), nil
}

// Extrude sweeps a closed polygon profile from z=0 to z=depth.
func (k *SdfxKernel) Extrude(profile []kernel.Point2, depth float64) (kernel.Solid, error) {
	if len(profile) < 3 {
		return nil, errors.New("sdfx: extrusion profile needs at least 3 points")
	}
	if depth <= 0 {
		return nil, fmt.Errorf("sdfx: extrusion depth %g must be positive", depth)
	}
	verts := make([]v2.Vec, len(profile))
	for i, p := range profile {
		verts[i] = v2.Vec{X: p.X, Y: p.Y}
	}
	s2, err := sdf.Polygon2D(verts)
	if err != nil {
		return nil, fmt.Errorf("sdfx: extrusion profile: %w", err)
	}
	s := sdf.Extrude3D(s2, depth)
	m := sdf.Translate3d(v3.Vec{Z: depth / 2})
	return wrap(sdf.Transform3D(s, m)), nil
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh converts a solid to a triangle mesh using marching cubes. Each
// triangle gets its own three vertices; welding is left to the caller.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	if s == nil {
		return nil, errors.New("sdfx: nil solid")
	}
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(k.meshCells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
