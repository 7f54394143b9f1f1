package engine

import (
	"errors"

	"github.com/chazu/bim2city/pkg/kernel"
)

// stubSolid tracks an axis-aligned box and the operations applied to it.
type stubSolid struct {
	min, max [3]float64
	ops      []string
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) { return s.min, s.max }

// stubKernel builds box-shaped solids and tessellates them into 12
// unshared triangles, the way a marching-cubes kernel emits them.
type stubKernel struct {
	meshErr error
}

func (k *stubKernel) Box(x, y, z float64) (kernel.Solid, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, errors.New("stub: invalid box")
	}
	return &stubSolid{max: [3]float64{x, y, z}, ops: []string{"box"}}, nil
}

func (k *stubKernel) Cylinder(h, r float64) (kernel.Solid, error) {
	if h <= 0 || r <= 0 {
		return nil, errors.New("stub: invalid cylinder")
	}
	return &stubSolid{min: [3]float64{-r, -r, 0}, max: [3]float64{r, r, h}, ops: []string{"cylinder"}}, nil
}

func (k *stubKernel) Extrude(profile []kernel.Point2, depth float64) (kernel.Solid, error) {
	if len(profile) < 3 || depth <= 0 {
		return nil, errors.New("stub: invalid extrusion")
	}
	s := &stubSolid{min: [3]float64{profile[0].X, profile[0].Y, 0}, max: [3]float64{profile[0].X, profile[0].Y, depth}, ops: []string{"extrusion"}}
	for _, p := range profile[1:] {
		s.min[0], s.max[0] = min(s.min[0], p.X), max(s.max[0], p.X)
		s.min[1], s.max[1] = min(s.min[1], p.Y), max(s.max[1], p.Y)
	}
	return s, nil
}

func (k *stubKernel) Union(a, b kernel.Solid) kernel.Solid {
	sa, sb := a.(*stubSolid), b.(*stubSolid)
	out := &stubSolid{ops: append(append([]string{}, sa.ops...), "union")}
	for i := 0; i < 3; i++ {
		out.min[i] = min(sa.min[i], sb.min[i])
		out.max[i] = max(sa.max[i], sb.max[i])
	}
	return out
}

func (k *stubKernel) Difference(a, b kernel.Solid) kernel.Solid {
	sa := a.(*stubSolid)
	return &stubSolid{min: sa.min, max: sa.max, ops: append(append([]string{}, sa.ops...), "difference")}
}

func (k *stubKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	ss := s.(*stubSolid)
	d := [3]float64{x, y, z}
	out := &stubSolid{ops: append(append([]string{}, ss.ops...), "translate")}
	for i := 0; i < 3; i++ {
		out.min[i] = ss.min[i] + d[i]
		out.max[i] = ss.max[i] + d[i]
	}
	return out
}

func (k *stubKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	ss := s.(*stubSolid)
	return &stubSolid{min: ss.min, max: ss.max, ops: append(append([]string{}, ss.ops...), "rotate")}
}

// boxFaces lists the 12 triangles of a box over corner indices
// (bit 0 = x, bit 1 = y, bit 2 = z).
var boxFaces = [12][3]int{
	{0, 2, 1}, {1, 2, 3}, // bottom
	{4, 5, 6}, {5, 7, 6}, // top
	{0, 1, 4}, {1, 5, 4}, // front
	{2, 6, 3}, {3, 6, 7}, // back
	{0, 4, 2}, {2, 4, 6}, // left
	{1, 3, 5}, {3, 7, 5}, // right
}

func (k *stubKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	if k.meshErr != nil {
		return nil, k.meshErr
	}
	ss := s.(*stubSolid)
	var corners [8][3]float32
	for c := 0; c < 8; c++ {
		for axis := 0; axis < 3; axis++ {
			v := ss.min[axis]
			if c&(1<<axis) != 0 {
				v = ss.max[axis]
			}
			corners[c][axis] = float32(v)
		}
	}
	m := &kernel.Mesh{}
	for _, f := range boxFaces {
		for _, c := range f {
			m.Vertices = append(m.Vertices, corners[c][0], corners[c][1], corners[c][2])
			m.Normals = append(m.Normals, 0, 0, 0)
			m.Indices = append(m.Indices, uint32(len(m.Indices)))
		}
	}
	return m, nil
}
