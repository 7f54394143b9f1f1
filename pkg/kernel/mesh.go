package kernel

// Mesh is a triangle mesh produced by a kernel.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32
	Normals  []float32
	Indices  []uint32
	Label    string // engine instance the mesh belongs to
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Indices) == 0
}

// Vertex returns the position of vertex i.
func (m *Mesh) Vertex(i uint32) [3]float32 {
	j := int(i) * 3
	return [3]float32{m.Vertices[j], m.Vertices[j+1], m.Vertices[j+2]}
}
