package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/bim2city/pkg/kernel"
)

// SurfaceProperties describes the buffers FinalizeModelling will return.
type SurfaceProperties struct {
	VertexCount int
	IndexCount  int
}

// Geometry is the shared triangle buffer of an open model. Vertex i sits
// at Vertices[i*3 : i*3+3]; every three consecutive Indices form one
// triangle.
type Geometry struct {
	Vertices []float64
	Indices  []int32
}

// Vertex returns the position of vertex i.
func (g *Geometry) Vertex(i int32) [3]float64 {
	j := int(i) * 3
	return [3]float64{g.Vertices[j], g.Vertices[j+1], g.Vertices[j+2]}
}

// VisualisationProperties locates one instance's triangles in the shared
// index buffer.
type VisualisationProperties struct {
	StartIndex     int // offset into Geometry.Indices
	PrimitiveCount int // number of triangles
}

// Instance is one entity declared by a sub-model.
type Instance struct {
	TypeName string
	ID       string

	body  body
	voids []body
	vis   VisualisationProperties
}

// VisualisationProperties returns the instance's triangle range. It is
// zero until InitializeModelling succeeded.
func (i *Instance) VisualisationProperties() VisualisationProperties {
	return i.vis
}

type modelState int

const (
	stateOpen modelState = iota
	stateInitialized
	stateClosed
)

// Model is an open sub-model. It is not safe for concurrent use.
type Model struct {
	engine         *Engine
	instances      []*Instance
	postProcessing bool
	state          modelState

	props SurfaceProperties
	geom  *Geometry
}

// SetPostProcessing enables welding of coincident vertices and removal of
// the triangles that collapse as a result.
func (m *Model) SetPostProcessing(on bool) {
	m.postProcessing = on
}

// InitializeModelling builds and tessellates every instance and returns the
// size of the resulting buffers.
func (m *Model) InitializeModelling() (SurfaceProperties, error) {
	if m.state == stateClosed {
		return SurfaceProperties{}, ErrClosed
	}

	k := m.engine.kernel
	b := &bufferBuilder{weld: m.postProcessing}
	for _, inst := range m.instances {
		s, err := inst.solid(k)
		if err != nil {
			return SurfaceProperties{}, fmt.Errorf("engine: instance %s: %w", inst.ID, err)
		}
		var mesh *kernel.Mesh
		if s != nil {
			mesh, err = k.ToMesh(s)
			if err != nil {
				return SurfaceProperties{}, fmt.Errorf("engine: instance %s: tessellate: %w", inst.ID, err)
			}
		}
		inst.vis = b.add(mesh)
	}

	m.geom = b.geometry()
	m.props = SurfaceProperties{
		VertexCount: len(m.geom.Vertices) / 3,
		IndexCount:  len(m.geom.Indices),
	}
	m.state = stateInitialized
	return m.props, nil
}

// FinalizeModelling returns the shared buffers sized by sp. It returns nil
// when the model produced no triangles.
func (m *Model) FinalizeModelling(sp SurfaceProperties) (*Geometry, error) {
	switch m.state {
	case stateClosed:
		return nil, ErrClosed
	case stateOpen:
		return nil, ErrNotInitialized
	}
	if sp != m.props {
		return nil, fmt.Errorf("engine: surface properties %+v do not match model %+v", sp, m.props)
	}
	if sp.IndexCount == 0 {
		return nil, nil
	}
	return m.geom, nil
}

// Instances returns the instances whose type name matches typeName, case
// insensitively, in declaration order.
func (m *Model) Instances(typeName string) []*Instance {
	var out []*Instance
	for _, inst := range m.instances {
		if strings.EqualFold(inst.TypeName, typeName) {
			out = append(out, inst)
		}
	}
	return out
}

// All returns every instance in declaration order.
func (m *Model) All() []*Instance {
	return m.instances
}

// Close releases the model and lets the engine open the next one. Closing
// twice is a no-op.
func (m *Model) Close() error {
	if m.state == stateClosed {
		return nil
	}
	m.state = stateClosed
	m.geom = nil
	m.engine.release(m)
	return nil
}

// bufferBuilder concatenates per-instance meshes into one buffer.
type bufferBuilder struct {
	weld     bool
	vertices []float64
	indices  []int32
	index    map[[3]float32]int32
}

func (b *bufferBuilder) add(mesh *kernel.Mesh) VisualisationProperties {
	vis := VisualisationProperties{StartIndex: len(b.indices)}
	if mesh.IsEmpty() {
		return vis
	}

	remap := make([]int32, mesh.VertexCount())
	for i := range remap {
		remap[i] = b.vertex(mesh.Vertex(uint32(i)))
	}

	for t := 0; t+2 < len(mesh.Indices); t += 3 {
		a, c, d := remap[mesh.Indices[t]], remap[mesh.Indices[t+1]], remap[mesh.Indices[t+2]]
		if b.weld && (a == c || c == d || a == d) {
			continue
		}
		b.indices = append(b.indices, a, c, d)
		vis.PrimitiveCount++
	}
	return vis
}

// vertex appends v, or returns the index of an identical vertex when
// welding.
func (b *bufferBuilder) vertex(v [3]float32) int32 {
	if b.weld {
		if b.index == nil {
			b.index = make(map[[3]float32]int32)
		}
		if i, ok := b.index[v]; ok {
			return i
		}
	}
	i := int32(len(b.vertices) / 3)
	b.vertices = append(b.vertices, float64(v[0]), float64(v[1]), float64(v[2]))
	if b.weld {
		b.index[v] = i
	}
	return i
}

func (b *bufferBuilder) geometry() *Geometry {
	return &Geometry{Vertices: b.vertices, Indices: b.indices}
}
