package convert

import (
	"fmt"
	"regexp"

	"github.com/chazu/bim2city/pkg/engine"
)

var instanceRe = regexp.MustCompile(`\(instance "([^"]+)" "([^"]+)"`)

// fakeResult is what the fake engine returns for one element.
type fakeResult struct {
	triangles [][3][3]float64
	openErr   error
	initErr   error
}

// fakeEngine answers every sub-model with canned triangles keyed by the
// element id found in the serialized text. Elements without an entry get
// one unit triangle.
type fakeEngine struct {
	results map[string]fakeResult
	opened  []string
	open    int
	closed  int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{results: make(map[string]fakeResult)}
}

func (f *fakeEngine) OpenModel(data []byte) (EngineModel, error) {
	m := instanceRe.FindSubmatch(data)
	if m == nil {
		return nil, fmt.Errorf("fake: no instance in %q", data)
	}
	typeName, id := string(m[1]), string(m[2])
	f.opened = append(f.opened, id)

	res, ok := f.results[id]
	if !ok {
		res = fakeResult{triangles: [][3][3]float64{{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}}
	}
	if res.openErr != nil {
		return nil, res.openErr
	}
	if f.open > f.closed {
		return nil, engine.ErrSessionBusy
	}
	f.open++
	return &fakeModel{engine: f, typeName: typeName, res: res}, nil
}

type fakeModel struct {
	engine   *fakeEngine
	typeName string
	res      fakeResult
	post     bool
	closed   bool
}

func (m *fakeModel) SetPostProcessing(on bool) { m.post = on }

func (m *fakeModel) InitializeModelling() (engine.SurfaceProperties, error) {
	if m.res.initErr != nil {
		return engine.SurfaceProperties{}, m.res.initErr
	}
	n := len(m.res.triangles) * 3
	return engine.SurfaceProperties{VertexCount: n, IndexCount: n}, nil
}

func (m *fakeModel) FinalizeModelling(sp engine.SurfaceProperties) (*engine.Geometry, error) {
	if sp.IndexCount == 0 {
		return nil, nil
	}
	g := &engine.Geometry{}
	for _, tri := range m.res.triangles {
		for _, v := range tri {
			g.Indices = append(g.Indices, int32(len(g.Vertices)/3))
			g.Vertices = append(g.Vertices, v[0], v[1], v[2])
		}
	}
	return g, nil
}

func (m *fakeModel) Instances(typeName string) []EngineInstance {
	if typeName != m.typeName {
		return nil
	}
	return []EngineInstance{fakeInstance{count: len(m.res.triangles)}}
}

func (m *fakeModel) Close() error {
	if !m.closed {
		m.closed = true
		m.engine.closed++
	}
	return nil
}

type fakeInstance struct {
	start, count int
}

func (i fakeInstance) VisualisationProperties() engine.VisualisationProperties {
	return engine.VisualisationProperties{StartIndex: i.start, PrimitiveCount: i.count}
}
