package convert

import "github.com/chazu/bim2city/pkg/engine"

// GeometryEngine tessellates serialized sub-models.
type GeometryEngine interface {
	OpenModel(data []byte) (EngineModel, error)
}

// EngineModel is one open sub-model. Close must be called on every path.
type EngineModel interface {
	SetPostProcessing(on bool)
	InitializeModelling() (engine.SurfaceProperties, error)
	FinalizeModelling(sp engine.SurfaceProperties) (*engine.Geometry, error)
	Instances(typeName string) []EngineInstance
	Close() error
}

// EngineInstance is one entity of an open sub-model.
type EngineInstance interface {
	VisualisationProperties() engine.VisualisationProperties
}

// NewEngineAdapter exposes eng as a GeometryEngine.
func NewEngineAdapter(eng *engine.Engine) GeometryEngine {
	return engineAdapter{eng: eng}
}

type engineAdapter struct {
	eng *engine.Engine
}

func (a engineAdapter) OpenModel(data []byte) (EngineModel, error) {
	m, err := a.eng.OpenModel(data)
	if err != nil {
		return nil, err
	}
	return modelAdapter{m}, nil
}

type modelAdapter struct {
	*engine.Model
}

func (m modelAdapter) Instances(typeName string) []EngineInstance {
	insts := m.Model.Instances(typeName)
	out := make([]EngineInstance, len(insts))
	for i, inst := range insts {
		out[i] = inst
	}
	return out
}
