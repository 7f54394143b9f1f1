package convert

import (
	"fmt"

	"github.com/chazu/bim2city/pkg/bim"
	"github.com/chazu/bim2city/pkg/citygml"
	"github.com/chazu/bim2city/pkg/engine"
	"github.com/chazu/bim2city/pkg/exchange"
)

// SurfaceBuilder turns an element's shape into a multi-surface with one
// triangle polygon per engine primitive.
type SurfaceBuilder struct {
	engine         GeometryEngine
	postProcessing bool
}

// NewSurfaceBuilder returns a builder that opens one engine model per
// element.
func NewSurfaceBuilder(eng GeometryEngine, postProcessing bool) *SurfaceBuilder {
	return &SurfaceBuilder{engine: eng, postProcessing: postProcessing}
}

// Build tessellates el. A model without triangles yields an empty
// multi-surface. Every ring is (v1, v3, v2, v1) for an engine triangle
// (v1, v2, v3).
func (b *SurfaceBuilder) Build(m *bim.Model, el *bim.Element) (*citygml.MultiSurface, error) {
	data, err := exchange.Marshal(m, el)
	if err != nil {
		return nil, err
	}

	h, err := b.engine.OpenModel(data)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer h.Close()

	h.SetPostProcessing(b.postProcessing)
	sp, err := h.InitializeModelling()
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	geom, err := h.FinalizeModelling(sp)
	if err != nil {
		return nil, fmt.Errorf("finalize: %w", err)
	}

	ms := citygml.NewMultiSurface()
	if geom == nil {
		return ms, nil
	}
	for _, inst := range h.Instances(el.Kind.EntityName()) {
		if err := appendTriangles(ms, geom, inst.VisualisationProperties()); err != nil {
			return nil, err
		}
	}
	trianglesEmitted.Add(float64(ms.Len()))
	return ms, nil
}

func appendTriangles(ms *citygml.MultiSurface, g *engine.Geometry, vp engine.VisualisationProperties) error {
	for i := 0; i < vp.PrimitiveCount; i++ {
		base := vp.StartIndex + i*3
		if base < 0 || base+2 >= len(g.Indices) {
			return fmt.Errorf("triangle %d outside index buffer (%d indices)", i, len(g.Indices))
		}
		v1, err := position(g, g.Indices[base])
		if err != nil {
			return err
		}
		v2, err := position(g, g.Indices[base+1])
		if err != nil {
			return err
		}
		v3, err := position(g, g.Indices[base+2])
		if err != nil {
			return err
		}
		poly, err := citygml.NewPolygon(v1, v3, v2, v1)
		if err != nil {
			return err
		}
		ms.Add(poly)
	}
	return nil
}

func position(g *engine.Geometry, idx int32) (citygml.Position, error) {
	if idx < 0 || int(idx)*3+2 >= len(g.Vertices) {
		return citygml.Position{}, fmt.Errorf("vertex index %d outside vertex buffer (%d vertices)", idx, len(g.Vertices)/3)
	}
	return citygml.Position(g.Vertex(idx)), nil
}
