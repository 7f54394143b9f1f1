package convert

import (
	"github.com/chazu/bim2city/pkg/bim"
	"github.com/chazu/bim2city/pkg/citygml"
	"github.com/paulmach/orb"
)

// Sink receives the finished document, e.g. a citygml.Encoder.
type Sink interface {
	Write(doc *citygml.CityModel) error
}

// EmitterOption configures an Emitter.
type EmitterOption func(*Emitter)

// WithPrune drops synthetic rooms without content when finalizing.
func WithPrune(on bool) EmitterOption {
	return func(e *Emitter) { e.prune = on }
}

// Emitter assembles buildings into the document root.
type Emitter struct {
	doc   *citygml.CityModel
	prune bool
}

// NewEmitter starts a document carrying the project name and description.
func NewEmitter(project bim.ProjectInfo, opts ...EmitterOption) *Emitter {
	e := &Emitter{doc: &citygml.CityModel{
		Name:        project.Name,
		Description: project.Description,
	}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddBuilding appends b in processing order.
func (e *Emitter) AddBuilding(b *citygml.Building) {
	e.doc.AddBuilding(b)
}

// Finalize prunes empty synthetic rooms when configured, computes the
// building and document envelopes and returns the document.
func (e *Emitter) Finalize() *citygml.CityModel {
	var docEnv *citygml.Envelope
	for _, b := range e.doc.Buildings {
		if e.prune {
			pruneRooms(b)
		}
		b.Envelope = buildingEnvelope(b)
		if b.Envelope == nil {
			continue
		}
		if docEnv == nil {
			env := *b.Envelope
			docEnv = &env
		} else {
			docEnv.Extend(*b.Envelope)
		}
	}
	e.doc.Envelope = docEnv
	return e.doc
}

// Emit finalizes the document and writes it to sink.
func (e *Emitter) Emit(sink Sink) error {
	return sink.Write(e.Finalize())
}

func pruneRooms(b *citygml.Building) {
	kept := b.Rooms[:0]
	for _, r := range b.Rooms {
		if r.Synthetic && r.IsEmpty() {
			continue
		}
		kept = append(kept, r)
	}
	b.Rooms = kept
}

// extent accumulates a planar bound and a height range.
type extent struct {
	bound      orb.Bound
	zmin, zmax float64
	empty      bool
}

func newExtent() *extent {
	return &extent{empty: true}
}

func (x *extent) add(p citygml.Position) {
	pt := orb.Point{p[0], p[1]}
	if x.empty {
		x.bound = pt.Bound()
		x.zmin, x.zmax = p[2], p[2]
		x.empty = false
		return
	}
	x.bound = x.bound.Extend(pt)
	x.zmin = min(x.zmin, p[2])
	x.zmax = max(x.zmax, p[2])
}

func (x *extent) addSurface(ms *citygml.MultiSurface) {
	ms.Positions(x.add)
}

func (x *extent) envelope() *citygml.Envelope {
	if x.empty {
		return nil
	}
	return &citygml.Envelope{
		Lower: citygml.Position{x.bound.Min.X(), x.bound.Min.Y(), x.zmin},
		Upper: citygml.Position{x.bound.Max.X(), x.bound.Max.Y(), x.zmax},
	}
}

// buildingEnvelope bounds every geometry owned by b, or returns nil when b
// has none.
func buildingEnvelope(b *citygml.Building) *citygml.Envelope {
	x := newExtent()
	surfaces := func(list []*citygml.BoundarySurface) {
		for _, s := range list {
			x.addSurface(s.Geometry)
			for _, o := range s.Openings {
				x.addSurface(o.Geometry)
			}
		}
	}
	surfaces(b.BoundedBy)
	for _, r := range b.Rooms {
		x.addSurface(r.Geometry)
		surfaces(r.BoundedBy)
		for _, f := range r.Furniture {
			x.addSurface(f.Geometry)
		}
		for _, g := range r.Properties {
			x.addSurface(g.Geometry)
		}
	}
	return x.envelope()
}
