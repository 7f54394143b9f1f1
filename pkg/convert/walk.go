// Package convert turns a source spatial model into a city document.
//
// A Converter walks every building of a bim.Model depth first: the
// building's directly contained elements (each under its own synthetic
// room), then its storeys, then per storey the spaces with their boundaries
// and contents, then the storey contents no space claimed. Every element is
// classified into a Rule, built into a target node with geometry from the
// geometry engine, registered in an IdentityMap and linked to its owner.
// The IdentityMap, not traversal order, keeps an element reachable through
// several relationships from being converted twice.
package convert

import (
	"log/slog"
	"time"

	"github.com/chazu/bim2city/pkg/bim"
	"github.com/chazu/bim2city/pkg/citygml"
)

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) { c.log = l }
}

// WithGeometryErrorPolicy sets what a geometry failure does to the run.
func WithGeometryErrorPolicy(p GeometryErrorPolicy) Option {
	return func(c *Converter) { c.onGeometryError = p }
}

// WithPostProcessing toggles engine post-processing (vertex welding).
// It is on by default.
func WithPostProcessing(on bool) Option {
	return func(c *Converter) { c.postProcessing = on }
}

// WithPruneEmptyRooms drops synthetic rooms that received no content.
func WithPruneEmptyRooms(on bool) Option {
	return func(c *Converter) { c.pruneEmptyRooms = on }
}

// WithIDGenerator replaces the gml:id generator, which is seeded with the
// project name by default.
func WithIDGenerator(g *IDGenerator) Option {
	return func(c *Converter) { c.ids = g }
}

// Converter performs one conversion run. It is single use and not safe for
// concurrent use.
type Converter struct {
	model    *bim.Model
	engine   GeometryEngine
	surfaces *SurfaceBuilder
	identity *IdentityMap
	ids      *IDGenerator
	log      *slog.Logger

	onGeometryError GeometryErrorPolicy
	postProcessing  bool
	pruneEmptyRooms bool

	failed map[bim.ElementID]bool
	errs   []*ConversionError
}

// New prepares a conversion of m using eng for tessellation.
func New(m *bim.Model, eng GeometryEngine, opts ...Option) *Converter {
	c := &Converter{
		model:          m,
		engine:         eng,
		identity:       NewIdentityMap(),
		log:            slog.Default(),
		postProcessing: true,
		failed:         make(map[bim.ElementID]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.ids == nil {
		c.ids = NewIDGenerator(m.Project.Name)
	}
	c.surfaces = NewSurfaceBuilder(eng, c.postProcessing)
	return c
}

// Identity returns the run's identity map.
func (c *Converter) Identity() *IdentityMap { return c.identity }

// Convert walks every building and returns the finalized document. With
// the abort policy the first geometry failure ends the run with a
// *ConversionError.
func (c *Converter) Convert() (*citygml.CityModel, error) {
	start := time.Now()
	buildings := c.model.Buildings()
	c.log.Info("conversion started",
		slog.String("project", c.model.Project.Name),
		slog.Int("elements", c.model.Len()),
		slog.Int("buildings", len(buildings)))

	em := NewEmitter(c.model.Project, WithPrune(c.pruneEmptyRooms))
	for _, b := range buildings {
		bldg, err := c.walkBuilding(b)
		if err != nil {
			return nil, err
		}
		em.AddBuilding(bldg)
	}
	doc := em.Finalize()

	conversionSeconds.Observe(time.Since(start).Seconds())
	sum := doc.Summarize()
	c.log.Info("conversion finished",
		slog.Int("buildings", sum.Buildings),
		slog.Int("rooms", sum.Rooms),
		slog.Int("surfaces", sum.Surfaces),
		slog.Int("polygons", sum.Polygons),
		slog.Int("skipped_geometry", len(c.errs)),
		slog.Duration("elapsed", time.Since(start)))
	return doc, nil
}

// ConvertTo converts and hands the document to sink.
func (c *Converter) ConvertTo(sink Sink) error {
	doc, err := c.Convert()
	if err != nil {
		return err
	}
	return sink.Write(doc)
}

func (c *Converter) walkBuilding(b *bim.Element) (*citygml.Building, error) {
	bldg := &citygml.Building{Address: address(b.Address())}
	c.describe(&bldg.CityObject, b)
	c.identity.Register(b.ID, bldg)
	nodesConverted.WithLabelValues("Building").Inc()

	for _, el := range c.model.Contained(b) {
		if err := c.convertInSyntheticRoom(bldg, b, el); err != nil {
			return nil, err
		}
	}

	for _, child := range c.model.Decomposition(b) {
		if child.Kind != bim.KindStorey {
			continue
		}
		if err := c.walkStorey(bldg, child); err != nil {
			return nil, err
		}
	}
	return bldg, nil
}

func (c *Converter) walkStorey(bldg *citygml.Building, storey *bim.Element) error {
	for _, child := range c.model.Decomposition(storey) {
		if child.Kind != bim.KindSpace {
			continue
		}
		if err := c.walkSpace(bldg, child); err != nil {
			return err
		}
	}

	for _, el := range c.model.Contained(storey) {
		if c.identity.Has(el.ID) {
			continue
		}
		if err := c.convertInSyntheticRoom(bldg, storey, el); err != nil {
			return err
		}
	}
	return nil
}

func (c *Converter) walkSpace(bldg *citygml.Building, space *bim.Element) error {
	if c.identity.Has(space.ID) || c.failed[space.ID] {
		return nil
	}

	// A space whose geometry was skipped still holds its boundaries and
	// contents.
	ms, ok, err := c.geometry(space)
	if err != nil {
		return err
	}
	if !ok {
		ms = citygml.NewMultiSurface()
	}
	room := &citygml.Room{Geometry: ms}
	c.describe(&room.CityObject, space)
	c.identity.Register(space.ID, room)
	bldg.AddRoom(room)
	nodesConverted.WithLabelValues("Room").Inc()

	sc := scope{building: bldg, room: room}
	for _, b := range c.model.Boundaries(space) {
		if b.Element == nil || c.identity.Has(b.Element.ID) {
			continue
		}
		if err := c.convertElement(b.Element, sc, b.Boundary); err != nil {
			return err
		}
	}
	for _, el := range c.model.Contained(space) {
		if c.identity.Has(el.ID) {
			continue
		}
		if err := c.convertElement(el, sc, bim.BoundaryNotDefined); err != nil {
			return err
		}
	}
	return nil
}

// convertInSyntheticRoom converts an element found directly in the
// spatial structure owner under a fresh synthetic room. The room is added
// to bldg unless the element is dropped.
func (c *Converter) convertInSyntheticRoom(bldg *citygml.Building, owner, el *bim.Element) error {
	if !c.producesNode(el) {
		return c.convertElement(el, scope{building: bldg}, bim.BoundaryNotDefined)
	}

	room := &citygml.Room{Geometry: citygml.NewMultiSurface(), Synthetic: true}
	room.ID = c.ids.Derived("room", owner.ID, el.ID)
	if err := c.convertElement(el, scope{building: bldg, room: room}, bim.BoundaryNotDefined); err != nil {
		return err
	}
	if c.failed[el.ID] && room.IsEmpty() {
		return nil
	}
	bldg.AddRoom(room)
	nodesConverted.WithLabelValues("Room").Inc()
	return nil
}

func address(a *bim.PostalAddress) *citygml.Address {
	if a == nil {
		return nil
	}
	out := &citygml.Address{
		Street:     append([]string(nil), a.AddressLines...),
		PostalBox:  a.PostalBox,
		Town:       a.Town,
		Region:     a.Region,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
	if out.IsEmpty() {
		return nil
	}
	return out
}
