package convert

import (
	"log/slog"

	"github.com/chazu/bim2city/pkg/bim"
	"github.com/chazu/bim2city/pkg/citygml"
)

// scope is the output container an element is converted under.
type scope struct {
	building *citygml.Building
	room     *citygml.Room
}

// convertElement applies el's rule under sc. boundary is the space
// boundary flag, BoundaryNotDefined when el is reached by containment.
func (c *Converter) convertElement(el *bim.Element, sc scope, boundary bim.BoundaryType) error {
	rule := Classify(el)
	if el != nil && c.failed[el.ID] {
		return nil
	}

	switch rule {
	case RuleWall:
		if c.identity.Has(el.ID) {
			return nil
		}
		return c.convertWall(el, sc, boundary)

	case RuleSlab:
		if c.identity.Has(el.ID) {
			return nil
		}
		roof, ok := slabSurface(el.SlabType())
		if !ok {
			c.skip(el, "slab_type", slog.String("slab_type", el.SlabType().String()))
			return nil
		}
		if roof {
			return c.convertSurface(el, citygml.RoofSurface, sc.building.AddBoundary)
		}
		return c.convertSurface(el, citygml.FloorSurface, sc.room.AddBoundary)

	case RuleRoof:
		if c.identity.Has(el.ID) {
			return nil
		}
		return c.convertSurface(el, citygml.RoofSurface, sc.building.AddBoundary)

	case RuleColumn:
		// Columns are attached to every room they are reached from and
		// never registered. Each copy gets a gml:id scoped by its room.
		id := c.ids.Derived("column", bim.ElementID(sc.room.ID), el.ID)
		for _, p := range sc.room.Properties {
			if p.ID == id {
				return nil
			}
		}
		ms, ok, err := c.geometry(el)
		if !ok {
			return err
		}
		g := &citygml.GenericObject{Geometry: ms}
		c.describe(&g.CityObject, el)
		g.ID = id
		sc.room.AddProperty(g)
		nodesConverted.WithLabelValues("GenericCityObject").Inc()
		return nil

	case RuleFurnishing:
		if c.identity.Has(el.ID) {
			return nil
		}
		ms, ok, err := c.geometry(el)
		if !ok {
			return err
		}
		f := &citygml.BuildingFurniture{Geometry: ms}
		c.describe(&f.CityObject, el)
		c.identity.Register(el.ID, f)
		sc.room.AddFurniture(f)
		nodesConverted.WithLabelValues("BuildingFurniture").Inc()
		return nil

	case RuleFlowTerminal:
		c.skip(el, "not_implemented")
		return nil

	case RuleIgnore:
		if el == nil {
			c.log.Debug("ignoring nil element")
			elementsSkipped.WithLabelValues("nil", "ignored").Inc()
			return nil
		}
		c.skip(el, "ignored")
		return nil
	}

	c.skip(el, "unhandled")
	return nil
}

// producesNode reports whether converting el can yield a node, so that
// no synthetic room is created for elements that are dropped anyway.
func (c *Converter) producesNode(el *bim.Element) bool {
	if el == nil || c.failed[el.ID] {
		return false
	}
	switch Classify(el) {
	case RuleWall, RuleRoof, RuleColumn, RuleFurnishing:
		return true
	case RuleSlab:
		_, ok := slabSurface(el.SlabType())
		return ok
	}
	return false
}

// convertWall builds a building-owned wall surface with the doors and
// windows filling its openings.
func (c *Converter) convertWall(el *bim.Element, sc scope, boundary bim.BoundaryType) error {
	kind := citygml.InteriorWallSurface
	if boundary == bim.BoundaryExternal {
		kind = citygml.WallSurface
	}

	ms, ok, err := c.geometry(el)
	if !ok {
		return err
	}
	wall := &citygml.BoundarySurface{Kind: kind, Geometry: ms}
	c.describe(&wall.CityObject, el)

	for _, opening := range c.model.Openings(el) {
		for _, filling := range c.model.Fillings(opening) {
			if err := c.convertFilling(filling, wall); err != nil {
				return err
			}
		}
	}

	c.identity.Register(el.ID, wall)
	sc.building.AddBoundary(wall)
	nodesConverted.WithLabelValues(kind.String()).Inc()
	return nil
}

// convertFilling adds a door or window to wall. Fillings already converted
// through another wall are not repeated.
func (c *Converter) convertFilling(el *bim.Element, wall *citygml.BoundarySurface) error {
	var kind citygml.OpeningKind
	switch el.Kind {
	case bim.KindDoor:
		kind = citygml.Door
	case bim.KindWindow:
		kind = citygml.Window
	default:
		c.skip(el, "not_a_filling")
		return nil
	}
	if c.identity.Has(el.ID) || c.failed[el.ID] {
		return nil
	}

	ms, ok, err := c.geometry(el)
	if !ok {
		return err
	}
	o := &citygml.Opening{Kind: kind, Geometry: ms}
	c.describe(&o.CityObject, el)
	if w, h, ok := el.OverallSize(); ok {
		if w != 0 {
			o.SetAttribute("OverallWidth", w)
		}
		if h != 0 {
			o.SetAttribute("OverallHeight", h)
		}
	}
	c.identity.Register(el.ID, o)
	wall.AddOpening(o)
	nodesConverted.WithLabelValues(kind.String()).Inc()
	return nil
}

// convertSurface builds a registered boundary surface and hands it to add.
func (c *Converter) convertSurface(el *bim.Element, kind citygml.SurfaceKind, add func(*citygml.BoundarySurface)) error {
	ms, ok, err := c.geometry(el)
	if !ok {
		return err
	}
	s := &citygml.BoundarySurface{Kind: kind, Geometry: ms}
	c.describe(&s.CityObject, el)
	c.identity.Register(el.ID, s)
	add(s)
	nodesConverted.WithLabelValues(kind.String()).Inc()
	return nil
}

// geometry builds el's multi-surface. ok is false when no node should be
// built; err is then non-nil unless the failure was skipped by policy.
func (c *Converter) geometry(el *bim.Element) (ms *citygml.MultiSurface, ok bool, err error) {
	ms, err = c.surfaces.Build(c.model, el)
	if err == nil {
		return ms, true, nil
	}

	geometryFailures.Inc()
	ce := &ConversionError{Element: el.ID, Kind: el.Kind, Err: err}
	if c.onGeometryError == SkipOnGeometryError {
		c.log.Warn("skipping element after geometry failure",
			slog.String("element", string(el.ID)),
			slog.String("kind", el.Kind.String()),
			slog.Any("error", err))
		c.failed[el.ID] = true
		c.errs = append(c.errs, ce)
		elementsSkipped.WithLabelValues(el.Kind.String(), "geometry_error").Inc()
		return nil, false, nil
	}
	return nil, false, ce
}

// describe copies the identifying attributes of el onto o.
func (c *Converter) describe(o *citygml.CityObject, el *bim.Element) {
	o.ID = c.ids.Element(el.ID)
	o.Name = el.Name
	o.Description = el.Description
	o.GlobalID = el.GlobalID
}

func (c *Converter) skip(el *bim.Element, reason string, attrs ...slog.Attr) {
	args := []any{
		slog.String("element", string(el.ID)),
		slog.String("kind", el.Kind.String()),
		slog.String("reason", reason),
	}
	for _, a := range attrs {
		args = append(args, a)
	}
	c.log.Debug("element produces no node", args...)
	elementsSkipped.WithLabelValues(el.Kind.String(), reason).Inc()
}

// SkippedErrors returns the geometry failures skipped by policy.
func (c *Converter) SkippedErrors() []*ConversionError {
	return c.errs
}
