package engine

import (
	"fmt"

	"github.com/chazu/bim2city/pkg/kernel"
)

type primitiveKind int

const (
	primBox primitiveKind = iota
	primCylinder
	primExtrusion
)

func (k primitiveKind) String() string {
	switch k {
	case primBox:
		return "box"
	case primCylinder:
		return "cylinder"
	case primExtrusion:
		return "extrusion"
	}
	return fmt.Sprintf("primitive(%d)", int(k))
}

// primitive is one solid item as read from a sub-model.
type primitive struct {
	kind    primitiveKind
	size    [3]float64 // box
	height  float64    // cylinder
	radius  float64    // cylinder
	depth   float64    // extrusion
	profile []kernel.Point2
}

func (p primitive) solid(k kernel.Kernel) (kernel.Solid, error) {
	switch p.kind {
	case primBox:
		return k.Box(p.size[0], p.size[1], p.size[2])
	case primCylinder:
		return k.Cylinder(p.height, p.radius)
	case primExtrusion:
		return k.Extrude(p.profile, p.depth)
	}
	return nil, fmt.Errorf("unknown primitive %s", p.kind)
}

// placement positions a body: rotation (degrees) first, then translation.
type placement struct {
	at       [3]float64
	rotation [3]float64
}

// body is a placed union of primitives.
type body struct {
	placement placement
	prims     []primitive
}

// solid returns the placed union, or nil for a body without primitives.
func (b body) solid(k kernel.Kernel) (kernel.Solid, error) {
	var s kernel.Solid
	for _, p := range b.prims {
		ps, err := p.solid(k)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.kind, err)
		}
		if s == nil {
			s = ps
		} else {
			s = k.Union(s, ps)
		}
	}
	if s == nil {
		return nil, nil
	}
	if r := b.placement.rotation; r != [3]float64{} {
		s = k.Rotate(s, r[0], r[1], r[2])
	}
	if t := b.placement.at; t != [3]float64{} {
		s = k.Translate(s, t[0], t[1], t[2])
	}
	return s, nil
}

// solid returns the instance body with every void subtracted.
func (i *Instance) solid(k kernel.Kernel) (kernel.Solid, error) {
	s, err := i.body.solid(k)
	if err != nil || s == nil {
		return nil, err
	}
	for n, v := range i.voids {
		vs, err := v.solid(k)
		if err != nil {
			return nil, fmt.Errorf("void %d: %w", n, err)
		}
		if vs != nil {
			s = k.Difference(s, vs)
		}
	}
	return s, nil
}
