package citygml

import (
	"errors"
	"fmt"
)

// SrsDimension is the coordinate dimension of every position.
const SrsDimension = 3

// ErrDegenerateRing is returned for rings with fewer than three positions.
var ErrDegenerateRing = errors.New("citygml: linear ring needs at least 3 positions")

// Position is a 3D coordinate.
type Position [3]float64

// LinearRing is a closed sequence of positions. The closing position is
// stored explicitly.
type LinearRing struct {
	Positions []Position
}

// Polygon is a planar surface bounded by an exterior ring.
type Polygon struct {
	Exterior LinearRing
}

// NewPolygon returns a polygon whose exterior ring holds positions as
// given.
func NewPolygon(positions ...Position) (*Polygon, error) {
	if len(positions) < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrDegenerateRing, len(positions))
	}
	ring := make([]Position, len(positions))
	copy(ring, positions)
	return &Polygon{Exterior: LinearRing{Positions: ring}}, nil
}

// MultiSurface is an unordered set of polygons.
type MultiSurface struct {
	Members []*Polygon
}

// NewMultiSurface returns an empty multi-surface.
func NewMultiSurface() *MultiSurface {
	return &MultiSurface{}
}

// Add appends p.
func (ms *MultiSurface) Add(p *Polygon) {
	ms.Members = append(ms.Members, p)
}

// Len returns the number of polygons.
func (ms *MultiSurface) Len() int {
	if ms == nil {
		return 0
	}
	return len(ms.Members)
}

// IsEmpty reports whether ms has no polygons. A nil multi-surface is empty.
func (ms *MultiSurface) IsEmpty() bool {
	return ms.Len() == 0
}

// Positions calls fn for every exterior position of every member.
func (ms *MultiSurface) Positions(fn func(Position)) {
	if ms == nil {
		return
	}
	for _, p := range ms.Members {
		for _, pos := range p.Exterior.Positions {
			fn(pos)
		}
	}
}
