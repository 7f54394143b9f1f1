package bim

import "fmt"

// ProjectInfo is the project metadata passed along with a model.
type ProjectInfo struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// Model is a fully materialized source spatial graph. It is built once
// (by Decode or by hand in tests) and read-only afterwards.
type Model struct {
	Elements map[ElementID]*Element
	Roots    []ElementID // top-level spatial elements (project, sites, buildings)
	Project  ProjectInfo
	order    []ElementID
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{Elements: make(map[ElementID]*Element)}
}

// Add inserts an element. IDs must be unique within a model.
func (m *Model) Add(e *Element) error {
	if e == nil {
		return fmt.Errorf("bim: nil element")
	}
	if e.ID.IsZero() {
		return fmt.Errorf("bim: element of kind %s has no id", e.Kind)
	}
	if _, exists := m.Elements[e.ID]; exists {
		return fmt.Errorf("bim: duplicate element id %q", e.ID)
	}
	m.Elements[e.ID] = e
	m.order = append(m.order, e.ID)
	return nil
}

// MustAdd is Add for hand-built models; it panics on error.
func (m *Model) MustAdd(elems ...*Element) {
	for _, e := range elems {
		if err := m.Add(e); err != nil {
			panic(err)
		}
	}
}

// AddRoot registers an element ID as a top-level spatial element.
func (m *Model) AddRoot(id ElementID) {
	m.Roots = append(m.Roots, id)
}

// Get returns the element with the given ID, or nil.
func (m *Model) Get(id ElementID) *Element {
	return m.Elements[id]
}

// Len returns the number of elements.
func (m *Model) Len() int {
	return len(m.Elements)
}

// All returns every element in insertion order.
func (m *Model) All() []*Element {
	out := make([]*Element, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.Elements[id])
	}
	return out
}

// resolve maps IDs to elements, dropping dangling references.
func (m *Model) resolve(ids []ElementID) []*Element {
	out := make([]*Element, 0, len(ids))
	for _, id := range ids {
		if e := m.Elements[id]; e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Decomposition returns the decomposition children of e.
func (m *Model) Decomposition(e *Element) []*Element {
	return m.resolve(e.Decomposes)
}

// Contained returns the elements contained in the spatial structure e.
func (m *Model) Contained(e *Element) []*Element {
	return m.resolve(e.Contains)
}

// Openings returns the opening elements voiding e.
func (m *Model) Openings(e *Element) []*Element {
	return m.resolve(e.Openings)
}

// Fillings returns the doors and windows filling the opening e.
func (m *Model) Fillings(e *Element) []*Element {
	return m.resolve(e.Fillings)
}

// Boundary is a resolved space boundary. Element is nil when the boundary
// references no element.
type Boundary struct {
	Element  *Element
	Boundary BoundaryType
}

// Boundaries returns the resolved space boundaries of e, in order.
// Boundaries whose element is missing are returned with a nil Element.
func (m *Model) Boundaries(e *Element) []Boundary {
	out := make([]Boundary, 0, len(e.BoundedBy))
	for _, b := range e.BoundedBy {
		out = append(out, Boundary{Element: m.Elements[b.Element], Boundary: b.Boundary})
	}
	return out
}

// Buildings returns the buildings reachable from the roots, directly or
// through project and site decomposition, in traversal order. A building
// reachable twice is returned once.
func (m *Model) Buildings() []*Element {
	var out []*Element
	seen := make(map[ElementID]bool)

	var visit func(e *Element)
	visit = func(e *Element) {
		if seen[e.ID] {
			return
		}
		seen[e.ID] = true
		switch e.Kind {
		case KindBuilding:
			out = append(out, e)
		case KindProject, KindSite:
			for _, child := range m.Decomposition(e) {
				visit(child)
			}
		}
	}

	for _, root := range m.resolve(m.Roots) {
		visit(root)
	}
	return out
}
