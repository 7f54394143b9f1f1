package convert

import (
	"github.com/chazu/bim2city/pkg/bim"
	"github.com/chazu/bim2city/pkg/citygml"
)

// IdentityMap records the target node built for each converted source
// element. Entries are never removed; a map lives for one conversion run.
// It is not safe for concurrent use.
type IdentityMap struct {
	nodes map[bim.ElementID]citygml.Node
}

// NewIdentityMap returns an empty map.
func NewIdentityMap() *IdentityMap {
	return &IdentityMap{nodes: make(map[bim.ElementID]citygml.Node)}
}

// Has reports whether id was converted.
func (m *IdentityMap) Has(id bim.ElementID) bool {
	_, ok := m.nodes[id]
	return ok
}

// Register records node as the conversion of id. A second registration of
// the same id is ignored; the first node wins.
func (m *IdentityMap) Register(id bim.ElementID, node citygml.Node) {
	if _, ok := m.nodes[id]; ok {
		return
	}
	m.nodes[id] = node
}

// Lookup returns the node registered for id.
func (m *IdentityMap) Lookup(id bim.ElementID) (citygml.Node, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// Len returns the number of registered elements.
func (m *IdentityMap) Len() int {
	return len(m.nodes)
}
