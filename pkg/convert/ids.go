package convert

import (
	"strings"

	"github.com/chazu/bim2city/pkg/bim"
	"github.com/google/uuid"
)

// IDGenerator derives gml:ids from element ids. The same seed and element
// always give the same id, so repeated runs produce identical documents.
type IDGenerator struct {
	namespace uuid.UUID
}

// NewIDGenerator returns a generator whose ids are scoped by seed
// (usually the project name).
func NewIDGenerator(seed string) *IDGenerator {
	return &IDGenerator{namespace: uuid.NewSHA1(uuid.NameSpaceURL, []byte("bim2city:"+seed))}
}

// Element returns the gml:id of the node converted from id.
func (g *IDGenerator) Element(id bim.ElementID) string {
	return g.derive("element", string(id))
}

// Derived returns the gml:id of a node that has no source element of its
// own, identified by a role and the source elements it belongs to.
func (g *IDGenerator) Derived(role string, parts ...bim.ElementID) string {
	ss := make([]string, len(parts))
	for i, p := range parts {
		ss[i] = string(p)
	}
	return g.derive(role, ss...)
}

// derive joins role and parts with NUL, which cannot occur in either.
func (g *IDGenerator) derive(role string, parts ...string) string {
	name := role + "\x00" + strings.Join(parts, "\x00")
	return "UUID_" + uuid.NewSHA1(g.namespace, []byte(name)).String()
}
