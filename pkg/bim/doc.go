// Package bim defines the source spatial graph read by bim2city.
// The graph is a read-only set of building elements connected by
// decomposition, containment, space-boundary and opening relationships.
// Elements may be reachable through more than one relationship, so the
// graph is not a tree.
package bim
