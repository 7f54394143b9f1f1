package bim

import (
	"fmt"
	"strings"
)

// ElementKind enumerates the element types of the source vocabulary.
type ElementKind int

const (
	KindGeneric      ElementKind = iota // any element without a dedicated kind
	KindProject                         // root of the spatial hierarchy
	KindSite                            // site containing buildings
	KindBuilding                        // building
	KindStorey                          // building storey
	KindSpace                           // room-like space
	KindWall                            // wall (incl. standard case)
	KindSlab                            // floor/roof/landing slab
	KindRoof                            // roof aggregate
	KindColumn                          // column
	KindBeam                            // beam
	KindStair                           // stair
	KindRailing                         // railing
	KindOpening                         // opening element voiding a wall
	KindDoor                            // door filling an opening
	KindWindow                          // window filling an opening
	KindFurnishing                      // furnishing element
	KindFlowTerminal                    // sanitary/air/electric terminal
	KindVirtual                         // virtual element (no physical body)
	KindProxy                           // building element proxy
)

var kindNames = map[ElementKind]string{
	KindGeneric:      "generic",
	KindProject:      "project",
	KindSite:         "site",
	KindBuilding:     "building",
	KindStorey:       "storey",
	KindSpace:        "space",
	KindWall:         "wall",
	KindSlab:         "slab",
	KindRoof:         "roof",
	KindColumn:       "column",
	KindBeam:         "beam",
	KindStair:        "stair",
	KindRailing:      "railing",
	KindOpening:      "opening",
	KindDoor:         "door",
	KindWindow:       "window",
	KindFurnishing:   "furnishing",
	KindFlowTerminal: "flow-terminal",
	KindVirtual:      "virtual",
	KindProxy:        "proxy",
}

var entityNames = map[ElementKind]string{
	KindGeneric:      "IFCBUILDINGELEMENT",
	KindProject:      "IFCPROJECT",
	KindSite:         "IFCSITE",
	KindBuilding:     "IFCBUILDING",
	KindStorey:       "IFCBUILDINGSTOREY",
	KindSpace:        "IFCSPACE",
	KindWall:         "IFCWALL",
	KindSlab:         "IFCSLAB",
	KindRoof:         "IFCROOF",
	KindColumn:       "IFCCOLUMN",
	KindBeam:         "IFCBEAM",
	KindStair:        "IFCSTAIR",
	KindRailing:      "IFCRAILING",
	KindOpening:      "IFCOPENINGELEMENT",
	KindDoor:         "IFCDOOR",
	KindWindow:       "IFCWINDOW",
	KindFurnishing:   "IFCFURNISHINGELEMENT",
	KindFlowTerminal: "IFCFLOWTERMINAL",
	KindVirtual:      "IFCVIRTUALELEMENT",
	KindProxy:        "IFCBUILDINGELEMENTPROXY",
}

func (k ElementKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ElementKind(%d)", int(k))
}

// EntityName returns the upper-case type name used by the exchange format
// and by the geometry engine to group instances.
func (k ElementKind) EntityName() string {
	if name, ok := entityNames[k]; ok {
		return name
	}
	return entityNames[KindGeneric]
}

// IsSpatial reports whether k is a spatial structure element (project,
// site, building, storey or space).
func (k ElementKind) IsSpatial() bool {
	switch k {
	case KindProject, KindSite, KindBuilding, KindStorey, KindSpace:
		return true
	}
	return false
}

// AllKinds returns every defined kind in declaration order.
func AllKinds() []ElementKind {
	kinds := make([]ElementKind, 0, len(kindNames))
	for k := KindGeneric; k <= KindProxy; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseKind converts a kind name ("wall", "flow-terminal") or an entity
// name ("IFCWALL") into an ElementKind.
func ParseKind(s string) (ElementKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	upper := strings.ToUpper(strings.TrimSpace(s))
	for k, n := range entityNames {
		if n == upper {
			return k, nil
		}
	}
	if upper == "IFCWALLSTANDARDCASE" {
		return KindWall, nil
	}
	return KindGeneric, fmt.Errorf("unknown element kind %q", s)
}

// ---------------------------------------------------------------------------
// Predefined types
// ---------------------------------------------------------------------------

// SlabType is the predefined type of a slab.
type SlabType int

const (
	SlabNotDefined  SlabType = iota // no predefined type given
	SlabFloor                       // floor slab
	SlabRoof                        // roof slab
	SlabLanding                     // stair landing
	SlabBaseSlab                    // foundation slab
	SlabUserDefined                 // user defined
)

var slabTypeNames = map[SlabType]string{
	SlabNotDefined:  "notdefined",
	SlabFloor:       "floor",
	SlabRoof:        "roof",
	SlabLanding:     "landing",
	SlabBaseSlab:    "baseslab",
	SlabUserDefined: "userdefined",
}

func (t SlabType) String() string {
	if name, ok := slabTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("SlabType(%d)", int(t))
}

// ParseSlabType reads a slab predefined type. The empty string and "null"
// map to SlabNotDefined.
func ParseSlabType(s string) (SlabType, error) {
	name := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	if name == "" || name == "null" {
		return SlabNotDefined, nil
	}
	for t, n := range slabTypeNames {
		if n == name {
			return t, nil
		}
	}
	return SlabNotDefined, fmt.Errorf("unknown slab type %q", s)
}

// BoundaryType tells whether a space boundary is internal or external.
// The zero value means the flag is absent.
type BoundaryType int

const (
	BoundaryNotDefined BoundaryType = iota
	BoundaryInternal
	BoundaryExternal
)

func (b BoundaryType) String() string {
	switch b {
	case BoundaryInternal:
		return "internal"
	case BoundaryExternal:
		return "external"
	default:
		return "notdefined"
	}
}

// ParseBoundaryType reads "internal", "external" or an empty/undefined flag.
func ParseBoundaryType(s string) (BoundaryType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "notdefined", "null":
		return BoundaryNotDefined, nil
	case "internal":
		return BoundaryInternal, nil
	case "external":
		return BoundaryExternal, nil
	}
	return BoundaryNotDefined, fmt.Errorf("unknown boundary type %q", s)
}
