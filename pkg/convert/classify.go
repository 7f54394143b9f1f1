package convert

import (
	"fmt"

	"github.com/chazu/bim2city/pkg/bim"
)

// Rule is the conversion applied to a source element.
type Rule int

const (
	RuleUnhandled    Rule = iota // dropped silently
	RuleIgnore                   // doors, windows, openings, virtual and nil elements
	RuleWall                     // building-owned wall or interior wall surface
	RuleSlab                     // roof or floor surface by slab type
	RuleRoof                     // building-owned roof surface
	RuleColumn                   // generic room property, not registered
	RuleFurnishing               // room furniture
	RuleFlowTerminal             // reserved, emits nothing
)

var ruleNames = [...]string{
	RuleUnhandled:    "unhandled",
	RuleIgnore:       "ignore",
	RuleWall:         "wall",
	RuleSlab:         "slab",
	RuleRoof:         "roof",
	RuleColumn:       "column",
	RuleFurnishing:   "furnishing",
	RuleFlowTerminal: "flow-terminal",
}

func (r Rule) String() string {
	if r >= 0 && int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return fmt.Sprintf("rule(%d)", int(r))
}

// kindRules maps every element kind to its rule.
var kindRules = map[bim.ElementKind]Rule{
	bim.KindGeneric:      RuleUnhandled,
	bim.KindProject:      RuleUnhandled,
	bim.KindSite:         RuleUnhandled,
	bim.KindBuilding:     RuleUnhandled,
	bim.KindStorey:       RuleUnhandled,
	bim.KindSpace:        RuleUnhandled,
	bim.KindWall:         RuleWall,
	bim.KindSlab:         RuleSlab,
	bim.KindRoof:         RuleRoof,
	bim.KindColumn:       RuleColumn,
	bim.KindBeam:         RuleUnhandled,
	bim.KindStair:        RuleUnhandled,
	bim.KindRailing:      RuleUnhandled,
	bim.KindOpening:      RuleIgnore,
	bim.KindDoor:         RuleIgnore,
	bim.KindWindow:       RuleIgnore,
	bim.KindFurnishing:   RuleFurnishing,
	bim.KindFlowTerminal: RuleFlowTerminal,
	bim.KindVirtual:      RuleIgnore,
	bim.KindProxy:        RuleUnhandled,
}

// Classify returns the rule for el. A nil element is ignored.
func Classify(el *bim.Element) Rule {
	if el == nil {
		return RuleIgnore
	}
	if r, ok := kindRules[el.Kind]; ok {
		return r
	}
	return RuleUnhandled
}

// slabSurface routes a slab by predefined type. ok is false for types that
// produce no surface.
func slabSurface(t bim.SlabType) (roof bool, ok bool) {
	switch t {
	case bim.SlabRoof:
		return true, true
	case bim.SlabFloor, bim.SlabBaseSlab, bim.SlabLanding, bim.SlabNotDefined:
		return false, true
	}
	return false, false
}
