package bim

import (
	"fmt"
	"sort"
)

// ValidationSeverity indicates whether a validation finding blocks
// conversion or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks conversion
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	ElementID ElementID          // which element has the problem (zero if model-level)
	Message   string             // human-readable description
	Severity  ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.ElementID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] element %s: %s", e.Severity, e.ElementID, e.Message)
}

// ValidationResult bundles blocking errors and advisory warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether there are no blocking errors.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Validate runs the structural checks and returns blocking findings.
// An empty slice means the model can be converted. Validate never mutates
// the model.
func Validate(m *Model) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateRoots(m)...)
	errs = append(errs, validateReferences(m)...)
	errs = append(errs, validateDecomposition(m)...)
	errs = append(errs, validateRelationKinds(m)...)
	return errs
}

// ValidateAll runs the structural checks plus the advisory shape and
// identifier checks.
func ValidateAll(m *Model) ValidationResult {
	var result ValidationResult
	result.Errors = Validate(m)
	result.Warnings = append(result.Warnings, validateGlobalIDs(m)...)
	result.Warnings = append(result.Warnings, validateShapes(m)...)
	return result
}

func validateRoots(m *Model) []ValidationError {
	var errs []ValidationError
	if len(m.Roots) == 0 && m.Len() > 0 {
		errs = append(errs, ValidationError{
			Message:  "model has elements but no roots",
			Severity: SeverityError,
		})
	}
	for _, id := range m.Roots {
		e := m.Get(id)
		if e == nil {
			errs = append(errs, ValidationError{
				ElementID: id,
				Message:   "root references a missing element",
				Severity:  SeverityError,
			})
			continue
		}
		switch e.Kind {
		case KindProject, KindSite, KindBuilding:
		default:
			errs = append(errs, ValidationError{
				ElementID: id,
				Message:   fmt.Sprintf("root has kind %s, want project, site or building", e.Kind),
				Severity:  SeverityError,
			})
		}
	}
	return errs
}

// validateReferences checks that every relationship points at an element
// of the model.
func validateReferences(m *Model) []ValidationError {
	var errs []ValidationError
	missing := func(from *Element, rel string, id ElementID) {
		errs = append(errs, ValidationError{
			ElementID: from.ID,
			Message:   fmt.Sprintf("%s references missing element %q", rel, id),
			Severity:  SeverityError,
		})
	}
	for _, e := range m.All() {
		for _, id := range e.Decomposes {
			if m.Get(id) == nil {
				missing(e, "decomposition", id)
			}
		}
		for _, id := range e.Contains {
			if m.Get(id) == nil {
				missing(e, "containment", id)
			}
		}
		for _, b := range e.BoundedBy {
			if !b.Element.IsZero() && m.Get(b.Element) == nil {
				missing(e, "space boundary", b.Element)
			}
		}
		for _, id := range e.Openings {
			if m.Get(id) == nil {
				missing(e, "opening", id)
			}
		}
		for _, id := range e.Fillings {
			if m.Get(id) == nil {
				missing(e, "filling", id)
			}
		}
	}
	return errs
}

// validateDecomposition checks that decomposition edges form a DAG using
// DFS with 3-colour marking. Containment may share elements freely, but a
// decomposition cycle would make the walk infinite.
func validateDecomposition(m *Model) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[ElementID]int)
	var errs []ValidationError

	var visit func(id ElementID) bool
	visit = func(id ElementID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				ElementID: id,
				Message:   "decomposition cycle detected",
				Severity:  SeverityError,
			})
			return true
		}
		color[id] = gray
		if e := m.Get(id); e != nil {
			for _, child := range e.Decomposes {
				if visit(child) {
					return true
				}
			}
		}
		color[id] = black
		return false
	}

	for _, e := range m.All() {
		if color[e.ID] == white {
			if visit(e.ID) {
				break
			}
		}
	}
	return errs
}

// validateRelationKinds checks the kinds at both ends of the typed
// relationships.
func validateRelationKinds(m *Model) []ValidationError {
	var errs []ValidationError
	bad := func(e *Element, format string, args ...any) {
		errs = append(errs, ValidationError{
			ElementID: e.ID,
			Message:   fmt.Sprintf(format, args...),
			Severity:  SeverityError,
		})
	}
	for _, e := range m.All() {
		if len(e.Contains) > 0 && !e.Kind.IsSpatial() {
			bad(e, "%s cannot contain elements", e.Kind)
		}
		if len(e.BoundedBy) > 0 && e.Kind != KindSpace {
			bad(e, "%s cannot have space boundaries", e.Kind)
		}
		for _, o := range m.Openings(e) {
			if o.Kind != KindOpening {
				bad(e, "opening relation targets %s %q, want opening", o.Kind, o.ID)
			}
		}
		if len(e.Fillings) > 0 && e.Kind != KindOpening {
			bad(e, "%s cannot have fillings", e.Kind)
		}
		for _, f := range m.Fillings(e) {
			if f.Kind != KindDoor && f.Kind != KindWindow {
				bad(e, "filling %q has kind %s, want door or window", f.ID, f.Kind)
			}
		}
	}
	return errs
}

// validateGlobalIDs warns about global ids shared by several elements.
func validateGlobalIDs(m *Model) []ValidationError {
	owners := make(map[string][]ElementID)
	for _, e := range m.All() {
		if e.GlobalID != "" {
			owners[e.GlobalID] = append(owners[e.GlobalID], e.ID)
		}
	}
	gids := make([]string, 0, len(owners))
	for gid, ids := range owners {
		if len(ids) > 1 {
			gids = append(gids, gid)
		}
	}
	sort.Strings(gids)

	var warnings []ValidationError
	for _, gid := range gids {
		ids := owners[gid]
		warnings = append(warnings, ValidationError{
			ElementID: ids[1],
			Message:   fmt.Sprintf("global id %q is shared by %d elements", gid, len(ids)),
			Severity:  SeverityWarning,
		})
	}
	return warnings
}

// validateShapes warns about physical elements without geometry and about
// degenerate solid items.
func validateShapes(m *Model) []ValidationError {
	var warnings []ValidationError
	warn := func(e *Element, format string, args ...any) {
		warnings = append(warnings, ValidationError{
			ElementID: e.ID,
			Message:   fmt.Sprintf(format, args...),
			Severity:  SeverityWarning,
		})
	}
	for _, e := range m.All() {
		if e.Shape.IsEmpty() {
			switch e.Kind {
			case KindWall, KindSlab, KindRoof, KindFurnishing, KindDoor, KindWindow:
				warn(e, "%s has no shape; it will be converted with empty geometry", e.Kind)
			}
			continue
		}
		for i, item := range e.Shape.Items {
			switch it := item.(type) {
			case BoxItem:
				if it.Size.X <= 0 || it.Size.Y <= 0 || it.Size.Z <= 0 {
					warn(e, "shape item %d: box size %v must be positive", i, it.Size)
				}
			case CylinderItem:
				if it.Radius <= 0 || it.Height <= 0 {
					warn(e, "shape item %d: cylinder radius and height must be positive", i)
				}
			case ExtrusionItem:
				if len(it.Profile) < 3 {
					warn(e, "shape item %d: extrusion profile has %d points, want at least 3", i, len(it.Profile))
				}
				if it.Depth <= 0 {
					warn(e, "shape item %d: extrusion depth must be positive", i)
				}
			}
		}
	}
	return warnings
}
