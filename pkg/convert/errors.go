package convert

import (
	"errors"
	"fmt"

	"github.com/chazu/bim2city/pkg/bim"
)

// ErrGeometry is wrapped by every failure to obtain an element's geometry.
var ErrGeometry = errors.New("geometry extraction failed")

// ConversionError reports the element whose conversion failed.
type ConversionError struct {
	Element bim.ElementID
	Kind    bim.ElementKind
	Err     error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert: %s %s: %v: %v", e.Kind, e.Element, ErrGeometry, e.Err)
}

// Unwrap exposes both ErrGeometry and the engine failure.
func (e *ConversionError) Unwrap() []error {
	return []error{ErrGeometry, e.Err}
}

// GeometryErrorPolicy decides what a geometry failure does to the run.
type GeometryErrorPolicy int

const (
	// AbortOnGeometryError stops the conversion at the first failure.
	AbortOnGeometryError GeometryErrorPolicy = iota
	// SkipOnGeometryError logs the failure, drops the element and goes on.
	SkipOnGeometryError
)

func (p GeometryErrorPolicy) String() string {
	if p == SkipOnGeometryError {
		return "skip"
	}
	return "abort"
}

// ParseGeometryErrorPolicy reads "abort" or "skip". The empty string means
// abort.
func ParseGeometryErrorPolicy(s string) (GeometryErrorPolicy, error) {
	switch s {
	case "", "abort":
		return AbortOnGeometryError, nil
	case "skip":
		return SkipOnGeometryError, nil
	}
	return 0, fmt.Errorf("convert: unknown geometry error policy %q (want abort or skip)", s)
}
