package bim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// The on-disk model document. YAML is a superset of JSON, so the same
// decoder reads both.

type documentFile struct {
	Project  ProjectInfo   `yaml:"project"`
	Roots    []string      `yaml:"roots"`
	Elements []elementFile `yaml:"elements"`
}

type elementFile struct {
	ID          string         `yaml:"id"`
	Kind        string         `yaml:"kind"`
	GlobalID    string         `yaml:"global_id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Shape       *shapeFile     `yaml:"shape"`
	Decomposes  []string       `yaml:"decomposes"`
	Contains    []string       `yaml:"contains"`
	BoundedBy   []boundaryFile `yaml:"bounded_by"`
	Openings    []string       `yaml:"openings"`
	Fillings    []string       `yaml:"fillings"`

	SlabType      string         `yaml:"slab_type"`
	OverallWidth  float64        `yaml:"overall_width"`
	OverallHeight float64        `yaml:"overall_height"`
	Address       *PostalAddress `yaml:"address"`
}

type boundaryFile struct {
	Element  string `yaml:"element"`
	Boundary string `yaml:"boundary"`
}

type shapeFile struct {
	Placement Placement  `yaml:"placement"`
	Items     []itemFile `yaml:"items"`
}

type itemFile struct {
	Box      *Vec3 `yaml:"box"`
	Cylinder *struct {
		Radius float64 `yaml:"radius"`
		Height float64 `yaml:"height"`
	} `yaml:"cylinder"`
	Extrusion *struct {
		Depth   float64 `yaml:"depth"`
		Profile []Vec2  `yaml:"profile"`
	} `yaml:"extrusion"`
}

// Load reads a model document from a file.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	m, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Decode reads a model document. Unknown fields are rejected so that a
// misspelled relationship does not silently disappear.
func Decode(r io.Reader) (*Model, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc documentFile
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return NewModel(), nil
		}
		return nil, fmt.Errorf("failed to parse model document: %w", err)
	}

	m := NewModel()
	m.Project = doc.Project
	for i, ef := range doc.Elements {
		e, err := ef.toElement()
		if err != nil {
			return nil, fmt.Errorf("element %d (%q): %w", i, ef.ID, err)
		}
		if err := m.Add(e); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	for _, id := range doc.Roots {
		m.AddRoot(ElementID(id))
	}
	return m, nil
}

func (ef elementFile) toElement() (*Element, error) {
	kind, err := ParseKind(ef.Kind)
	if err != nil {
		return nil, err
	}
	e := &Element{
		ID:          ElementID(ef.ID),
		Kind:        kind,
		GlobalID:    ef.GlobalID,
		Name:        ef.Name,
		Description: ef.Description,
		Decomposes:  toIDs(ef.Decomposes),
		Contains:    toIDs(ef.Contains),
		Openings:    toIDs(ef.Openings),
		Fillings:    toIDs(ef.Fillings),
	}
	for _, bf := range ef.BoundedBy {
		bt, err := ParseBoundaryType(bf.Boundary)
		if err != nil {
			return nil, err
		}
		e.BoundedBy = append(e.BoundedBy, SpaceBoundary{Element: ElementID(bf.Element), Boundary: bt})
	}

	switch kind {
	case KindSlab:
		st, err := ParseSlabType(ef.SlabType)
		if err != nil {
			return nil, err
		}
		e.Data = SlabData{Type: st}
	case KindDoor:
		e.Data = DoorData{OverallWidth: ef.OverallWidth, OverallHeight: ef.OverallHeight}
	case KindWindow:
		e.Data = WindowData{OverallWidth: ef.OverallWidth, OverallHeight: ef.OverallHeight}
	case KindBuilding:
		e.Data = BuildingData{Address: ef.Address}
	}

	if ef.Shape != nil {
		s, err := ef.Shape.toShape()
		if err != nil {
			return nil, err
		}
		e.Shape = s
	}
	return e, nil
}

func (sf *shapeFile) toShape() (*Shape, error) {
	s := &Shape{Placement: sf.Placement}
	for i, it := range sf.Items {
		set := 0
		if it.Box != nil {
			s.Items = append(s.Items, BoxItem{Size: *it.Box})
			set++
		}
		if it.Cylinder != nil {
			s.Items = append(s.Items, CylinderItem{Radius: it.Cylinder.Radius, Height: it.Cylinder.Height})
			set++
		}
		if it.Extrusion != nil {
			s.Items = append(s.Items, ExtrusionItem{Profile: it.Extrusion.Profile, Depth: it.Extrusion.Depth})
			set++
		}
		if set != 1 {
			return nil, fmt.Errorf("shape item %d: exactly one of box, cylinder or extrusion must be set", i)
		}
	}
	return s, nil
}

func toIDs(ss []string) []ElementID {
	if len(ss) == 0 {
		return nil
	}
	ids := make([]ElementID, len(ss))
	for i, s := range ss {
		ids[i] = ElementID(s)
	}
	return ids
}
