package bim

// ElementID identifies one element instance inside a Model. Two elements
// with equal attributes but different IDs are different elements.
type ElementID string

// IsZero reports whether the ID is empty.
func (id ElementID) IsZero() bool { return id == "" }

// Short returns at most the first 8 characters of the ID, for messages.
func (id ElementID) Short() string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}

func (id ElementID) String() string { return string(id) }

// Vec3 is a 3D vector in model units.
type Vec3 struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// IsZero reports whether every component is zero.
func (v Vec3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// Vec2 is a point of a 2D profile.
type Vec2 struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// ---------------------------------------------------------------------------
// Shape
// ---------------------------------------------------------------------------

// Placement positions a shape in model coordinates. Rotation is applied
// before translation; angles are Euler degrees around X, Y, Z.
type Placement struct {
	Location Vec3 `yaml:"location" json:"location"`
	Rotation Vec3 `yaml:"rotation" json:"rotation"`
}

// Shape is the solid representation of an element. The items are unioned
// and then placed.
type Shape struct {
	Placement Placement
	Items     []ShapeItem
}

// IsEmpty reports whether the shape has no solid items.
func (s *Shape) IsEmpty() bool { return s == nil || len(s.Items) == 0 }

// ShapeItem is one solid of a shape.
type ShapeItem interface {
	shapeItem() // marker method restricting implementations to this package
}

// BoxItem is an axis-aligned box with its minimum corner at the origin.
type BoxItem struct {
	Size Vec3
}

func (BoxItem) shapeItem() {}

// CylinderItem is a cylinder standing on the XY plane, centred on the Z axis.
type CylinderItem struct {
	Radius float64
	Height float64
}

func (CylinderItem) shapeItem() {}

// ExtrusionItem sweeps a closed XY profile along +Z.
type ExtrusionItem struct {
	Profile []Vec2
	Depth   float64
}

func (ExtrusionItem) shapeItem() {}

// ---------------------------------------------------------------------------
// Kind payloads
// ---------------------------------------------------------------------------

// ElementData is the interface for kind-specific element payloads.
type ElementData interface {
	elementData()
}

// SlabData carries the predefined type of a slab.
type SlabData struct {
	Type SlabType
}

func (SlabData) elementData() {}

// DoorData carries door dimensions.
type DoorData struct {
	OverallWidth  float64
	OverallHeight float64
}

func (DoorData) elementData() {}

// WindowData carries window dimensions.
type WindowData struct {
	OverallWidth  float64
	OverallHeight float64
}

func (WindowData) elementData() {}

// BuildingData carries the optional postal address of a building.
type BuildingData struct {
	Address *PostalAddress
}

func (BuildingData) elementData() {}

// PostalAddress is a building's postal address.
type PostalAddress struct {
	AddressLines []string `yaml:"lines" json:"lines"`
	PostalBox    string   `yaml:"postal_box" json:"postal_box"`
	Town         string   `yaml:"town" json:"town"`
	Region       string   `yaml:"region" json:"region"`
	PostalCode   string   `yaml:"postal_code" json:"postal_code"`
	Country      string   `yaml:"country" json:"country"`
}

// ---------------------------------------------------------------------------
// Element
// ---------------------------------------------------------------------------

// SpaceBoundary links a space to an element bounding it.
type SpaceBoundary struct {
	Element  ElementID
	Boundary BoundaryType
}

// Element is a node of the source spatial graph.
type Element struct {
	ID          ElementID
	Kind        ElementKind
	GlobalID    string
	Name        string
	Description string
	Shape       *Shape
	Data        ElementData

	Decomposes []ElementID     // decomposition children (building -> storey -> space)
	Contains   []ElementID     // elements contained in this spatial structure
	BoundedBy  []SpaceBoundary // space boundaries (spaces only)
	Openings   []ElementID     // opening elements voiding this element
	Fillings   []ElementID     // doors/windows filling this opening
}

// SlabType returns the slab predefined type, or SlabNotDefined when the
// element carries no slab payload.
func (e *Element) SlabType() SlabType {
	if d, ok := e.Data.(SlabData); ok {
		return d.Type
	}
	return SlabNotDefined
}

// Address returns the building address, or nil.
func (e *Element) Address() *PostalAddress {
	if d, ok := e.Data.(BuildingData); ok {
		return d.Address
	}
	return nil
}

// OverallSize returns the overall width and height of a door or window.
func (e *Element) OverallSize() (width, height float64, ok bool) {
	switch d := e.Data.(type) {
	case DoorData:
		return d.OverallWidth, d.OverallHeight, true
	case WindowData:
		return d.OverallWidth, d.OverallHeight, true
	}
	return 0, 0, false
}
