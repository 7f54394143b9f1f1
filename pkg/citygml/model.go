// Package citygml holds the target city-document graph produced by the
// converter and encodes it as CityGML 1.0 XML.
//
// The graph is a strict tree: a boundary surface, opening or furniture
// object has exactly one owner. Geometry is a MultiSurface of planar
// polygons with 3D positions.
package citygml

// Attribute is a typed generic attribute. Value is a string, float64 or
// int.
type Attribute struct {
	Name  string
	Value any
}

// CityObject is the part shared by every city object.
type CityObject struct {
	ID          string // gml:id
	Name        string
	Description string
	// GlobalID is the source element's global id, exported only when set.
	GlobalID   string
	Attributes []Attribute
}

// Object returns o, so that every city object satisfies Node.
func (o *CityObject) Object() *CityObject { return o }

// SetAttribute adds or replaces the attribute name.
func (o *CityObject) SetAttribute(name string, value any) {
	for i := range o.Attributes {
		if o.Attributes[i].Name == name {
			o.Attributes[i].Value = value
			return
		}
	}
	o.Attributes = append(o.Attributes, Attribute{Name: name, Value: value})
}

// Attribute returns the value of the attribute name.
func (o *CityObject) Attribute(name string) (any, bool) {
	for _, a := range o.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

// Node is any object of the target graph.
type Node interface {
	Object() *CityObject
}

// Envelope is an axis-aligned 3D bounding box.
type Envelope struct {
	Lower, Upper Position
}

// Extend grows e to include o.
func (e *Envelope) Extend(o Envelope) {
	for i := 0; i < 3; i++ {
		e.Lower[i] = min(e.Lower[i], o.Lower[i])
		e.Upper[i] = max(e.Upper[i], o.Upper[i])
	}
}

// CityModel is the document root.
type CityModel struct {
	Name        string
	Description string
	Envelope    *Envelope
	Buildings   []*Building
}

// AddBuilding appends b to the document.
func (m *CityModel) AddBuilding(b *Building) {
	m.Buildings = append(m.Buildings, b)
}

// Address is a postal address in the xAL layout used by CityGML.
type Address struct {
	Street     []string // thoroughfare lines
	PostalBox  string
	Town       string
	Region     string
	PostalCode string
	Country    string
}

// IsEmpty reports whether no field is set.
func (a *Address) IsEmpty() bool {
	return a == nil || (len(a.Street) == 0 && a.PostalBox == "" && a.Town == "" &&
		a.Region == "" && a.PostalCode == "" && a.Country == "")
}

// Building is a building with its rooms and building-owned surfaces.
type Building struct {
	CityObject
	Address   *Address
	Rooms     []*Room
	BoundedBy []*BoundarySurface
	Envelope  *Envelope
}

// AddRoom appends r to the building.
func (b *Building) AddRoom(r *Room) { b.Rooms = append(b.Rooms, r) }

// AddBoundary appends s to the building's boundary surfaces.
func (b *Building) AddBoundary(s *BoundarySurface) { b.BoundedBy = append(b.BoundedBy, s) }

// Room is an interior room. Synthetic rooms group elements that are not
// inside any space.
type Room struct {
	CityObject
	Geometry   *MultiSurface
	BoundedBy  []*BoundarySurface
	Furniture  []*BuildingFurniture
	Properties []*GenericObject
	Synthetic  bool
}

// AddBoundary appends s to the room's boundary surfaces.
func (r *Room) AddBoundary(s *BoundarySurface) { r.BoundedBy = append(r.BoundedBy, s) }

// AddFurniture appends f to the room's furniture.
func (r *Room) AddFurniture(f *BuildingFurniture) { r.Furniture = append(r.Furniture, f) }

// AddProperty appends g to the room's generic application properties.
func (r *Room) AddProperty(g *GenericObject) { r.Properties = append(r.Properties, g) }

// IsEmpty reports whether the room has no content and no geometry.
func (r *Room) IsEmpty() bool {
	return len(r.BoundedBy) == 0 && len(r.Furniture) == 0 && len(r.Properties) == 0 &&
		r.Geometry.IsEmpty()
}

// SurfaceKind is the thematic class of a boundary surface.
type SurfaceKind int

const (
	WallSurface SurfaceKind = iota
	InteriorWallSurface
	FloorSurface
	RoofSurface
)

func (k SurfaceKind) String() string {
	switch k {
	case WallSurface:
		return "WallSurface"
	case InteriorWallSurface:
		return "InteriorWallSurface"
	case FloorSurface:
		return "FloorSurface"
	case RoofSurface:
		return "RoofSurface"
	}
	return "BoundarySurface"
}

// BoundarySurface is a thematic surface owned by a building or a room.
type BoundarySurface struct {
	CityObject
	Kind     SurfaceKind
	Geometry *MultiSurface
	Openings []*Opening
}

// AddOpening appends o to the surface.
func (s *BoundarySurface) AddOpening(o *Opening) { s.Openings = append(s.Openings, o) }

// OpeningKind is Door or Window.
type OpeningKind int

const (
	Door OpeningKind = iota
	Window
)

func (k OpeningKind) String() string {
	if k == Window {
		return "Window"
	}
	return "Door"
}

// Opening is a door or window in a boundary surface.
type Opening struct {
	CityObject
	Kind     OpeningKind
	Geometry *MultiSurface
}

// BuildingFurniture is a movable object inside a room.
type BuildingFurniture struct {
	CityObject
	Geometry *MultiSurface
}

// GenericObject is an untyped city object with geometry.
type GenericObject struct {
	CityObject
	Geometry *MultiSurface
}
