package citygml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPolygon(t *testing.T) {
	_, err := NewPolygon(Position{0, 0, 0}, Position{1, 0, 0})
	require.ErrorIs(t, err, ErrDegenerateRing)

	a, b, c := Position{0, 0, 0}, Position{1, 0, 0}, Position{0, 1, 0}
	p, err := NewPolygon(a, c, b, a)
	require.NoError(t, err)
	assert.Equal(t, []Position{a, c, b, a}, p.Exterior.Positions)
}

func TestNewPolygonCopiesPositions(t *testing.T) {
	ps := []Position{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	p, err := NewPolygon(ps...)
	require.NoError(t, err)
	ps[0][0] = 99
	assert.Equal(t, 0.0, p.Exterior.Positions[0][0])
}

func TestMultiSurfaceNilSafe(t *testing.T) {
	var ms *MultiSurface
	assert.True(t, ms.IsEmpty())
	assert.Equal(t, 0, ms.Len())
	ms.Positions(func(Position) { t.Fatal("no positions expected") })

	ms = NewMultiSurface()
	assert.True(t, ms.IsEmpty())
	p, err := NewPolygon(Position{0, 0, 0}, Position{1, 0, 0}, Position{0, 1, 0})
	require.NoError(t, err)
	ms.Add(p)
	assert.Equal(t, 1, ms.Len())

	n := 0
	ms.Positions(func(Position) { n++ })
	assert.Equal(t, 3, n)
}

func TestSetAttribute(t *testing.T) {
	var o CityObject
	o.SetAttribute("OverallWidth", 0.9)
	o.SetAttribute("OverallHeight", 2.1)
	o.SetAttribute("OverallWidth", 1.0)

	require.Len(t, o.Attributes, 2)
	v, ok := o.Attribute("OverallWidth")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
	_, ok = o.Attribute("Missing")
	assert.False(t, ok)
}

func TestNodeInterface(t *testing.T) {
	nodes := []Node{&Building{}, &Room{}, &BoundarySurface{}, &Opening{}, &BuildingFurniture{}, &GenericObject{}}
	for _, n := range nodes {
		n.Object().ID = "x"
		assert.Equal(t, "x", n.Object().ID)
	}
}

func TestRoomIsEmpty(t *testing.T) {
	r := &Room{}
	assert.True(t, r.IsEmpty())
	r.Geometry = NewMultiSurface()
	assert.True(t, r.IsEmpty())
	r.AddFurniture(&BuildingFurniture{})
	assert.False(t, r.IsEmpty())
}

func TestAddressIsEmpty(t *testing.T) {
	var a *Address
	assert.True(t, a.IsEmpty())
	assert.True(t, (&Address{}).IsEmpty())
	assert.False(t, (&Address{Town: "Delft"}).IsEmpty())
}

func TestEnvelopeExtend(t *testing.T) {
	e := Envelope{Lower: Position{0, 0, 0}, Upper: Position{1, 1, 1}}
	e.Extend(Envelope{Lower: Position{-1, 0.5, 0}, Upper: Position{0.5, 2, 3}})
	assert.Equal(t, Position{-1, 0, 0}, e.Lower)
	assert.Equal(t, Position{1, 2, 3}, e.Upper)
}

func TestSummarize(t *testing.T) {
	tri := func() *MultiSurface {
		p, _ := NewPolygon(Position{0, 0, 0}, Position{0, 1, 0}, Position{1, 0, 0}, Position{0, 0, 0})
		return &MultiSurface{Members: []*Polygon{p}}
	}
	wall := &BoundarySurface{Kind: WallSurface, Geometry: tri()}
	wall.AddOpening(&Opening{Kind: Door, Geometry: tri()})

	room := &Room{Synthetic: true}
	room.AddBoundary(&BoundarySurface{Kind: FloorSurface, Geometry: tri()})
	room.AddFurniture(&BuildingFurniture{Geometry: tri()})
	room.AddProperty(&GenericObject{Geometry: tri()})

	b := &Building{}
	b.AddBoundary(wall)
	b.AddRoom(room)
	b.AddRoom(&Room{Geometry: tri()})

	m := &CityModel{}
	m.AddBuilding(b)

	assert.Equal(t, Summary{
		Buildings:      1,
		Rooms:          2,
		SyntheticRooms: 1,
		Surfaces:       2,
		Openings:       1,
		Furniture:      1,
		GenericObjects: 1,
		Polygons:       6,
	}, m.Summarize())
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "InteriorWallSurface", InteriorWallSurface.String())
	assert.Equal(t, "RoofSurface", RoofSurface.String())
	assert.Equal(t, "BoundarySurface", SurfaceKind(42).String())
	assert.Equal(t, "Window", Window.String())
	assert.Equal(t, "Door", Door.String())
}
