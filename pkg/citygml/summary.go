package citygml

// Summary counts the objects of a document.
type Summary struct {
	Buildings      int
	Rooms          int
	SyntheticRooms int
	Surfaces       int
	Openings       int
	Furniture      int
	GenericObjects int
	Polygons       int
}

// Summarize counts the objects in m.
func (m *CityModel) Summarize() Summary {
	var s Summary
	surfaces := func(list []*BoundarySurface) {
		for _, bs := range list {
			s.Surfaces++
			s.Polygons += bs.Geometry.Len()
			for _, o := range bs.Openings {
				s.Openings++
				s.Polygons += o.Geometry.Len()
			}
		}
	}
	for _, b := range m.Buildings {
		s.Buildings++
		surfaces(b.BoundedBy)
		for _, r := range b.Rooms {
			s.Rooms++
			if r.Synthetic {
				s.SyntheticRooms++
			}
			s.Polygons += r.Geometry.Len()
			surfaces(r.BoundedBy)
			for _, f := range r.Furniture {
				s.Furniture++
				s.Polygons += f.Geometry.Len()
			}
			for _, g := range r.Properties {
				s.GenericObjects++
				s.Polygons += g.Geometry.Len()
			}
		}
	}
	return s
}
