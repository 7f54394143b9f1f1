package citygml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CityGML 1.0 namespaces.
const (
	NamespaceCore     = "http://www.opengis.net/citygml/1.0"
	NamespaceBuilding = "http://www.opengis.net/citygml/building/1.0"
	NamespaceGeneric  = "http://www.opengis.net/citygml/generics/1.0"
	NamespaceGML      = "http://www.opengis.net/gml"
	NamespaceXAL      = "urn:oasis:names:tc:ciq:xsdschema:xAL:2.0"
)

// Encoder writes documents as CityGML 1.0 XML with LOD4 geometry.
type Encoder struct {
	w       io.Writer
	indent  string
	srsName string
}

// EncoderOption configures an Encoder.
type EncoderOption func(*Encoder)

// WithIndent sets the per-level indentation. An empty string writes the
// document on one line.
func WithIndent(indent string) EncoderOption {
	return func(e *Encoder) { e.indent = indent }
}

// WithSrsName sets the srsName of the document envelope.
func WithSrsName(name string) EncoderOption {
	return func(e *Encoder) { e.srsName = name }
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer, opts ...EncoderOption) *Encoder {
	e := &Encoder{w: w, indent: "  "}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Write encodes m. It lets an Encoder serve as the converter's output sink.
func (e *Encoder) Write(m *CityModel) error {
	return e.Encode(m)
}

// Encode writes m followed by a newline.
func (e *Encoder) Encode(m *CityModel) error {
	if m == nil {
		return fmt.Errorf("citygml: nil document")
	}
	if _, err := io.WriteString(e.w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(e.w)
	enc.Indent("", e.indent)
	if err := enc.Encode(e.document(m)); err != nil {
		return fmt.Errorf("citygml: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(e.w, "\n")
	return err
}

// ---------------------------------------------------------------------------
// Wire types
// ---------------------------------------------------------------------------

type xmlCityModel struct {
	XMLName     xml.Name           `xml:"core:CityModel"`
	XmlnsCore   string             `xml:"xmlns:core,attr"`
	XmlnsBldg   string             `xml:"xmlns:bldg,attr"`
	XmlnsGen    string             `xml:"xmlns:gen,attr"`
	XmlnsGML    string             `xml:"xmlns:gml,attr"`
	XmlnsXAL    string             `xml:"xmlns:xAL,attr"`
	Description string             `xml:"gml:description,omitempty"`
	Name        string             `xml:"gml:name,omitempty"`
	BoundedBy   *xmlBoundedBy      `xml:"gml:boundedBy,omitempty"`
	Members     []xmlCityObjMember `xml:"core:cityObjectMember"`
}

type xmlBoundedBy struct {
	Envelope xmlEnvelope `xml:"gml:Envelope"`
}

type xmlEnvelope struct {
	SrsName      string `xml:"srsName,attr,omitempty"`
	SrsDimension int    `xml:"srsDimension,attr"`
	Lower        string `xml:"gml:lowerCorner"`
	Upper        string `xml:"gml:upperCorner"`
}

type xmlCityObjMember struct {
	Building *xmlBuilding `xml:"bldg:Building"`
}

// xmlObject carries the gml:id and the properties shared by every object.
// Fields are flattened into the owning element.
type xmlObject struct {
	ID          string         `xml:"gml:id,attr,omitempty"`
	Description string         `xml:"gml:description,omitempty"`
	Name        string         `xml:"gml:name,omitempty"`
	Strings     []xmlAttribute `xml:"gen:stringAttribute"`
	Doubles     []xmlAttribute `xml:"gen:doubleAttribute"`
	Ints        []xmlAttribute `xml:"gen:intAttribute"`
}

type xmlAttribute struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"gen:value"`
}

type xmlBuilding struct {
	xmlObject
	BoundedBy []xmlBoundarySurfaceProp `xml:"bldg:boundedBy"`
	Rooms     []xmlRoomProp            `xml:"bldg:interiorRoom"`
	Address   *xmlAddressProp          `xml:"bldg:address,omitempty"`
}

type xmlRoomProp struct {
	Room xmlRoom `xml:"bldg:Room"`
}

type xmlRoom struct {
	xmlObject
	Geometry   *xmlMultiSurfaceProp     `xml:"bldg:lod4MultiSurface,omitempty"`
	BoundedBy  []xmlBoundarySurfaceProp `xml:"bldg:boundedBy"`
	Furniture  []xmlFurnitureProp       `xml:"bldg:interiorFurniture"`
	Properties []xmlGenericObject       `xml:"gen:GenericCityObject"`
}

type xmlBoundarySurfaceProp struct {
	Surface xmlBoundarySurface
}

type xmlBoundarySurface struct {
	XMLName xml.Name
	xmlObject
	Geometry *xmlMultiSurfaceProp `xml:"bldg:lod4MultiSurface,omitempty"`
	Openings []xmlOpeningProp     `xml:"bldg:opening"`
}

type xmlOpeningProp struct {
	Opening xmlOpening
}

type xmlOpening struct {
	XMLName xml.Name
	xmlObject
	Geometry *xmlMultiSurfaceProp `xml:"bldg:lod4MultiSurface,omitempty"`
}

type xmlFurnitureProp struct {
	Furniture xmlFurniture `xml:"bldg:BuildingFurniture"`
}

type xmlFurniture struct {
	xmlObject
	Geometry *xmlMultiSurfaceProp `xml:"bldg:lod4Geometry,omitempty"`
}

type xmlGenericObject struct {
	xmlObject
	Geometry *xmlMultiSurfaceProp `xml:"gen:lod4Geometry,omitempty"`
}

type xmlMultiSurfaceProp struct {
	MultiSurface xmlMultiSurface `xml:"gml:MultiSurface"`
}

type xmlMultiSurface struct {
	Members []xmlSurfaceMember `xml:"gml:surfaceMember"`
}

type xmlSurfaceMember struct {
	Polygon xmlPolygon `xml:"gml:Polygon"`
}

type xmlPolygon struct {
	Exterior xmlExterior `xml:"gml:exterior"`
}

type xmlExterior struct {
	LinearRing xmlLinearRing `xml:"gml:LinearRing"`
}

type xmlLinearRing struct {
	PosList xmlPosList `xml:"gml:posList"`
}

type xmlPosList struct {
	SrsDimension int    `xml:"srsDimension,attr"`
	Value        string `xml:",chardata"`
}

type xmlAddressProp struct {
	Address xmlAddress `xml:"core:Address"`
}

type xmlAddress struct {
	Details xmlAddressDetails `xml:"core:xalAddress>xAL:AddressDetails"`
}

type xmlAddressDetails struct {
	Country xmlCountry `xml:"xAL:Country"`
}

type xmlCountry struct {
	Name               string             `xml:"xAL:CountryName,omitempty"`
	AdministrativeArea *xmlAdministrative `xml:"xAL:AdministrativeArea,omitempty"`
	Locality           *xmlLocality       `xml:"xAL:Locality,omitempty"`
}

type xmlAdministrative struct {
	Name     string       `xml:"xAL:AdministrativeAreaName"`
	Locality *xmlLocality `xml:"xAL:Locality,omitempty"`
}

type xmlLocality struct {
	Type         string            `xml:"Type,attr,omitempty"`
	Name         string            `xml:"xAL:LocalityName,omitempty"`
	Thoroughfare []xmlThoroughfare `xml:"xAL:Thoroughfare"`
	PostBox      *xmlPostBox       `xml:"xAL:PostBox,omitempty"`
	PostalCode   *xmlPostalCode    `xml:"xAL:PostalCode,omitempty"`
}

type xmlThoroughfare struct {
	Type string `xml:"Type,attr"`
	Name string `xml:"xAL:ThoroughfareName"`
}

type xmlPostBox struct {
	Number string `xml:"xAL:PostBoxNumber"`
}

type xmlPostalCode struct {
	Number string `xml:"xAL:PostalCodeNumber"`
}

// ---------------------------------------------------------------------------
// Model to wire conversion
// ---------------------------------------------------------------------------

func (e *Encoder) document(m *CityModel) *xmlCityModel {
	doc := &xmlCityModel{
		XmlnsCore:   NamespaceCore,
		XmlnsBldg:   NamespaceBuilding,
		XmlnsGen:    NamespaceGeneric,
		XmlnsGML:    NamespaceGML,
		XmlnsXAL:    NamespaceXAL,
		Description: m.Description,
		Name:        m.Name,
	}
	if m.Envelope != nil {
		doc.BoundedBy = &xmlBoundedBy{Envelope: xmlEnvelope{
			SrsName:      e.srsName,
			SrsDimension: SrsDimension,
			Lower:        formatPositions(m.Envelope.Lower),
			Upper:        formatPositions(m.Envelope.Upper),
		}}
	}
	for _, b := range m.Buildings {
		doc.Members = append(doc.Members, xmlCityObjMember{Building: building(b)})
	}
	return doc
}

func object(o *CityObject) xmlObject {
	x := xmlObject{ID: o.ID, Description: o.Description, Name: o.Name}
	if o.GlobalID != "" {
		x.Strings = append(x.Strings, xmlAttribute{Name: "GlobalId", Value: o.GlobalID})
	}
	for _, a := range o.Attributes {
		switch v := a.Value.(type) {
		case float64:
			x.Doubles = append(x.Doubles, xmlAttribute{Name: a.Name, Value: formatFloat(v)})
		case int:
			x.Ints = append(x.Ints, xmlAttribute{Name: a.Name, Value: strconv.Itoa(v)})
		default:
			x.Strings = append(x.Strings, xmlAttribute{Name: a.Name, Value: fmt.Sprint(v)})
		}
	}
	return x
}

func building(b *Building) *xmlBuilding {
	x := &xmlBuilding{xmlObject: object(&b.CityObject)}
	x.BoundedBy = surfaces(b.BoundedBy)
	for _, r := range b.Rooms {
		x.Rooms = append(x.Rooms, xmlRoomProp{Room: room(r)})
	}
	if !b.Address.IsEmpty() {
		x.Address = &xmlAddressProp{Address: address(b.Address)}
	}
	return x
}

func room(r *Room) xmlRoom {
	x := xmlRoom{
		xmlObject: object(&r.CityObject),
		Geometry:  multiSurface(r.Geometry),
		BoundedBy: surfaces(r.BoundedBy),
	}
	for _, f := range r.Furniture {
		x.Furniture = append(x.Furniture, xmlFurnitureProp{Furniture: xmlFurniture{
			xmlObject: object(&f.CityObject),
			Geometry:  multiSurface(f.Geometry),
		}})
	}
	for _, g := range r.Properties {
		x.Properties = append(x.Properties, xmlGenericObject{
			xmlObject: object(&g.CityObject),
			Geometry:  multiSurface(g.Geometry),
		})
	}
	return x
}

func surfaces(list []*BoundarySurface) []xmlBoundarySurfaceProp {
	var out []xmlBoundarySurfaceProp
	for _, s := range list {
		xs := xmlBoundarySurface{
			XMLName:   xml.Name{Local: "bldg:" + s.Kind.String()},
			xmlObject: object(&s.CityObject),
			Geometry:  multiSurface(s.Geometry),
		}
		for _, o := range s.Openings {
			xs.Openings = append(xs.Openings, xmlOpeningProp{Opening: xmlOpening{
				XMLName:   xml.Name{Local: "bldg:" + o.Kind.String()},
				xmlObject: object(&o.CityObject),
				Geometry:  multiSurface(o.Geometry),
			}})
		}
		out = append(out, xmlBoundarySurfaceProp{Surface: xs})
	}
	return out
}

// multiSurface returns nil for empty geometry so that the property is
// omitted.
func multiSurface(ms *MultiSurface) *xmlMultiSurfaceProp {
	if ms.IsEmpty() {
		return nil
	}
	x := &xmlMultiSurfaceProp{}
	for _, p := range ms.Members {
		x.MultiSurface.Members = append(x.MultiSurface.Members, xmlSurfaceMember{
			Polygon: xmlPolygon{Exterior: xmlExterior{LinearRing: xmlLinearRing{
				PosList: xmlPosList{
					SrsDimension: SrsDimension,
					Value:        formatPositions(p.Exterior.Positions...),
				},
			}}},
		})
	}
	return x
}

func address(a *Address) xmlAddress {
	loc := &xmlLocality{Type: "Town", Name: a.Town}
	for _, line := range a.Street {
		loc.Thoroughfare = append(loc.Thoroughfare, xmlThoroughfare{Type: "Street", Name: line})
	}
	if a.PostalBox != "" {
		loc.PostBox = &xmlPostBox{Number: a.PostalBox}
	}
	if a.PostalCode != "" {
		loc.PostalCode = &xmlPostalCode{Number: a.PostalCode}
	}

	country := xmlCountry{Name: a.Country}
	if a.Region != "" {
		country.AdministrativeArea = &xmlAdministrative{Name: a.Region, Locality: loc}
	} else {
		country.Locality = loc
	}
	return xmlAddress{Details: xmlAddressDetails{Country: country}}
}

func formatPositions(ps ...Position) string {
	var sb strings.Builder
	for i, p := range ps {
		for j, v := range p {
			if i > 0 || j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(formatFloat(v))
		}
	}
	return sb.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
