// Package exchange writes the minimal sub-model the geometry engine needs
// to tessellate one element. The format is a small s-expression language
// evaluated by pkg/engine:
//
//	; bim2city exchange 1
//	(instance "IFCWALL" "wall-1"
//	  (placement :at (vec3 0 0 0) :rotation (vec3 0 0 90))
//	  (box 4000 200 3000)
//	  (cylinder 3000 150)
//	  (extrusion 200 (point 0 0) (point 4000 0) (point 4000 3000))
//	  (void (placement :at (vec3 1000 0 0)) (box 900 200 2100)))
//
// Items of one instance are unioned, placed, and then every void is
// subtracted in model coordinates.
package exchange

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/chazu/bim2city/pkg/bim"
)

// Version is written in the header comment of every sub-model.
const Version = 1

// Voids returns the elements whose shapes are cut out of el by the engine:
// the opening elements of a wall that carry a shape.
func Voids(m *bim.Model, el *bim.Element) []*bim.Element {
	if m == nil || el.Kind != bim.KindWall {
		return nil
	}
	var voids []*bim.Element
	for _, o := range m.Openings(el) {
		if !o.Shape.IsEmpty() {
			voids = append(voids, o)
		}
	}
	return voids
}

// Marshal returns the sub-model for el.
func Marshal(m *bim.Model, el *bim.Element) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, m, el); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes the sub-model for el to w. m may be nil when el has no
// relationships to follow.
func Encode(w io.Writer, m *bim.Model, el *bim.Element) error {
	if el == nil {
		return fmt.Errorf("exchange: nil element")
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "; bim2city exchange %d\n", Version)
	fmt.Fprintf(bw, "(instance %s %s", strconv.Quote(el.Kind.EntityName()), strconv.Quote(string(el.ID)))
	if el.Shape != nil {
		writeShape(bw, el.Shape, "\n  ")
	}
	for _, v := range Voids(m, el) {
		bw.WriteString("\n  (void")
		writeShape(bw, v.Shape, "\n    ")
		bw.WriteString(")")
	}
	bw.WriteString(")\n")
	return bw.Flush()
}

func writeShape(w *bufio.Writer, s *bim.Shape, indent string) {
	p := s.Placement
	if !p.Location.IsZero() || !p.Rotation.IsZero() {
		w.WriteString(indent)
		w.WriteString("(placement")
		if !p.Location.IsZero() {
			w.WriteString(" :at ")
			writeVec3(w, p.Location)
		}
		if !p.Rotation.IsZero() {
			w.WriteString(" :rotation ")
			writeVec3(w, p.Rotation)
		}
		w.WriteString(")")
	}
	for _, item := range s.Items {
		w.WriteString(indent)
		switch it := item.(type) {
		case bim.BoxItem:
			fmt.Fprintf(w, "(box %s %s %s)", num(it.Size.X), num(it.Size.Y), num(it.Size.Z))
		case bim.CylinderItem:
			fmt.Fprintf(w, "(cylinder %s %s)", num(it.Height), num(it.Radius))
		case bim.ExtrusionItem:
			fmt.Fprintf(w, "(extrusion %s", num(it.Depth))
			for _, pt := range it.Profile {
				fmt.Fprintf(w, " (point %s %s)", num(pt.X), num(pt.Y))
			}
			w.WriteString(")")
		}
	}
}

func writeVec3(w *bufio.Writer, v bim.Vec3) {
	fmt.Fprintf(w, "(vec3 %s %s %s)", num(v.X), num(v.Y), num(v.Z))
}

// num formats a float without exponent so the engine reader sees a plain
// integer or decimal literal. Integral values outside the int64 range get
// a ".0" suffix, since the reader would fail to parse them as integers.
func num(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if s == "-0" {
		return "0"
	}
	if math.Abs(f) >= 1<<63 && !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
