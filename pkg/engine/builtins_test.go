package engine

import (
	"reflect"
	"testing"

	"github.com/chazu/bim2city/pkg/kernel"
)

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(placement :at (vec3 1 2 3))`,
			expect: `(placement "__kw_at" (vec3 1 2 3))`,
		},
		{
			name:   "multiple keywords",
			input:  `(placement :at a :rotation b)`,
			expect: `(placement "__kw_at" a "__kw_rotation" b)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `(instance "IFCWALL" "a:b")`,
			expect: `(instance "IFCWALL" "a:b")`,
		},
		{
			name:   "escaped quote in string",
			input:  `"say \":x\"" :y`,
			expect: `"say \":x\"" "__kw_y"`,
		},
		{
			name:   "negative numbers preserved",
			input:  `(vec3 -1 -2.5 0)`,
			expect: `(vec3 -1 -2.5 0)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  "; bim2city exchange 1\n(box 1 1 1)",
			expect: "// bim2city exchange 1\n(box 1 1 1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestParseReadsPrimitives(t *testing.T) {
	src := `
(instance "IFCSLAB" "s"
  (placement :at (vec3 1 2 3) :rotation (vec3 0 0 90))
  (box 4 5 6)
  (cylinder 3 0.5)
  (extrusion 2 (point 0 0) (point 1 0) (point 1 1)))
`
	insts, err := parse(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(insts) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(insts))
	}
	b := insts[0].body
	if b.placement.at != [3]float64{1, 2, 3} || b.placement.rotation != [3]float64{0, 0, 90} {
		t.Errorf("unexpected placement %+v", b.placement)
	}
	want := []primitive{
		{kind: primBox, size: [3]float64{4, 5, 6}},
		{kind: primCylinder, height: 3, radius: 0.5},
		{kind: primExtrusion, depth: 2, profile: []kernel.Point2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}},
	}
	if !reflect.DeepEqual(b.prims, want) {
		t.Errorf("prims = %+v, want %+v", b.prims, want)
	}
}

func TestInstanceSolidOperations(t *testing.T) {
	k := &stubKernel{}
	src := `
(instance "IFCWALL" "w"
  (placement :at (vec3 10 0 0) :rotation (vec3 0 0 90))
  (box 4 1 3)
  (box 1 1 1)
  (void (box 1 1 2))
  (void))
`
	insts, err := parse(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	s, err := insts[0].solid(k)
	if err != nil {
		t.Fatalf("solid failed: %v", err)
	}
	got := s.(*stubSolid).ops
	want := []string{"box", "union", "rotate", "translate", "difference"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ops = %v, want %v", got, want)
	}
}

func TestInstanceWithoutItemsHasNoSolid(t *testing.T) {
	insts, err := parse(`(instance "IFCWALL" "w" (void (box 1 1 1)))`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	s, err := insts[0].solid(&stubKernel{})
	if err != nil || s != nil {
		t.Errorf("expected no solid, got %v, %v", s, err)
	}
}
