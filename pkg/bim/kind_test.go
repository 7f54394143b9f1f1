package bim

import "testing"

func TestKindNamesComplete(t *testing.T) {
	for _, k := range AllKinds() {
		if _, ok := kindNames[k]; !ok {
			t.Errorf("kind %d has no name", int(k))
		}
		if _, ok := entityNames[k]; !ok {
			t.Errorf("kind %s has no entity name", k)
		}
	}
	if len(AllKinds()) != len(kindNames) {
		t.Errorf("AllKinds() has %d kinds, kindNames has %d", len(AllKinds()), len(kindNames))
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input string
		want  ElementKind
	}{
		{"wall", KindWall},
		{"Wall", KindWall},
		{"IFCWALL", KindWall},
		{"IfcWallStandardCase", KindWall},
		{"flow-terminal", KindFlowTerminal},
		{"IFCFURNISHINGELEMENT", KindFurnishing},
		{"storey", KindStorey},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if err != nil {
				t.Fatalf("ParseKind(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}

	if _, err := ParseKind("spaceship"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestParseSlabType(t *testing.T) {
	tests := []struct {
		input string
		want  SlabType
	}{
		{"", SlabNotDefined},
		{"NULL", SlabNotDefined},
		{"NOTDEFINED", SlabNotDefined},
		{"FLOOR", SlabFloor},
		{"roof", SlabRoof},
		{"BASESLAB", SlabBaseSlab},
		{"base_slab", SlabBaseSlab},
		{"LANDING", SlabLanding},
		{"USERDEFINED", SlabUserDefined},
	}
	for _, tt := range tests {
		got, err := ParseSlabType(tt.input)
		if err != nil {
			t.Fatalf("ParseSlabType(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseSlabType(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
	if _, err := ParseSlabType("ceiling"); err == nil {
		t.Error("expected error for unknown slab type")
	}
}

func TestParseBoundaryType(t *testing.T) {
	for input, want := range map[string]BoundaryType{
		"":         BoundaryNotDefined,
		"INTERNAL": BoundaryInternal,
		"external": BoundaryExternal,
	} {
		got, err := ParseBoundaryType(input)
		if err != nil {
			t.Fatalf("ParseBoundaryType(%q) error = %v", input, err)
		}
		if got != want {
			t.Errorf("ParseBoundaryType(%q) = %s, want %s", input, got, want)
		}
	}
	if _, err := ParseBoundaryType("sideways"); err == nil {
		t.Error("expected error for unknown boundary type")
	}
}

func TestEntityNameFallsBackToGeneric(t *testing.T) {
	if got := ElementKind(99).EntityName(); got != "IFCBUILDINGELEMENT" {
		t.Errorf("EntityName() = %q, want IFCBUILDINGELEMENT", got)
	}
	if got := ElementKind(99).String(); got != "ElementKind(99)" {
		t.Errorf("String() = %q", got)
	}
}
