package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/bim2city/pkg/kernel"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites exchange-format text for zygomys:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal), so
//     keywords need no registered symbols.
//  2. Comment conversion: ; line comments become // comments.
//
// Both transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) && isLetter(b[i+1]) {
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			result = append(result, '"')
			result = append(result, kwPrefix...)
			result = append(result, b[i+1:j]...)
			result = append(result, '"')
			i = j
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values between builtins
// ---------------------------------------------------------------------------

type sexpVec3 struct {
	vec [3]float64
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec[0], v.vec[1], v.vec[2])
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

type sexpPoint struct {
	pt kernel.Point2
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(point %g %g)", p.pt.X, p.pt.Y)
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

type sexpPlacement struct {
	p placement
}

func (p *sexpPlacement) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(placement :at %v :rotation %v)", p.p.at, p.p.rotation)
}
func (p *sexpPlacement) Type() *zygo.RegisteredType { return nil }

type sexpPrimitive struct {
	prim primitive
}

func (p *sexpPrimitive) SexpString(ps *zygo.PrintState) string {
	return "(" + p.prim.kind.String() + " ...)"
}
func (p *sexpPrimitive) Type() *zygo.RegisteredType { return nil }

type sexpVoid struct {
	body body
}

func (v *sexpVoid) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(void %d items)", len(v.body.prims))
}
func (v *sexpVoid) Type() *zygo.RegisteredType { return nil }

type sexpInstanceRef struct {
	inst *Instance
}

func (r *sexpInstanceRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(instance %q %q)", r.inst.TypeName, r.inst.ID)
}
func (r *sexpInstanceRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toFloats(args []zygo.Sexp, names ...string) ([]float64, error) {
	if len(args) != len(names) {
		return nil, fmt.Errorf("requires exactly %d arguments, got %d", len(names), len(args))
	}
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", names[i], err)
		}
		out[i] = f
	}
	return out, nil
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) ([3]float64, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return [3]float64{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toBody collects the placement and primitives of an instance or void
// argument list. Other values are returned for the caller to handle.
func toBody(args []zygo.Sexp) (body, []zygo.Sexp, error) {
	var b body
	var rest []zygo.Sexp
	placed := false
	for _, a := range args {
		switch v := a.(type) {
		case *sexpPlacement:
			if placed {
				return b, nil, fmt.Errorf("more than one placement")
			}
			b.placement = v.p
			placed = true
		case *sexpPrimitive:
			b.prims = append(b.prims, v.prim)
		default:
			rest = append(rest, a)
		}
	}
	return b, rest, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// reader accumulates the instances declared while a sub-model runs.
type reader struct {
	instances []*Instance
	ids       map[string]bool
}

// registerBuiltins installs the exchange-format builtins into env.
// Source must be preprocessed with preprocessSource first.
func registerBuiltins(env *zygo.Zlisp, r *reader) {

	// (vec3 1 2 3)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		f, err := toFloats(args, "x", "y", "z")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: %w", err)
		}
		return &sexpVec3{vec: [3]float64{f[0], f[1], f[2]}}, nil
	})

	// (point 1 2)
	env.AddFunction("point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		f, err := toFloats(args, "x", "y")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("point: %w", err)
		}
		return &sexpPoint{pt: kernel.Point2{X: f[0], Y: f[1]}}, nil
	})

	// (placement :at (vec3 ...) :rotation (vec3 ...))
	env.AddFunction("placement", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("placement: unexpected positional argument %s", pa.positional[0].SexpString(nil))
		}
		var p placement
		for kw, v := range pa.kw {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("placement: %s: %w", kw, err)
			}
			switch kw {
			case "at":
				p.at = vec
			case "rotation":
				p.rotation = vec
			default:
				return zygo.SexpNull, fmt.Errorf("placement: unknown keyword :%s", kw)
			}
		}
		return &sexpPlacement{p: p}, nil
	})

	// (box x y z)
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		f, err := toFloats(args, "x", "y", "z")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		return &sexpPrimitive{prim: primitive{kind: primBox, size: [3]float64{f[0], f[1], f[2]}}}, nil
	})

	// (cylinder height radius)
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		f, err := toFloats(args, "height", "radius")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		return &sexpPrimitive{prim: primitive{kind: primCylinder, height: f[0], radius: f[1]}}, nil
	})

	// (extrusion depth (point x y) (point x y) (point x y) ...)
	env.AddFunction("extrusion", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 4 {
			return zygo.SexpNull, fmt.Errorf("extrusion requires a depth and at least 3 points")
		}
		depth, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("extrusion: depth: %w", err)
		}
		prim := primitive{kind: primExtrusion, depth: depth}
		for i, a := range args[1:] {
			p, ok := a.(*sexpPoint)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("extrusion: point %d: expected point, got %T", i, a)
			}
			prim.profile = append(prim.profile, p.pt)
		}
		return &sexpPrimitive{prim: prim}, nil
	})

	// (void (placement ...) (box ...) ...)
	env.AddFunction("void", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		b, rest, err := toBody(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("void: %w", err)
		}
		if len(rest) > 0 {
			return zygo.SexpNull, fmt.Errorf("void: unexpected argument %s", rest[0].SexpString(nil))
		}
		return &sexpVoid{body: b}, nil
	})

	// (instance "IFCWALL" "id" (placement ...) (box ...) (void ...) ...)
	env.AddFunction("instance", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("instance requires a type name and an id")
		}
		typeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("instance: type: %w", err)
		}
		id, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("instance: id: %w", err)
		}
		if typeName == "" || id == "" {
			return zygo.SexpNull, fmt.Errorf("instance: type name and id must not be empty")
		}
		if r.ids[id] {
			return zygo.SexpNull, fmt.Errorf("instance: duplicate id %q", id)
		}

		b, rest, err := toBody(args[2:])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("instance %s: %w", id, err)
		}
		inst := &Instance{TypeName: typeName, ID: id, body: b}
		for _, a := range rest {
			v, ok := a.(*sexpVoid)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("instance %s: unexpected argument %s", id, a.SexpString(nil))
			}
			inst.voids = append(inst.voids, v.body)
		}

		r.ids[id] = true
		r.instances = append(r.instances, inst)
		return &sexpInstanceRef{inst: inst}, nil
	})
}
