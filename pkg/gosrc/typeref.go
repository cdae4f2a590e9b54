package gosrc

import (
	"go/ast"
	"strings"
)

// RefKind identifies the modeled category of a Go field type.
type RefKind int

const (
	RefOpaque RefKind = iota // type text we do not model; carried verbatim
	RefBool
	RefInt
	RefFloat
	RefString
	RefSlice
	RefMap
	RefAny
	RefNamed // reference to another definition by name
)

// TypeRef is the parsed form of a field type. It mirrors the schema
// vocabulary (scalars, slice, map) plus a reference-by-name case, and keeps
// the exact source text so unmodified fields re-emit byte-identically.
type TypeRef struct {
	Kind    RefKind
	Pointer bool
	Elem    *TypeRef // slice element or map value
	Name    string   // RefNamed: the referenced type's name
	Raw     string   // exact source text including any leading *
}

// String renders the Go type text. Parsed refs return their original text;
// synthetic refs are built from parts.
func (r TypeRef) String() string {
	if r.Raw != "" {
		return r.Raw
	}
	var b strings.Builder
	if r.Pointer {
		b.WriteByte('*')
	}
	switch r.Kind {
	case RefBool:
		b.WriteString("bool")
	case RefInt:
		b.WriteString("int64")
	case RefFloat:
		b.WriteString("float64")
	case RefString:
		b.WriteString("string")
	case RefSlice:
		b.WriteString("[]")
		if r.Elem != nil {
			b.WriteString(r.Elem.String())
		} else {
			b.WriteString("any")
		}
	case RefMap:
		b.WriteString("map[string]")
		if r.Elem != nil {
			b.WriteString(r.Elem.String())
		} else {
			b.WriteString("any")
		}
	case RefNamed:
		b.WriteString(r.Name)
	default:
		b.WriteString("any")
	}
	return b.String()
}

// Base returns the ref with pointer-ness and source text stripped, for
// type compatibility checks.
func (r TypeRef) Base() TypeRef {
	out := r
	out.Pointer = false
	out.Raw = ""
	return out
}

// parseTypeExpr classifies an ast type expression. raw is the exact source
// text of the expression.
func parseTypeExpr(expr ast.Expr, raw string) TypeRef {
	ref := TypeRef{Kind: RefOpaque, Raw: raw}

	switch t := expr.(type) {
	case *ast.StarExpr:
		inner := parseTypeExpr(t.X, strings.TrimPrefix(raw, "*"))
		inner.Pointer = true
		inner.Raw = raw
		return inner

	case *ast.Ident:
		switch t.Name {
		case "bool":
			ref.Kind = RefBool
		case "int", "int8", "int16", "int32", "int64",
			"uint", "uint8", "uint16", "uint32", "uint64":
			ref.Kind = RefInt
		case "float32", "float64":
			ref.Kind = RefFloat
		case "string":
			ref.Kind = RefString
		case "any":
			ref.Kind = RefAny
		case "byte", "rune", "complex64", "complex128", "uintptr", "error":
			ref.Kind = RefOpaque
		default:
			ref.Kind = RefNamed
			ref.Name = t.Name
		}

	case *ast.ArrayType:
		if t.Len != nil {
			return ref // fixed-size arrays stay opaque
		}
		elemRaw := strings.TrimPrefix(raw, "[]")
		elem := parseTypeExpr(t.Elt, elemRaw)
		ref.Kind = RefSlice
		ref.Elem = &elem

	case *ast.MapType:
		key, ok := t.Key.(*ast.Ident)
		if !ok || key.Name != "string" {
			return ref
		}
		idx := strings.Index(raw, "]")
		elemRaw := ""
		if idx >= 0 && idx+1 < len(raw) {
			elemRaw = raw[idx+1:]
		}
		elem := parseTypeExpr(t.Value, elemRaw)
		ref.Kind = RefMap
		ref.Elem = &elem

	case *ast.InterfaceType:
		if t.Methods == nil || len(t.Methods.List) == 0 {
			ref.Kind = RefAny
		}

	case *ast.SelectorExpr:
		// Qualified types (time.Time, json.RawMessage) are out of the
		// modeled vocabulary; preserved but never widened.
	}

	return ref
}
