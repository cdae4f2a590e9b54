// Package schema provides the in-memory model for inferred JSON shapes and
// the merge lattice that unions shapes across samples.
//
// A Schema is a closed tagged variant: scalars, a homogeneous array, an
// ordered object, or a conflict marker for shapes that cannot be unified.
// Schemas are immutable once built; Merge always allocates a new value.
package schema

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of a Schema.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
	KindConflict
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindConflict:
		return "conflict"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Schema is the inferred structural shape of a JSON value.
type Schema struct {
	Kind Kind

	// Nullable records that a null was observed alongside this shape.
	// It propagates into field optionality when the schema is materialized
	// into a type definition.
	Nullable bool

	// Elem is the element shape for KindArray. A nil Elem means the array
	// was only ever observed empty.
	Elem *Schema

	// Fields holds the ordered field set for KindObject. Order is
	// first-seen across all merged samples.
	Fields []Field

	// A and B are the two irreconcilable shapes for KindConflict.
	A, B *Schema
}

// Field pairs a field name with its shape and optionality.
type Field struct {
	Name     string
	Schema   *Schema
	Optional bool
}

// FieldByName returns the field with the given name, or nil.
func (s *Schema) FieldByName(name string) *Field {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// IsScalar reports whether the schema is a scalar (null, bool, int, float, string).
func (s *Schema) IsScalar() bool {
	switch s.Kind {
	case KindNull, KindBool, KindInt, KindFloat, KindString:
		return true
	}
	return false
}

// Equal reports structural equality, including field order and optionality.
func (s *Schema) Equal(o *Schema) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.Kind != o.Kind || s.Nullable != o.Nullable {
		return false
	}
	switch s.Kind {
	case KindArray:
		return s.Elem.Equal(o.Elem) || (s.Elem == nil && o.Elem == nil)
	case KindObject:
		if len(s.Fields) != len(o.Fields) {
			return false
		}
		for i := range s.Fields {
			a, b := s.Fields[i], o.Fields[i]
			if a.Name != b.Name || a.Optional != b.Optional || !a.Schema.Equal(b.Schema) {
				return false
			}
		}
		return true
	case KindConflict:
		return s.A.Equal(o.A) && s.B.Equal(o.B)
	default:
		return true
	}
}

// String renders a compact debug form, e.g. {id:int, tags:[string]?}.
func (s *Schema) String() string {
	if s == nil {
		return "<nil>"
	}
	var b strings.Builder
	s.writeTo(&b)
	return b.String()
}

func (s *Schema) writeTo(b *strings.Builder) {
	switch s.Kind {
	case KindArray:
		b.WriteByte('[')
		if s.Elem != nil {
			s.Elem.writeTo(b)
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		for i, f := range s.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteByte(':')
			f.Schema.writeTo(b)
			if f.Optional {
				b.WriteByte('?')
			}
		}
		b.WriteByte('}')
	case KindConflict:
		b.WriteString("conflict(")
		s.A.writeTo(b)
		b.WriteByte('|')
		s.B.writeTo(b)
		b.WriteByte(')')
	default:
		b.WriteString(s.Kind.String())
	}
	if s.Nullable {
		b.WriteString("|null")
	}
}
