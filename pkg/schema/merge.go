package schema

// Merge unions two schemas into one that accepts every value either side
// accepts. It is total: any pair of kinds produces a deterministic result.
//
// The lattice:
//   - null + X        -> X with Nullable set
//   - int + float     -> float
//   - X + X           -> X (objects union fields, arrays merge elements)
//   - anything else   -> KindConflict(a, b), resolved later by the merge
//     engine's strategy choice, never here
//
// Field order in merged objects follows first-seen order across the fold.
// Either argument may be nil (an absent side), in which case the other is
// returned unchanged.
func Merge(a, b *Schema) *Schema {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	nullable := a.Nullable || b.Nullable

	if a.Kind == KindNull {
		return withNullable(b, true)
	}
	if b.Kind == KindNull {
		return withNullable(a, true)
	}

	// A conflict absorbs a shape that unifies cleanly with one of its arms.
	if a.Kind == KindConflict {
		return mergeIntoConflict(a, b)
	}
	if b.Kind == KindConflict {
		return mergeIntoConflict(b, a)
	}

	switch {
	case a.Kind == b.Kind:
		switch a.Kind {
		case KindObject:
			return &Schema{Kind: KindObject, Nullable: nullable, Fields: mergeFields(a.Fields, b.Fields)}
		case KindArray:
			return &Schema{Kind: KindArray, Nullable: nullable, Elem: Merge(a.Elem, b.Elem)}
		default:
			return &Schema{Kind: a.Kind, Nullable: nullable}
		}
	case a.Kind == KindInt && b.Kind == KindFloat,
		a.Kind == KindFloat && b.Kind == KindInt:
		return &Schema{Kind: KindFloat, Nullable: nullable}
	default:
		// Cross-kind shapes (scalar vs scalar, array vs non-array, object
		// vs non-object) are recorded as a conflict needing a sum-type
		// variant rather than silently coerced.
		return &Schema{Kind: KindConflict, Nullable: nullable, A: a, B: b}
	}
}

// mergeFields unions two ordered field sets. Fields present on both sides
// merge their schemas; fields present on only one side become optional.
func mergeFields(a, b []Field) []Field {
	out := make([]Field, 0, len(a)+len(b))
	inB := make(map[string]*Field, len(b))
	for i := range b {
		inB[b[i].Name] = &b[i]
	}

	seen := make(map[string]bool, len(a))
	for _, fa := range a {
		seen[fa.Name] = true
		if fb, ok := inB[fa.Name]; ok {
			merged := Merge(fa.Schema, fb.Schema)
			out = append(out, Field{
				Name:     fa.Name,
				Schema:   merged,
				Optional: fa.Optional || fb.Optional || merged.Nullable,
			})
		} else {
			out = append(out, Field{Name: fa.Name, Schema: fa.Schema, Optional: true})
		}
	}
	for _, fb := range b {
		if !seen[fb.Name] {
			out = append(out, Field{Name: fb.Name, Schema: fb.Schema, Optional: true})
		}
	}
	return out
}

// mergeIntoConflict folds x into an existing conflict. If x unifies cleanly
// with one arm, that arm widens; otherwise the conflict stands as-is, since
// x introduces no shape the conflict does not already represent.
func mergeIntoConflict(c, x *Schema) *Schema {
	nullable := c.Nullable || x.Nullable
	if m := Merge(c.A, x); m.Kind != KindConflict {
		return &Schema{Kind: KindConflict, Nullable: nullable, A: m, B: c.B}
	}
	if m := Merge(c.B, x); m.Kind != KindConflict {
		return &Schema{Kind: KindConflict, Nullable: nullable, A: c.A, B: m}
	}
	if nullable == c.Nullable {
		return c
	}
	return &Schema{Kind: KindConflict, Nullable: nullable, A: c.A, B: c.B}
}

func withNullable(s *Schema, nullable bool) *Schema {
	if s.Nullable == nullable {
		return s
	}
	out := *s
	out.Nullable = nullable
	return &out
}
