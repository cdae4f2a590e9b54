package merge

import (
	"fmt"
	"strings"

	"github.com/usestring/json2go/internal/match"
	"github.com/usestring/json2go/pkg/gosrc"
	"github.com/usestring/json2go/pkg/schema"
)

// widen merges obj into target keeping the union of both field sets.
// Existing fields keep their declared order; fields absent from either
// side are forced optional; inferred-only fields are appended. Returns
// changed=false when the definition already covers the shape, keeping
// repeated runs byte-stable.
func (e *Engine) widen(target *gosrc.Definition, obj *schema.Schema) (*gosrc.Definition, bool, error) {
	result := &gosrc.Definition{Name: target.Name}
	changed := false
	goNames := make(map[string]bool)

	for _, tf := range target.Fields {
		if tf.GoName != "" {
			goNames[tf.GoName] = true
		}
		if tf.Skip {
			result.Fields = append(result.Fields, tf)
			continue
		}
		sf := obj.FieldByName(tf.JSONName)
		if sf == nil {
			// Declared but unobserved: forced optional.
			nf := tf
			if !nf.Optional {
				nf.Optional = true
				nf.Type = pointerize(nf.Type)
				nf.Tag = rebuildTag(nf.Tag, nf.JSONName, true)
				nf.Src = ""
				changed = true
			}
			result.Fields = append(result.Fields, nf)
			continue
		}
		nf, fieldChanged, err := e.widenField(target.Name, tf, sf)
		if err != nil {
			return nil, false, err
		}
		changed = changed || fieldChanged
		result.Fields = append(result.Fields, nf)
	}

	for _, sf := range obj.Fields {
		if target.FieldByJSONName(sf.Name) != nil {
			continue
		}
		// Observed but undeclared: appended optional.
		nf, err := e.buildField(target.Name, &sf, true, goNames)
		if err != nil {
			return nil, false, err
		}
		result.Fields = append(result.Fields, nf)
		changed = true
	}

	return result, changed, nil
}

// widenField reconciles one field present on both sides.
func (e *Engine) widenField(defName string, tf gosrc.Field, sf *schema.Field) (gosrc.Field, bool, error) {
	nf := tf
	changed := false

	optional := tf.Optional || sf.Optional || sf.Schema.Nullable
	if optional && !tf.Optional {
		nf.Optional = true
		nf.Type = pointerize(nf.Type)
		nf.Tag = rebuildTag(nf.Tag, nf.JSONName, true)
		nf.Src = ""
		changed = true
	}

	ref, widened, conflict, err := e.reconcileType(nf.Type, sf.Schema)
	if err != nil {
		return gosrc.Field{}, false, err
	}
	if conflict {
		e.plan.Conflicts = append(e.plan.Conflicts, FieldConflict{
			Definition: defName,
			Field:      sf.Name,
			Existing:   tf.Type.String(),
			Inferred:   sf.Schema.String(),
		})
	}
	if widened {
		ref.Pointer = nf.Optional
		nf.Type = ref
		nf.Src = ""
		changed = true
	}
	return nf, changed, nil
}

// reconcileType unifies an existing field type with an inferred schema.
// widened reports that the ref changed; conflict reports the string
// fallback was taken. Nested named objects are merged recursively by
// planning into their definitions.
func (e *Engine) reconcileType(ref gosrc.TypeRef, s *schema.Schema) (_ gosrc.TypeRef, widened, conflict bool, err error) {
	base := ref.Base()
	switch base.Kind {
	case gosrc.RefOpaque, gosrc.RefAny, gosrc.RefMap:
		return ref, false, false, nil
	}

	switch s.Kind {
	case schema.KindNull:
		return ref, false, false, nil
	case schema.KindBool:
		if base.Kind == gosrc.RefBool {
			return ref, false, false, nil
		}
	case schema.KindInt:
		if base.Kind == gosrc.RefInt || base.Kind == gosrc.RefFloat {
			return ref, false, false, nil
		}
	case schema.KindFloat:
		if base.Kind == gosrc.RefFloat {
			return ref, false, false, nil
		}
		if base.Kind == gosrc.RefInt {
			return gosrc.TypeRef{Kind: gosrc.RefFloat, Pointer: ref.Pointer}, true, false, nil
		}
	case schema.KindString:
		if base.Kind == gosrc.RefString {
			return ref, false, false, nil
		}
	case schema.KindArray:
		if base.Kind != gosrc.RefSlice {
			break
		}
		if s.Elem == nil || base.Elem == nil {
			return ref, false, false, nil
		}
		if s.Elem.Kind == schema.KindObject && base.Elem.Kind == gosrc.RefNamed {
			return ref, false, false, e.mergeNamed(base.Elem.Name, s.Elem)
		}
		elem, elemWidened, elemConflict, err := e.reconcileType(*base.Elem, s.Elem)
		if err != nil {
			return gosrc.TypeRef{}, false, false, err
		}
		if !elemWidened {
			return ref, false, false, nil
		}
		out := gosrc.TypeRef{Kind: gosrc.RefSlice, Pointer: ref.Pointer, Elem: &elem}
		return out, true, elemConflict, nil
	case schema.KindObject:
		if base.Kind == gosrc.RefNamed {
			return ref, false, false, e.mergeNamed(base.Name, s)
		}
	}

	// Irreconcilable kinds degrade to string rather than failing.
	return gosrc.TypeRef{Kind: gosrc.RefString, Pointer: ref.Pointer}, true, true, nil
}

// mergeNamed merges an object schema into the definition a field type
// refers to. References to types defined outside the parsed source are
// left untouched.
func (e *Engine) mergeNamed(name string, obj *schema.Schema) error {
	for _, d := range e.defs {
		if d.Name == name {
			return e.planInto(d, obj, match.Score(obj, d))
		}
	}
	return nil
}

// buildFields renders every field of a new definition. forceOptional is
// used for variant stubs observed in only some payloads.
func (e *Engine) buildFields(obj *schema.Schema, defName string, forceOptional bool) ([]gosrc.Field, error) {
	goNames := make(map[string]bool)
	out := make([]gosrc.Field, 0, len(obj.Fields))
	for _, sf := range obj.Fields {
		f, err := e.buildField(defName, &sf, forceOptional, goNames)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// buildField renders one new field from an inferred schema field.
// goNames deduplicates Go identifiers when distinct wire names collapse
// to the same exported name.
func (e *Engine) buildField(defName string, sf *schema.Field, forceOptional bool, goNames map[string]bool) (gosrc.Field, error) {
	goName := PascalCase(sf.Name)
	for i := 2; goNames[goName]; i++ {
		goName = fmt.Sprintf("%s%d", PascalCase(sf.Name), i)
	}
	goNames[goName] = true

	ref, conflict, err := e.fieldType(sf.Schema, goName)
	if err != nil {
		return gosrc.Field{}, err
	}
	if conflict {
		e.plan.Conflicts = append(e.plan.Conflicts, FieldConflict{
			Definition: defName,
			Field:      sf.Name,
			Inferred:   sf.Schema.String(),
		})
	}

	optional := forceOptional || sf.Optional || sf.Schema.Nullable
	ref.Pointer = optional && ref.Kind != gosrc.RefAny
	return gosrc.Field{
		GoName:   goName,
		JSONName: sf.Name,
		Type:     ref,
		Optional: optional,
		Tag:      rebuildTag("", sf.Name, optional),
	}, nil
}

// fieldType maps an inferred schema to a Go type reference, minting named
// types for nested objects. nameHint seeds the name of any minted type.
func (e *Engine) fieldType(s *schema.Schema, nameHint string) (gosrc.TypeRef, bool, error) {
	switch s.Kind {
	case schema.KindBool:
		return gosrc.TypeRef{Kind: gosrc.RefBool}, false, nil
	case schema.KindInt:
		return gosrc.TypeRef{Kind: gosrc.RefInt}, false, nil
	case schema.KindFloat:
		return gosrc.TypeRef{Kind: gosrc.RefFloat}, false, nil
	case schema.KindString:
		return gosrc.TypeRef{Kind: gosrc.RefString}, false, nil
	case schema.KindNull:
		return gosrc.TypeRef{Kind: gosrc.RefAny}, false, nil
	case schema.KindArray:
		if s.Elem == nil {
			elem := gosrc.TypeRef{Kind: gosrc.RefAny}
			return gosrc.TypeRef{Kind: gosrc.RefSlice, Elem: &elem}, false, nil
		}
		elem, conflict, err := e.fieldType(s.Elem, SingularName(nameHint))
		if err != nil {
			return gosrc.TypeRef{}, false, err
		}
		return gosrc.TypeRef{Kind: gosrc.RefSlice, Elem: &elem}, conflict, nil
	case schema.KindObject:
		name, err := e.planObject(s, nameHint, false)
		if err != nil {
			return gosrc.TypeRef{}, false, err
		}
		return gosrc.TypeRef{Kind: gosrc.RefNamed, Name: name}, false, nil
	default: // KindConflict
		return gosrc.TypeRef{Kind: gosrc.RefString}, true, nil
	}
}

func pointerize(ref gosrc.TypeRef) gosrc.TypeRef {
	if ref.Pointer {
		return ref
	}
	ref.Pointer = true
	if ref.Raw != "" {
		ref.Raw = "*" + ref.Raw
	}
	return ref
}

// rebuildTag rewrites only the json segment of a raw backticked struct
// tag, keeping any other tags a hand-written struct carried.
func rebuildTag(tag, jsonName string, omitempty bool) string {
	seg := `json:"` + jsonName
	if omitempty {
		seg += `,omitempty`
	}
	seg += `"`
	if tag == "" {
		return "`" + seg + "`"
	}
	start := strings.Index(tag, `json:"`)
	if start < 0 {
		if strings.HasSuffix(tag, "`") {
			return tag[:len(tag)-1] + " " + seg + "`"
		}
		return tag + " " + seg
	}
	end := strings.Index(tag[start+len(`json:"`):], `"`)
	if end < 0 {
		return "`" + seg + "`"
	}
	end += start + len(`json:"`) + 1
	return tag[:start] + seg + tag[end:]
}
