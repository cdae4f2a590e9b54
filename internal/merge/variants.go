package merge

import (
	"fmt"

	"github.com/usestring/json2go/pkg/gosrc"
	"github.com/usestring/json2go/pkg/schema"
)

// variants turns target into a sum type: the current shape becomes one
// variant and the inferred shape another. When target is already a union
// wrapper, a matching variant keeps it unchanged and a novel shape adds
// one more variant.
func (e *Engine) variants(target *gosrc.Definition, obj *schema.Schema) (*gosrc.Definition, bool, error) {
	if target.IsUnion() {
		return e.extendUnion(target, obj)
	}

	v1Name, err := e.names.claim(target.Name + "V1")
	if err != nil {
		return nil, false, err
	}
	v2Name, err := e.names.claim(target.Name + "V2")
	if err != nil {
		return nil, false, err
	}

	v1 := &gosrc.Definition{Name: v1Name, Fields: detachFields(target.Fields)}
	v2Fields, err := e.buildFields(obj, v2Name, false)
	if err != nil {
		return nil, false, err
	}
	v2 := &gosrc.Definition{Name: v2Name, Fields: v2Fields}
	e.plan.NewTypes = append(e.plan.NewTypes, v1, v2)

	wrapper := unionWrapper(target.Name, []gosrc.Variant{
		{Name: "V1", TypeName: v1Name},
		{Name: "V2", TypeName: v2Name},
	})
	return wrapper, true, nil
}

// extendUnion adds one variant for a shape no current variant covers.
func (e *Engine) extendUnion(target *gosrc.Definition, obj *schema.Schema) (*gosrc.Definition, bool, error) {
	for _, v := range target.Variants {
		for _, d := range e.defs {
			if d.Name == v.TypeName && sameFieldSet(d, obj) {
				// Shape already representable; merge any type drift into
				// the covering variant and keep the wrapper untouched.
				return nil, false, e.planInto(d, obj, 1)
			}
		}
	}

	n := len(target.Variants) + 1
	vtName, err := e.names.claim(fmt.Sprintf("%sV%d", target.Name, n))
	if err != nil {
		return nil, false, err
	}
	fields, err := e.buildFields(obj, vtName, false)
	if err != nil {
		return nil, false, err
	}
	e.plan.NewTypes = append(e.plan.NewTypes, &gosrc.Definition{Name: vtName, Fields: fields})

	variants := make([]gosrc.Variant, len(target.Variants), n)
	copy(variants, target.Variants)
	variants = append(variants, gosrc.Variant{Name: fmt.Sprintf("V%d", n), TypeName: vtName})
	return unionWrapper(target.Name, variants), true, nil
}

// unionWrapper builds the wrapper definition holding one pointer field
// per variant, all hidden from plain JSON encoding.
func unionWrapper(name string, variants []gosrc.Variant) *gosrc.Definition {
	def := &gosrc.Definition{Name: name, Variants: variants}
	for _, v := range variants {
		def.Fields = append(def.Fields, gosrc.Field{
			GoName: v.Name,
			Type:   gosrc.TypeRef{Kind: gosrc.RefNamed, Name: v.TypeName, Pointer: true},
			Tag:    "`json:\"-\"`",
			Skip:   true,
		})
	}
	return def
}

// sameFieldSet reports whether a variant definition covers exactly the
// inferred object's wire names.
func sameFieldSet(d *gosrc.Definition, obj *schema.Schema) bool {
	names := d.JSONNames()
	if len(names) != len(obj.Fields) {
		return false
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	for _, f := range obj.Fields {
		if !set[f.Name] {
			return false
		}
	}
	return true
}

// detachFields copies fields out of their source spans so they render
// fresh inside a newly minted type.
func detachFields(fields []gosrc.Field) []gosrc.Field {
	out := make([]gosrc.Field, len(fields))
	copy(out, fields)
	for i := range out {
		out[i].Src = ""
	}
	return out
}
