// Package export turns an inferred structural schema into a JSON Schema
// document and validates historical payloads against it, so a widened
// type can be shown to still accept everything it accepted before.
package export

import (
	"github.com/invopop/jsonschema"

	"github.com/usestring/json2go/pkg/schema"
)

// ToJSONSchema converts a structural schema into a JSON Schema document.
// Field order follows the structural schema; required lists the fields
// observed in every sample.
func ToJSONSchema(s *schema.Schema, title string) *jsonschema.Schema {
	out := convert(s)
	out.Title = title
	out.Version = "https://json-schema.org/draft/2020-12/schema"
	return out
}

func convert(s *schema.Schema) *jsonschema.Schema {
	if s == nil {
		return &jsonschema.Schema{}
	}

	var out *jsonschema.Schema
	switch s.Kind {
	case schema.KindNull:
		return &jsonschema.Schema{Type: "null"}
	case schema.KindBool:
		out = &jsonschema.Schema{Type: "boolean"}
	case schema.KindInt:
		out = &jsonschema.Schema{Type: "integer"}
	case schema.KindFloat:
		out = &jsonschema.Schema{Type: "number"}
	case schema.KindString:
		out = &jsonschema.Schema{Type: "string"}
	case schema.KindArray:
		out = &jsonschema.Schema{Type: "array"}
		if s.Elem != nil {
			out.Items = convert(s.Elem)
		}
	case schema.KindObject:
		out = &jsonschema.Schema{
			Type:       "object",
			Properties: jsonschema.NewProperties(),
		}
		for _, f := range s.Fields {
			out.Properties.Set(f.Name, convert(f.Schema))
			if !f.Optional && !f.Schema.Nullable {
				out.Required = append(out.Required, f.Name)
			}
		}
	case schema.KindConflict:
		// Divergent shapes stay representable as alternatives.
		out = &jsonschema.Schema{
			AnyOf: []*jsonschema.Schema{convert(s.A), convert(s.B)},
		}
	default:
		out = &jsonschema.Schema{}
	}

	if s.Nullable {
		return &jsonschema.Schema{
			AnyOf: []*jsonschema.Schema{out, {Type: "null"}},
		}
	}
	return out
}
