package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// InferBytes infers a schema from raw JSON. Key order in objects is
// preserved as it appears in the input. Numbers without a fractional or
// exponent part infer as KindInt, everything else as KindFloat.
//
// A root-level array is wrapped in a synthetic object {items: [elem]} so
// that downstream naming always starts from an object shape.
func InferBytes(data []byte) (*Schema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	s, err := inferNext(dec)
	if err != nil {
		return nil, err
	}

	// Reject trailing garbage after the first value.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON value")
	}

	if s.Kind == KindArray {
		s = &Schema{Kind: KindObject, Fields: []Field{{Name: "items", Schema: s}}}
	}
	return s, nil
}

// InferValue infers a schema from an already-decoded JSON value
// (the encoding/json vocabulary: nil, bool, float64, json.Number, string,
// []any, map[string]any). Object keys are visited in sorted order since Go
// maps carry no insertion order.
func InferValue(v any) *Schema {
	switch val := v.(type) {
	case nil:
		return &Schema{Kind: KindNull, Nullable: true}
	case bool:
		return &Schema{Kind: KindBool}
	case json.Number:
		return numberSchema(val.String())
	case float64:
		if val == float64(int64(val)) {
			return &Schema{Kind: KindInt}
		}
		return &Schema{Kind: KindFloat}
	case int:
		return &Schema{Kind: KindInt}
	case int64:
		return &Schema{Kind: KindInt}
	case string:
		return &Schema{Kind: KindString}
	case []any:
		var elem *Schema
		for _, item := range val {
			elem = Merge(elem, InferValue(item))
		}
		return &Schema{Kind: KindArray, Elem: elem}
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, 0, len(keys))
		for _, k := range keys {
			fs := InferValue(val[k])
			fields = append(fields, Field{Name: k, Schema: fs, Optional: fs.Kind == KindNull})
		}
		return &Schema{Kind: KindObject, Fields: fields}
	default:
		// Unknown dynamic type; treat as a string so the result stays total.
		return &Schema{Kind: KindString}
	}
}

// inferNext reads one JSON value from the decoder and infers its schema.
func inferNext(dec *json.Decoder) (*Schema, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return inferToken(dec, tok)
}

func inferToken(dec *json.Decoder, tok json.Token) (*Schema, error) {
	switch t := tok.(type) {
	case nil:
		return &Schema{Kind: KindNull, Nullable: true}, nil
	case bool:
		return &Schema{Kind: KindBool}, nil
	case string:
		return &Schema{Kind: KindString}, nil
	case json.Number:
		return numberSchema(t.String()), nil
	case json.Delim:
		switch t {
		case '[':
			var elem *Schema
			for dec.More() {
				s, err := inferNext(dec)
				if err != nil {
					return nil, err
				}
				elem = Merge(elem, s)
			}
			if _, err := dec.Token(); err != nil { // closing ]
				return nil, err
			}
			return &Schema{Kind: KindArray, Elem: elem}, nil
		case '{':
			var fields []Field
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				fs, err := inferNext(dec)
				if err != nil {
					return nil, err
				}
				fields = append(fields, Field{Name: key, Schema: fs, Optional: fs.Kind == KindNull})
			}
			if _, err := dec.Token(); err != nil { // closing }
				return nil, err
			}
			return &Schema{Kind: KindObject, Fields: fields}, nil
		}
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

func numberSchema(lit string) *Schema {
	if strings.ContainsAny(lit, ".eE") {
		return &Schema{Kind: KindFloat}
	}
	return &Schema{Kind: KindInt}
}
