package export

import (
	"encoding/json"
	"fmt"

	validator "github.com/santhosh-tekuri/jsonschema/v6"

	invopop "github.com/invopop/jsonschema"
)

// CompatResult reports a backward-compatibility check of historical
// payloads against an exported schema.
type CompatResult struct {
	Checked  int      `json:"checked"`
	Valid    int      `json:"valid"`
	Failures []string `json:"failures,omitempty"`
}

// Compatible reports whether every payload validated.
func (r *CompatResult) Compatible() bool {
	return len(r.Failures) == 0
}

// CheckCompat validates each payload against the schema document. A
// widened type is backward compatible when every payload that matched
// the old shape still validates against the new one.
func CheckCompat(doc *invopop.Schema, payloads [][]byte) (*CompatResult, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	var schemaValue any
	if err := json.Unmarshal(raw, &schemaValue); err != nil {
		return nil, fmt.Errorf("unmarshaling schema: %w", err)
	}
	return CheckCompatValue(schemaValue, payloads)
}

// CheckCompatValue validates payloads against an already-decoded JSON
// Schema document.
func CheckCompatValue(schemaValue any, payloads [][]byte) (*CompatResult, error) {
	compiler := validator.NewCompiler()
	if err := compiler.AddResource("schema.json", schemaValue); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}

	result := &CompatResult{Checked: len(payloads)}
	for i, payload := range payloads {
		var value any
		if err := json.Unmarshal(payload, &value); err != nil {
			result.Failures = append(result.Failures, fmt.Sprintf("payload[%d]: invalid JSON: %v", i, err))
			continue
		}
		if err := compiled.Validate(value); err != nil {
			result.Failures = append(result.Failures, fmt.Sprintf("payload[%d]: %v", i, err))
			continue
		}
		result.Valid++
	}
	return result, nil
}
