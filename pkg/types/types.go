// Package types provides shared types for json2go.
// These types are used across multiple packages and are designed for external consumption.
package types

import "encoding/json"

// ToAny round-trips a typed value through JSON to produce an untyped any.
// Use this when a tool output field must be any (instead of json.RawMessage)
// to satisfy the MCP SDK's schema validation.
func ToAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FieldConflict reports a field whose observed type could not be unified
// with the declared one and degraded to a string fallback.
type FieldConflict struct {
	Type     string `json:"type"`
	Field    string `json:"field"`
	Existing string `json:"existing,omitempty"`
	Inferred string `json:"inferred"`
}

// GenerateResult is the output of the generate tool: evolved Go source
// plus a summary of what changed.
type GenerateResult struct {
	Source        string          `json:"source"`
	RootType      string          `json:"root_type"`
	NewTypes      []string        `json:"new_types,omitzero"`
	ModifiedTypes []string        `json:"modified_types,omitzero"`
	Conflicts     []FieldConflict `json:"conflicts,omitzero"`
	SampleCount   int             `json:"sample_count"`
}

// SchemaResult is the output of the infer tool: a JSON Schema document
// with per-field presence statistics across the sampled payloads.
type SchemaResult struct {
	Schema        any            `json:"schema"`
	SampleCount   int            `json:"sample_count"`
	FieldPresence map[string]int `json:"field_presence,omitzero"`
}

// CompatReport is the output of the compatibility check tool.
type CompatReport struct {
	Compatible bool     `json:"compatible"`
	Checked    int      `json:"checked"`
	Valid      int      `json:"valid"`
	Failures   []string `json:"failures,omitzero"`
}
