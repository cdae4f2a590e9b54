// Package filter applies a JQ expression to sampled JSON before
// inference, so callers can carve the interesting subtree out of an
// envelope (pagination wrappers, data fields, response metadata).
package filter

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/itchyny/gojq"
)

// Apply runs a jq expression over one JSON document and re-encodes the
// result. A single output becomes the new document; multiple outputs
// collect into an array. Re-encoding goes through Go maps, so field
// order downstream is alphabetical rather than as-sampled.
func Apply(expression string, data []byte) ([]byte, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}

	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("invalid JSON data: %w", err)
	}

	var outputs []any
	iter := code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("jq execution: %w", err)
		}
		outputs = append(outputs, v)
	}

	switch len(outputs) {
	case 0:
		return nil, fmt.Errorf("expression %q produced no output", expression)
	case 1:
		return json.Marshal(outputs[0])
	default:
		return json.Marshal(outputs)
	}
}

// Validate checks a JQ expression without executing it.
func Validate(expression string) error {
	query, err := gojq.Parse(expression)
	if err != nil {
		return fmt.Errorf("invalid jq expression: %w", err)
	}
	if _, err := gojq.Compile(query); err != nil {
		return fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return nil
}
