package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/json2go/internal/filter"
	"github.com/usestring/json2go/pkg/export"
	"github.com/usestring/json2go/pkg/types"
)

// CompatInput is the input for the compatibility check tool.
type CompatInput struct {
	// Schema is a JSON Schema document to validate against. When absent,
	// a schema is inferred from Samples instead.
	Schema any `json:"schema,omitempty"`
	// Samples infer the schema when Schema is absent.
	Samples []string `json:"samples,omitempty"`
	// Payloads are the historical payloads to validate.
	Payloads []string `json:"payloads"`
	// Title names the inferred schema.
	Title string `json:"title,omitempty"`
}

// ToolCheckCompat returns a handler that validates historical payloads
// against a new or inferred schema.
func ToolCheckCompat(d *Deps) sdkmcp.ToolHandlerFor[CompatInput, types.CompatReport] {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input CompatInput) (*sdkmcp.CallToolResult, types.CompatReport, error) {
		var zero types.CompatReport

		if len(input.Payloads) == 0 {
			return nil, zero, ErrInvalidInput("payloads is required")
		}
		if input.Schema == nil && len(input.Samples) == 0 {
			return nil, zero, ErrInvalidInput("either schema or samples is required")
		}

		payloads := make([][]byte, len(input.Payloads))
		for i, p := range input.Payloads {
			payloads[i] = []byte(p)
		}

		var res *export.CompatResult
		var err error
		if input.Schema != nil {
			res, err = export.CheckCompatValue(input.Schema, payloads)
		} else {
			samples, perr := d.prepareSamples(input.Samples, "")
			if perr != nil {
				return nil, zero, perr
			}
			folded, ferr := d.Folder.Fold(ctx, samples)
			if ferr != nil {
				return nil, zero, WrapRunError(ferr)
			}
			res, err = export.CheckCompat(export.ToJSONSchema(folded.Schema, input.Title), payloads)
		}
		if err != nil {
			return nil, zero, WrapRunError(err)
		}

		return nil, types.CompatReport{
			Compatible: res.Compatible(),
			Checked:    res.Checked,
			Valid:      res.Valid,
			Failures:   res.Failures,
		}, nil
	}
}

// FilterInput is the input for the filter validation tool.
type FilterInput struct {
	Expression string `json:"expression"`
}

// FilterResult reports whether a jq expression parses and compiles.
type FilterResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ToolValidateFilter returns a handler that checks a jq expression
// without running it.
func ToolValidateFilter(d *Deps) sdkmcp.ToolHandlerFor[FilterInput, FilterResult] {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input FilterInput) (*sdkmcp.CallToolResult, FilterResult, error) {
		if input.Expression == "" {
			return nil, FilterResult{}, ErrInvalidInput("expression is required")
		}
		if err := filter.Validate(input.Expression); err != nil {
			return nil, FilterResult{Valid: false, Error: err.Error()}, nil
		}
		return nil, FilterResult{Valid: true}, nil
	}
}
