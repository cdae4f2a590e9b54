package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/json2go/pkg/export"
	"github.com/usestring/json2go/pkg/types"
)

// InferInput is the input for the schema inference tool.
type InferInput struct {
	Samples []string `json:"samples"`          // JSON payloads to sample
	Title   string   `json:"title,omitempty"`  // title of the exported schema
	Filter  string   `json:"filter,omitempty"` // jq expression applied to each sample
}

// ToolInferSchema returns a handler that folds samples into a JSON Schema
// document with per-path presence statistics.
func ToolInferSchema(d *Deps) sdkmcp.ToolHandlerFor[InferInput, types.SchemaResult] {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferInput) (*sdkmcp.CallToolResult, types.SchemaResult, error) {
		var zero types.SchemaResult

		samples, err := d.prepareSamples(input.Samples, input.Filter)
		if err != nil {
			return nil, zero, err
		}

		folded, err := d.Folder.Fold(ctx, samples)
		if err != nil {
			return nil, zero, WrapRunError(err)
		}

		doc := export.ToJSONSchema(folded.Schema, input.Title)
		schemaValue, err := types.ToAny(doc)
		if err != nil {
			return nil, zero, WrapRunError(err)
		}

		return nil, types.SchemaResult{
			Schema:        schemaValue,
			SampleCount:   folded.Samples,
			FieldPresence: folded.Profile.Counts(),
		}, nil
	}
}
