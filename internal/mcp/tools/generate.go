package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/json2go/internal/filter"
	"github.com/usestring/json2go/pkg/evolve"
	"github.com/usestring/json2go/pkg/types"
)

// GenerateInput is the input for the generate tool.
type GenerateInput struct {
	Samples        []string `json:"samples"`                   // JSON payloads to sample
	ExistingSource string   `json:"existing_source,omitempty"` // Go source to evolve; empty generates from scratch
	RootName       string   `json:"root_name,omitempty"`       // root type name, default RootStruct
	Strategy       string   `json:"strategy,omitempty"`        // optional, enum, or hybrid
	Package        string   `json:"package,omitempty"`         // package clause for standalone output
	Filter         string   `json:"filter,omitempty"`          // jq expression applied to each sample
}

// ToolGenerate returns a handler that evolves Go type definitions from
// JSON samples.
func ToolGenerate(d *Deps) sdkmcp.ToolHandlerFor[GenerateInput, types.GenerateResult] {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input GenerateInput) (*sdkmcp.CallToolResult, types.GenerateResult, error) {
		var zero types.GenerateResult

		samples, err := d.prepareSamples(input.Samples, input.Filter)
		if err != nil {
			return nil, zero, err
		}

		folded, err := d.Folder.Fold(ctx, samples)
		if err != nil {
			return nil, zero, WrapRunError(err)
		}

		opts := evolve.Options{
			RootName:        orDefault(input.RootName, d.Config.DefaultRootName),
			Strategy:        orDefault(input.Strategy, d.Config.DefaultStrategy),
			PackageName:     orDefault(input.Package, d.Config.DefaultPackage),
			ExtendThreshold: d.Config.ExtendThreshold,
			EnumThreshold:   d.Config.EnumThreshold,
		}
		res, err := evolve.RunSchema(folded.Schema, []byte(input.ExistingSource), opts)
		if err != nil {
			return nil, zero, WrapRunError(err)
		}

		out := types.GenerateResult{
			Source:        string(res.Source),
			RootType:      res.RootType,
			NewTypes:      res.NewTypes,
			ModifiedTypes: res.ModifiedTypes,
			SampleCount:   folded.Samples,
		}
		for _, c := range res.Conflicts {
			out.Conflicts = append(out.Conflicts, types.FieldConflict{
				Type:     c.Type,
				Field:    c.Field,
				Existing: c.Existing,
				Inferred: c.Inferred,
			})
		}
		return nil, out, nil
	}
}

// prepareSamples enforces the safety caps and applies the optional jq
// filter to every sample.
func (d *Deps) prepareSamples(raw []string, expr string) ([][]byte, error) {
	if len(raw) == 0 {
		return nil, ErrInvalidInput("samples is required")
	}
	if len(raw) > d.Config.MaxSamples {
		return nil, ErrInvalidInput(fmt.Sprintf("too many samples: %d > %d", len(raw), d.Config.MaxSamples))
	}

	out := make([][]byte, len(raw))
	for i, s := range raw {
		if len(s) > d.Config.MaxInputBytes {
			return nil, ErrInvalidInput(fmt.Sprintf("sample[%d] exceeds %d bytes", i, d.Config.MaxInputBytes))
		}
		b := []byte(s)
		if expr != "" {
			filtered, err := filter.Apply(expr, b)
			if err != nil {
				return nil, &CodedError{Code: ErrCodeInvalidInput, Message: fmt.Sprintf("filter on sample[%d]", i), Cause: err}
			}
			b = filtered
		}
		out[i] = b
	}
	return out, nil
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
