// Package evolve is the high-level entry point: it infers a structural
// schema from sampled JSON, reconciles it with existing Go type
// definitions, and renders the evolved source. The CLI and the MCP server
// are thin shells around Run.
package evolve

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/usestring/json2go/internal/emit"
	"github.com/usestring/json2go/internal/filter"
	"github.com/usestring/json2go/internal/match"
	"github.com/usestring/json2go/internal/merge"
	"github.com/usestring/json2go/pkg/gosrc"
	"github.com/usestring/json2go/pkg/schema"
)

// DefaultRootName names the root type when the caller does not pick one.
const DefaultRootName = "RootStruct"

// Options control a single run. The zero value is usable.
type Options struct {
	// RootName is the name the root object should have or extend.
	RootName string
	// Strategy is "optional" (default), "enum", or "hybrid".
	Strategy string
	// PackageName is the package clause when no existing source is given.
	PackageName string
	// ExtendThreshold overrides the minimum similarity for extending an
	// existing definition. Zero keeps the default.
	ExtendThreshold float64
	// EnumThreshold overrides the overlap below which the enum strategy
	// splits into variants. Zero keeps the default.
	EnumThreshold float64
	// Filter is an optional jq expression applied to the input before
	// inference, for carving the relevant subtree out of an envelope.
	Filter string
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.RootName) == "" {
		o.RootName = DefaultRootName
	}
	return o
}

// Conflict reports a field whose observed type could not be reconciled
// with the declared one; the field degraded to string.
type Conflict struct {
	Type     string `json:"type"`
	Field    string `json:"field"`
	Existing string `json:"existing,omitempty"`
	Inferred string `json:"inferred"`
}

// Result is the outcome of one run.
type Result struct {
	// Source is the complete evolved Go source file.
	Source []byte
	// RootType is the name of the definition covering the root object.
	RootType string
	// NewTypes lists definitions minted by this run, in emission order.
	NewTypes []string
	// ModifiedTypes lists existing definitions this run rewrote.
	ModifiedTypes []string
	// Conflicts lists fields that degraded to the string fallback.
	Conflicts []Conflict
	// Schema is the inferred structural schema of the input.
	Schema *schema.Schema
}

// Run infers a schema from one JSON sample and merges it into existing
// source. existing may be nil or empty for from-scratch generation.
func Run(input, existing []byte, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	data := input
	if opts.Filter != "" {
		filtered, err := filter.Apply(opts.Filter, input)
		if err != nil {
			return nil, &CodedError{Code: ErrCodeInvalidFilter, Message: "filter failed", Cause: err}
		}
		data = filtered
	}

	s, err := schema.InferBytes(data)
	if err != nil {
		return nil, ErrInvalidJSON(err)
	}
	return RunSchema(s, existing, opts)
}

// RunSchema merges an already-inferred schema into existing source. Batch
// callers fold many samples into one schema first and call this once.
func RunSchema(s *schema.Schema, existing []byte, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	var f *gosrc.File
	var defs []*gosrc.Definition
	if len(existing) > 0 {
		var err error
		f, err = gosrc.Extract(existing)
		if err != nil {
			var perr *gosrc.ParseError
			msg := "existing source does not parse"
			if errors.As(err, &perr) && perr.Pos != "" {
				msg = "existing source does not parse at " + perr.Pos
			}
			return nil, &CodedError{Code: ErrCodeSourceUnparseable, Message: msg, Cause: err}
		}
		defs = f.Definitions
	}

	eng := merge.NewEngine(defs, merge.Options{
		ExtendThreshold: opts.ExtendThreshold,
		EnumThreshold:   opts.EnumThreshold,
	})
	plan, err := eng.Plan(s, opts.RootName, merge.ParseStrategy(opts.Strategy))
	if err != nil {
		var nerr *merge.NameCollisionError
		if errors.As(err, &nerr) {
			return nil, &CodedError{Code: ErrCodeNameCollision, Message: "cannot find a free type name for " + nerr.Base, Cause: err}
		}
		return nil, err
	}

	src, err := emit.Assemble(f, plan, opts.PackageName)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Source:   src,
		RootType: plan.Root,
		Schema:   s,
	}
	for _, d := range plan.NewTypes {
		res.NewTypes = append(res.NewTypes, d.Name)
	}
	for _, r := range plan.Replacements {
		res.ModifiedTypes = append(res.ModifiedTypes, r.Target.Name)
	}
	for _, c := range plan.Conflicts {
		res.Conflicts = append(res.Conflicts, Conflict{
			Type:     c.Definition,
			Field:    c.Field,
			Existing: c.Existing,
			Inferred: c.Inferred,
		})
	}

	slog.Debug("run complete",
		slog.String("root", res.RootType),
		slog.Int("new_types", len(res.NewTypes)),
		slog.Int("modified_types", len(res.ModifiedTypes)),
		slog.Int("conflicts", len(res.Conflicts)),
	)
	return res, nil
}

// DefaultExtendThreshold is re-exported for callers that surface the knob.
const DefaultExtendThreshold = match.DefaultExtendThreshold
