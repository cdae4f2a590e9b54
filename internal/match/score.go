// Package match scores an inferred object schema against existing named
// definitions and picks the one worth extending.
package match

import (
	"github.com/usestring/json2go/pkg/gosrc"
	"github.com/usestring/json2go/pkg/schema"
)

// DefaultExtendThreshold is the minimum similarity for reusing an existing
// definition instead of creating a new one.
const DefaultExtendThreshold = 0.70

// Score computes field-name overlap between an object schema and a
// definition: |matching names| / |union of names|. Type compatibility is
// ignored here; conflicts are tolerated and pushed to the merge engine.
// Union wrappers expose no json names and score zero; they are reached by
// name, not by score.
func Score(obj *schema.Schema, def *gosrc.Definition) float64 {
	if obj == nil || obj.Kind != schema.KindObject || def == nil {
		return 0
	}

	defNames := make(map[string]bool)
	for _, n := range def.JSONNames() {
		defNames[n] = true
	}

	union := len(defNames)
	matching := 0
	for _, f := range obj.Fields {
		if defNames[f.Name] {
			matching++
		} else {
			union++
		}
	}

	if union == 0 {
		return 1 // two empty field sets are a perfect match
	}
	return float64(matching) / float64(union)
}

// Result is a scored candidate.
type Result struct {
	Definition *gosrc.Definition
	Score      float64
}

// Best returns the definition scoring at or above threshold against obj.
// Ties break by first-declared order in the source: a later definition must
// strictly beat the current best to replace it.
func Best(obj *schema.Schema, defs []*gosrc.Definition, threshold float64) (Result, bool) {
	var best Result
	for _, def := range defs {
		s := Score(obj, def)
		if s > best.Score {
			best = Result{Definition: def, Score: s}
		}
	}
	if best.Definition == nil || best.Score < threshold {
		return Result{}, false
	}
	return best, true
}

// ByName returns the definition with the given name, if any. An explicit
// name match is always a merge target regardless of score; the score still
// feeds the strategy decision.
func ByName(defs []*gosrc.Definition, name string) (*gosrc.Definition, bool) {
	for _, def := range defs {
		if def.Name == name {
			return def, true
		}
	}
	return nil, false
}
