// Package merge decides how an inferred schema reshapes existing type
// definitions: extend a matching definition in place, introduce sum-type
// variants for mutually exclusive shapes, or mint brand-new named types.
//
// The engine is never fatal. Irreconcilable field types degrade to a
// textual string fallback recorded as a conflict, because staying
// deserializable from every historical payload outranks type precision.
package merge

import (
	"strings"

	"github.com/usestring/json2go/internal/match"
	"github.com/usestring/json2go/pkg/gosrc"
	"github.com/usestring/json2go/pkg/schema"
)

// Strategy selects how overlapping field sets are reconciled.
type Strategy int

const (
	// StrategyOptional widens: the union of both field sets, one-sided
	// fields forced optional.
	StrategyOptional Strategy = iota
	// StrategyEnum produces a sum type with one variant per observed
	// shape when overlap is low.
	StrategyEnum
	// StrategyHybrid picks variants for conflict-heavy overlaps and
	// widening otherwise.
	StrategyHybrid
)

// ParseStrategy maps the external selector values. Unrecognized input
// falls back to optional.
func ParseStrategy(s string) Strategy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "enum":
		return StrategyEnum
	case "hybrid":
		return StrategyHybrid
	default:
		return StrategyOptional
	}
}

func (s Strategy) String() string {
	switch s {
	case StrategyEnum:
		return "enum"
	case StrategyHybrid:
		return "hybrid"
	default:
		return "optional"
	}
}

// Options are the numeric knobs of the decision table.
type Options struct {
	// ExtendThreshold is the minimum similarity for reusing an existing
	// definition instead of creating a new one.
	ExtendThreshold float64
	// EnumThreshold is the overlap below which the enum strategy prefers
	// variants over widening.
	EnumThreshold float64
}

func (o Options) withDefaults() Options {
	if o.ExtendThreshold <= 0 {
		o.ExtendThreshold = match.DefaultExtendThreshold
	}
	if o.EnumThreshold <= 0 {
		o.EnumThreshold = 0.50
	}
	return o
}

// FieldConflict records a same-named field whose existing and inferred
// types could not be unified; the field degraded to the string fallback.
type FieldConflict struct {
	Definition string `json:"definition"`
	Field      string `json:"field"`
	Existing   string `json:"existing,omitempty"`
	Inferred   string `json:"inferred"`
}

// Replacement pairs an existing definition with its merged successor.
type Replacement struct {
	Target *gosrc.Definition
	Result *gosrc.Definition
	Score  float64
}

// Plan is the outcome of one merge pass: which definitions change, which
// types are new, and which fields degraded.
type Plan struct {
	// Root is the name of the definition covering the root schema.
	Root         string
	Replacements []Replacement
	NewTypes     []*gosrc.Definition
	Conflicts    []FieldConflict
}

type mode int

const (
	modeWiden mode = iota
	modeVariants
)

// Engine plans merges against one set of extracted definitions. Not safe
// for concurrent use; create one engine per inference run.
type Engine struct {
	defs     []*gosrc.Definition
	opts     Options
	strategy Strategy

	names   *namePool
	plan    *Plan
	planned map[string]bool
}

// NewEngine creates an engine over the definitions of an extracted file.
// defs may be empty when no existing source was supplied.
func NewEngine(defs []*gosrc.Definition, opts Options) *Engine {
	return &Engine{defs: defs, opts: opts.withDefaults()}
}

// Plan computes the merge decision for one root object schema.
func (e *Engine) Plan(obj *schema.Schema, rootName string, strat Strategy) (*Plan, error) {
	existing := make([]string, 0, len(e.defs))
	for _, d := range e.defs {
		existing = append(existing, d.Name)
	}
	e.names = newNamePool(existing)
	e.plan = &Plan{}
	e.planned = make(map[string]bool)
	e.strategy = strat

	root, err := e.planObject(obj, rootName, true)
	if err != nil {
		return nil, err
	}
	e.plan.Root = root
	return e.plan, nil
}

// planObject resolves one object shape to a definition name, planning a
// replacement or a new type as needed. Root shapes may claim an existing
// definition by name regardless of score; nested shapes only extend a
// definition that clears the threshold.
func (e *Engine) planObject(obj *schema.Schema, baseName string, isRoot bool) (string, error) {
	var target *gosrc.Definition
	var score float64

	if isRoot {
		if d, ok := match.ByName(e.defs, baseName); ok {
			target = d
			score = match.Score(obj, d)
		}
	}
	if target == nil {
		if r, ok := match.Best(obj, e.defs, e.opts.ExtendThreshold); ok {
			target = r.Definition
			score = r.Score
		}
	}

	if target == nil {
		name, err := e.names.claim(baseName)
		if err != nil {
			return "", err
		}
		fields, err := e.buildFields(obj, name, false)
		if err != nil {
			return "", err
		}
		e.plan.NewTypes = append(e.plan.NewTypes, &gosrc.Definition{Name: name, Fields: fields})
		return name, nil
	}

	return target.Name, e.planInto(target, obj, score)
}

// planInto merges obj into an already-chosen target definition.
func (e *Engine) planInto(target *gosrc.Definition, obj *schema.Schema, score float64) error {
	if e.planned[target.Name] {
		return nil
	}
	e.planned[target.Name] = true

	var (
		result  *gosrc.Definition
		changed bool
		err     error
	)
	if e.decide(score, e.conflictDensity(obj, target)) == modeVariants || target.IsUnion() {
		result, changed, err = e.variants(target, obj)
	} else {
		result, changed, err = e.widen(target, obj)
	}
	if err != nil {
		return err
	}
	if changed {
		e.plan.Replacements = append(e.plan.Replacements, Replacement{Target: target, Result: result, Score: score})
	}
	return nil
}

// decide is the central decision table keyed on similarity score, conflict
// density and the strategy flag.
func (e *Engine) decide(score, density float64) mode {
	switch e.strategy {
	case StrategyEnum:
		if score < e.opts.EnumThreshold {
			return modeVariants
		}
	case StrategyHybrid:
		// A clean superset widens regardless of score; only conflict-heavy
		// overlap splits into variants.
		if density > 0.5 {
			return modeVariants
		}
	}
	return modeWiden
}

// conflictDensity is the fraction of same-named fields whose types cannot
// unify.
func (e *Engine) conflictDensity(obj *schema.Schema, def *gosrc.Definition) float64 {
	common, conflicting := 0, 0
	for _, sf := range obj.Fields {
		tf := def.FieldByJSONName(sf.Name)
		if tf == nil {
			continue
		}
		common++
		if !kindsCompatible(tf.Type, sf.Schema) {
			conflicting++
		}
	}
	if common == 0 {
		return 0
	}
	return float64(conflicting) / float64(common)
}

// kindsCompatible reports whether an existing field type can absorb the
// inferred shape without the string fallback.
func kindsCompatible(ref gosrc.TypeRef, s *schema.Schema) bool {
	switch ref.Kind {
	case gosrc.RefOpaque, gosrc.RefAny, gosrc.RefMap:
		// Unmodeled or open types tolerate anything.
		return true
	}
	switch s.Kind {
	case schema.KindNull:
		return true
	case schema.KindBool:
		return ref.Kind == gosrc.RefBool
	case schema.KindInt:
		return ref.Kind == gosrc.RefInt || ref.Kind == gosrc.RefFloat
	case schema.KindFloat:
		return ref.Kind == gosrc.RefInt || ref.Kind == gosrc.RefFloat
	case schema.KindString:
		return ref.Kind == gosrc.RefString
	case schema.KindArray:
		return ref.Kind == gosrc.RefSlice
	case schema.KindObject:
		return ref.Kind == gosrc.RefNamed
	default: // KindConflict
		return false
	}
}
