package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/json2go/pkg/gosrc"
	"github.com/usestring/json2go/pkg/schema"
)

func mustInfer(t *testing.T, data string) *schema.Schema {
	t.Helper()
	s, err := schema.InferBytes([]byte(data))
	require.NoError(t, err)
	return s
}

func mustExtract(t *testing.T, src string) *gosrc.File {
	t.Helper()
	f, err := gosrc.Extract([]byte(src))
	require.NoError(t, err)
	return f
}

func TestPlanNewRoot(t *testing.T) {
	eng := NewEngine(nil, Options{})
	plan, err := eng.Plan(mustInfer(t, `{"name":"ada","age":36}`), "RootStruct", StrategyOptional)
	require.NoError(t, err)

	assert.Equal(t, "RootStruct", plan.Root)
	assert.Empty(t, plan.Replacements)
	require.Len(t, plan.NewTypes, 1)

	def := plan.NewTypes[0]
	require.Len(t, def.Fields, 2)
	assert.Equal(t, "Name", def.Fields[0].GoName)
	assert.Equal(t, "name", def.Fields[0].JSONName)
	assert.Equal(t, gosrc.RefString, def.Fields[0].Type.Kind)
	assert.Equal(t, "Age", def.Fields[1].GoName)
	assert.Equal(t, gosrc.RefInt, def.Fields[1].Type.Kind)
	assert.False(t, def.Fields[1].Optional)
}

func TestPlanNestedObjectsAndArrays(t *testing.T) {
	eng := NewEngine(nil, Options{})
	plan, err := eng.Plan(mustInfer(t, `{"owner":{"id":1},"tags":[{"label":"x"}]}`), "Repo", StrategyOptional)
	require.NoError(t, err)

	names := make(map[string]*gosrc.Definition)
	for _, d := range plan.NewTypes {
		names[d.Name] = d
	}
	require.Contains(t, names, "Repo")
	require.Contains(t, names, "Owner")
	require.Contains(t, names, "Tag")

	repo := names["Repo"]
	assert.Equal(t, gosrc.RefNamed, repo.Fields[0].Type.Kind)
	assert.Equal(t, "Owner", repo.Fields[0].Type.Name)
	assert.Equal(t, gosrc.RefSlice, repo.Fields[1].Type.Kind)
	assert.Equal(t, "Tag", repo.Fields[1].Type.Elem.Name)
}

func TestPlanExtendsExistingByName(t *testing.T) {
	f := mustExtract(t, `package main

type User struct {
	Name  string `+"`json:\"name\"`"+`
	Email string `+"`json:\"email\"`"+`
}
`)
	eng := NewEngine(f.Definitions, Options{})
	plan, err := eng.Plan(mustInfer(t, `{"name":"ada","email":"a@b","age":36}`), "User", StrategyOptional)
	require.NoError(t, err)

	assert.Equal(t, "User", plan.Root)
	assert.Empty(t, plan.NewTypes)
	require.Len(t, plan.Replacements, 1)

	res := plan.Replacements[0].Result
	require.Len(t, res.Fields, 3)
	// Declared fields keep their order and types.
	assert.Equal(t, "Name", res.Fields[0].GoName)
	assert.Equal(t, "Email", res.Fields[1].GoName)
	assert.False(t, res.Fields[0].Optional)
	// The new field lands last, optional.
	age := res.Fields[2]
	assert.Equal(t, "Age", age.GoName)
	assert.Equal(t, gosrc.RefInt, age.Type.Kind)
	assert.True(t, age.Type.Pointer)
	assert.True(t, age.Optional)
	assert.Equal(t, "`json:\"age,omitempty\"`", age.Tag)
}

func TestPlanUnchangedIsNoop(t *testing.T) {
	f := mustExtract(t, `package main

type User struct {
	Name string `+"`json:\"name\"`"+`
	Age  int64  `+"`json:\"age\"`"+`
}
`)
	eng := NewEngine(f.Definitions, Options{})
	plan, err := eng.Plan(mustInfer(t, `{"name":"ada","age":36}`), "User", StrategyOptional)
	require.NoError(t, err)

	assert.Empty(t, plan.Replacements)
	assert.Empty(t, plan.NewTypes)
	assert.Empty(t, plan.Conflicts)
}

func TestPlanForcesMissingFieldOptional(t *testing.T) {
	f := mustExtract(t, `package main

type User struct {
	Name  string `+"`json:\"name\"`"+`
	Email string `+"`json:\"email\"`"+`
}
`)
	eng := NewEngine(f.Definitions, Options{})
	plan, err := eng.Plan(mustInfer(t, `{"name":"ada"}`), "User", StrategyOptional)
	require.NoError(t, err)

	require.Len(t, plan.Replacements, 1)
	email := plan.Replacements[0].Result.Fields[1]
	assert.Equal(t, "Email", email.GoName)
	assert.True(t, email.Optional)
	assert.True(t, email.Type.Pointer)
	assert.Equal(t, "`json:\"email,omitempty\"`", email.Tag)
}

func TestPlanIntWidensToFloat(t *testing.T) {
	f := mustExtract(t, `package main

type Point struct {
	X int64 `+"`json:\"x\"`"+`
	Y int64 `+"`json:\"y\"`"+`
}
`)
	eng := NewEngine(f.Definitions, Options{})
	plan, err := eng.Plan(mustInfer(t, `{"x":1.5,"y":2}`), "Point", StrategyOptional)
	require.NoError(t, err)

	require.Len(t, plan.Replacements, 1)
	res := plan.Replacements[0].Result
	assert.Equal(t, gosrc.RefFloat, res.Fields[0].Type.Kind)
	assert.Equal(t, gosrc.RefInt, res.Fields[1].Type.Kind)
	assert.Empty(t, plan.Conflicts)
}

func TestPlanConflictFallsBackToString(t *testing.T) {
	f := mustExtract(t, `package main

type Event struct {
	ID int64 `+"`json:\"id\"`"+`
}
`)
	eng := NewEngine(f.Definitions, Options{})
	plan, err := eng.Plan(mustInfer(t, `{"id":"abc-123"}`), "Event", StrategyOptional)
	require.NoError(t, err)

	require.Len(t, plan.Replacements, 1)
	id := plan.Replacements[0].Result.Fields[0]
	assert.Equal(t, gosrc.RefString, id.Type.Kind)

	require.Len(t, plan.Conflicts, 1)
	assert.Equal(t, "Event", plan.Conflicts[0].Definition)
	assert.Equal(t, "id", plan.Conflicts[0].Field)
}

func TestPlanLowOverlapMintsNewType(t *testing.T) {
	f := mustExtract(t, `package main

type User struct {
	Name  string `+"`json:\"name\"`"+`
	Email string `+"`json:\"email\"`"+`
}
`)
	eng := NewEngine(f.Definitions, Options{})
	plan, err := eng.Plan(mustInfer(t, `{"sku":"A1","price":9.5,"stock":3}`), "Product", StrategyOptional)
	require.NoError(t, err)

	assert.Equal(t, "Product", plan.Root)
	assert.Empty(t, plan.Replacements)
	require.Len(t, plan.NewTypes, 1)
	assert.Equal(t, "Product", plan.NewTypes[0].Name)
}

func TestPlanEnumStrategyProducesVariants(t *testing.T) {
	f := mustExtract(t, `package main

type Event struct {
	Kind    string `+"`json:\"kind\"`"+`
	Payload string `+"`json:\"payload\"`"+`
}
`)
	eng := NewEngine(f.Definitions, Options{})
	plan, err := eng.Plan(mustInfer(t, `{"kind":"click","x":10,"y":20}`), "Event", StrategyEnum)
	require.NoError(t, err)

	require.Len(t, plan.Replacements, 1)
	wrapper := plan.Replacements[0].Result
	require.True(t, wrapper.IsUnion())
	require.Len(t, wrapper.Variants, 2)
	assert.Equal(t, "EventV1", wrapper.Variants[0].TypeName)
	assert.Equal(t, "EventV2", wrapper.Variants[1].TypeName)

	require.Len(t, plan.NewTypes, 2)
	v1, v2 := plan.NewTypes[0], plan.NewTypes[1]
	assert.Equal(t, []string{"kind", "payload"}, v1.JSONNames())
	assert.Equal(t, []string{"kind", "x", "y"}, v2.JSONNames())
}

func TestPlanExistingUnionMatchingVariantIsNoop(t *testing.T) {
	f := mustExtract(t, `package main

type EventV1 struct {
	Kind    string `+"`json:\"kind\"`"+`
	Payload string `+"`json:\"payload\"`"+`
}

type EventV2 struct {
	Kind string `+"`json:\"kind\"`"+`
	X    int64  `+"`json:\"x\"`"+`
	Y    int64  `+"`json:\"y\"`"+`
}

type Event struct {
	V1 *EventV1 `+"`json:\"-\"`"+`
	V2 *EventV2 `+"`json:\"-\"`"+`
}
`)
	eng := NewEngine(f.Definitions, Options{})
	plan, err := eng.Plan(mustInfer(t, `{"kind":"click","x":5,"y":6}`), "Event", StrategyEnum)
	require.NoError(t, err)

	assert.Empty(t, plan.Replacements)
	assert.Empty(t, plan.NewTypes)
}

func TestPlanExistingUnionGrowsThirdVariant(t *testing.T) {
	f := mustExtract(t, `package main

type EventV1 struct {
	Kind string `+"`json:\"kind\"`"+`
}

type EventV2 struct {
	X int64 `+"`json:\"x\"`"+`
}

type Event struct {
	V1 *EventV1 `+"`json:\"-\"`"+`
	V2 *EventV2 `+"`json:\"-\"`"+`
}
`)
	eng := NewEngine(f.Definitions, Options{})
	plan, err := eng.Plan(mustInfer(t, `{"ts":123,"level":"warn"}`), "Event", StrategyEnum)
	require.NoError(t, err)

	require.Len(t, plan.Replacements, 1)
	wrapper := plan.Replacements[0].Result
	require.Len(t, wrapper.Variants, 3)
	assert.Equal(t, "EventV3", wrapper.Variants[2].TypeName)
	require.Len(t, plan.NewTypes, 1)
	assert.Equal(t, []string{"ts", "level"}, plan.NewTypes[0].JSONNames())
}

func TestPlanHybridWidensCleanOverlap(t *testing.T) {
	f := mustExtract(t, `package main

type User struct {
	Name  string `+"`json:\"name\"`"+`
	Email string `+"`json:\"email\"`"+`
}
`)
	eng := NewEngine(f.Definitions, Options{})
	plan, err := eng.Plan(mustInfer(t, `{"name":"ada","email":"a@b","age":1}`), "User", StrategyHybrid)
	require.NoError(t, err)

	require.Len(t, plan.Replacements, 1)
	assert.False(t, plan.Replacements[0].Result.IsUnion())
}

func TestPlanHybridSplitsConflictHeavyOverlap(t *testing.T) {
	f := mustExtract(t, `package main

type Reading struct {
	Value int64 `+"`json:\"value\"`"+`
	Unit  int64 `+"`json:\"unit\"`"+`
}
`)
	eng := NewEngine(f.Definitions, Options{})
	plan, err := eng.Plan(mustInfer(t, `{"value":"high","unit":"celsius"}`), "Reading", StrategyHybrid)
	require.NoError(t, err)

	require.Len(t, plan.Replacements, 1)
	assert.True(t, plan.Replacements[0].Result.IsUnion())
}

func TestPlanHybridLowOverlapCleanWidens(t *testing.T) {
	f := mustExtract(t, `package main

type Job struct {
	ID int64 `+"`json:\"id\"`"+`
}
`)
	eng := NewEngine(f.Definitions, Options{})
	plan, err := eng.Plan(mustInfer(t, `{"id":7,"queue":"default","attempts":2}`), "Job", StrategyHybrid)
	require.NoError(t, err)

	require.Len(t, plan.Replacements, 1)
	result := plan.Replacements[0].Result
	assert.False(t, result.IsUnion())
	assert.Equal(t, []string{"id", "queue", "attempts"}, result.JSONNames())
}

func TestPlanNestedNamedTypeMerges(t *testing.T) {
	f := mustExtract(t, `package main

type User struct {
	Name    string  `+"`json:\"name\"`"+`
	Address Address `+"`json:\"address\"`"+`
}

type Address struct {
	City string `+"`json:\"city\"`"+`
}
`)
	eng := NewEngine(f.Definitions, Options{})
	plan, err := eng.Plan(mustInfer(t, `{"name":"ada","address":{"city":"london","zip":"N1"}}`), "User", StrategyOptional)
	require.NoError(t, err)

	require.Len(t, plan.Replacements, 1)
	assert.Equal(t, "Address", plan.Replacements[0].Target.Name)
	res := plan.Replacements[0].Result
	require.Len(t, res.Fields, 2)
	assert.Equal(t, "Zip", res.Fields[1].GoName)
	assert.True(t, res.Fields[1].Optional)
}

func TestPlanKeepsNameCollisionsApart(t *testing.T) {
	f := mustExtract(t, `package main

type Owner struct {
	FullName string `+"`json:\"full_name\"`"+`
}
`)
	eng := NewEngine(f.Definitions, Options{})
	plan, err := eng.Plan(mustInfer(t, `{"owner":{"id":7,"karma":1.5}}`), "Repo", StrategyOptional)
	require.NoError(t, err)

	names := make([]string, 0, len(plan.NewTypes))
	for _, d := range plan.NewTypes {
		names = append(names, d.Name)
	}
	assert.ElementsMatch(t, []string{"Repo", "Owner2"}, names)
}

func TestParseStrategy(t *testing.T) {
	assert.Equal(t, StrategyOptional, ParseStrategy(""))
	assert.Equal(t, StrategyOptional, ParseStrategy("optional"))
	assert.Equal(t, StrategyEnum, ParseStrategy("Enum"))
	assert.Equal(t, StrategyHybrid, ParseStrategy(" hybrid "))
	assert.Equal(t, StrategyOptional, ParseStrategy("bogus"))
}
