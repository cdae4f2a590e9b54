package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/json2go/pkg/gosrc"
	"github.com/usestring/json2go/pkg/schema"
)

func objectOf(names ...string) *schema.Schema {
	s := &schema.Schema{Kind: schema.KindObject}
	for _, n := range names {
		s.Fields = append(s.Fields, schema.Field{Name: n, Schema: &schema.Schema{Kind: schema.KindString}})
	}
	return s
}

func defOf(name string, jsonNames ...string) *gosrc.Definition {
	d := &gosrc.Definition{Name: name}
	for _, n := range jsonNames {
		d.Fields = append(d.Fields, gosrc.Field{
			GoName:   n,
			JSONName: n,
			Type:     gosrc.TypeRef{Kind: gosrc.RefString},
		})
	}
	return d
}

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		schema []string
		def    []string
		want   float64
	}{
		{"identical", []string{"a", "b"}, []string{"a", "b"}, 1.0},
		{"disjoint", []string{"a", "b"}, []string{"c", "d"}, 0.0},
		{"half overlap", []string{"a", "b"}, []string{"b", "c"}, 1.0 / 3.0},
		{"subset", []string{"a"}, []string{"a", "b"}, 0.5},
		{"empty both", nil, nil, 1.0},
		{"empty schema", nil, []string{"a"}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(objectOf(tt.schema...), defOf("T", tt.def...))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestScore_TypeMismatchIgnored(t *testing.T) {
	obj := &schema.Schema{Kind: schema.KindObject, Fields: []schema.Field{
		{Name: "age", Schema: &schema.Schema{Kind: schema.KindInt}},
	}}
	def := &gosrc.Definition{Name: "User", Fields: []gosrc.Field{
		{GoName: "Age", JSONName: "age", Type: gosrc.TypeRef{Kind: gosrc.RefBool}},
	}}
	assert.Equal(t, 1.0, Score(obj, def), "matching is by name only at this stage")
}

func TestScore_NonObject(t *testing.T) {
	assert.Zero(t, Score(&schema.Schema{Kind: schema.KindString}, defOf("T", "a")))
	assert.Zero(t, Score(nil, defOf("T", "a")))
}

func TestBest_ThresholdAndTieBreak(t *testing.T) {
	obj := objectOf("a", "b", "c")
	first := defOf("First", "a", "b", "c")
	twin := defOf("Twin", "a", "b", "c")
	weak := defOf("Weak", "a", "x", "y", "z")

	got, ok := Best(obj, []*gosrc.Definition{weak, first, twin}, DefaultExtendThreshold)
	require.True(t, ok)
	assert.Equal(t, "First", got.Definition.Name, "ties break by declaration order")
	assert.Equal(t, 1.0, got.Score)

	_, ok = Best(obj, []*gosrc.Definition{weak}, DefaultExtendThreshold)
	assert.False(t, ok, "below threshold means no match")
}

func TestByName(t *testing.T) {
	defs := []*gosrc.Definition{defOf("User", "age"), defOf("Product", "sku")}

	d, ok := ByName(defs, "Product")
	require.True(t, ok)
	assert.Equal(t, "Product", d.Name)

	_, ok = ByName(defs, "Missing")
	assert.False(t, ok)
}
