package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func observeJSON(t *testing.T, p *Profile, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	p.Observe(v)
	return v
}

func TestProfile_Counts(t *testing.T) {
	p := NewProfile()
	observeJSON(t, p, `{"id":1,"name":"a"}`)
	observeJSON(t, p, `{"id":2}`)
	observeJSON(t, p, `{"id":3,"name":"c"}`)

	assert.Equal(t, 3, p.Samples())
	assert.Equal(t, 3, p.Count("id"))
	assert.Equal(t, 2, p.Count("name"))
	assert.True(t, p.Required("id"))
	assert.False(t, p.Required("name"))
	assert.False(t, p.Required("missing"))
}

func TestProfile_NestedAndArrayPaths(t *testing.T) {
	p := NewProfile()
	observeJSON(t, p, `{"user":{"id":1},"rows":[{"x":1},{"x":2,"y":3}]}`)
	observeJSON(t, p, `{"user":{"id":2},"rows":[{"x":4,"y":5}]}`)

	assert.True(t, p.Required("user.id"))
	assert.True(t, p.Required("rows.[].x"))
	assert.True(t, p.Required("rows.[].y"), "y appeared in some element of every sample")
}

func TestProfile_Apply(t *testing.T) {
	p := NewProfile()
	observeJSON(t, p, `{"id":1,"name":"a"}`)
	observeJSON(t, p, `{"id":2}`)

	s, err := InferBytes([]byte(`{"id":1,"name":"a"}`))
	require.NoError(t, err)
	require.False(t, s.FieldByName("name").Optional)

	applied := p.Apply(s)
	assert.False(t, applied.FieldByName("id").Optional)
	assert.True(t, applied.FieldByName("name").Optional)

	// The input schema is not mutated.
	assert.False(t, s.FieldByName("name").Optional)
}

func TestProfile_EmptyProfileIsNoop(t *testing.T) {
	p := NewProfile()
	s, err := InferBytes([]byte(`{"id":1}`))
	require.NoError(t, err)
	assert.Same(t, s, p.Apply(s))
}
