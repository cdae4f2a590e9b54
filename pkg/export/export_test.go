package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/json2go/pkg/schema"
)

func TestToJSONSchema(t *testing.T) {
	s, err := schema.InferBytes([]byte(`{"name":"ada","age":36,"score":1.5,"nickname":null,"tags":["x"]}`))
	require.NoError(t, err)

	doc := ToJSONSchema(s, "User")
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "object", m["type"])
	assert.Equal(t, "User", m["title"])

	props := m["properties"].(map[string]any)
	assert.Equal(t, "string", props["name"].(map[string]any)["type"])
	assert.Equal(t, "integer", props["age"].(map[string]any)["type"])
	assert.Equal(t, "number", props["score"].(map[string]any)["type"])
	assert.Equal(t, "array", props["tags"].(map[string]any)["type"])

	// A field only ever seen as null maps to the null type and is not
	// required.
	assert.Equal(t, "null", props["nickname"].(map[string]any)["type"])
	assert.ElementsMatch(t, []any{"name", "age", "score", "tags"}, m["required"])
}

func TestToJSONSchemaNullableAnyOf(t *testing.T) {
	s := schema.Merge(
		&schema.Schema{Kind: schema.KindString},
		&schema.Schema{Kind: schema.KindNull},
	)
	doc := ToJSONSchema(s, "")
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	anyOf := m["anyOf"].([]any)
	require.Len(t, anyOf, 2)
	assert.Equal(t, "string", anyOf[0].(map[string]any)["type"])
	assert.Equal(t, "null", anyOf[1].(map[string]any)["type"])
}

func TestCheckCompat(t *testing.T) {
	s, err := schema.InferBytes([]byte(`{"name":"ada","age":36}`))
	require.NoError(t, err)
	doc := ToJSONSchema(s, "User")

	res, err := CheckCompat(doc, [][]byte{
		[]byte(`{"name":"bob","age":7}`),
		[]byte(`{"name":"eve"}`),
		[]byte(`{"name":3}`),
		[]byte(`not json`),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, res.Checked)
	assert.Equal(t, 1, res.Valid)
	assert.False(t, res.Compatible())
	require.Len(t, res.Failures, 3)
	assert.Contains(t, res.Failures[0], "payload[1]")
	assert.Contains(t, res.Failures[2], "invalid JSON")
}
