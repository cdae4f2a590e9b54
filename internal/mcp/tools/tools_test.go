package tools

import (
	"context"
	"errors"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/json2go/internal/batch"
	"github.com/usestring/json2go/internal/config"
)

func testDeps(t *testing.T) *Deps {
	t.Helper()
	folder, err := batch.NewFolder(2, 16)
	require.NoError(t, err)
	return &Deps{
		Config: config.Load(),
		Folder: folder,
	}
}

func newTestServer() *sdkmcp.Server {
	return sdkmcp.NewServer(&sdkmcp.Implementation{Name: "test", Version: "0.0.1"}, nil)
}

func TestToolGenerate(t *testing.T) {
	handler := ToolGenerate(testDeps(t))

	_, out, err := handler(context.Background(), nil, GenerateInput{
		Samples: []string{
			`{"id": 1, "name": "alice"}`,
			`{"id": 2, "name": "bob", "active": true}`,
		},
		RootName: "User",
		Package:  "models",
	})
	require.NoError(t, err)

	assert.Equal(t, "User", out.RootType)
	assert.Equal(t, 2, out.SampleCount)
	assert.Contains(t, out.Source, "package models")
	assert.Contains(t, out.Source, "type User struct {")
	assert.Contains(t, out.Source, "Active *bool")
}

func TestToolGenerateEvolvesExistingSource(t *testing.T) {
	handler := ToolGenerate(testDeps(t))

	_, out, err := handler(context.Background(), nil, GenerateInput{
		Samples:        []string{`{"id": 7, "email": "a@b.c"}`},
		ExistingSource: "package models\n\ntype User struct {\n\tID int64 `json:\"id\"`\n}\n",
		RootName:       "User",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"User"}, out.ModifiedTypes)
	assert.Empty(t, out.NewTypes)
	assert.Contains(t, out.Source, "Email *string")
}

func TestToolGenerateRequiresSamples(t *testing.T) {
	handler := ToolGenerate(testDeps(t))

	_, _, err := handler(context.Background(), nil, GenerateInput{})
	var coded *CodedError
	require.True(t, errors.As(err, &coded))
	assert.Equal(t, ErrCodeInvalidInput, coded.Code)
}

func TestToolGenerateRejectsBadFilter(t *testing.T) {
	handler := ToolGenerate(testDeps(t))

	_, _, err := handler(context.Background(), nil, GenerateInput{
		Samples: []string{`{"a": 1}`},
		Filter:  ".foo[",
	})
	var coded *CodedError
	require.True(t, errors.As(err, &coded))
	assert.Equal(t, ErrCodeInvalidInput, coded.Code)
}

func TestToolInferSchema(t *testing.T) {
	handler := ToolInferSchema(testDeps(t))

	_, out, err := handler(context.Background(), nil, InferInput{
		Samples: []string{
			`{"id": 1, "tag": "x"}`,
			`{"id": 2}`,
		},
		Title: "Event",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, out.SampleCount)
	assert.Equal(t, 2, out.FieldPresence["id"])
	assert.Equal(t, 1, out.FieldPresence["tag"])

	doc, ok := out.Schema.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Event", doc["title"])
	assert.Equal(t, "object", doc["type"])
}

func TestToolCheckCompatFromSamples(t *testing.T) {
	handler := ToolCheckCompat(testDeps(t))

	_, out, err := handler(context.Background(), nil, CompatInput{
		Samples: []string{`{"id": 1, "name": "alice"}`},
		Payloads: []string{
			`{"id": 2, "name": "bob"}`,
			`{"id": "oops", "name": "eve"}`,
		},
	})
	require.NoError(t, err)

	assert.False(t, out.Compatible)
	assert.Equal(t, 2, out.Checked)
	assert.Equal(t, 1, out.Valid)
	assert.Len(t, out.Failures, 1)
}

func TestToolCheckCompatRequiresPayloads(t *testing.T) {
	handler := ToolCheckCompat(testDeps(t))

	_, _, err := handler(context.Background(), nil, CompatInput{
		Samples: []string{`{"a": 1}`},
	})
	var coded *CodedError
	require.True(t, errors.As(err, &coded))
	assert.Equal(t, ErrCodeInvalidInput, coded.Code)
}

func TestToolValidateFilter(t *testing.T) {
	handler := ToolValidateFilter(testDeps(t))

	_, out, err := handler(context.Background(), nil, FilterInput{Expression: ".data.items[]"})
	require.NoError(t, err)
	assert.True(t, out.Valid)

	_, out, err = handler(context.Background(), nil, FilterInput{Expression: ".foo["})
	require.NoError(t, err)
	assert.False(t, out.Valid)
	assert.NotEmpty(t, out.Error)
}
