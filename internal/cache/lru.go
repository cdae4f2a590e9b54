// Package cache provides caching utilities shared by batch inference and
// the MCP server.
package cache

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/usestring/json2go/pkg/schema"
)

// SchemaCache is a thread-safe LRU cache of inferred schemas keyed by the
// content hash of the raw sample. Repeated samples, common in polled API
// captures, skip re-inference.
type SchemaCache struct {
	cache *lru.Cache[string, *schema.Schema]
}

// NewSchemaCache creates an LRU cache holding up to maxItems schemas.
func NewSchemaCache(maxItems int) (*SchemaCache, error) {
	c, err := lru.New[string, *schema.Schema](maxItems)
	if err != nil {
		return nil, err
	}
	return &SchemaCache{cache: c}, nil
}

// Key returns the cache key for a raw sample.
func Key(sample []byte) string {
	sum := sha256.Sum256(sample)
	return hex.EncodeToString(sum[:])
}

// Get retrieves the schema inferred for a sample with the given key.
func (c *SchemaCache) Get(key string) (*schema.Schema, bool) {
	return c.cache.Get(key)
}

// Put stores an inferred schema under the given key.
func (c *SchemaCache) Put(key string, s *schema.Schema) {
	c.cache.Add(key, s)
}

// Len returns the current number of cached schemas.
func (c *SchemaCache) Len() int {
	return c.cache.Len()
}
