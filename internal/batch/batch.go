// Package batch folds many JSON samples into one schema. Samples infer
// concurrently; the fold itself is sequential so the first-seen field
// order of the earliest sample wins.
package batch

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/usestring/json2go/internal/cache"
	"github.com/usestring/json2go/pkg/schema"
)

// DefaultWorkers bounds concurrent inference when the caller passes zero.
const DefaultWorkers = 8

// Folder infers schemas from sample batches, caching per-sample results
// across calls.
type Folder struct {
	workers int
	cache   *cache.SchemaCache
}

// NewFolder creates a folder with the given concurrency and cache size.
// Zero values pick defaults.
func NewFolder(workers, cacheSize int) (*Folder, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	c, err := cache.NewSchemaCache(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Folder{workers: workers, cache: c}, nil
}

// Result is the folded outcome of one batch.
type Result struct {
	// Schema is the union of all sample schemas.
	Schema *schema.Schema
	// Profile records per-path presence across samples.
	Profile *schema.Profile
	// Samples is the number of samples folded.
	Samples int
}

// Fold infers a schema per sample and merges them in input order. Any
// sample that fails to decode fails the whole batch; partial schemas
// would silently misreport optionality.
func (f *Folder) Fold(ctx context.Context, samples [][]byte) (*Result, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples")
	}

	schemas := make([]*schema.Schema, len(samples))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)
	for i, sample := range samples {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := cache.Key(sample)
			if s, ok := f.cache.Get(key); ok {
				schemas[i] = s
				return nil
			}
			s, err := schema.InferBytes(sample)
			if err != nil {
				return fmt.Errorf("sample[%d]: %w", i, err)
			}
			f.cache.Put(key, s)
			schemas[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged *schema.Schema
	for _, s := range schemas {
		merged = schema.Merge(merged, s)
	}

	profile := schema.NewProfile()
	for _, sample := range samples {
		var v any
		if err := json.Unmarshal(sample, &v); err != nil {
			// Already validated by inference above.
			continue
		}
		if arr, ok := v.([]any); ok {
			// Root arrays observe under the same synthetic items field the
			// schema wrapper uses.
			v = map[string]any{"items": arr}
		}
		profile.Observe(v)
	}

	return &Result{
		Schema:  profile.Apply(merged),
		Profile: profile,
		Samples: len(samples),
	}, nil
}
