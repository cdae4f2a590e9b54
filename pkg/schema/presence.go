package schema

import (
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// Profile tracks which samples contained which field paths, using one
// bitmap of sample IDs per path. It drives optionality across many
// samples: a field is required only if every observed sample carried it.
//
// Paths are dot-joined field names; array elements contribute under the
// "[]" segment, e.g. "items.[].id".
type Profile struct {
	samples  uint32
	presence map[string]*roaring.Bitmap
}

// NewProfile creates an empty presence profile.
func NewProfile() *Profile {
	return &Profile{presence: make(map[string]*roaring.Bitmap)}
}

// Samples returns the number of samples observed so far.
func (p *Profile) Samples() int {
	return int(p.samples)
}

// Observe records the field paths present in one decoded JSON sample.
func (p *Profile) Observe(v any) {
	id := p.samples
	p.samples++
	p.walk(v, nil, id)
}

func (p *Profile) walk(v any, path []string, id uint32) {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			childPath := append(path, k)
			p.mark(strings.Join(childPath, "."), id)
			p.walk(child, childPath, id)
		}
	case []any:
		childPath := append(path, "[]")
		for _, item := range val {
			p.walk(item, childPath, id)
		}
	}
}

func (p *Profile) mark(path string, id uint32) {
	bm, ok := p.presence[path]
	if !ok {
		bm = roaring.New()
		p.presence[path] = bm
	}
	bm.Add(id)
}

// Count returns how many samples contained the given path.
func (p *Profile) Count(path string) int {
	if bm, ok := p.presence[path]; ok {
		return int(bm.GetCardinality())
	}
	return 0
}

// Required reports whether the path was present in every sample.
func (p *Profile) Required(path string) bool {
	if p.samples == 0 {
		return false
	}
	return p.Count(path) == int(p.samples)
}

// Counts returns per-path presence counts, for reporting.
func (p *Profile) Counts() map[string]int {
	out := make(map[string]int, len(p.presence))
	for path, bm := range p.presence {
		out[path] = int(bm.GetCardinality())
	}
	return out
}

// Apply returns a copy of s with object field optionality widened wherever
// the profile saw the field missing from at least one sample. Fields the
// schema already marks optional stay optional.
func (p *Profile) Apply(s *Schema) *Schema {
	if p.samples == 0 {
		return s
	}
	return p.apply(s, nil)
}

func (p *Profile) apply(s *Schema, path []string) *Schema {
	if s == nil {
		return nil
	}
	switch s.Kind {
	case KindObject:
		out := *s
		out.Fields = make([]Field, len(s.Fields))
		for i, f := range s.Fields {
			childPath := append(path, f.Name)
			nf := f
			nf.Schema = p.apply(f.Schema, childPath)
			if !p.Required(strings.Join(childPath, ".")) {
				nf.Optional = true
			}
			out.Fields[i] = nf
		}
		return &out
	case KindArray:
		out := *s
		out.Elem = p.apply(s.Elem, append(path, "[]"))
		return &out
	default:
		return s
	}
}
