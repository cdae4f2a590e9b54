package merge

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// maxNameAttempts bounds suffix retries before a collision becomes a hard
// error surfaced to the caller.
const maxNameAttempts = 1000

var titleCaser = cases.Title(language.English)

// PascalCase converts a JSON field name to an exported Go identifier:
// "first_name" -> "FirstName", "user-id" -> "UserId", "API_KEY" -> "ApiKey".
func PascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(titleCaser.String(strings.ToLower(p)))
	}
	out := b.String()
	if out == "" || !unicode.IsLetter(rune(out[0])) {
		out = "Field" + out
	}
	return out
}

// SingularName derives an element type name from a plural container name:
// "Categories" -> "Category", "Users" -> "User", anything without a clear
// plural pattern gets an Item suffix.
func SingularName(plural string) string {
	switch {
	case strings.HasSuffix(plural, "ies"):
		return plural[:len(plural)-3] + "y"
	case strings.HasSuffix(plural, "s") && !strings.HasSuffix(plural, "ss"):
		return plural[:len(plural)-1]
	default:
		return plural + "Item"
	}
}

// NameCollisionError reports that suffixing could not produce a unique name
// within the bounded retry count.
type NameCollisionError struct {
	Base string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("cannot allocate a unique type name for %q after %d attempts", e.Base, maxNameAttempts)
}

// namePool allocates unique type names. Existing definition names are
// seeded as taken so newly generated types never shadow preserved code.
type namePool struct {
	taken map[string]bool
}

func newNamePool(existing []string) *namePool {
	p := &namePool{taken: make(map[string]bool, len(existing))}
	for _, n := range existing {
		p.taken[n] = true
	}
	return p
}

// claim returns base if free, otherwise base2, base3, ... up to the retry
// bound.
func (p *namePool) claim(base string) (string, error) {
	if !p.taken[base] {
		p.taken[base] = true
		return base, nil
	}
	for i := 2; i <= maxNameAttempts; i++ {
		candidate := fmt.Sprintf("%s%d", base, i)
		if !p.taken[candidate] {
			p.taken[candidate] = true
			return candidate, nil
		}
	}
	return "", &NameCollisionError{Base: base}
}
