package emit

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"sort"
	"strconv"

	"github.com/usestring/json2go/internal/merge"
	"github.com/usestring/json2go/pkg/gosrc"
)

// unionImports are the packages the generated union codec methods use.
var unionImports = []string{"bytes", "encoding/json", "errors"}

// Assemble produces the final source file from a merge plan. existing may
// be nil, in which case a standalone file with the given package name is
// produced. With an empty plan the existing source comes back unchanged,
// byte for byte.
func Assemble(existing *gosrc.File, plan *merge.Plan, pkgName string) ([]byte, error) {
	if existing == nil {
		return assembleNew(plan, pkgName)
	}

	repl := make(map[*gosrc.Definition]*gosrc.Definition, len(plan.Replacements))
	for _, r := range plan.Replacements {
		repl[r.Target] = r.Result
	}

	var b bytes.Buffer
	for _, ref := range existing.Order {
		if !ref.IsDefinition {
			b.Write(existing.RegionText(existing.Regions[ref.Index]))
			continue
		}
		d := existing.Definitions[ref.Index]
		if r, ok := repl[d]; ok {
			// Keep the hand-written doc comment above the declaration.
			b.Write(existing.Src[d.Span.Start:d.DocEnd])
			b.Write(RenderDefinition(r))
		} else {
			b.Write(existing.DefinitionText(d))
		}
	}

	out := b.Bytes()
	if len(plan.NewTypes) > 0 {
		if !bytes.HasSuffix(out, []byte("\n")) {
			out = append(out, '\n')
		}
		for _, d := range plan.NewTypes {
			out = append(out, '\n')
			out = append(out, RenderDefinition(d)...)
			out = append(out, '\n')
		}
	}

	if planHasUnion(plan) {
		return ensureImports(out, unionImports)
	}
	return out, nil
}

func assembleNew(plan *merge.Plan, pkgName string) ([]byte, error) {
	if pkgName == "" {
		pkgName = "main"
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "package %s\n", pkgName)
	if planHasUnion(plan) {
		b.WriteString("\nimport (\n")
		for _, p := range unionImports {
			fmt.Fprintf(&b, "\t%q\n", p)
		}
		b.WriteString(")\n")
	}
	for _, d := range plan.NewTypes {
		b.WriteByte('\n')
		b.Write(RenderDefinition(d))
		b.WriteByte('\n')
	}
	return b.Bytes(), nil
}

func planHasUnion(plan *merge.Plan) bool {
	for _, r := range plan.Replacements {
		if r.Result.IsUnion() {
			return true
		}
	}
	for _, d := range plan.NewTypes {
		if d.IsUnion() {
			return true
		}
	}
	return false
}

// ensureImports adds any of the required import paths the assembled file
// does not already import. It merges into an existing parenthesized block
// when one exists, otherwise inserts a new block after the package clause.
func ensureImports(src []byte, required []string) ([]byte, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "out.go", src, parser.ImportsOnly)
	if err != nil {
		// Assembled output should always parse; surface it loudly if not.
		return nil, fmt.Errorf("assembled source unparseable: %w", err)
	}
	have := make(map[string]bool)
	for _, imp := range f.Imports {
		if p, err := strconv.Unquote(imp.Path.Value); err == nil {
			have[p] = true
		}
	}

	missing := make([]string, 0, len(required))
	for _, p := range required {
		if !have[p] {
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return src, nil
	}
	sort.Strings(missing)

	tf := fset.File(f.Pos())
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.IMPORT || !gen.Lparen.IsValid() {
			continue
		}
		at := tf.Offset(gen.Rparen)
		var ins bytes.Buffer
		for _, p := range missing {
			fmt.Fprintf(&ins, "\t%q\n", p)
		}
		return splice(src, at, ins.Bytes()), nil
	}

	// No block to merge into: insert after the package clause line.
	at := tf.Offset(f.Name.End())
	if idx := bytes.IndexByte(src[at:], '\n'); idx >= 0 {
		at += idx + 1
	} else {
		at = len(src)
	}
	var ins bytes.Buffer
	ins.WriteString("\nimport (\n")
	for _, p := range missing {
		fmt.Fprintf(&ins, "\t%q\n", p)
	}
	ins.WriteString(")\n")
	return splice(src, at, ins.Bytes()), nil
}

func splice(src []byte, at int, ins []byte) []byte {
	out := make([]byte, 0, len(src)+len(ins))
	out = append(out, src[:at]...)
	out = append(out, ins...)
	out = append(out, src[at:]...)
	return out
}
