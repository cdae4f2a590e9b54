// Package gosrc extracts named struct definitions from existing Go source
// while keeping every byte it does not model as an opaque preserved region.
//
// The extractor is deliberately conservative: anything it cannot represent
// (grouped type blocks, funcs, consts, unmodeled field types) stays a
// preserved region so the assembled output reproduces untouched code
// byte-identically.
package gosrc

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"
)

// Region is a byte span into the original source, carried through verbatim.
type Region struct {
	Start, End int
}

// Ref addresses one element of a File in original order: either a
// definition or a preserved region.
type Ref struct {
	IsDefinition bool
	Index        int
}

// Field is one parsed struct field.
type Field struct {
	GoName   string
	JSONName string // name used on the wire; derived from the json tag
	Type     TypeRef
	Optional bool   // pointer type or ,omitempty
	Tag      string // raw tag literal including backticks, or ""
	Src      string // exact source text of the field line; "" for synthetic fields
	Skip     bool   // json:"-", embedded, or otherwise unmatchable
}

// Variant is one arm of a sum-type definition.
type Variant struct {
	Name     string // Go field name on the wrapper, e.g. V1
	TypeName string // the variant struct's type name, e.g. UserV1
}

// Definition is a named structural type: either a plain struct (Fields) or
// a sum-type wrapper (Variants). Parsed definitions are never mutated; the
// merge engine builds new values.
type Definition struct {
	Name     string
	Fields   []Field
	Variants []Variant
	Span     Region // byte span including the doc comment
	DocEnd   int    // offset where the type keyword starts; == Span.Start without a doc comment
}

// IsUnion reports whether the definition is a sum-type wrapper.
func (d *Definition) IsUnion() bool {
	return len(d.Variants) > 0
}

// FieldByJSONName returns the matchable field with the given wire name.
func (d *Definition) FieldByJSONName(name string) *Field {
	for i := range d.Fields {
		if !d.Fields[i].Skip && d.Fields[i].JSONName == name {
			return &d.Fields[i]
		}
	}
	return nil
}

// JSONNames returns the wire names of all matchable fields, in order.
func (d *Definition) JSONNames() []string {
	out := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		if !f.Skip {
			out = append(out, f.JSONName)
		}
	}
	return out
}

// File is the result of extracting a source file.
type File struct {
	Src         []byte
	Definitions []*Definition
	Regions     []Region
	Order       []Ref
}

// RegionText returns the source bytes of a preserved region.
func (f *File) RegionText(r Region) []byte {
	return f.Src[r.Start:r.End]
}

// DefinitionText returns the original source bytes of a definition.
func (f *File) DefinitionText(d *Definition) []byte {
	return f.Src[d.Span.Start:d.Span.End]
}

// ParseError reports source that failed to parse at all. The whole run
// aborts on it: partial recovery risks silently discarding user code.
type ParseError struct {
	Pos string // file:line:col of the first syntax error, if known
	Err error
}

func (e *ParseError) Error() string {
	if e.Pos != "" {
		return fmt.Sprintf("source unparseable at %s: %v", e.Pos, e.Err)
	}
	return fmt.Sprintf("source unparseable: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Extract parses Go source into struct definitions plus preserved regions.
// It tolerates zero, one, or many definitions; only a file that fails the
// parser entirely is an error.
func Extract(src []byte) (*File, error) {
	fset := token.NewFileSet()
	astFile, err := parser.ParseFile(fset, "source.go", src, parser.ParseComments)
	if err != nil {
		pe := &ParseError{Err: err}
		var list scanner.ErrorList
		if ok := asErrorList(err, &list); ok && len(list) > 0 {
			pe.Pos = list[0].Pos.String()
		}
		return nil, pe
	}

	tf := fset.File(astFile.Pos())
	offset := func(p token.Pos) int { return tf.Offset(p) }

	out := &File{Src: src}
	cursor := 0

	flushRegion := func(end int) {
		if end > cursor {
			out.Regions = append(out.Regions, Region{Start: cursor, End: end})
			out.Order = append(out.Order, Ref{Index: len(out.Regions) - 1})
		}
		cursor = end
	}

	for _, decl := range astFile.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE || gen.Lparen.IsValid() || len(gen.Specs) != 1 {
			continue
		}
		spec, ok := gen.Specs[0].(*ast.TypeSpec)
		if !ok {
			continue
		}
		st, ok := spec.Type.(*ast.StructType)
		if !ok {
			continue
		}

		declStart := offset(gen.Pos())
		start := declStart
		if gen.Doc != nil {
			start = offset(gen.Doc.Pos())
		}
		end := offset(gen.End())

		def := &Definition{
			Name:   spec.Name.Name,
			Span:   Region{Start: start, End: end},
			DocEnd: declStart,
			Fields: extractFields(src, offset, st),
		}
		def.Variants = detectUnion(def)

		flushRegion(start)
		out.Definitions = append(out.Definitions, def)
		out.Order = append(out.Order, Ref{IsDefinition: true, Index: len(out.Definitions) - 1})
		cursor = end
	}

	flushRegion(len(src))
	return out, nil
}

func extractFields(src []byte, offset func(token.Pos) int, st *ast.StructType) []Field {
	if st.Fields == nil {
		return nil
	}
	var out []Field
	for _, af := range st.Fields.List {
		raw := string(src[offset(af.Pos()):offset(af.End())])
		typeRaw := string(src[offset(af.Type.Pos()):offset(af.Type.End())])
		ref := parseTypeExpr(af.Type, typeRaw)

		tag := ""
		if af.Tag != nil {
			tag = af.Tag.Value
		}

		if len(af.Names) == 0 {
			// Embedded field: carried verbatim, never matched.
			out = append(out, Field{Type: ref, Tag: tag, Src: raw, Skip: true})
			continue
		}

		for _, name := range af.Names {
			jsonName, omitempty := parseJSONTag(tag)
			skip := jsonName == "-"
			if jsonName == "" || skip {
				jsonName = lowerFirst(name.Name)
			}
			f := Field{
				GoName:   name.Name,
				JSONName: jsonName,
				Type:     ref,
				Optional: ref.Pointer || omitempty,
				Tag:      tag,
				Skip:     skip,
			}
			// A shared declaration line (a, b int) only round-trips for
			// the whole group; keep the raw text on the first name.
			if name == af.Names[0] {
				f.Src = raw
			}
			out = append(out, f)
		}
	}
	return out
}

// detectUnion recognizes the sum-type wrapper shape this tool emits: two or
// more fields, each a pointer to a named type, all tagged json:"-".
func detectUnion(d *Definition) []Variant {
	if len(d.Fields) < 2 {
		return nil
	}
	variants := make([]Variant, 0, len(d.Fields))
	for _, f := range d.Fields {
		name, _ := parseJSONTag(f.Tag)
		if name != "-" || !f.Type.Pointer || f.Type.Kind != RefNamed {
			return nil
		}
		variants = append(variants, Variant{Name: f.GoName, TypeName: f.Type.Name})
	}
	return variants
}

// parseJSONTag extracts the wire name and omitempty flag from a raw tag
// literal (including backticks).
func parseJSONTag(tag string) (name string, omitempty bool) {
	tag = strings.Trim(tag, "`")
	for _, part := range strings.Fields(tag) {
		if !strings.HasPrefix(part, `json:"`) {
			continue
		}
		val := strings.TrimSuffix(strings.TrimPrefix(part, `json:"`), `"`)
		opts := strings.Split(val, ",")
		name = opts[0]
		for _, o := range opts[1:] {
			if o == "omitempty" {
				omitempty = true
			}
		}
		return name, omitempty
	}
	return "", false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func asErrorList(err error, list *scanner.ErrorList) bool {
	if l, ok := err.(scanner.ErrorList); ok {
		*list = l
		return true
	}
	return false
}
