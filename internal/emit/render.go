// Package emit renders merged definitions back into Go source. Untouched
// definitions and everything between them pass through byte-identically;
// only replaced definitions and newly minted types are rendered fresh.
package emit

import (
	"bytes"
	"fmt"

	"github.com/usestring/json2go/pkg/gosrc"
)

// RenderDefinition renders one definition as Go source, ending at the
// closing brace with no trailing newline. Union wrappers get their codec
// methods appended.
func RenderDefinition(d *gosrc.Definition) []byte {
	var b bytes.Buffer
	renderStruct(&b, d)
	if d.IsUnion() {
		b.WriteString("\n\n")
		renderUnionCodec(&b, d)
	}
	return b.Bytes()
}

// renderStruct writes the type declaration. Fields carrying their original
// source text re-emit it verbatim, keeping user comments and formatting;
// synthetic fields are column-aligned among themselves.
func renderStruct(b *bytes.Buffer, d *gosrc.Definition) {
	fmt.Fprintf(b, "type %s struct {\n", d.Name)

	nameW, typeW := 0, 0
	for _, f := range d.Fields {
		if f.Src != "" {
			continue
		}
		if len(f.GoName) > nameW {
			nameW = len(f.GoName)
		}
		if w := len(f.Type.String()); w > typeW {
			typeW = w
		}
	}

	for _, f := range d.Fields {
		b.WriteByte('\t')
		if f.Src != "" {
			b.WriteString(f.Src)
		} else if f.Tag != "" {
			fmt.Fprintf(b, "%-*s %-*s %s", nameW, f.GoName, typeW, f.Type.String(), f.Tag)
		} else {
			fmt.Fprintf(b, "%-*s %s", nameW, f.GoName, f.Type.String())
		}
		b.WriteByte('\n')
	}
	b.WriteString("}")
}

// renderUnionCodec writes the MarshalJSON and UnmarshalJSON methods that
// make a variant wrapper transparent on the wire.
func renderUnionCodec(b *bytes.Buffer, d *gosrc.Definition) {
	fmt.Fprintf(b, "// MarshalJSON encodes whichever variant of %s is set.\n", d.Name)
	fmt.Fprintf(b, "func (v %s) MarshalJSON() ([]byte, error) {\n\tswitch {\n", d.Name)
	for _, vt := range d.Variants {
		fmt.Fprintf(b, "\tcase v.%s != nil:\n\t\treturn json.Marshal(v.%s)\n", vt.Name, vt.Name)
	}
	b.WriteString("\t}\n\treturn []byte(\"null\"), nil\n}\n\n")

	fmt.Fprintf(b, "// UnmarshalJSON tries each variant in declaration order. Unknown\n")
	fmt.Fprintf(b, "// fields are rejected per attempt so data lands on the variant\n")
	fmt.Fprintf(b, "// whose shape it actually has.\n")
	fmt.Fprintf(b, "func (v *%s) UnmarshalJSON(data []byte) error {\n", d.Name)
	for _, vt := range d.Variants {
		fmt.Fprintf(b, "\t{\n")
		fmt.Fprintf(b, "\t\tvar out %s\n", vt.TypeName)
		fmt.Fprintf(b, "\t\tdec := json.NewDecoder(bytes.NewReader(data))\n")
		fmt.Fprintf(b, "\t\tdec.DisallowUnknownFields()\n")
		fmt.Fprintf(b, "\t\tif err := dec.Decode(&out); err == nil {\n")
		fmt.Fprintf(b, "\t\t\t*v = %s{%s: &out}\n", d.Name, vt.Name)
		fmt.Fprintf(b, "\t\t\treturn nil\n\t\t}\n\t}\n")
	}
	fmt.Fprintf(b, "\treturn errors.New(\"no variant of %s matched\")\n}", d.Name)
}
