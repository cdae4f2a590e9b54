package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: json2go_generate
	AddTool(srv, &sdkmcp.Tool{
		Name:        "json2go_generate",
		Description: "Generate or evolve Go type definitions from JSON samples. Pass existing_source to merge new observations into hand-written types: matching structs are extended in place (new fields optional), low-overlap shapes become new types, and the enum/hybrid strategies split mutually exclusive shapes into sum-type variants. Untouched definitions are preserved byte for byte. Returns the evolved source plus new_types, modified_types, and any type conflicts that degraded to string.",
	}, ToolGenerate(d))

	// Tool 2: json2go_infer_schema
	AddTool(srv, &sdkmcp.Tool{
		Name:        "json2go_infer_schema",
		Description: "Infer a merged JSON Schema from JSON samples without generating Go code. Returns a draft 2020-12 schema document plus field_presence counts per path (e.g. items.[].id) showing how many samples carried each field. Use the filter parameter (jq expression) to carve the relevant subtree out of response envelopes.",
	}, ToolInferSchema(d))

	// Tool 3: json2go_check_compat
	AddTool(srv, &sdkmcp.Tool{
		Name:        "json2go_check_compat",
		Description: "Check that historical payloads still validate against a schema. Pass a JSON Schema document directly, or samples to infer one. Returns per-payload failures; compatible=true means every payload that matched the old shape still matches the new one.",
	}, ToolCheckCompat(d))

	// Tool 4: json2go_validate_filter
	AddTool(srv, &sdkmcp.Tool{
		Name:        "json2go_validate_filter",
		Description: "Validate a jq filter expression without running it. Use before passing the expression to generate or infer_schema.",
	}, ToolValidateFilter(d))
}
