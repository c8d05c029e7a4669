package mcp

import "github.com/mark3labs/mcp-go/mcp"

func auditDocumentTool() mcp.Tool {
	return mcp.NewTool("audit_document",
		mcp.WithDescription("Audit a design document against the approved libraries and saved tokens. "+
			"Returns every fill, stroke, effect, text, radius and gap value that is not traceable to an approved "+
			"style or token, plus component instances whose main component is missing, deleted or detached."),
		mcp.WithString("document",
			mcp.Required(),
			mcp.Description("Scene export as JSON: {name, nodes, styles, components}."),
		),
		mcp.WithString("libraries",
			mcp.Description("Extra approved libraries as JSON (a library, a list of libraries, or a {libraries, tokens} bundle). Merged with the server catalog."),
		),
		mcp.WithString("tokens",
			mcp.Description("Extra saved tokens as a JSON list of {name, value}."),
		),
		mcp.WithArray("node_ids",
			mcp.Description("Audit only these nodes and their subtrees."),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
}

func listSuggestionsTool() mcp.Tool {
	return mcp.NewTool("list_suggestions",
		mcp.WithDescription("List the approved replacements for one property family."),
		mcp.WithString("family",
			mcp.Required(),
			mcp.Description("Property family"),
			mcp.Enum("fill", "stroke", "effects", "text", "radius", "gap", "padding"),
		),
	)
}

func summarizeFindingsTool() mcp.Tool {
	return mcp.NewTool("summarize_findings",
		mcp.WithDescription("Normalize a list of findings (for example a saved report) and count them by type and node."),
		mcp.WithString("findings",
			mcp.Required(),
			mcp.Description("JSON array of finding records."),
		),
	)
}
