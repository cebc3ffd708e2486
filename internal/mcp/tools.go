package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listAdventuresTool defines the list_adventures MCP tool.
var listAdventuresTool = mcp.NewTool("list_adventures",
	mcp.WithDescription("List the identifiers of all stored adventures."),
)

// getAdventureTool defines the get_adventure MCP tool.
var getAdventureTool = mcp.NewTool("get_adventure",
	mcp.WithDescription("Get the full adventure record (sections, tags, keyword links) as JSON."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Adventure identifier as returned by list_adventures"),
	),
)

// annotateTextTool defines the annotate_text MCP tool.
var annotateTextTool = mcp.NewTool("annotate_text",
	mcp.WithDescription("Insert page-jump markers into text using the keyword links of an adventure."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Text or HTML to annotate"),
	),
	mcp.WithString("adventure_id",
		mcp.Required(),
		mcp.Description("Adventure whose keyword links are applied"),
	),
	mcp.WithString("section_id",
		mcp.Description("Only use the links of this section (default: all sections)"),
	),
	mcp.WithString("mode",
		mcp.Description("Annotation mode"),
		mcp.Enum("sequential", "single_pass"),
	),
)

// findPageReferencesTool defines the find_page_references MCP tool.
var findPageReferencesTool = mcp.NewTool("find_page_references",
	mcp.WithDescription("Find every section and keyword that links to a PDF page."),
	mcp.WithNumber("page",
		mcp.Required(),
		mcp.Description("1-based PDF page number"),
	),
	mcp.WithString("adventure_id",
		mcp.Description("Restrict the search to one adventure (default: all)"),
	),
)

// getPageTextTool defines the get_page_text MCP tool.
var getPageTextTool = mcp.NewTool("get_page_text",
	mcp.WithDescription("Get the extracted text of a page of the rules PDF."),
	mcp.WithNumber("page",
		mcp.Required(),
		mcp.Description("1-based PDF page number"),
	),
)
