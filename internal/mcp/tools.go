package mcp

import "github.com/mark3labs/mcp-go/mcp"

var addToolDef = mcp.NewTool("people_add",
	mcp.WithDescription("Add one person. The birth date is stored as YYYY-MM-DD when it can be read, otherwise as typed. Returns the record and which of its fields are duplicated."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Full name")),
	mcp.WithString("birth_date", mcp.Required(), mcp.Description("Birth date, e.g. 10/05/1985 or 1985-05-10")),
	mcp.WithString("document_number", mcp.Required(), mcp.Description("Document number; punctuation is ignored when comparing")),
)

var importToolDef = mcp.NewTool("people_import",
	mcp.WithDescription("Import people. Either pass text with one person per line (name, birth date, document separated by comma, semicolon or tab), or pass path to a JSON export file."),
	mcp.WithString("text", mcp.Description("Pasted lines")),
	mcp.WithString("path", mcp.Description("Path to a JSON export (.json) to read back")),
)

var listToolDef = mcp.NewTool("people_list",
	mcp.WithDescription("List people in display order with per-field duplicate marks and a duplicate summary."),
	mcp.WithNumber("limit", mcp.Description("Page size (default 50, max 500)")),
	mcp.WithNumber("offset", mcp.Description("Rows to skip")),
	mcp.WithBoolean("duplicates_only", mcp.Description("Only rows with at least one duplicated field")),
)

var summaryToolDef = mcp.NewTool("people_summary",
	mcp.WithDescription("Count duplicate groups by field and list each group with its members."),
)

var removeToolDef = mcp.NewTool("people_remove",
	mcp.WithDescription("Remove one person by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Record id")),
)

var clearToolDef = mcp.NewTool("people_clear",
	mcp.WithDescription("Remove every person. Does nothing unless confirm is true."),
	mcp.WithBoolean("confirm", mcp.Description("Must be true to clear")),
)

var dedupeToolDef = mcp.NewTool("people_dedupe",
	mcp.WithDescription("Remove duplicates, keeping the most recently added record of each group. Without confirm it only reports which ids would be removed."),
	mcp.WithBoolean("confirm", mcp.Description("Must be true to remove")),
)

var exportToolDef = mcp.NewTool("people_export",
	mcp.WithDescription("Export all people as csv, json or text. Writes a file under ~/.roster/exports by default, or returns the content when inline is true."),
	mcp.WithString("format", mcp.Description("csv (default), json or text"), mcp.Enum("csv", "json", "text")),
	mcp.WithString("path", mcp.Description("Output file; its extension must match the format")),
	mcp.WithBoolean("inline", mcp.Description("Return the content instead of writing a file")),
)
