package mcp

import "github.com/mark3labs/mcp-go/mcp"

// askTool defines the ask_knowledge_base MCP tool.
var askTool = mcp.NewTool("ask_knowledge_base",
	mcp.WithDescription("Answer a question using only the indexed documents. Says so when the documents do not contain the answer."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("Natural language question"),
	),
	mcp.WithBoolean("include_sources",
		mcp.Description("Append the supporting document excerpts to the answer (default false)"),
	),
)

// searchTool defines the search_knowledge_base MCP tool.
var searchTool = mcp.NewTool("search_knowledge_base",
	mcp.WithDescription("Search the indexed documents semantically and return the most relevant excerpts."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 5)"),
	),
)
