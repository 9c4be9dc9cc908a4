package mcp

import "github.com/mark3labs/mcp-go/mcp"

// syncDirectoryTool defines the sync_directory MCP tool.
var syncDirectoryTool = mcp.NewTool("sync_directory",
	mcp.WithDescription("Index or refresh the semantic index of a directory. Detects new, changed, and removed files and reconciles the vector index to match."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Directory to index"),
	),
)

// queryDirectoryTool defines the query_directory MCP tool.
var queryDirectoryTool = mcp.NewTool("query_directory",
	mcp.WithDescription("Find the files in an indexed directory most similar to a natural language query. Returns relative paths and their content, best match first."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Indexed directory to search"),
	),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 5)"),
	),
)
