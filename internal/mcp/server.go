// Package mcp exposes the indexing engine over the Model Context
// Protocol so chat agents can sync and query directories directly.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"talkie/internal/rag"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server exposing directory sync and query tools.
type Server struct {
	engine *rag.Engine
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server around the given engine.
func NewServer(engine *rag.Engine) *Server {
	s := &Server{engine: engine}

	s.mcp = server.NewMCPServer(
		"talkie",
		Version,
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(syncDirectoryTool, s.handleSyncDirectory)
	s.mcp.AddTool(queryDirectoryTool, s.handleQueryDirectory)

	return s
}

// Serve starts the MCP server on stdio. Stdout carries protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
