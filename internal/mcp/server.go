// Package mcp exposes the knowledge base to MCP clients over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/docqa/internal/qa"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes knowledge-base tools.
type Server struct {
	retriever qa.Retriever
	answerer  *qa.Answerer
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server over a loaded index.
func NewServer(retriever qa.Retriever, answerer *qa.Answerer) *Server {
	s := &Server{
		retriever: retriever,
		answerer:  answerer,
	}

	s.mcp = server.NewMCPServer(
		"docqa",
		Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("Answers questions from a local document index. Use search_knowledge_base to inspect raw excerpts and ask_knowledge_base for a grounded answer."),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(askTool, s.handleAsk)
	s.mcp.AddTool(searchTool, s.handleSearch)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
