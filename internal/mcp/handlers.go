package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/docqa/internal/vectordb"
)

const defaultSearchLimit = 5

// handleAsk answers a question from the index.
func (s *Server) handleAsk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil || strings.TrimSpace(question) == "" {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}
	withSources := request.GetBool("include_sources", false)

	res := s.answerer.Answer(ctx, question, s.retriever, withSources)
	if res == nil {
		return mcp.NewToolResultError("could not answer the question; check the docqa logs for details"), nil
	}

	var b strings.Builder
	b.WriteString(res.Answer)
	if len(res.Sources) > 0 {
		b.WriteString("\n\nSources:\n")
		for i, src := range res.Sources {
			fmt.Fprintf(&b, "\n[%d] %s\n%s\n", i+1, src.Source, src.Content)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

// handleSearch performs semantic search over the index.
func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", defaultSearchLimit)
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	records, err := s.retriever.Nearest(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	return mcp.NewToolResultText(vectordb.FormatRecords(records)), nil
}
