package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/docqa/internal/llm"
	"github.com/ziadkadry99/docqa/internal/logging"
	"github.com/ziadkadry99/docqa/internal/qa"
	"github.com/ziadkadry99/docqa/internal/vectordb"
)

// mockRetriever returns its records in order, up to k.
type mockRetriever struct {
	records []vectordb.Record
	err     error
}

func (m *mockRetriever) Nearest(_ context.Context, _ string, k int) ([]vectordb.Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	if k < len(m.records) {
		return m.records[:k], nil
	}
	return m.records, nil
}

// mockProvider returns a fixed answer.
type mockProvider struct {
	answer string
	err    error
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Complete(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &llm.CompletionResponse{Content: m.answer}, nil
}

func sampleRetriever() *mockRetriever {
	return &mockRetriever{records: []vectordb.Record{
		{ID: "1", Text: "Paris is the capital of France.", Source: "france.txt", Similarity: 0.92},
		{ID: "2", Text: "Berlin is the capital of Germany.", Source: "germany.txt", Similarity: 0.71},
	}}
}

func newTestServer(ret qa.Retriever, p llm.Provider) *Server {
	return NewServer(ret, qa.New(p, qa.WithLogger(logging.Discard())))
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", result.Content[0])
	}
	return text.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"ask", askTool, "ask_knowledge_base"},
		{"search", searchTool, "search_knowledge_base"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	ret := sampleRetriever()
	srv := newTestServer(ret, &mockProvider{})

	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.retriever != ret {
		t.Error("retriever not set correctly")
	}
}

func TestHandleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("answer with sources", func(t *testing.T) {
		srv := newTestServer(sampleRetriever(), &mockProvider{answer: "Paris."})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"question":        "What is the capital of France?",
			"include_sources": true,
		}

		result, err := srv.handleAsk(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(t, result)
		if !strings.HasPrefix(text, "Paris.") {
			t.Errorf("answer = %q, want prefix Paris.", text)
		}
		if !strings.Contains(text, "[1] france.txt") {
			t.Errorf("expected sources in %q", text)
		}
	})

	t.Run("answer without sources", func(t *testing.T) {
		srv := newTestServer(sampleRetriever(), &mockProvider{answer: "Paris."})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"question": "What is the capital of France?"}

		result, _ := srv.handleAsk(ctx, req)
		if got := resultText(t, result); got != "Paris." {
			t.Errorf("answer = %q, want Paris.", got)
		}
	})

	t.Run("missing question", func(t *testing.T) {
		srv := newTestServer(sampleRetriever(), &mockProvider{})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleAsk(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing question")
		}
	})

	t.Run("provider failure", func(t *testing.T) {
		srv := newTestServer(sampleRetriever(), &mockProvider{err: errors.New("boom")})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"question": "What is the capital of France?"}

		result, err := srv.handleAsk(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error when the provider fails")
		}
	})
}

func TestHandleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("basic search", func(t *testing.T) {
		srv := newTestServer(sampleRetriever(), &mockProvider{})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "capital", "limit": float64(1)}

		result, err := srv.handleSearch(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "Found 1 result(s)") || !strings.Contains(text, "Paris") {
			t.Errorf("unexpected search output: %q", text)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		srv := newTestServer(sampleRetriever(), &mockProvider{})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, _ := srv.handleSearch(ctx, req)
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})

	t.Run("no matches", func(t *testing.T) {
		srv := newTestServer(&mockRetriever{}, &mockProvider{})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "anything"}

		result, _ := srv.handleSearch(ctx, req)
		if result.IsError {
			t.Fatal("no matches should not be a tool error")
		}
		if got := resultText(t, result); got != "No results found." {
			t.Errorf("expected plain no-results message, got %q", got)
		}
	})

	t.Run("retrieval failure", func(t *testing.T) {
		srv := newTestServer(&mockRetriever{err: errors.New("index closed")}, &mockProvider{})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "anything"}

		result, _ := srv.handleSearch(ctx, req)
		if !result.IsError {
			t.Error("expected tool error")
		}
	})
}
