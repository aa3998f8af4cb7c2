package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/docqa/internal/extract"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"init", "index", "ask", "search", "summarize", "reset", "serve", "mcp", "chat", "version"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func newSummarizeFlags(t *testing.T, set map[string]string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{}
	for _, name := range []string{"file", "url", "youtube", "text"} {
		c.Flags().String(name, "", "")
	}
	for k, v := range set {
		require.NoError(t, c.Flags().Set(k, v))
	}
	return c
}

func TestSummarizeInput(t *testing.T) {
	in, err := summarizeInput(newSummarizeFlags(t, map[string]string{"file": "report.pdf"}))
	require.NoError(t, err)
	assert.Equal(t, extract.KindPDF, in.Kind)

	in, err = summarizeInput(newSummarizeFlags(t, map[string]string{"url": "https://example.com"}))
	require.NoError(t, err)
	assert.Equal(t, extract.KindWebURL, in.Kind)

	in, err = summarizeInput(newSummarizeFlags(t, map[string]string{"youtube": "https://youtu.be/abc"}))
	require.NoError(t, err)
	assert.Equal(t, extract.KindVideoURL, in.Kind)

	in, err = summarizeInput(newSummarizeFlags(t, map[string]string{"text": "hello"}))
	require.NoError(t, err)
	assert.Equal(t, extract.KindText, in.Kind)

	_, err = summarizeInput(newSummarizeFlags(t, nil))
	assert.Error(t, err)

	_, err = summarizeInput(newSummarizeFlags(t, map[string]string{"file": "photo.png"}))
	var unsupported *extract.UnsupportedFormatError
	assert.ErrorAs(t, err, &unsupported)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "héll...", truncate("héllo world", 4))
}
