package chunk

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/docqa/internal/config"
	"github.com/ziadkadry99/docqa/internal/extract"
)

// wordTokenizer treats each space-separated word as one token.
type wordTokenizer struct {
	ids   map[string]int
	words []string
}

func newWordTokenizer() *wordTokenizer {
	return &wordTokenizer{ids: map[string]int{}}
}

func (w *wordTokenizer) Encode(text string) []int {
	var out []int
	for _, f := range strings.Fields(text) {
		id, ok := w.ids[f]
		if !ok {
			id = len(w.words)
			w.ids[f] = id
			w.words = append(w.words, f)
		}
		out = append(out, id)
	}
	return out
}

func (w *wordTokenizer) Decode(tokens []int) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = w.words[t]
	}
	return strings.Join(parts, " ")
}

func TestTaskPolicy(t *testing.T) {
	assert.Equal(t, PolicyRecursive, TaskPolicy(TaskQA))
	assert.Equal(t, PolicyToken, TaskPolicy(TaskSummarization))
}

func TestNewSplitter_InvalidSizes(t *testing.T) {
	tests := []struct {
		name          string
		size, overlap int
		key           string
	}{
		{"zero size", 0, 0, "chunk_size"},
		{"negative size", -5, 0, "chunk_size"},
		{"negative overlap", 100, -1, "chunk_overlap"},
		{"overlap equals size", 100, 100, "chunk_overlap"},
		{"overlap exceeds size", 100, 150, "chunk_overlap"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSplitter(PolicyRecursive, tt.size, tt.overlap)
			var cfgErr *config.ConfigError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
			assert.Equal(t, tt.key, cfgErr.Key)

			_, err = NewTokenSplitter(newWordTokenizer(), tt.size, tt.overlap)
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestRecursiveSplitter_PrefersParagraphs(t *testing.T) {
	s, err := NewRecursiveSplitter(20, 0)
	require.NoError(t, err)

	got, err := s.SplitText("Para one is here.\n\nPara two is here.")
	require.NoError(t, err)
	assert.Equal(t, []string{"Para one is here.", "Para two is here."}, got)
}

func TestRecursiveSplitter_FallsBackToSentences(t *testing.T) {
	s, err := NewRecursiveSplitter(30, 0)
	require.NoError(t, err)

	text := "Paris is in France. Berlin is in Germany. Rome is in Italy."
	got, err := s.SplitText(text)
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris is in France.", "Berlin is in Germany.", "Rome is in Italy."}, got)
}

func TestRecursiveSplitter_SmallTextSingleChunk(t *testing.T) {
	s, err := NewRecursiveSplitter(1000, 200)
	require.NoError(t, err)

	got, err := s.SplitText("Paris is the capital of France.")
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris is the capital of France."}, got)
}

func TestRecursiveSplitter_Overlap(t *testing.T) {
	s, err := NewRecursiveSplitter(11, 5)
	require.NoError(t, err)

	got, err := s.SplitText("aa bb cc dd ee ff")
	require.NoError(t, err)
	assert.Equal(t, []string{"aa bb cc dd", "cc dd ee ff"}, got)
}

// nonSpace returns s with all whitespace removed.
func nonSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// assertReassembles checks that the chunks, laid end to end with their
// overlaps removed, spell out text exactly apart from whitespace.
func assertReassembles(t *testing.T, text string, chunks []string, size int) {
	t.Helper()
	want := nonSpace(text)
	covered, prevStart := 0, -1
	for i, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), size, "chunk %q exceeds size %d", c, size)
		nc := nonSpace(c)
		idx := strings.Index(want[prevStart+1:], nc)
		if !assert.GreaterOrEqual(t, idx, 0, "chunk %d %q is not a substring of the source", i, c) {
			return
		}
		start := prevStart + 1 + idx
		if !assert.LessOrEqual(t, start, covered, "gap before chunk %d %q: %q missing", i, c, want[min(covered, len(want)):max(covered, min(start, len(want)))]) {
			return
		}
		covered = max(covered, start+len(nc))
		prevStart = start
	}
	assert.Equal(t, len(want), covered, "source tail %q missing", want[min(covered, len(want)):])
}

// variedText returns n sentences that share no repeated sentence.
func variedText(n int) string {
	cities := []string{"Paris", "Berlin", "Rome", "Madrid", "Lisbon", "Vienna", "Prague", "Oslo"}
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%s hosted event %d with %d guests. ", cities[i%len(cities)], i, i*37+11)
		if i%5 == 4 {
			b.WriteString("\n")
		}
		if i%11 == 10 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func TestRecursiveSplitter_ReassemblesAtEachSeparator(t *testing.T) {
	tests := []struct {
		name string
		text string
		size int
	}{
		{"paragraphs", "Alpha notes on Paris.\n\nBeta notes on Berlin rivers.\n\nGamma notes on Rome.", 30},
		{"lines", "First line about Oslo.\nSecond line about Lisbon.\nThird line about Vienna.", 26},
		{"sentences", "Paris is in France. Berlin is in Germany. Rome is in Italy. Madrid is in Spain.", 30},
		{"words", "one two three four five six seven eight nine ten eleven twelve", 12},
		{"characters", "abcdefghijklmnopqrstuvwxyz0123456789", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewRecursiveSplitter(tt.size, 0)
			require.NoError(t, err)
			chunks, err := s.SplitText(tt.text)
			require.NoError(t, err)
			require.Greater(t, len(chunks), 1, "text should need more than one chunk")
			assert.Equal(t, nonSpace(tt.text), nonSpace(strings.Join(chunks, "")))
		})
	}
}

func TestRecursiveSplitter_Coverage(t *testing.T) {
	text := variedText(60) +
		"\n\nA closing paragraph with averylongwordthatexceedsthechunksizeonitsown and more."

	for _, cfg := range []struct{ size, overlap int }{{50, 10}, {100, 0}, {37, 20}, {20, 5}, {200, 60}} {
		s, err := NewRecursiveSplitter(cfg.size, cfg.overlap)
		require.NoError(t, err)
		chunks, err := s.SplitText(text)
		require.NoError(t, err)

		t.Logf("size=%d overlap=%d: %d chunks", cfg.size, cfg.overlap, len(chunks))
		assertReassembles(t, text, chunks, cfg.size)
	}
}

func TestTokenSplitter_Windows(t *testing.T) {
	s, err := NewTokenSplitter(newWordTokenizer(), 4, 1)
	require.NoError(t, err)

	got, err := s.SplitText("one two three four five six seven")
	require.NoError(t, err)
	assert.Equal(t, []string{"one two three four", "four five six seven"}, got)
}

func TestTokenSplitter_Empty(t *testing.T) {
	s, err := NewTokenSplitter(newWordTokenizer(), 4, 1)
	require.NoError(t, err)

	got, err := s.SplitText("   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSplit_EmptyInput(t *testing.T) {
	s, err := NewRecursiveSplitter(100, 10)
	require.NoError(t, err)

	got, err := Split(nil, s)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = Split([]extract.Document{{Text: "", Source: "a"}, {Text: "  \n", Source: "b"}}, s)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSplit_OrderAndMetadata(t *testing.T) {
	s, err := NewRecursiveSplitter(20, 0)
	require.NoError(t, err)

	docs := []extract.Document{
		{Text: "First doc para one.\n\nFirst doc para two.", Source: "first.txt", Metadata: map[string]any{"title": "First"}},
		{Text: "Second doc.", Source: "second.txt"},
	}
	chunks, err := Split(docs, s)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "First doc para one.", chunks[0].Text)
	assert.Equal(t, "First doc para two.", chunks[1].Text)
	assert.Equal(t, "Second doc.", chunks[2].Text)

	for i, c := range chunks {
		assert.Equal(t, i, c.Seq)
		assert.NotEmpty(t, c.ID)
	}
	assert.Equal(t, "first.txt", chunks[0].Metadata["source"])
	assert.Equal(t, "First", chunks[1].Metadata["title"])
	assert.Equal(t, 1, chunks[1].Metadata["chunk"])
	assert.Equal(t, "second.txt", chunks[2].Source)

	// Parent metadata is copied, not shared.
	chunks[0].Metadata["title"] = "changed"
	assert.Equal(t, "First", docs[0].Metadata["title"])
}
