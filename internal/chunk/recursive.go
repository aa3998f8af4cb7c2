package chunk

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultSeparators are tried in order, coarsest first.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// RecursiveSplitter splits on the coarsest separator present in the text and
// only falls back to finer separators for pieces that are still too long.
type RecursiveSplitter struct {
	size       int
	overlap    int
	separators []string
}

// NewRecursiveSplitter creates a RecursiveSplitter measuring in characters.
func NewRecursiveSplitter(size, overlap int) (*RecursiveSplitter, error) {
	if err := checkSizes(size, overlap); err != nil {
		return nil, err
	}
	return &RecursiveSplitter{size: size, overlap: overlap, separators: DefaultSeparators}, nil
}

func (s *RecursiveSplitter) SplitText(text string) ([]string, error) {
	return s.split(text, s.separators), nil
}

func (s *RecursiveSplitter) split(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var finer []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			finer = separators[i+1:]
			break
		}
	}

	keep, joiner := separatorParts(separator)
	var pieces []string
	for _, p := range splitOn(text, separator, keep) {
		if p != "" {
			pieces = append(pieces, p)
		}
	}

	var out, small []string
	for _, p := range pieces {
		if length(p) < s.size {
			small = append(small, p)
			continue
		}
		if len(small) > 0 {
			out = append(out, s.merge(small, joiner)...)
			small = nil
		}
		if len(finer) == 0 {
			out = append(out, p)
		} else {
			out = append(out, s.split(p, finer)...)
		}
	}
	if len(small) > 0 {
		out = append(out, s.merge(small, joiner)...)
	}
	return out
}

// merge packs pieces into chunks of at most size characters, joined by
// separator and carrying up to overlap characters of trailing pieces into
// the next chunk.
func (s *RecursiveSplitter) merge(pieces []string, separator string) []string {
	sepLen := length(separator)
	var (
		out     []string
		current []string
		total   int
	)
	joinedLen := func(l int) int {
		if len(current) > 0 {
			return total + l + sepLen
		}
		return total + l
	}

	for _, p := range pieces {
		l := length(p)
		if joinedLen(l) > s.size && len(current) > 0 {
			if chunk := strings.TrimSpace(strings.Join(current, separator)); chunk != "" {
				out = append(out, chunk)
			}
			for total > s.overlap || (joinedLen(l) > s.size && total > 0) {
				drop := length(current[0])
				if len(current) > 1 {
					drop += sepLen
				}
				total -= drop
				current = current[1:]
			}
		}
		current = append(current, p)
		if len(current) > 1 {
			total += l + sepLen
		} else {
			total += l
		}
	}
	if chunk := strings.TrimSpace(strings.Join(current, separator)); chunk != "" {
		out = append(out, chunk)
	}
	return out
}

// separatorParts splits a separator into the text kept on the end of the
// preceding piece (". " keeps ".") and the whitespace that rejoins pieces.
func separatorParts(separator string) (keep, joiner string) {
	keep = strings.TrimRightFunc(separator, unicode.IsSpace)
	return keep, separator[len(keep):]
}

// splitOn splits text on separator, reattaching keep to every piece but the
// last so only whitespace is lost at a chunk boundary.
func splitOn(text, separator, keep string) []string {
	if separator != "" {
		parts := strings.Split(text, separator)
		if keep != "" {
			for i := 0; i < len(parts)-1; i++ {
				parts[i] += keep
			}
		}
		return parts
	}
	out := make([]string, 0, utf8.RuneCountInString(text))
	for _, r := range text {
		out = append(out, string(r))
	}
	return out
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}
