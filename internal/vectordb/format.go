package vectordb

import (
	"fmt"
	"strings"
)

// FormatRecords renders records as human-readable text.
func FormatRecords(records []Record) string {
	if len(records) == 0 {
		return "No results found."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n\n", len(records)))

	for i, r := range records {
		sb.WriteString(fmt.Sprintf("--- Result %d (similarity: %.4f) ---\n", i+1, r.Similarity))
		if r.Source != "" {
			sb.WriteString(fmt.Sprintf("Source: %s\n", r.Source))
		}
		if title, ok := r.Metadata["title"].(string); ok && title != "" {
			sb.WriteString(fmt.Sprintf("Title: %s\n", title))
		}
		sb.WriteString("\n")
		sb.WriteString(r.Text)
		sb.WriteString("\n\n")
	}

	return sb.String()
}
