package extract

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

type textHandler struct{}

func (textHandler) extract(_ context.Context, in Input) (Document, error) {
	data, err := readInput(in)
	if err != nil {
		return Document{}, &ExtractionError{Kind: KindText, Source: in.source(), Err: err}
	}
	if !utf8.Valid(data) {
		return Document{}, &ExtractionError{Kind: KindText, Source: in.source(), Err: errors.New("content is not valid UTF-8")}
	}
	if strings.EqualFold(filepath.Ext(in.Path), ".md") {
		body, title := markdownText([]byte(normalizeText(string(data))))
		doc := Document{Text: normalizeText(body), Source: in.source()}
		if title != "" {
			doc.Metadata = map[string]any{"title": title}
		}
		return doc, nil
	}
	return Document{Text: normalizeText(string(data)), Source: in.source()}, nil
}
