package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

type pdfHandler struct{}

func (pdfHandler) extract(_ context.Context, in Input) (Document, error) {
	data, err := readInput(in)
	if err != nil {
		return Document{}, &ExtractionError{Kind: KindPDF, Source: in.source(), Err: err}
	}

	// pdfcpu parses the cross-reference table and catches corrupt or
	// mislabelled files before the text pass.
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return Document{}, &ExtractionError{Kind: KindPDF, Source: in.source(), Err: err}
	}

	text, err := pdfText(data)
	if err != nil {
		return Document{}, &ExtractionError{Kind: KindPDF, Source: in.source(), Err: err}
	}

	return Document{
		Text:     normalizeText(text),
		Source:   in.source(),
		Metadata: map[string]any{"pages": pages},
	}, nil
}

// pdfText returns the flowing text of every page. The pdf package panics on
// some malformed content streams, so panics are turned into errors.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading pdf text: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	return string(out), nil
}
