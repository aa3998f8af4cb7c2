package extract

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/docqa/internal/logging"
)

// handler extracts one Kind.
type handler interface {
	extract(ctx context.Context, in Input) (Document, error)
}

// Extractor turns Inputs into Documents. It holds no mutable state and is
// safe to reuse.
type Extractor struct {
	log    logrus.FieldLogger
	client *http.Client
	video  VideoSource
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithHTTPClient sets the client used for web pages. The default client
// makes one attempt and has no timeout; callers needing bounded latency pass
// a context deadline, and callers wanting retries pass NewRetryingHTTPClient.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Extractor) {
		if c != nil {
			e.client = c
		}
	}
}

// WithVideoSource replaces the default YouTube transcript source.
func WithVideoSource(v VideoSource) Option {
	return func(e *Extractor) {
		if v != nil {
			e.video = v
		}
	}
}

// WithLogger sets the logger used for non-fatal extraction problems.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		log:    logging.Logger(),
		client: &http.Client{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.video == nil {
		e.video = NewYouTubeSource()
	}
	return e
}

// Extract converts one input into a Document.
func (e *Extractor) Extract(ctx context.Context, in Input) (Document, error) {
	h, err := e.handlerFor(in.Kind)
	if err != nil {
		return Document{}, err
	}

	doc, err := h.extract(ctx, in)
	if err != nil {
		return Document{}, err
	}
	if doc.Source == "" {
		doc.Source = in.source()
	}
	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["source"] = doc.Source

	e.log.WithFields(logrus.Fields{
		"kind":   in.Kind,
		"source": doc.Source,
		"chars":  len(doc.Text),
	}).Debug("extracted document")
	return doc, nil
}

// ExtractAll extracts inputs in order, stopping at the first error.
func (e *Extractor) ExtractAll(ctx context.Context, inputs []Input) ([]Document, error) {
	docs := make([]Document, 0, len(inputs))
	for _, in := range inputs {
		doc, err := e.Extract(ctx, in)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (e *Extractor) handlerFor(kind Kind) (handler, error) {
	switch kind {
	case KindPDF:
		return pdfHandler{}, nil
	case KindDOCX:
		return docxHandler{}, nil
	case KindText:
		return textHandler{}, nil
	case KindSpreadsheet:
		return spreadsheetHandler{}, nil
	case KindWebURL:
		return webHandler{client: e.client, log: e.log}, nil
	case KindVideoURL:
		return videoHandler{source: e.video, log: e.log}, nil
	default:
		return nil, &UnsupportedFormatError{Format: string(kind)}
	}
}

// readInput returns the raw bytes of a file-backed input.
func readInput(in Input) ([]byte, error) {
	if in.Data != nil {
		return in.Data, nil
	}
	if in.Path == "" {
		return nil, fmt.Errorf("no path or data given")
	}
	return os.ReadFile(in.Path)
}

// normalizeText unifies line endings and trims surrounding whitespace.
func normalizeText(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(s)
}
