// Package extract converts raw inputs (files, bytes, web pages and video
// transcripts) into normalized plain-text documents.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind is the declared content type of an input. The set is closed: every
// Kind has exactly one handler in Extractor.
type Kind string

const (
	KindPDF         Kind = "pdf"
	KindDOCX        Kind = "docx"
	KindText        Kind = "text"
	KindSpreadsheet Kind = "spreadsheet"
	KindWebURL      Kind = "web_url"
	KindVideoURL    Kind = "video_url"
)

// Document is the normalized result of extracting one input.
// An empty Text means nothing usable was found.
type Document struct {
	Text     string
	Source   string
	Metadata map[string]any
}

// IsEmpty reports whether the document carries no text.
func (d Document) IsEmpty() bool {
	return strings.TrimSpace(d.Text) == ""
}

// MetadataCopy returns a shallow copy of the document metadata.
func (d Document) MetadataCopy() map[string]any {
	dst := make(map[string]any, len(d.Metadata))
	for k, v := range d.Metadata {
		dst[k] = v
	}
	return dst
}

// Input describes one raw input unit.
type Input struct {
	Kind Kind
	// Path is a local file. Data, when set, takes precedence over Path.
	Path string
	Data []byte
	// URL is used by KindWebURL and KindVideoURL.
	URL string
	// Source overrides the provenance recorded on the Document.
	Source string
}

func (in Input) source() string {
	switch {
	case in.Source != "":
		return in.Source
	case in.URL != "":
		return in.URL
	default:
		return in.Path
	}
}

// FileInput builds an Input for a local file, deriving the Kind from its extension.
func FileInput(path string) (Input, error) {
	kind, err := KindFromPath(path)
	if err != nil {
		return Input{}, err
	}
	return Input{Kind: kind, Path: path}, nil
}

// TextInput wraps raw text under a synthetic source identifier.
func TextInput(text, source string) Input {
	return Input{Kind: KindText, Data: []byte(text), Source: source}
}

// WebInput builds an Input for a web page.
func WebInput(url string) Input {
	return Input{Kind: KindWebURL, URL: url}
}

// VideoInput builds an Input for a video transcript.
func VideoInput(url string) Input {
	return Input{Kind: KindVideoURL, URL: url}
}

var extensionKinds = map[string]Kind{
	".pdf":  KindPDF,
	".docx": KindDOCX,
	".txt":  KindText,
	".md":   KindText,
	".csv":  KindText,
	".xlsx": KindSpreadsheet,
}

// KindFromPath maps a file extension to its Kind.
func KindFromPath(path string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if kind, ok := extensionKinds[ext]; ok {
		return kind, nil
	}
	return "", &UnsupportedFormatError{Format: ext, Path: path}
}

// SupportedExtensions lists the file extensions FileInput accepts.
func SupportedExtensions() []string {
	return []string{".csv", ".docx", ".md", ".pdf", ".txt", ".xlsx"}
}

// ExtractionError reports content that could not be read as its declared kind.
type ExtractionError struct {
	Kind   Kind
	Source string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("could not extract text from %s (%s): %v", e.Source, e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// UnsupportedFormatError reports a declared type outside the supported set.
type UnsupportedFormatError struct {
	Format string
	Path   string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("unsupported file extension %q: %s", e.Format, e.Path)
	}
	return fmt.Sprintf("unsupported format %q", e.Format)
}

// ErrInvalidURL is returned when a URL fails validation before any fetch.
var ErrInvalidURL = errors.New("invalid url")

// ErrNoCaptions is returned by a VideoSource when a video has no caption track.
var ErrNoCaptions = errors.New("no caption track available")
