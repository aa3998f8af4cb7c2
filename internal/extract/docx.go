package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

type docxHandler struct{}

func (docxHandler) extract(_ context.Context, in Input) (Document, error) {
	data, err := readInput(in)
	if err != nil {
		return Document{}, &ExtractionError{Kind: KindDOCX, Source: in.source(), Err: err}
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Document{}, &ExtractionError{Kind: KindDOCX, Source: in.source(), Err: fmt.Errorf("not a docx archive: %w", err)}
	}

	body, err := readZipEntry(reader, "word/document.xml")
	if err != nil {
		return Document{}, &ExtractionError{Kind: KindDOCX, Source: in.source(), Err: err}
	}
	text, err := parseDocumentXML(body)
	if err != nil {
		return Document{}, &ExtractionError{Kind: KindDOCX, Source: in.source(), Err: err}
	}

	doc := Document{Text: normalizeText(text), Source: in.source(), Metadata: map[string]any{}}
	if core, err := readZipEntry(reader, "docProps/core.xml"); err == nil {
		var props coreXML
		if xml.Unmarshal(core, &props) == nil && strings.TrimSpace(props.Title) != "" {
			doc.Metadata["title"] = strings.TrimSpace(props.Title)
		}
	}
	return doc, nil
}

func readZipEntry(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found in archive", name)
}

type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
		Tables     []table     `xml:"tbl"`
	} `xml:"body"`
}

type table struct {
	Rows []struct {
		Cells []struct {
			Paragraphs []paragraph `xml:"p"`
		} `xml:"tc"`
	} `xml:"tr"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []struct {
		Content string `xml:",chardata"`
	} `xml:"t"`
	Tabs  []struct{} `xml:"tab"`
	Break []struct{} `xml:"br"`
}

type coreXML struct {
	Title string `xml:"title"`
}

func (p paragraph) text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		for range r.Tabs {
			sb.WriteString("\t")
		}
		for _, t := range r.Text {
			sb.WriteString(t.Content)
		}
		for range r.Break {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// parseDocumentXML joins body paragraphs with newlines and renders tables as
// tab-separated rows after the paragraphs.
func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("parsing document.xml: %w", err)
	}
	if len(doc.Body.Paragraphs) == 0 && len(doc.Body.Tables) == 0 {
		return "", errors.New("document.xml has no body")
	}

	var lines []string
	for _, p := range doc.Body.Paragraphs {
		lines = append(lines, p.text())
	}
	for _, tbl := range doc.Body.Tables {
		for _, row := range tbl.Rows {
			var cells []string
			for _, cell := range row.Cells {
				var parts []string
				for _, p := range cell.Paragraphs {
					parts = append(parts, p.text())
				}
				cells = append(cells, strings.Join(parts, " "))
			}
			lines = append(lines, strings.Join(cells, "\t"))
		}
	}
	return strings.Join(lines, "\n"), nil
}
