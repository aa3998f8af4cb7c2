package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"github.com/sirupsen/logrus"
)

const userAgent = "docqa/1.0 (+https://github.com/ziadkadry99/docqa)"

type webHandler struct {
	client *http.Client
	log    logrus.FieldLogger
}

func (h webHandler) extract(ctx context.Context, in Input) (Document, error) {
	if !ValidateInputURL(in.URL) {
		return Document{}, fmt.Errorf("%w: %q", ErrInvalidURL, in.URL)
	}
	pageURL, err := url.Parse(strings.TrimSpace(in.URL))
	if err != nil {
		return Document{}, fmt.Errorf("%w: %q", ErrInvalidURL, in.URL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return Document{}, &ExtractionError{Kind: KindWebURL, Source: in.source(), Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5")

	resp, err := h.client.Do(req)
	if err != nil {
		return Document{}, &ExtractionError{Kind: KindWebURL, Source: in.source(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Document{}, &ExtractionError{Kind: KindWebURL, Source: in.source(), Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Document{}, &ExtractionError{Kind: KindWebURL, Source: in.source(), Err: err}
	}

	doc := Document{Source: in.source(), Metadata: map[string]any{}}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		doc.Text = normalizeText(string(body))
		return doc, nil
	}

	title, text := h.mainContent(body, pageURL)
	if title != "" {
		doc.Metadata["title"] = title
	}
	doc.Text = normalizeText(text)
	return doc, nil
}

// mainContent runs readability over the page and falls back to plain tag
// stripping when no article body is found.
func (h webHandler) mainContent(body []byte, pageURL *url.URL) (title, text string) {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return strings.TrimSpace(article.Title), article.TextContent
	}
	if err != nil {
		h.log.WithError(err).WithField("url", pageURL.String()).Debug("readability failed, stripping tags")
	}

	raw := string(body)
	title = htmlTitle(raw)
	if err == nil && article.Title != "" {
		title = strings.TrimSpace(article.Title)
	}
	return title, stripHTML(raw)
}
