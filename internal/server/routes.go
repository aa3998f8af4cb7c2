package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/docqa/internal/config"
	"github.com/ziadkadry99/docqa/internal/extract"
	"github.com/ziadkadry99/docqa/internal/ingest"
	"github.com/ziadkadry99/docqa/internal/summarize"
	"github.com/ziadkadry99/docqa/internal/vectordb"
)

const maxSearchLimit = 50

func (s *Server) registerRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/index", s.handleIndexStatus)
		r.Post("/index", s.handleIndex)
		r.Delete("/index", s.handleReset)
		r.Post("/ask", s.handleAsk)
		r.Post("/search", s.handleSearch)
		r.Post("/summarize", s.handleSummarize)
	})
}

type indexStatus struct {
	Indexed        bool   `json:"indexed"`
	Records        int    `json:"records"`
	EmbeddingModel string `json:"embedding_model,omitempty"`
}

func (s *Server) handleIndexStatus(w http.ResponseWriter, r *http.Request) {
	col := s.Collection()
	if col == nil {
		writeJSON(w, http.StatusOK, indexStatus{})
		return
	}
	writeJSON(w, http.StatusOK, indexStatus{Indexed: true, Records: col.Count(), EmbeddingModel: col.EmbeddingModel()})
}

type indexRequest struct {
	WebURL   string `json:"web_url"`
	VideoURL string `json:"video_url"`
}

type indexResponse struct {
	Documents int    `json:"documents"`
	Records   int    `json:"records"`
	Duration  string `json:"duration"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if !decodeBody(w, r, &req) {
		return
	}

	files, err := ingest.DiscoverFiles(s.deps.Config)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.deps.Pipeline.Run(r.Context(), ingest.Sources{Files: files, WebURL: req.WebURL, VideoURL: req.VideoURL})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if !res.Empty() {
		s.col = res.Collection
	}
	writeJSON(w, http.StatusOK, indexResponse{
		Documents: res.Documents,
		Records:   res.Records,
		Duration:  res.Duration.Round(time.Millisecond).String(),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := vectordb.Reset(s.deps.Config.IndexDir); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.col = nil
	w.WriteHeader(http.StatusNoContent)
}

type askRequest struct {
	Question      string `json:"question"`
	ReturnSources bool   `json:"return_sources"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, errors.New("question is required"))
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.col == nil {
		writeError(w, http.StatusConflict, errNoIndex)
		return
	}

	res := s.deps.Answerer.Answer(r.Context(), req.Question, s.col, req.ReturnSources)
	if res == nil {
		writeError(w, http.StatusBadGateway, errors.New("could not answer the question"))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type searchHit struct {
	Text       string         `json:"text"`
	Source     string         `json:"source"`
	Similarity float32        `json:"similarity"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, errors.New("query is required"))
		return
	}
	if req.Limit <= 0 {
		req.Limit = 5
	}
	req.Limit = min(req.Limit, maxSearchLimit)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.col == nil {
		writeError(w, http.StatusConflict, errNoIndex)
		return
	}

	records, err := s.col.Nearest(r.Context(), req.Query, req.Limit)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	hits := make([]searchHit, len(records))
	for i, rec := range records {
		hits[i] = searchHit{Text: rec.Text, Source: rec.Source, Similarity: rec.Similarity, Metadata: rec.Metadata}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": hits})
}

type summarizeRequest struct {
	Text     string `json:"text"`
	WebURL   string `json:"web_url"`
	VideoURL string `json:"video_url"`
	Words    int    `json:"words"`
	Outline  bool   `json:"outline"`
}

type summarizeResponse struct {
	*summarize.Summary
	Outline *summarize.Outline `json:"outline,omitempty"`
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var in extract.Input
	switch {
	case req.WebURL != "":
		in = extract.WebInput(req.WebURL)
	case req.VideoURL != "":
		in = extract.VideoInput(req.VideoURL)
	case strings.TrimSpace(req.Text) != "":
		in = extract.TextInput(req.Text, "request")
	default:
		writeError(w, http.StatusBadRequest, errors.New("one of text, web_url or video_url is required"))
		return
	}

	doc, err := s.deps.Extractor.Extract(r.Context(), in)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if doc.IsEmpty() {
		writeError(w, http.StatusUnprocessableEntity, errors.New("no text could be extracted"))
		return
	}

	sum, err := s.deps.Summarizer.Summarize(r.Context(), doc.Text, req.Words)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	resp := summarizeResponse{Summary: sum}
	if req.Outline {
		out, err := s.deps.Summarizer.Outline(r.Context(), doc.Text)
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		resp.Outline = out
	}
	writeJSON(w, http.StatusOK, resp)
}

var errNoIndex = errors.New("no index available; POST /api/index first")

// statusFor maps input errors to 4xx and everything else to 500.
func statusFor(err error) int {
	var (
		unsupported *extract.UnsupportedFormatError
		extraction  *extract.ExtractionError
		cfgErr      *config.ConfigError
	)
	switch {
	case errors.Is(err, extract.ErrInvalidURL), errors.As(err, &unsupported), errors.As(err, &cfgErr):
		return http.StatusBadRequest
	case errors.As(err, &extraction):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
