// Package server exposes the knowledge base over an HTTP JSON API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	httpLogger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/docqa/internal/config"
	"github.com/ziadkadry99/docqa/internal/extract"
	"github.com/ziadkadry99/docqa/internal/ingest"
	"github.com/ziadkadry99/docqa/internal/logging"
	"github.com/ziadkadry99/docqa/internal/qa"
	"github.com/ziadkadry99/docqa/internal/summarize"
	"github.com/ziadkadry99/docqa/internal/vectordb"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Deps are the components the API serves.
type Deps struct {
	Config     *config.Config
	Pipeline   *ingest.Pipeline
	Extractor  *extract.Extractor
	Answerer   *qa.Answerer
	Summarizer *summarize.Summarizer
	// Collection is the index loaded at startup, nil when none exists yet.
	Collection *vectordb.Collection
}

// Server serves questions, searches and index rebuilds. Rebuilds and resets
// take the write lock, so a query never sees a half-replaced collection.
type Server struct {
	cfg        Config
	deps       Deps
	log        logrus.FieldLogger
	router     chi.Router
	httpServer *http.Server

	mu  sync.RWMutex
	col *vectordb.Collection
}

// New creates a server with all dependencies.
func New(cfg Config, deps Deps) *Server {
	s := &Server{
		cfg:  cfg,
		deps: deps,
		col:  deps.Collection,
		log:  logging.Logger(),
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpLogger.Logger("router", logging.Logger()))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.registerRoutes(r)
	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Collection returns the index currently served, or nil.
func (s *Server) Collection() *vectordb.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.col
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      6 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	s.log.WithField("addr", addr).Info("docqa server listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
