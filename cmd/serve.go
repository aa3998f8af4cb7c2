package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docqa/internal/embeddings"
	"github.com/ziadkadry99/docqa/internal/ingest"
	"github.com/ziadkadry99/docqa/internal/server"
	"github.com/ziadkadry99/docqa/internal/vectordb"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts an HTTP server exposing ask, search, summarize and index endpoints
under /api for a web front-end. The index is loaded at startup when present
and can be rebuilt with POST /api/index.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}

	embedder, err := embeddings.New(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}
	col, err := vectordb.Load(ctx, cfg.IndexDir, embedder)
	if err != nil {
		return fmt.Errorf("loading index from %s: %w", cfg.IndexDir, err)
	}
	if col == nil {
		fmt.Fprintln(os.Stderr, "No index yet. POST /api/index or run `docqa index` to build one.")
	}

	answerer, err := newAnswerer(cfg)
	if err != nil {
		return err
	}
	summarizer, err := newSummarizer(cfg)
	if err != nil {
		return err
	}
	extractor := newExtractor(cfg)

	srv := server.New(server.Config{Port: cfg.Server.Port, AllowAll: cfg.Server.AllowAll}, server.Deps{
		Config:     cfg,
		Pipeline:   ingest.NewPipeline(cfg, extractor, embedder),
		Extractor:  extractor,
		Answerer:   answerer,
		Summarizer: summarizer,
		Collection: col,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	fmt.Fprintf(os.Stderr, "docqa API listening on http://localhost:%d\n", cfg.Server.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-sig:
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
