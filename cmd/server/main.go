package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sectionscan/sectionscan/internal/api"
	"github.com/sectionscan/sectionscan/internal/config"
	"github.com/sectionscan/sectionscan/internal/llm"
	"github.com/sectionscan/sectionscan/internal/pipeline"
	"github.com/sectionscan/sectionscan/internal/segment"
	"github.com/sectionscan/sectionscan/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize storage.
	st, err := store.New(ctx, cfg.DatabaseURL, cfg.EmbeddingDim)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	if err := st.Init(ctx); err != nil {
		log.Error("initialize schema", "error", err)
		os.Exit(1)
	}

	// Token counter for chunk sizing.
	counter := segment.TokenCounter(segment.EstimateTokens)
	if cfg.TokenizerEncoding != "" {
		counter, err = segment.NewTiktokenCounter(cfg.TokenizerEncoding)
		if err != nil {
			log.Error("load tokenizer", "encoding", cfg.TokenizerEncoding, "error", err)
			os.Exit(1)
		}
	}

	// Initialize clients.
	stats := llm.NewStats(1 * time.Hour)
	explain := llm.NewExplainClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, "", stats)

	var embedder *llm.EmbeddingClient
	if cfg.EmbeddingsEnabled() {
		embedder = llm.NewEmbeddingClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel, stats)
	} else {
		log.Info("embeddings disabled, semantic search unavailable")
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, st, embedder, counter, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, explain, embedder, stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		explain.Close()
		st.Close()
	}()

	log.Info("starting sectionscan", "port", cfg.Port, "segment_mode", cfg.SegmentMode)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
