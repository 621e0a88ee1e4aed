package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/fintools-ar/invoice-extractor/internal/auth"
	"github.com/fintools-ar/invoice-extractor/internal/common"
	"github.com/fintools-ar/invoice-extractor/internal/drive"
	"github.com/fintools-ar/invoice-extractor/internal/export"
	"github.com/fintools-ar/invoice-extractor/internal/ingest"
	"github.com/fintools-ar/invoice-extractor/internal/pipeline"
	"github.com/fintools-ar/invoice-extractor/internal/quality"
	"github.com/fintools-ar/invoice-extractor/internal/repository"
	"github.com/fintools-ar/invoice-extractor/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// DB pool
	pool, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("creating DB pool failed", "error", err)
		os.Exit(1)
	}
	defer repository.Close(pool, logger)

	// Healthcheck DB on startup
	if err := repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout, logger); err != nil {
		logger.Error("DB health failed", "error", err)
		os.Exit(1)
	}
	logger.Info("DB health OK")

	// Wiring
	gate := auth.NewTokenGate(cfg.Server.ServiceToken)
	rpc := repository.NewRPCClient(pool, logger)
	adapter := ingest.NewAdapter(rpc, logger)
	evaluator := quality.NewEvaluator(cfg.Quality.MinConfidence)
	processor := pipeline.NewProcessor(logger, evaluator, adapter)
	exporter := export.NewService(logger)
	documents := drive.NewClient(cfg.Drive.BaseURL, cfg.Drive.AccessToken, cfg.Drive.Timeout, logger)
	metrics := server.NewMetrics()

	svc := server.NewService(processor, exporter, documents, metrics, logger)

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           svc.Routes(gate),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("stopped")
}
