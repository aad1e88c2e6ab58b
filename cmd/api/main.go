package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saturnino-fabrica-de-software/deepguard/internal/alert"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/api"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/audit"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/config"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/detector"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/metrics"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/service"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/video"
	"github.com/saturnino-fabrica-de-software/deepguard/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting Deepguard API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("alert_channel", cfg.AlertChannel),
		slog.Bool("alerts_enabled", cfg.AlertsEnabled()),
	)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Frame decoder; without ffmpeg every analysis degrades to UNKNOWN
	var decoder video.Decoder
	executor, err := video.NewExecutor(logger)
	if err != nil {
		logger.Warn("video decoding disabled", slog.Any("error", err))
	} else {
		decoder = executor
	}

	sampler := video.NewSampler(decoder, video.SamplerConfig{
		MaxFrames:     cfg.MaxFrames,
		DecodeTimeout: cfg.SamplerDecodeTimeout,
	}, logger)

	scorer, err := detector.NewScorer(detector.Config{
		MinMotionSamples: cfg.MinMotionSamples,
		Contamination:    cfg.Contamination,
		Threshold:        cfg.RiskThreshold,
		Seed:             cfg.ModelSeed,
		Estimators:       cfg.ModelEstimators,
	})
	if err != nil {
		return fmt.Errorf("failed to create scorer: %w", err)
	}

	model := scorer.Config()
	logger.Info("scoring model ready",
		slog.Float64("threshold", model.Threshold),
		slog.Float64("contamination", model.Contamination),
		slog.Int("estimators", model.Estimators),
		slog.Int("min_motion_samples", model.MinMotionSamples),
	)

	// Alert channel
	channel, err := alert.NewChannel(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create alert channel: %w", err)
	}
	dispatcher := alert.NewDispatcher(channel, cfg.AlertTimeout, logger)
	if !dispatcher.Enabled() {
		logger.Warn("alerting disabled, FAKE verdicts are isolated without notification")
	}

	// Live feed and gauges
	hub := ws.NewHub()

	aggregator := metrics.NewAggregator(logger, 0)
	aggregator.Track(metrics.LiveFeedClients, func() float64 {
		return float64(hub.ClientCount())
	})
	go aggregator.Start(ctx)

	analysisService := service.NewAnalysisService(sampler, scorer, dispatcher, hub, logger).
		WithScratchDir(cfg.ScratchDir).
		WithAuditor(audit.NewSlogLogger(logger))

	// Setup router
	router := api.NewRouter(logger, cfg, &api.Dependencies{
		AnalysisService: analysisService,
		Decoder:         sampler,
		Hub:             hub,
	})
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	aggregator.Stop()
	if err := router.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	logger.Info("server stopped")

	return nil
}
