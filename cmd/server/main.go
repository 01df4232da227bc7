package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/labelscan/backend/config"
	httpDelivery "github.com/labelscan/backend/internal/delivery/http"
	"github.com/labelscan/backend/internal/infrastructure/brave"
	"github.com/labelscan/backend/internal/infrastructure/openai"
	"github.com/labelscan/backend/internal/usecase"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.Log)
	logger.WithFields(logrus.Fields{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
	}).Info("starting labelscan backend v1.0.0")

	// Initialize infrastructure dependencies
	llmClient := openai.NewClient(openai.Config{
		APIKey:         cfg.OpenAI.APIKey,
		BaseURL:        cfg.OpenAI.BaseURL,
		VisionModel:    cfg.OpenAI.VisionModel,
		SynthesisModel: cfg.OpenAI.SynthesisModel,
	}, logger)

	searchClient := brave.NewClient(cfg.Search.APIKey, cfg.Search.BaseURL, logger)

	// Initialize usecase layer
	orchestrator := usecase.NewSearchOrchestrator(searchClient, logger, usecase.SearchOrchestratorConfig{
		ResultCount:   cfg.Search.ResultCount,
		CallTimeout:   cfg.Search.Timeout,
		FallbackDelay: cfg.Search.FallbackDelay,
	})

	fetcher := usecase.NewContentFetcher(logger, usecase.ContentFetcherConfig{
		RequestDelay:     cfg.Scrape.RequestDelay,
		RequestTimeout:   cfg.Scrape.RequestTimeout,
		MaxContentLength: cfg.Scrape.MaxContentLength,
	})

	pipeline := usecase.NewAnalysisPipeline(llmClient, orchestrator, fetcher, llmClient, logger,
		usecase.AnalysisPipelineConfig{
			TopResults:           cfg.Pipeline.TopResults,
			MaxPages:             cfg.Scrape.MaxPages,
			SnippetLimit:         cfg.Pipeline.SnippetLimit,
			SynthesisMaxTokens:   cfg.OpenAI.MaxTokens,
			SynthesisTemperature: float32(cfg.OpenAI.Temperature),
		})

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(pipeline, logger)
	router := httpDelivery.SetupRouter(cfg, handler)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	// Wait for interrupt, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("forced shutdown")
	}
}

// newLogger builds the application logger from config
func newLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}
