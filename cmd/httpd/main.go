package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jonesrussell/scorefree/internal/api"
	"github.com/jonesrussell/scorefree/internal/catalog"
	"github.com/jonesrussell/scorefree/internal/classifier"
	"github.com/jonesrussell/scorefree/internal/config"
	"github.com/jonesrussell/scorefree/internal/database"
	"github.com/jonesrussell/scorefree/internal/ingest"
	"github.com/jonesrussell/scorefree/internal/logger"
	"github.com/jonesrussell/scorefree/internal/metrics"
)

const shutdownGrace = 30 * time.Second

func main() {
	cfg, err := config.Load(config.GetConfigPath("config.yml"))
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Must(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	defer func() {
		_ = log.Sync()
	}()

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			log.Fatal("catalog API key is required; set YOUTUBE_API_KEY or catalog.api_key")
		}
		log.Fatal("invalid configuration", logger.Error(err))
	}

	log.Info("starting scorefree service",
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
	)

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", logger.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	videoRepo := database.NewVideoRepository(db)
	preferencesRepo := database.NewPreferencesRepository(db)
	interactionsRepo := database.NewInteractionsRepository(db)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	textClassifier := classifier.New(classifier.Config{
		AffinityWeight:   cfg.Classification.AffinityWeight,
		PatternWeight:    cfg.Classification.PatternWeight,
		SpoilerTermLimit: cfg.Classification.SpoilerTermLimit,
		BaseConfidence:   cfg.Classification.BaseConfidence,
		PositiveBoost:    cfg.Classification.PositiveBoost,
		NegativePenalty:  cfg.Classification.NegativePenalty,
	})

	catalogClient := catalog.NewClient(catalog.ClientConfig{
		BaseURL:       cfg.Catalog.BaseURL,
		APIKey:        cfg.Catalog.APIKey,
		Timeout:       cfg.Catalog.Timeout,
		RecencyWindow: cfg.Catalog.RecencyWindow,
	}, nil, log)

	coordinator := ingest.NewCoordinator(
		catalogClient,
		videoRepo,
		textClassifier,
		ingest.CoordinatorConfig{
			Concurrency:    cfg.Service.Concurrency,
			MaxPerCategory: cfg.Service.MaxResults,
		},
		log,
		m,
	)
	reclassifier := ingest.NewReclassifier(videoRepo, textClassifier, cfg.Service.Concurrency, log, m)

	handler := api.NewHandler(
		coordinator,
		reclassifier,
		textClassifier,
		videoRepo,
		preferencesRepo,
		interactionsRepo,
		db.PingContext,
		api.HandlerConfig{
			ServiceName:          cfg.Service.Name,
			ServiceVersion:       cfg.Service.Version,
			MinDisplayConfidence: cfg.Classification.MinDisplayConfidence,
		},
		log,
	)

	server := api.NewServer(handler, api.ServerConfig{
		Port:  cfg.Service.Port,
		Debug: cfg.Service.Debug,
	}, registry, log)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Error("server error", logger.Error(err))
		os.Exit(1)
	case sig := <-shutdown:
		log.Info("shutdown signal received", logger.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", logger.Error(err))
			os.Exit(1)
		}

		log.Info("server stopped gracefully")
	}
}
