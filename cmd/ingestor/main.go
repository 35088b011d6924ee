package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"video_ingestor/internal/checkpoint"
	"video_ingestor/internal/config"
	"video_ingestor/internal/failurelog"
	"video_ingestor/internal/manifest"
	"video_ingestor/internal/platform"
	"video_ingestor/internal/publisher"
	"video_ingestor/internal/ratelimit"
	"video_ingestor/internal/service"
	"video_ingestor/internal/signer"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	// Open the manifest
	rows, err := manifest.Open(cfg.Manifest.Path)
	if err != nil {
		logger.Error("failed to open manifest", "error", err)
		os.Exit(1)
	}
	defer rows.Close()

	// Initialize the checkpoint store
	var checkpoints service.CheckpointStore
	switch cfg.Checkpoint.Backend {
	case "postgres":
		db, err := sqlx.Connect("postgres", cfg.Checkpoint.Database.DSN())
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		logger.Info("connected to database")
		checkpoints = checkpoint.NewPostgresStore(db, cfg.Checkpoint.ManifestID)
	default:
		checkpoints = checkpoint.NewFileStore(cfg.Checkpoint.Path)
	}

	// Initialize the optional RabbitMQ publisher
	var events service.Publisher
	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		events = rabbitMQ
	}

	// Initialize platform clients
	tokens := platform.NewTokenManager(platform.TokenConfig{
		OAuthURL:     cfg.Platform.OAuthURL,
		ClientID:     cfg.Platform.ClientID,
		ClientSecret: cfg.Platform.ClientSecret,
		Timeout:      cfg.Platform.Timeout,
	}, logger)

	client := platform.NewClient(platform.ClientConfig{
		CMSBaseURL:    cfg.Platform.CMSBaseURL,
		IngestBaseURL: cfg.Platform.IngestBaseURL,
		AccountID:     cfg.Platform.AccountID,
		Timeout:       cfg.Platform.Timeout,
	}, tokens, logger)

	presigner := signer.NewAWSCLI(cfg.AWS.Profile, cfg.AWS.Region, cfg.AWS.URLExpiry, logger)

	failures := failurelog.New(cfg.FailureLog.Dir, time.Now())
	limiter := ratelimit.New(cfg.RateLimit.Requests, cfg.RateLimit.Window, logger)

	ingestService := service.NewIngestService(
		rows,
		client,
		presigner,
		checkpoints,
		failures,
		limiter,
		events,
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("starting batch ingest",
		"manifest", cfg.Manifest.Path,
		"account_id", cfg.Platform.AccountID,
		"rate_limit", cfg.RateLimit.Requests,
		"window", cfg.RateLimit.Window,
		"failure_log", failures.Path(),
	)

	if _, err := ingestService.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("ingest run failed", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
