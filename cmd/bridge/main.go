package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openmeet-systems/webhook-bridge/internal/config"
	"github.com/openmeet-systems/webhook-bridge/internal/delivery"
	"github.com/openmeet-systems/webhook-bridge/internal/handlers"
	"github.com/openmeet-systems/webhook-bridge/internal/ingest"
	"github.com/openmeet-systems/webhook-bridge/internal/logging"
	"github.com/openmeet-systems/webhook-bridge/internal/mapping"
	"github.com/openmeet-systems/webhook-bridge/internal/resolver"
	"github.com/openmeet-systems/webhook-bridge/internal/server"
	"github.com/openmeet-systems/webhook-bridge/internal/service"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logging
	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("webhook-bridge"))
	logging.SetDefault(logger)

	slog.Info("Starting webhook bridge",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Logging.Level),
		slog.String("redis_url", cfg.Redis.URL),
		slog.Any("inbound_channels", cfg.Redis.InboundChannels),
	)
	if *configPath != "" {
		slog.Info("Loaded configuration", slog.String("config_path", *configPath))
	}

	// Redis client for the ID mapping tables
	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("Invalid redis URL: %v", err)
	}
	mappingClient := redis.NewClient(opt)
	defer mappingClient.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := mappingClient.Ping(pingCtx).Err(); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}
	pingCancel()

	store := resolver.NewRedisStore(mappingClient, cfg.Mapping.KeyPrefix, cfg.Mapping.TTL)

	// Readiness probes for /readyz, one per collaborator
	readiness := map[string]handlers.ReadyCheck{
		"redis": func(ctx context.Context) error {
			return mappingClient.Ping(ctx).Err()
		},
	}

	// Delivery publisher and quarantine queue
	var publisher delivery.Publisher
	var quarantine delivery.QuarantineWriter
	if cfg.NATS.Enabled {
		natsCfg := delivery.DefaultNATSConfig(cfg.NATS.URL)
		natsCfg.Name = cfg.NATS.Name
		natsPublisher, err := delivery.NewNATSPublisher(natsCfg)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
		readiness["nats"] = func(ctx context.Context) error {
			if !natsPublisher.Conn().IsConnected() {
				return fmt.Errorf("connection down")
			}
			return nil
		}
		slog.Info("NATS delivery enabled", slog.String("url", cfg.NATS.URL))

		if cfg.NATS.QuarantineEnabled {
			qCtx, qCancel := context.WithTimeout(context.Background(), 10*time.Second)
			q, err := delivery.NewJetStreamQuarantine(qCtx, natsPublisher.Conn())
			qCancel()
			if err != nil {
				log.Fatalf("Failed to initialize quarantine stream: %v", err)
			}
			quarantine = q
			slog.Info("Quarantine stream ready", slog.String("stream", delivery.StreamQuarantine))
		}
	} else {
		slog.Warn("NATS disabled - canonical events will not be delivered")
	}

	// Mapping pipeline and processor
	pipeline := mapping.NewPipeline(store, store, logger.Logger)
	processor := service.NewProcessor(pipeline, publisher, quarantine, store, logger.Logger)

	// Redis bus ingestion
	source, err := ingest.NewRedisSource(ingest.Config{
		URL:      cfg.Redis.URL,
		Channels: cfg.Redis.InboundChannels,
	}, processor.Handle, logger.Logger)
	if err != nil {
		log.Fatalf("Failed to create redis source: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := source.Start(ctx); err != nil {
		log.Fatalf("Failed to start redis source: %v", err)
	}
	defer source.Close()

	// HTTP surface: normalize endpoint, health, metrics
	handler := handlers.NewNormalizeHandler(processor, readiness)
	router := server.NewRouter(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("HTTP server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("Stopped")
}
