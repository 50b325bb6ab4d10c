package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tomaskal/hermes/internal/api"
	"github.com/tomaskal/hermes/internal/config"
	"github.com/tomaskal/hermes/internal/dispatch"
	"github.com/tomaskal/hermes/internal/hub"
	"github.com/tomaskal/hermes/internal/logger"
	"github.com/tomaskal/hermes/internal/metrics"
	"github.com/tomaskal/hermes/internal/provider/factory"
	"github.com/tomaskal/hermes/internal/queue"
	"github.com/tomaskal/hermes/internal/ratelimit"
	"github.com/tomaskal/hermes/internal/storage/chat"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the hermes server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Initialize logger
	log := logger.Must(debug)
	defer log.Sync()

	// Load config
	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	if missing := cfg.MissingProviderKeys(); len(missing) > 0 {
		for _, name := range missing {
			log.Warn("provider has no API key configured, requests routed to it will degrade",
				zap.String("provider", string(name)))
		}
	}

	log.Info("starting hermes server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("queue", cfg.Queue.Driver),
	)

	// Chat history store
	store, closeStore, err := buildStore(cfg, log)
	if err != nil {
		return fmt.Errorf("creating chat store: %w", err)
	}
	defer closeStore()

	// Deferred job queue
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	jobs, closeQueue, err := buildQueue(workerCtx, cfg, log)
	if err != nil {
		return fmt.Errorf("creating job queue: %w", err)
	}
	defer closeQueue()

	// Provider adapters
	adapters := factory.New(cfg.Providers, log)

	// Live log stream
	logHub := hub.New(cfg.Server.APIKey, log)

	// Metrics
	var registry *metrics.Registry
	if cfg.Metrics.Enabled {
		registry = metrics.NewRegistry()
		logHub.OnCountChange(registry.SetLogSubscribers)
	}

	dispatcher := dispatch.New(
		dispatch.Config{
			RateLimit:     cfg.RateLimit.Limit,
			RateTimeframe: cfg.RateLimit.Timeframe,
		},
		ratelimit.New(),
		adapters,
		store,
		jobs,
		logHub,
		recorderOrNil(registry),
		log,
	)

	server, err := api.NewServer(api.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		APIKey:      cfg.Server.APIKey,
		MetricsPath: cfg.Metrics.Path,
	}, api.Deps{
		Dispatcher: dispatcher,
		Store:      store,
		Hub:        logHub,
		Metrics:    registry,
	}, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down hermes server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}

func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func buildStore(cfg *config.Config, log *zap.Logger) (chat.Store, func(), error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		s, err := chat.NewSQLiteStore(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				log.Warn("closing chat store", zap.Error(err))
			}
		}, nil
	default:
		return chat.NewMemoryStore(), func() {}, nil
	}
}

func buildQueue(ctx context.Context, cfg *config.Config, log *zap.Logger) (queue.Queue, func(), error) {
	switch cfg.Queue.Driver {
	case "redis":
		q, err := queue.NewRedisQueue(cfg.Queue.RedisAddr, log)
		if err != nil {
			return nil, nil, err
		}
		go func() {
			if err := q.RunWorker(ctx, cfg.Queue.Delay); err != nil && ctx.Err() == nil {
				log.Error("redis job worker stopped", zap.Error(err))
			}
		}()
		return q, func() {
			if err := q.Close(); err != nil {
				log.Warn("closing job queue", zap.Error(err))
			}
		}, nil
	default:
		q := queue.NewMemoryQueue(cfg.Queue.Workers, cfg.Queue.Delay, log)
		return q, q.Close, nil
	}
}

// recorderOrNil keeps the dispatcher's Recorder a typed nil-safe value:
// a nil *Registry inside a non-nil interface would still be invoked.
func recorderOrNil(r *metrics.Registry) dispatch.Recorder {
	if r == nil {
		return nil
	}
	return r
}
