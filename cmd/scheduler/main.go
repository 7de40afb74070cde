package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/trendr-agent/internal/collector"
	"github.com/trendr-agent/internal/config"
	"github.com/trendr-agent/internal/platform"
	"github.com/trendr-agent/internal/platform/reddit"
	"github.com/trendr-agent/internal/platform/rss"
	"github.com/trendr-agent/internal/platform/x"
	"github.com/trendr-agent/internal/platform/youtube"
	"github.com/trendr-agent/internal/storage"
	"github.com/trendr-agent/internal/storage/sqlite"
	"github.com/trendr-agent/internal/topics"
	"github.com/trendr-agent/pkg/logger"
	"github.com/trendr-agent/pkg/ratelimit"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *logger.Logger
	repo    storage.Repository
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "trendr-scheduler",
		Short: "Background scheduler for the trendr collection pipeline",
		Long: `Runs scheduled collection sweeps across all enabled platforms.
This daemon should be run as a service for autonomous operation.`,
		RunE: runScheduler,
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// enabledPlatform pairs an adapter with its configured targets
type enabledPlatform struct {
	adapter platform.Adapter
	targets []string
}

func runScheduler(cmd *cobra.Command, args []string) error {
	var err error

	// Load config
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	log = logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	log.Info().Msg("Starting trendr scheduler")

	// Initialize storage
	repo, err = sqlite.New(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer repo.Close()

	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if _, err := repo.SeedDefaultTopics(context.Background()); err != nil {
		return fmt.Errorf("failed to seed topics: %w", err)
	}

	// Build the shared pipeline once; the run coordinator inside it
	// guarantees a single collection sweep at a time.
	extractor := topics.NewExtractor(repo, log)
	tracker := topics.NewCooccurrenceTracker(repo)
	ingestor := collector.NewIngestor(repo, extractor, tracker, log)
	orchestrator := collector.NewOrchestrator(collector.NewRunCoordinator(), ingestor, ratelimit.NewDefaultLimiter(), log)

	// Build adapters for every enabled platform
	platforms, err := enabledPlatforms(context.Background())
	if err != nil {
		return err
	}
	if len(platforms) == 0 {
		return fmt.Errorf("no platforms enabled")
	}

	// Start health check server
	go startHealthServer(orchestrator)

	// Create cron scheduler
	c := cron.New(cron.WithLogger(cronLogger{log}))

	// Schedule the collection sweep
	_, err = c.AddFunc(cfg.Scheduler.CollectionCron, func() {
		ctx := context.Background()
		log.Info().Msg("Running scheduled collection sweep")

		for _, p := range platforms {
			result, err := orchestrator.Run(ctx, p.adapter, p.targets)
			if err != nil {
				if errors.Is(err, collector.ErrAlreadyRunning) {
					log.Warn().Str("platform", string(p.adapter.Platform())).Msg("Collection already in progress, skipping")
					continue
				}
				log.Error().Err(err).Str("platform", string(p.adapter.Platform())).Msg("Scheduled collection failed")
				continue
			}

			log.Info().
				Str("platform", string(p.adapter.Platform())).
				Int("collected", result.ItemsCollected).
				Int("topics_linked", result.TopicsLinked).
				Msg("Scheduled collection completed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule collection job: %w", err)
	}
	log.Info().Str("cron", cfg.Scheduler.CollectionCron).Int("platforms", len(platforms)).Msg("Collection job scheduled")

	// Start scheduler
	c.Start()
	log.Info().Msg("Scheduler started")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutting down scheduler")
	c.Stop()

	return nil
}

// enabledPlatforms builds adapters for every configured platform
func enabledPlatforms(ctx context.Context) ([]enabledPlatform, error) {
	var platforms []enabledPlatform

	if cfg.Platforms.Reddit.Enabled && cfg.Platforms.Reddit.Configured() {
		platforms = append(platforms, enabledPlatform{
			adapter: reddit.New(cfg.Platforms.Reddit, log),
			targets: cfg.Platforms.Reddit.Subreddits,
		})
	}

	if cfg.Platforms.X.Enabled && cfg.Platforms.X.Configured() {
		platforms = append(platforms, enabledPlatform{
			adapter: x.New(cfg.Platforms.X, log),
			targets: cfg.Platforms.X.SearchQueries,
		})
	}

	if cfg.Platforms.YouTube.Enabled && cfg.Platforms.YouTube.Configured() {
		adapter, err := youtube.New(ctx, cfg.Platforms.YouTube, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create youtube adapter: %w", err)
		}
		platforms = append(platforms, enabledPlatform{
			adapter: adapter,
			targets: cfg.Platforms.YouTube.SearchQueries,
		})
	}

	if cfg.Platforms.RSS.Enabled {
		platforms = append(platforms, enabledPlatform{
			adapter: rss.New(log),
			targets: cfg.Platforms.RSS.Feeds,
		})
	}

	return platforms, nil
}

// cronLogger adapts our logger for cron
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info().Msgf(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Msgf(msg, keysAndValues...)
}

// startHealthServer starts a simple HTTP server exposing liveness and the
// current collection run state
func startHealthServer(orchestrator *collector.Orchestrator) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "10000"
	}

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	http.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		status := orchestrator.Status()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"is_running":  status.IsRunning,
			"last_run_at": status.LastRunAt,
			"last_error":  status.LastError,
		})
	})

	log.Info().Str("port", port).Msg("Health check server starting")
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Error().Err(err).Msg("Health server failed")
	}
}
