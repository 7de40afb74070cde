package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/trendr-agent/internal/collector"
	"github.com/trendr-agent/internal/config"
	"github.com/trendr-agent/internal/models"
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
		Use:   "trendr",
		Short: "Social content collection and topic-tagging pipeline",
		Long: `Collects posts and videos from Reddit, X, YouTube, and RSS feeds,
deduplicates them, and tags each item against a keyword-based topic taxonomy.`,
		PersistentPreRunE: initializeApp,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(collectCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(testCmd())
	rootCmd.AddCommand(topicsCmd())
	rootCmd.AddCommand(contentCmd())
	rootCmd.AddCommand(statsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initializeApp(cmd *cobra.Command, args []string) error {
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

	// Initialize storage
	repo, err = sqlite.New(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run migrations and seed the taxonomy
	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	seeded, err := repo.SeedDefaultTopics(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to seed topics: %w", err)
	}
	if seeded > 0 {
		log.Info().Int("topics", seeded).Msg("Seeded default topic taxonomy")
	}

	return nil
}

// adapterFor builds the adapter and target list for a platform name.
// Disabled or credential-less platforms yield collector.ErrNotConfigured so
// callers surface the same error the orchestrator would.
func adapterFor(ctx context.Context, name string) (platform.Adapter, []string, error) {
	switch models.Platform(name) {
	case models.PlatformReddit:
		if !cfg.Platforms.Reddit.Enabled || !cfg.Platforms.Reddit.Configured() {
			return nil, nil, fmt.Errorf("reddit: %w", collector.ErrNotConfigured)
		}
		return reddit.New(cfg.Platforms.Reddit, log), cfg.Platforms.Reddit.Subreddits, nil

	case models.PlatformX:
		if !cfg.Platforms.X.Enabled || !cfg.Platforms.X.Configured() {
			return nil, nil, fmt.Errorf("x: %w", collector.ErrNotConfigured)
		}
		return x.New(cfg.Platforms.X, log), cfg.Platforms.X.SearchQueries, nil

	case models.PlatformYouTube:
		if !cfg.Platforms.YouTube.Enabled || !cfg.Platforms.YouTube.Configured() {
			return nil, nil, fmt.Errorf("youtube: %w", collector.ErrNotConfigured)
		}
		adapter, err := youtube.New(ctx, cfg.Platforms.YouTube, log)
		if err != nil {
			return nil, nil, err
		}
		return adapter, cfg.Platforms.YouTube.SearchQueries, nil

	case models.PlatformRSS:
		if !cfg.Platforms.RSS.Enabled {
			return nil, nil, fmt.Errorf("rss: %w", collector.ErrNotConfigured)
		}
		return rss.New(log), cfg.Platforms.RSS.Feeds, nil

	default:
		return nil, nil, fmt.Errorf("unknown platform %q", name)
	}
}

// newOrchestrator wires the shared collection pipeline against the repository
func newOrchestrator() *collector.Orchestrator {
	extractor := topics.NewExtractor(repo, log)
	tracker := topics.NewCooccurrenceTracker(repo)
	ingestor := collector.NewIngestor(repo, extractor, tracker, log)
	return collector.NewOrchestrator(collector.NewRunCoordinator(), ingestor, ratelimit.NewDefaultLimiter(), log)
}

// ============ COLLECT COMMAND ============

func collectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect [platform]",
		Short: "Run collection for one platform, or all enabled platforms",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			names := []string{
				string(models.PlatformReddit),
				string(models.PlatformX),
				string(models.PlatformYouTube),
				string(models.PlatformRSS),
			}
			if len(args) == 1 {
				names = args
			}

			orchestrator := newOrchestrator()
			var failed bool

			for _, name := range names {
				adapter, targets, err := adapterFor(ctx, name)
				if err != nil {
					// When sweeping all platforms, unconfigured ones are skipped
					if len(args) == 0 && errors.Is(err, collector.ErrNotConfigured) {
						log.Debug().Str("platform", name).Msg("Platform not configured, skipping")
						continue
					}
					return err
				}

				result, err := orchestrator.Run(ctx, adapter, targets)
				if err != nil {
					fmt.Printf("%-8s collection failed: %v\n", name, err)
					failed = true
					continue
				}

				fmt.Printf("%-8s collected=%d topics_linked=%d\n", name, result.ItemsCollected, result.TopicsLinked)
			}

			if failed {
				return fmt.Errorf("one or more platforms failed")
			}
			return nil
		},
	}

	return cmd
}

// ============ STATUS COMMAND ============

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the collection run state",
		Long: `Shows the in-memory run guard state. The guard lives in the collecting
process, so a standalone invocation reports idle; the scheduler exposes
the same state over its /status endpoint.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print(formatRunStatus(newOrchestrator().Status()))
			return nil
		},
	}
}

// formatRunStatus renders a run-state snapshot for the terminal
func formatRunStatus(status collector.RunStatus) string {
	var b strings.Builder
	b.WriteString("\n=== Collection Status ===\n")

	if status.IsRunning {
		b.WriteString("Running:    yes\n")
	} else {
		b.WriteString("Running:    no\n")
	}

	if status.LastRunAt != nil {
		fmt.Fprintf(&b, "Last run:   %s\n", status.LastRunAt.Format(time.RFC1123))
	} else {
		b.WriteString("Last run:   never\n")
	}

	if status.LastError != "" {
		fmt.Fprintf(&b, "Last error: %s\n", status.LastError)
	} else {
		b.WriteString("Last error: none\n")
	}

	return b.String()
}

// ============ TEST COMMAND ============

func testCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test [platform]",
		Short: "Test credentials and connectivity for a platform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			adapter, _, err := adapterFor(ctx, args[0])
			if err != nil {
				return err
			}

			if err := adapter.TestConnection(ctx); err != nil {
				return fmt.Errorf("connection test failed: %w", err)
			}

			fmt.Printf("%s: connection OK\n", args[0])
			return nil
		},
	}
}

// ============ TOPICS COMMANDS ============

func topicsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Inspect the topic taxonomy",
	}

	cmd.AddCommand(topicsListCmd())
	cmd.AddCommand(topicsPairsCmd())
	return cmd
}

func topicsListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List topics with tagged content counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			rows, err := repo.ListTopicsWithCounts(ctx, limit, 0)
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Topics (%d) ===\n\n", len(rows))
			for _, t := range rows {
				fmt.Printf("%-24s %5d items | keywords: %v\n", t.Name, t.ContentCount, []string(t.Keywords))
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum topics to show")
	return cmd
}

func topicsPairsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "pairs",
		Short: "Show the most frequent topic co-occurrences",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			pairs, err := repo.TopCooccurrences(ctx, limit)
			if err != nil {
				return err
			}

			// Resolve ids to names in one pass
			all, err := repo.ListTopics(ctx)
			if err != nil {
				return err
			}
			names := make(map[string]string, len(all))
			for _, t := range all {
				names[t.ID] = t.Name
			}

			fmt.Printf("\n=== Top Co-occurrences (%d) ===\n\n", len(pairs))
			for _, p := range pairs {
				fmt.Printf("%4d  %s + %s (last seen %s)\n",
					p.Frequency, names[p.TopicAID], names[p.TopicBID], p.LastSeen.Format(time.RFC1123))
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum pairs to show")
	return cmd
}

// ============ CONTENT COMMANDS ============

func contentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Inspect collected content",
	}

	cmd.AddCommand(contentListCmd())
	return cmd
}

func contentListCmd() *cobra.Command {
	var platformName string
	var sinceHours int
	var limit int
	var topicSlug string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List collected content",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var items []*models.Content
			var err error

			if topicSlug != "" {
				topic, lookupErr := repo.GetTopicBySlug(ctx, topicSlug)
				if lookupErr != nil {
					return fmt.Errorf("topic %q: %w", topicSlug, lookupErr)
				}
				items, err = repo.ListContentByTopic(ctx, topic.ID, limit)
				if err != nil {
					return err
				}
			} else {
				filter := storage.DefaultContentFilter()
				filter.Limit = limit
				if platformName != "" {
					p := models.Platform(platformName)
					filter.Platform = &p
				}
				if sinceHours > 0 {
					since := time.Now().UTC().Add(-time.Duration(sinceHours) * time.Hour)
					filter.Since = &since
				}
				items, err = repo.ListContent(ctx, filter)
				if err != nil {
					return err
				}
			}

			fmt.Printf("\n=== Content (%d) ===\n\n", len(items))
			for _, c := range items {
				fmt.Printf("[%s] %s | likes=%d comments=%d shares=%d\n",
					c.Platform, c.PlatformID, c.EngagementLikes, c.EngagementComments, c.EngagementShares)
				if c.EngagementViews != nil {
					fmt.Printf("    Views: %d\n", *c.EngagementViews)
				}
				fmt.Printf("    Collected: %s\n", c.CollectedAt.Format(time.RFC1123))
				fmt.Printf("    %s\n\n", truncateStr(c.TextContent, 120))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&platformName, "platform", "", "Filter by platform (reddit, x, youtube, rss)")
	cmd.Flags().IntVar(&sinceHours, "since-hours", 0, "Only content collected in the last N hours")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum items to show")
	cmd.Flags().StringVar(&topicSlug, "topic", "", "Filter by topic slug")

	return cmd
}

// ============ STATS COMMAND ============

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show pipeline statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			stats, err := repo.DashboardStats(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Pipeline Stats ===\n")
			fmt.Printf("Content total:   %d\n", stats.TotalContent)
			fmt.Printf("Content (7d):    %d\n", stats.ContentLast7Days)
			fmt.Printf("Creators:        %d\n", stats.TotalCreators)
			fmt.Printf("Topics:          %d\n", stats.TotalTopics)

			if len(stats.TopTopics) > 0 {
				fmt.Printf("\nTop topics:\n")
				for _, t := range stats.TopTopics {
					fmt.Printf("  %4d  %s\n", t.Count, t.Name)
				}
			}

			return nil
		},
	}
}

// Helper function to truncate strings
func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
