package collector

import (
	"context"
	"fmt"

	"github.com/trendr-agent/internal/platform"
	"github.com/trendr-agent/pkg/logger"
	"github.com/trendr-agent/pkg/ratelimit"
)

// Result aggregates the counters of one collection run. ItemsCollected
// counts newly ingested items only; duplicates are not counted.
type Result struct {
	ItemsCollected int
	TopicsLinked   int
}

// Orchestrator drives guarded collection runs: one platform adapter per run,
// one page fetched per search target, every fetched item handed to the
// shared ingestor. At most one run is active at a time process-wide.
type Orchestrator struct {
	coordinator *RunCoordinator
	ingestor    *Ingestor
	limiter     *ratelimit.MultiLimiter
	log         *logger.Logger
}

// NewOrchestrator creates a new collection orchestrator
func NewOrchestrator(coordinator *RunCoordinator, ingestor *Ingestor, limiter *ratelimit.MultiLimiter, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		coordinator: coordinator,
		ingestor:    ingestor,
		limiter:     limiter,
		log:         log.WithComponent("orchestrator"),
	}
}

// Status reports the current run state
func (o *Orchestrator) Status() RunStatus {
	return o.coordinator.Status()
}

// Run executes one collection run for the given adapter and targets.
// Configuration is validated before the guard is touched; guard contention
// fails immediately with ErrAlreadyRunning rather than queuing. The guard is
// always released and the outcome recorded, even when the run fails midway.
// A fetch failure on one target skips to the next; a failure on one item
// skips to the next item.
func (o *Orchestrator) Run(ctx context.Context, adapter platform.Adapter, targets []string) (*Result, error) {
	if adapter == nil {
		return nil, ErrNotConfigured
	}
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	if !o.coordinator.TryAcquire() {
		return nil, ErrAlreadyRunning
	}

	var runErr error
	defer func() { o.coordinator.Release(runErr) }()

	plat := adapter.Platform()
	log := o.log.WithPlatform(string(plat))
	result := &Result{}

	log.Info().Int("targets", len(targets)).Msg("Starting collection run")

	for _, target := range targets {
		tlog := log.WithTarget(target)

		// Throttle between successive target fetches
		if err := o.limiter.Wait(ctx, string(plat)); err != nil {
			runErr = fmt.Errorf("throttle wait: %w", err)
			return result, runErr
		}

		items, err := adapter.FetchPage(ctx, target)
		if err != nil {
			tlog.Error().Err(err).Msg("Fetch failed, skipping target")
			continue
		}

		tlog.Debug().Int("items", len(items)).Msg("Fetched page")

		for _, item := range items {
			res, err := o.ingestor.Ingest(ctx, plat, item)
			if res.NewItem {
				result.ItemsCollected++
			}
			result.TopicsLinked += res.TopicsLinked
			if err != nil {
				tlog.Warn().
					Err(err).
					Str("platform_id", item.PlatformID).
					Msg("Failed to ingest item, skipping")
			}
		}
	}

	log.Info().
		Int("items_collected", result.ItemsCollected).
		Int("topics_linked", result.TopicsLinked).
		Msg("Collection run completed")

	return result, nil
}
