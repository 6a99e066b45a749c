package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"

	"athens-property-lab/internal/domain"
	"athens-property-lab/internal/observability"
	"athens-property-lab/internal/storage"
)

// Runner pulls raw listings from configured sources, normalizes them
// and persists the surviving records.
type Runner struct {
	sources      []ListingSource
	normalizer   *Normalizer
	listingStore storage.ListingStore
	logger       *log.Logger
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Sources      []ListingSource
	ListingStore storage.ListingStore
	Logger       *log.Logger
}

// NewRunner creates a new ingestion runner.
func NewRunner(opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		sources:      opts.Sources,
		normalizer:   NewNormalizer(logger),
		listingStore: opts.ListingStore,
		logger:       logger,
	}
}

// RunStats summarizes one ingestion run.
type RunStats struct {
	// Fetched counts raw records per source name.
	Fetched map[string]int
	// SourceErrors records fetch failures per source name.
	SourceErrors map[string]error
	// Dropped are normalization drops across all sources.
	Dropped *DropStats
	// Inserted is the number of newly persisted listings.
	Inserted int
	// Duplicates is the number of listings already present in the store.
	Duplicates int
}

// Run fetches from every source, normalizes and persists. A failing
// source is logged and skipped so one dead feed cannot starve the rest.
// Listings already in the store count as duplicates, not errors.
func (r *Runner) Run(ctx context.Context) (*RunStats, error) {
	stats := &RunStats{
		Fetched:      make(map[string]int),
		SourceErrors: make(map[string]error),
	}

	var raws []*domain.RawListing
	for _, source := range r.sources {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		batch, err := source.Fetch(ctx)
		if err != nil {
			r.logger.Printf("[ingest] source %s failed: %v", source.Name(), err)
			stats.SourceErrors[source.Name()] = err
			observability.RecordSourceError(source.Name())
			continue
		}
		r.logger.Printf("[ingest] source %s delivered %d records", source.Name(), len(batch))
		stats.Fetched[source.Name()] = len(batch)
		observability.RecordFetched(source.Name(), len(batch))
		raws = append(raws, batch...)
	}

	if len(stats.SourceErrors) == len(r.sources) && len(r.sources) > 0 {
		return stats, fmt.Errorf("all %d sources failed", len(r.sources))
	}

	listings, dropped := r.normalizer.NormalizeAll(raws)
	stats.Dropped = dropped
	for reason, count := range dropped.ByReason {
		observability.RecordDropped(reason, count)
	}

	for _, l := range listings {
		if err := r.listingStore.Insert(ctx, l); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				stats.Duplicates++
				continue
			}
			return stats, fmt.Errorf("insert listing %s: %w", l.ListingID, err)
		}
		stats.Inserted++
	}

	observability.RecordInserted(stats.Inserted)
	r.logger.Printf("[ingest] run complete: %d inserted, %d duplicates, %d dropped",
		stats.Inserted, stats.Duplicates, dropped.Total)
	return stats, nil
}
