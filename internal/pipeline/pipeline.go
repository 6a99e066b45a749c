package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"athens-property-lab/internal/config"
	"athens-property-lab/internal/domain"
	"athens-property-lab/internal/ingestion"
	"athens-property-lab/internal/observability"
	"athens-property-lab/internal/scoring"
	"athens-property-lab/internal/storage"
	"athens-property-lab/internal/validation"
)

// Pipeline runs one full batch: ingest, validate, score, rank.
type Pipeline struct {
	runner           *ingestion.Runner
	validator        *validation.Validator
	scorer           *scoring.Scorer
	listingStore     storage.ListingStore
	validationStore  storage.ValidationStore
	opportunityStore storage.OpportunityStore
	snapshotStore    storage.MarketSnapshotStore
	logger           *log.Logger
	clock            func() time.Time
}

// Options contains configuration for creating a Pipeline.
// SnapshotStore is optional; everything else is required.
type Options struct {
	Market           config.Market
	Sources          []ingestion.ListingSource
	ListingStore     storage.ListingStore
	ValidationStore  storage.ValidationStore
	OpportunityStore storage.OpportunityStore
	SnapshotStore    storage.MarketSnapshotStore
	Logger           *log.Logger
}

// New creates a Pipeline.
func New(opts Options) (*Pipeline, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	validator, err := validation.NewValidator(opts.Market, logger)
	if err != nil {
		return nil, fmt.Errorf("build validator: %w", err)
	}

	return &Pipeline{
		runner: ingestion.NewRunner(ingestion.RunnerOptions{
			Sources:      opts.Sources,
			ListingStore: opts.ListingStore,
			Logger:       logger,
		}),
		validator:        validator,
		scorer:           scoring.NewScorer(opts.Market),
		listingStore:     opts.ListingStore,
		validationStore:  opts.ValidationStore,
		opportunityStore: opts.OpportunityStore,
		snapshotStore:    opts.SnapshotStore,
		logger:           logger,
		clock:            func() time.Time { return time.Now().UTC() },
	}, nil
}

// WithClock sets a custom clock for deterministic output.
func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	p.clock = clock
	return p
}

// Result summarizes one pipeline run.
type Result struct {
	BatchID       string
	Ingestion     *ingestion.RunStats
	Validated     int
	Authentic     int
	Rejected      int
	Scored        int
	Opportunities []*domain.Opportunity
	Validations   map[string]*validation.Result
	Listings      map[string]*domain.Listing
}

// Run executes the full batch. Validation results and opportunities
// are persisted; already-persisted records count as duplicates and do
// not fail the run. Returned opportunities are ranked.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	now := p.clock()
	nowMs := now.UnixMilli()
	batchID := now.Format("20060102T150405Z")

	ingStats, err := p.runner.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("ingestion: %w", err)
	}

	listings, err := p.listingStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}

	result := &Result{
		BatchID:     batchID,
		Ingestion:   ingStats,
		Validations: make(map[string]*validation.Result, len(listings)),
		Listings:    make(map[string]*domain.Listing, len(listings)),
	}

	// Validate every listing; only authenticated ones advance.
	var authentic []*domain.Listing
	for _, l := range listings {
		result.Listings[l.ListingID] = l

		vr := p.validator.Validate(l)
		result.Validations[l.ListingID] = vr
		result.Validated++
		observability.RecordValidation(vr.Authentic)
		for _, c := range vr.Checks {
			if !c.Pass {
				observability.RecordCheckFailure(c.Name)
			}
		}

		if err := p.persistValidation(ctx, vr.Record(nowMs)); err != nil {
			return nil, err
		}

		if vr.Authentic {
			result.Authentic++
			authentic = append(authentic, l)
		} else {
			result.Rejected++
		}
	}

	// Market aggregates come from the authenticated set only, so fake
	// listings cannot skew neighborhood baselines.
	aggregates := scoring.ComputeAggregates(authentic)

	for _, l := range authentic {
		o := p.scorer.Score(l, aggregates, nowMs)
		if err := p.persistOpportunity(ctx, o); err != nil {
			return nil, err
		}
		result.Opportunities = append(result.Opportunities, o)
		result.Scored++
		observability.RecordOpportunity(string(o.Category))
	}

	scoring.Rank(result.Opportunities)

	if err := p.persistSnapshots(ctx, batchID, aggregates, nowMs); err != nil {
		return nil, err
	}

	observability.RecordPipelineRun("ok", p.clock().Sub(now).Seconds())
	observability.DefaultMetrics.LastSuccessfulRun.Set(float64(p.clock().Unix()))

	p.logger.Printf("[pipeline] batch %s: %d validated, %d authentic, %d rejected, %d scored",
		batchID, result.Validated, result.Authentic, result.Rejected, result.Scored)
	return result, nil
}

func (p *Pipeline) persistValidation(ctx context.Context, rec *domain.ValidationRecord) error {
	if p.validationStore == nil {
		return nil
	}
	if err := p.validationStore.Insert(ctx, rec); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil
		}
		return fmt.Errorf("persist validation %s: %w", rec.ListingID, err)
	}
	return nil
}

func (p *Pipeline) persistOpportunity(ctx context.Context, o *domain.Opportunity) error {
	if p.opportunityStore == nil {
		return nil
	}
	if err := p.opportunityStore.Insert(ctx, o); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil
		}
		return fmt.Errorf("persist opportunity %s: %w", o.ListingID, err)
	}
	return nil
}

// persistSnapshots records per-neighborhood aggregates for the batch.
func (p *Pipeline) persistSnapshots(ctx context.Context, batchID string, agg *scoring.Aggregates, nowMs int64) error {
	if p.snapshotStore == nil {
		return nil
	}

	var snapshots []*domain.MarketSnapshot
	for _, n := range agg.Neighborhoods() {
		avg, count := agg.Average(n)
		snapshots = append(snapshots, &domain.MarketSnapshot{
			BatchID:        batchID,
			Neighborhood:   n,
			AvgPricePerSqm: avg,
			ListingCount:   count,
			SnapshotAt:     nowMs,
		})
	}
	if len(snapshots) == 0 {
		return nil
	}

	if err := p.snapshotStore.InsertBulk(ctx, snapshots); err != nil {
		return fmt.Errorf("persist market snapshots: %w", err)
	}
	return nil
}
