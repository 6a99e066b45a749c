package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"athens-property-lab/internal/config"
	"athens-property-lab/internal/ingestion"
	"athens-property-lab/internal/observability"
	"athens-property-lab/internal/pipeline"
	"athens-property-lab/internal/scraper"
	"athens-property-lab/internal/storage"
	chstore "athens-property-lab/internal/storage/clickhouse"
	"athens-property-lab/internal/storage/memory"
	"athens-property-lab/internal/storage/migrations"
	pgstore "athens-property-lab/internal/storage/postgres"
)

func main() {
	input := flag.String("input", "", "Optional JSON file source")
	useFeed := flag.Bool("feed", false, "Pull the live listing feed (FEED_URL)")
	useScraper := flag.Bool("scrape", false, "Scrape listing pages with a headless browser")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	migrate := flag.Bool("migrate", false, "Run database migrations before ingesting")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	flag.Parse()

	logger := log.New(os.Stdout, "[ingest] ", log.LstdFlags)
	env := config.LoadEnv()

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating shutdown", sig)
		cancel()
	}()

	if err := run(ctx, logger, env, *input, *useFeed, *useScraper, *useMemory, *migrate); err != nil && err != context.Canceled {
		logger.Fatalf("Error: %v", err)
	}
	logger.Println("Shutdown complete")
}

func run(ctx context.Context, logger *log.Logger, env *config.Env, input string, useFeed, useScraper, useMemory, migrate bool) error {
	market, err := config.LoadMarket(env.MarketConfigPath)
	if err != nil {
		return fmt.Errorf("load market config: %w", err)
	}

	sources, err := buildSources(logger, env, input, useFeed, useScraper)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no sources configured: pass --input, --feed or --scrape")
	}

	var listingStore storage.ListingStore = memory.NewListingStore()
	var validationStore storage.ValidationStore = memory.NewValidationStore()
	var opportunityStore storage.OpportunityStore = memory.NewOpportunityStore()
	var snapshotStore storage.MarketSnapshotStore = memory.NewMarketSnapshotStore()

	if !useMemory {
		pool, err := pgstore.NewPool(ctx, env.PostgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		ch, err := chstore.NewConn(ctx, env.ClickhouseDSN)
		if err != nil {
			return fmt.Errorf("connect to clickhouse: %w", err)
		}
		defer ch.Close()

		if migrate {
			if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
				return fmt.Errorf("postgres migrations: %w", err)
			}
			if err := migrations.RunClickhouseMigrations(ctx, ch); err != nil {
				return fmt.Errorf("clickhouse migrations: %w", err)
			}
			logger.Println("Migrations applied")
		}

		listingStore = pgstore.NewListingStore(pool)
		validationStore = pgstore.NewValidationStore(pool)
		opportunityStore = pgstore.NewOpportunityStore(pool)
		snapshotStore = chstore.NewMarketSnapshotStore(ch)
	}

	p, err := pipeline.New(pipeline.Options{
		Market:           market,
		Sources:          sources,
		ListingStore:     listingStore,
		ValidationStore:  validationStore,
		OpportunityStore: opportunityStore,
		SnapshotStore:    snapshotStore,
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	result, err := p.Run(ctx)
	if err != nil {
		return err
	}

	logger.Printf("Batch %s: %d validated, %d authentic, %d opportunities",
		result.BatchID, result.Validated, result.Authentic, len(result.Opportunities))
	for i, o := range result.Opportunities {
		if i >= 10 {
			break
		}
		logger.Printf("  #%d %s value=%.1f roi=%.1f%% category=%s",
			i+1, o.ListingID, o.ValueScore, o.ROIEstimate, o.Category)
	}
	return nil
}

func buildSources(logger *log.Logger, env *config.Env, input string, useFeed, useScraper bool) ([]ingestion.ListingSource, error) {
	var sources []ingestion.ListingSource

	if input != "" {
		sources = append(sources, ingestion.NewFileSource(input))
	}

	if useFeed {
		if env.FeedURL == "" {
			return nil, fmt.Errorf("--feed requires FEED_URL")
		}
		sources = append(sources, ingestion.NewFeedSource(env.FeedURL, nil, logger))
	}

	if useScraper {
		cfg := scraper.DefaultConfig()
		cfg.MaxPages = env.MaxScrapePages
		cfg.PageDelay = time.Duration(env.ScrapeDelayMs) * time.Millisecond
		cfg.ChromeBin = env.ChromeBin
		sources = append(sources, scraper.NewSpitogatosSource(&cfg, logger))
	}

	return sources, nil
}
