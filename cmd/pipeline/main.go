package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"athens-property-lab/internal/config"
	"athens-property-lab/internal/ingestion"
	"athens-property-lab/internal/pipeline"
	"athens-property-lab/internal/storage/memory"
)

func main() {
	input := flag.String("input", "", "Path to a JSON array of raw listings (required)")
	output := flag.String("output", "", "Output file for results (default stdout)")
	marketConfig := flag.String("market-config", "", "Market configuration YAML (default built-in)")
	flag.Parse()

	logger := log.New(os.Stderr, "[pipeline] ", log.LstdFlags)

	if *input == "" {
		logger.Fatal("--input is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling", sig)
		cancel()
	}()

	if err := run(ctx, logger, *input, *output, *marketConfig); err != nil {
		logger.Fatalf("Error: %v", err)
	}
}

// run executes one batch over the input file with in-memory stores and
// writes the JSON result.
func run(ctx context.Context, logger *log.Logger, input, output, marketConfig string) error {
	market, err := config.LoadMarket(marketConfig)
	if err != nil {
		return fmt.Errorf("load market config: %w", err)
	}

	p, err := pipeline.New(pipeline.Options{
		Market: market,
		Sources: []ingestion.ListingSource{
			ingestion.NewFileSource(input),
		},
		ListingStore:     memory.NewListingStore(),
		ValidationStore:  memory.NewValidationStore(),
		OpportunityStore: memory.NewOpportunityStore(),
		SnapshotStore:    memory.NewMarketSnapshotStore(),
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	result, err := p.Run(ctx)
	if err != nil {
		return err
	}

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := pipeline.WriteJSON(out, result); err != nil {
		return err
	}

	logger.Printf("Done: %d listings, %d authentic, %d opportunities",
		result.Validated, result.Authentic, len(result.Opportunities))
	return nil
}
