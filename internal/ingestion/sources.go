package ingestion

import (
	"context"

	"athens-property-lab/internal/domain"
)

// ListingSource provides raw listings from an external source.
// Implementations exist for JSON files, live WebSocket feeds and
// scraped listing pages.
type ListingSource interface {
	// Name identifies the source in logs and stats.
	Name() string

	// Fetch returns the raw listings currently available from the source.
	// Records may be malformed; the normalizer decides what survives.
	Fetch(ctx context.Context) ([]*domain.RawListing, error)
}
