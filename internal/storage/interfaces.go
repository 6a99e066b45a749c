package storage

import (
	"context"

	"athens-property-lab/internal/domain"
)

// ListingStore provides access to listings storage.
type ListingStore interface {
	// Insert adds a new listing. Returns ErrDuplicateKey if listing_id exists.
	Insert(ctx context.Context, l *domain.Listing) error

	// GetByID retrieves a listing by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, listingID string) (*domain.Listing, error)

	// GetByNeighborhood retrieves all listings in a neighborhood,
	// ordered by listing_id ASC.
	GetByNeighborhood(ctx context.Context, neighborhood string) ([]*domain.Listing, error)

	// GetAll retrieves all listings, ordered by listing_id ASC.
	GetAll(ctx context.Context) ([]*domain.Listing, error)
}

// ValidationStore provides access to validation_records storage.
type ValidationStore interface {
	// Insert adds a new validation record. Returns ErrDuplicateKey if listing_id exists.
	Insert(ctx context.Context, r *domain.ValidationRecord) error

	// GetByListingID retrieves the record for a listing. Returns ErrNotFound if not exists.
	GetByListingID(ctx context.Context, listingID string) (*domain.ValidationRecord, error)

	// GetAuthentic retrieves all records with authentic = true, ordered by listing_id ASC.
	GetAuthentic(ctx context.Context) ([]*domain.ValidationRecord, error)
}

// OpportunityStore provides access to opportunities storage.
type OpportunityStore interface {
	// Insert adds a new opportunity. Returns ErrDuplicateKey if listing_id exists.
	Insert(ctx context.Context, o *domain.Opportunity) error

	// GetByListingID retrieves the opportunity for a listing. Returns ErrNotFound if not exists.
	GetByListingID(ctx context.Context, listingID string) (*domain.Opportunity, error)

	// GetRanked retrieves all opportunities ordered by value_score DESC,
	// roi_estimate DESC, listing_id ASC.
	GetRanked(ctx context.Context) ([]*domain.Opportunity, error)
}

// MarketSnapshotStore provides access to market_snapshots storage.
type MarketSnapshotStore interface {
	// InsertBulk adds snapshot rows for one batch.
	InsertBulk(ctx context.Context, snapshots []*domain.MarketSnapshot) error

	// GetByNeighborhood retrieves all snapshots for a neighborhood,
	// ordered by snapshot_at ASC.
	GetByNeighborhood(ctx context.Context, neighborhood string) ([]*domain.MarketSnapshot, error)
}
