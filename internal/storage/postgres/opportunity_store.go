package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"athens-property-lab/internal/domain"
	"athens-property-lab/internal/storage"
)

// OpportunityStore implements storage.OpportunityStore using PostgreSQL.
type OpportunityStore struct {
	pool *Pool
}

// NewOpportunityStore creates a new OpportunityStore.
func NewOpportunityStore(pool *Pool) *OpportunityStore {
	return &OpportunityStore{pool: pool}
}

// Compile-time interface check.
var _ storage.OpportunityStore = (*OpportunityStore)(nil)

const opportunityColumns = `listing_id, value_score, roi_estimate, category, scored_at, discount_points, energy_points, size_points, location_points`

// Insert adds a new opportunity. Returns ErrDuplicateKey if listing_id exists.
func (s *OpportunityStore) Insert(ctx context.Context, o *domain.Opportunity) error {
	query := `
		INSERT INTO opportunities (
			` + opportunityColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		o.ListingID,
		o.ValueScore,
		o.ROIEstimate,
		string(o.Category),
		o.ScoredAt,
		o.DiscountPoints,
		o.EnergyPoints,
		o.SizePoints,
		o.LocationPoints,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert opportunity: %w", err)
	}
	return nil
}

// GetByListingID retrieves the opportunity for a listing. Returns ErrNotFound if not exists.
func (s *OpportunityStore) GetByListingID(ctx context.Context, listingID string) (*domain.Opportunity, error) {
	query := `
		SELECT ` + opportunityColumns + `
		FROM opportunities
		WHERE listing_id = $1
	`

	row := s.pool.QueryRow(ctx, query, listingID)
	o, err := scanOpportunity(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get opportunity: %w", err)
	}
	return o, nil
}

// GetRanked retrieves all opportunities ordered by value_score DESC,
// roi_estimate DESC, listing_id ASC.
func (s *OpportunityStore) GetRanked(ctx context.Context) ([]*domain.Opportunity, error) {
	query := `
		SELECT ` + opportunityColumns + `
		FROM opportunities
		ORDER BY value_score DESC, roi_estimate DESC, listing_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get ranked opportunities: %w", err)
	}
	defer rows.Close()

	var opportunities []*domain.Opportunity
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan opportunity row: %w", err)
		}
		opportunities = append(opportunities, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate opportunity rows: %w", err)
	}

	return opportunities, nil
}

// scanOpportunity scans a single row into an Opportunity.
func scanOpportunity(row pgx.Row) (*domain.Opportunity, error) {
	var o domain.Opportunity
	var categoryStr string

	err := row.Scan(
		&o.ListingID,
		&o.ValueScore,
		&o.ROIEstimate,
		&categoryStr,
		&o.ScoredAt,
		&o.DiscountPoints,
		&o.EnergyPoints,
		&o.SizePoints,
		&o.LocationPoints,
	)
	if err != nil {
		return nil, err
	}

	o.Category = domain.Category(categoryStr)
	return &o, nil
}
