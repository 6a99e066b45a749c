package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"athens-property-lab/internal/domain"
	"athens-property-lab/internal/storage"
)

// ListingStore implements storage.ListingStore using PostgreSQL.
type ListingStore struct {
	pool *Pool
}

// NewListingStore creates a new ListingStore.
func NewListingStore(pool *Pool) *ListingStore {
	return &ListingStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ListingStore = (*ListingStore)(nil)

const listingColumns = `listing_id, url, price_eur, size_sqm, energy_class, neighborhood, rooms, floor, source, collected_at, created_at`

// Insert adds a new listing. Returns ErrDuplicateKey if listing_id exists.
func (s *ListingStore) Insert(ctx context.Context, l *domain.Listing) error {
	query := `
		INSERT INTO listings (
			listing_id, url, price_eur, size_sqm, energy_class, neighborhood, rooms, floor, source, collected_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.pool.Exec(ctx, query,
		l.ListingID,
		l.URL,
		l.Price,
		l.SizeSqm,
		string(l.EnergyClass),
		l.Neighborhood,
		l.Rooms,
		l.Floor,
		string(l.Source),
		l.CollectedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

// GetByID retrieves a listing by its ID. Returns ErrNotFound if not exists.
func (s *ListingStore) GetByID(ctx context.Context, listingID string) (*domain.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings
		WHERE listing_id = $1
	`

	row := s.pool.QueryRow(ctx, query, listingID)
	l, err := scanListing(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get listing by id: %w", err)
	}
	return l, nil
}

// GetByNeighborhood retrieves all listings in a neighborhood, ordered by listing_id ASC.
func (s *ListingStore) GetByNeighborhood(ctx context.Context, neighborhood string) ([]*domain.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings
		WHERE neighborhood = $1
		ORDER BY listing_id ASC
	`

	rows, err := s.pool.Query(ctx, query, neighborhood)
	if err != nil {
		return nil, fmt.Errorf("get listings by neighborhood: %w", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

// GetAll retrieves all listings, ordered by listing_id ASC.
func (s *ListingStore) GetAll(ctx context.Context) ([]*domain.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings
		ORDER BY listing_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all listings: %w", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

// scanListing scans a single row into a Listing.
func scanListing(row pgx.Row) (*domain.Listing, error) {
	var l domain.Listing
	var energyStr, sourceStr string

	err := row.Scan(
		&l.ListingID,
		&l.URL,
		&l.Price,
		&l.SizeSqm,
		&energyStr,
		&l.Neighborhood,
		&l.Rooms,
		&l.Floor,
		&sourceStr,
		&l.CollectedAt,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.EnergyClass = domain.EnergyClass(energyStr)
	l.Source = domain.Source(sourceStr)
	return &l, nil
}

// scanListings scans multiple rows into a slice of Listing.
func scanListings(rows pgx.Rows) ([]*domain.Listing, error) {
	var listings []*domain.Listing

	for rows.Next() {
		var l domain.Listing
		var energyStr, sourceStr string

		err := rows.Scan(
			&l.ListingID,
			&l.URL,
			&l.Price,
			&l.SizeSqm,
			&energyStr,
			&l.Neighborhood,
			&l.Rooms,
			&l.Floor,
			&sourceStr,
			&l.CollectedAt,
			&l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan listing row: %w", err)
		}

		l.EnergyClass = domain.EnergyClass(energyStr)
		l.Source = domain.Source(sourceStr)
		listings = append(listings, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listing rows: %w", err)
	}

	return listings, nil
}
