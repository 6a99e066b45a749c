package postgres

import (
	"context"
	"fmt"

	"athens-property-lab/internal/domain"
	"athens-property-lab/internal/storage"
)

// ValidationStore implements storage.ValidationStore using PostgreSQL.
type ValidationStore struct {
	pool *Pool
}

// NewValidationStore creates a new ValidationStore.
func NewValidationStore(pool *Pool) *ValidationStore {
	return &ValidationStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ValidationStore = (*ValidationStore)(nil)

// Insert adds a new validation record. Returns ErrDuplicateKey if listing_id exists.
func (s *ValidationStore) Insert(ctx context.Context, r *domain.ValidationRecord) error {
	query := `
		INSERT INTO validation_records (
			listing_id, authentic, confidence, rejection_reasons, validated_at
		) VALUES ($1, $2, $3, $4, $5)
	`

	reasons := r.RejectionReasons
	if reasons == nil {
		reasons = []string{}
	}

	_, err := s.pool.Exec(ctx, query,
		r.ListingID,
		r.Authentic,
		r.Confidence,
		reasons,
		r.ValidatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert validation record: %w", err)
	}
	return nil
}

// GetByListingID retrieves the record for a listing. Returns ErrNotFound if not exists.
func (s *ValidationStore) GetByListingID(ctx context.Context, listingID string) (*domain.ValidationRecord, error) {
	query := `
		SELECT listing_id, authentic, confidence, rejection_reasons, validated_at
		FROM validation_records
		WHERE listing_id = $1
	`

	var r domain.ValidationRecord
	err := s.pool.QueryRow(ctx, query, listingID).Scan(
		&r.ListingID,
		&r.Authentic,
		&r.Confidence,
		&r.RejectionReasons,
		&r.ValidatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get validation record: %w", err)
	}
	return &r, nil
}

// GetAuthentic retrieves all records with authentic = true, ordered by listing_id ASC.
func (s *ValidationStore) GetAuthentic(ctx context.Context) ([]*domain.ValidationRecord, error) {
	query := `
		SELECT listing_id, authentic, confidence, rejection_reasons, validated_at
		FROM validation_records
		WHERE authentic = true
		ORDER BY listing_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get authentic records: %w", err)
	}
	defer rows.Close()

	var records []*domain.ValidationRecord
	for rows.Next() {
		var r domain.ValidationRecord
		err := rows.Scan(
			&r.ListingID,
			&r.Authentic,
			&r.Confidence,
			&r.RejectionReasons,
			&r.ValidatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan validation row: %w", err)
		}
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate validation rows: %w", err)
	}

	return records, nil
}
