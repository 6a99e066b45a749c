package memory

import (
	"context"
	"sort"
	"sync"

	"athens-property-lab/internal/domain"
	"athens-property-lab/internal/storage"
)

// ValidationStore is an in-memory implementation of storage.ValidationStore.
type ValidationStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ValidationRecord // keyed by listing_id
}

// NewValidationStore creates a new in-memory validation store.
func NewValidationStore() *ValidationStore {
	return &ValidationStore{
		data: make(map[string]*domain.ValidationRecord),
	}
}

// Insert adds a new validation record. Returns ErrDuplicateKey if listing_id exists.
func (s *ValidationStore) Insert(_ context.Context, r *domain.ValidationRecord) error {
	if r == nil || r.ListingID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.ListingID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[r.ListingID] = copyValidationRecord(r)
	return nil
}

// GetByListingID retrieves the record for a listing. Returns ErrNotFound if not exists.
func (s *ValidationStore) GetByListingID(_ context.Context, listingID string) (*domain.ValidationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[listingID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return copyValidationRecord(r), nil
}

// GetAuthentic retrieves all records with authentic = true, ordered by listing_id ASC.
func (s *ValidationStore) GetAuthentic(_ context.Context) ([]*domain.ValidationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ValidationRecord
	for _, r := range s.data {
		if r.Authentic {
			result = append(result, copyValidationRecord(r))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ListingID < result[j].ListingID
	})

	return result, nil
}

// copyValidationRecord deep-copies a record, including the reasons slice.
func copyValidationRecord(r *domain.ValidationRecord) *domain.ValidationRecord {
	recordCopy := *r
	if r.RejectionReasons != nil {
		recordCopy.RejectionReasons = append([]string(nil), r.RejectionReasons...)
	}
	return &recordCopy
}

// Verify interface compliance at compile time.
var _ storage.ValidationStore = (*ValidationStore)(nil)
