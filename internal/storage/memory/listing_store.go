package memory

import (
	"context"
	"sort"
	"sync"

	"athens-property-lab/internal/domain"
	"athens-property-lab/internal/storage"
)

// ListingStore is an in-memory implementation of storage.ListingStore.
type ListingStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Listing // keyed by listing_id
}

// NewListingStore creates a new in-memory listing store.
func NewListingStore() *ListingStore {
	return &ListingStore{
		data: make(map[string]*domain.Listing),
	}
}

// Insert adds a new listing. Returns ErrDuplicateKey if listing_id exists.
func (s *ListingStore) Insert(_ context.Context, l *domain.Listing) error {
	if l == nil || l.ListingID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[l.ListingID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	listingCopy := *l
	s.data[l.ListingID] = &listingCopy
	return nil
}

// GetByID retrieves a listing by its ID. Returns ErrNotFound if not exists.
func (s *ListingStore) GetByID(_ context.Context, listingID string) (*domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, exists := s.data[listingID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	listingCopy := *l
	return &listingCopy, nil
}

// GetByNeighborhood retrieves all listings in a neighborhood, ordered by listing_id ASC.
func (s *ListingStore) GetByNeighborhood(_ context.Context, neighborhood string) ([]*domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Listing
	for _, l := range s.data {
		if l.Neighborhood == neighborhood {
			listingCopy := *l
			result = append(result, &listingCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ListingID < result[j].ListingID
	})

	return result, nil
}

// GetAll retrieves all listings, ordered by listing_id ASC.
func (s *ListingStore) GetAll(_ context.Context) ([]*domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Listing, 0, len(s.data))
	for _, l := range s.data {
		listingCopy := *l
		result = append(result, &listingCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ListingID < result[j].ListingID
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.ListingStore = (*ListingStore)(nil)
