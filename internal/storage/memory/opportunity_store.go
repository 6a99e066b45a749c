package memory

import (
	"context"
	"sort"
	"sync"

	"athens-property-lab/internal/domain"
	"athens-property-lab/internal/storage"
)

// OpportunityStore is an in-memory implementation of storage.OpportunityStore.
type OpportunityStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Opportunity // keyed by listing_id
}

// NewOpportunityStore creates a new in-memory opportunity store.
func NewOpportunityStore() *OpportunityStore {
	return &OpportunityStore{
		data: make(map[string]*domain.Opportunity),
	}
}

// Insert adds a new opportunity. Returns ErrDuplicateKey if listing_id exists.
func (s *OpportunityStore) Insert(_ context.Context, o *domain.Opportunity) error {
	if o == nil || o.ListingID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[o.ListingID]; exists {
		return storage.ErrDuplicateKey
	}

	opportunityCopy := *o
	s.data[o.ListingID] = &opportunityCopy
	return nil
}

// GetByListingID retrieves the opportunity for a listing. Returns ErrNotFound if not exists.
func (s *OpportunityStore) GetByListingID(_ context.Context, listingID string) (*domain.Opportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, exists := s.data[listingID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	opportunityCopy := *o
	return &opportunityCopy, nil
}

// GetRanked retrieves all opportunities ordered by value_score DESC,
// roi_estimate DESC, listing_id ASC.
func (s *OpportunityStore) GetRanked(_ context.Context) ([]*domain.Opportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Opportunity, 0, len(s.data))
	for _, o := range s.data {
		opportunityCopy := *o
		result = append(result, &opportunityCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ValueScore != result[j].ValueScore {
			return result[i].ValueScore > result[j].ValueScore
		}
		if result[i].ROIEstimate != result[j].ROIEstimate {
			return result[i].ROIEstimate > result[j].ROIEstimate
		}
		return result[i].ListingID < result[j].ListingID
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.OpportunityStore = (*OpportunityStore)(nil)
