package memory

import (
	"context"
	"sort"
	"sync"

	"athens-property-lab/internal/domain"
	"athens-property-lab/internal/storage"
)

// MarketSnapshotStore is an in-memory implementation of storage.MarketSnapshotStore.
type MarketSnapshotStore struct {
	mu   sync.RWMutex
	data []*domain.MarketSnapshot
}

// NewMarketSnapshotStore creates a new in-memory market snapshot store.
func NewMarketSnapshotStore() *MarketSnapshotStore {
	return &MarketSnapshotStore{}
}

// InsertBulk adds snapshot rows for one batch.
func (s *MarketSnapshotStore) InsertBulk(_ context.Context, snapshots []*domain.MarketSnapshot) error {
	for _, snap := range snapshots {
		if snap == nil || snap.BatchID == "" || snap.Neighborhood == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, snap := range snapshots {
		snapCopy := *snap
		s.data = append(s.data, &snapCopy)
	}
	return nil
}

// GetByNeighborhood retrieves all snapshots for a neighborhood, ordered by snapshot_at ASC.
func (s *MarketSnapshotStore) GetByNeighborhood(_ context.Context, neighborhood string) ([]*domain.MarketSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.MarketSnapshot
	for _, snap := range s.data {
		if snap.Neighborhood == neighborhood {
			snapCopy := *snap
			result = append(result, &snapCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].SnapshotAt < result[j].SnapshotAt
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.MarketSnapshotStore = (*MarketSnapshotStore)(nil)
