package clickhouse

import (
	"context"
	"fmt"

	"athens-property-lab/internal/domain"
	"athens-property-lab/internal/storage"
)

// MarketSnapshotStore implements storage.MarketSnapshotStore using ClickHouse.
type MarketSnapshotStore struct {
	conn *Conn
}

// NewMarketSnapshotStore creates a new MarketSnapshotStore.
func NewMarketSnapshotStore(conn *Conn) *MarketSnapshotStore {
	return &MarketSnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.MarketSnapshotStore = (*MarketSnapshotStore)(nil)

// InsertBulk adds snapshot rows for one batch.
func (s *MarketSnapshotStore) InsertBulk(ctx context.Context, snapshots []*domain.MarketSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	for _, snap := range snapshots {
		if snap == nil || snap.BatchID == "" || snap.Neighborhood == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO market_snapshots (
			batch_id, neighborhood, avg_price_per_sqm, listing_count, snapshot_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, snap := range snapshots {
		err = batch.Append(
			snap.BatchID, snap.Neighborhood,
			snap.AvgPricePerSqm, snap.ListingCount, snap.SnapshotAt,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByNeighborhood retrieves all snapshots for a neighborhood, ordered by snapshot_at ASC.
func (s *MarketSnapshotStore) GetByNeighborhood(ctx context.Context, neighborhood string) ([]*domain.MarketSnapshot, error) {
	query := `
		SELECT batch_id, neighborhood, avg_price_per_sqm, listing_count, snapshot_at
		FROM market_snapshots
		WHERE neighborhood = ?
		ORDER BY snapshot_at ASC
	`

	rows, err := s.conn.Query(ctx, query, neighborhood)
	if err != nil {
		return nil, fmt.Errorf("query snapshots by neighborhood: %w", err)
	}
	defer rows.Close()

	var snapshots []*domain.MarketSnapshot
	for rows.Next() {
		var snap domain.MarketSnapshot
		err := rows.Scan(
			&snap.BatchID,
			&snap.Neighborhood,
			&snap.AvgPricePerSqm,
			&snap.ListingCount,
			&snap.SnapshotAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		snapshots = append(snapshots, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}

	return snapshots, nil
}
