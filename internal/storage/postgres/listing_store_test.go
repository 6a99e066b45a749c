package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"athens-property-lab/internal/domain"
	"athens-property-lab/internal/storage"
	. "athens-property-lab/internal/storage/postgres"
)

func TestListingStore_Postgres(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewListingStore(pool)
	ctx := context.Background()

	listing := &domain.Listing{
		ListingID:    "pg-listing-1",
		URL:          "https://www.spitogatos.gr/property/1",
		Price:        95000,
		SizeSqm:      91,
		EnergyClass:  domain.EnergyD,
		Neighborhood: "Exarchia",
		Rooms:        ptr(3),
		Floor:        ptr(2),
		Source:       domain.SourceFile,
		CollectedAt:  1704067200000,
	}

	t.Run("insert and get", func(t *testing.T) {
		require.NoError(t, store.Insert(ctx, listing))

		got, err := store.GetByID(ctx, "pg-listing-1")
		require.NoError(t, err)
		assert.Equal(t, listing.URL, got.URL)
		assert.Equal(t, listing.Price, got.Price)
		assert.Equal(t, domain.EnergyD, got.EnergyClass)
		require.NotNil(t, got.Rooms)
		assert.Equal(t, 3, *got.Rooms)
		assert.NotZero(t, got.CreatedAt, "created_at should be set by the database")
	})

	t.Run("duplicate key", func(t *testing.T) {
		err := store.Insert(ctx, listing)
		assert.ErrorIs(t, err, storage.ErrDuplicateKey)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := store.GetByID(ctx, "nonexistent")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("get by neighborhood ordered", func(t *testing.T) {
		second := *listing
		second.ListingID = "pg-listing-0"
		second.URL = "https://www.spitogatos.gr/property/0"
		second.Rooms = nil
		second.Floor = nil
		require.NoError(t, store.Insert(ctx, &second))

		got, err := store.GetByNeighborhood(ctx, "Exarchia")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "pg-listing-0", got[0].ListingID)
		assert.Equal(t, "pg-listing-1", got[1].ListingID)
		assert.Nil(t, got[0].Rooms, "nullable rooms should round-trip as nil")
	})
}
