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

func TestValidationStore_Postgres(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	listingStore := NewListingStore(pool)
	store := NewValidationStore(pool)
	ctx := context.Background()

	insertListing := func(id string) {
		t.Helper()
		require.NoError(t, listingStore.Insert(ctx, &domain.Listing{
			ListingID:    id,
			URL:          "https://www.spitogatos.gr/property/" + id,
			Price:        95000,
			SizeSqm:      91,
			Neighborhood: "Exarchia",
			Source:       domain.SourceFile,
			CollectedAt:  1704067200000,
		}))
	}

	t.Run("reasons round-trip", func(t *testing.T) {
		insertListing("val-1")
		r := &domain.ValidationRecord{
			ListingID:        "val-1",
			Authentic:        false,
			Confidence:       45,
			RejectionReasons: []string{"url is empty", "price 50 outside plausible bounds [30000, 20000000]"},
			ValidatedAt:      1704067200000,
		}
		require.NoError(t, store.Insert(ctx, r))

		got, err := store.GetByListingID(ctx, "val-1")
		require.NoError(t, err)
		assert.False(t, got.Authentic)
		assert.Equal(t, r.RejectionReasons, got.RejectionReasons)

		assert.ErrorIs(t, store.Insert(ctx, r), storage.ErrDuplicateKey)
	})

	t.Run("nil reasons stored as empty array", func(t *testing.T) {
		insertListing("val-2")
		require.NoError(t, store.Insert(ctx, &domain.ValidationRecord{
			ListingID:   "val-2",
			Authentic:   true,
			Confidence:  100,
			ValidatedAt: 1704067200000,
		}))

		got, err := store.GetByListingID(ctx, "val-2")
		require.NoError(t, err)
		assert.Empty(t, got.RejectionReasons)
	})

	t.Run("get authentic", func(t *testing.T) {
		got, err := store.GetAuthentic(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "val-2", got[0].ListingID)
	})
}
