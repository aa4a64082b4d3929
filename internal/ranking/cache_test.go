package ranking

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/fatboylabs/gamestore/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCacheUnderTest(t *testing.T) (*Cache, store.CatalogStore, store.AccountStore) {
	t.Helper()
	s, err := store.OpenBolt(filepath.Join(t.TempDir(), "gamestore.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	catalog, accounts := s.Catalog(), s.Accounts()
	for _, g := range []domain.Game{
		{ID: 1, Title: "Elden Ring", Price: 59.99},
		{ID: 2, Title: "Hades II", Price: 29.99},
	} {
		game := g
		require.NoError(t, catalog.Upsert(context.Background(), &game))
	}
	return NewCache(catalog, accounts, time.Hour), catalog, accounts
}

func TestCacheServesStaleUntilInvalidated(t *testing.T) {
	cache, _, accounts := newCacheUnderTest(t)
	ctx := context.Background()

	ranked := cache.Ranked(ctx)
	require.Len(t, ranked, 2)
	assert.Equal(t, int64(1), ranked[0].ID)

	// a purchase lands but the TTL has not elapsed
	require.NoError(t, accounts.Upsert(ctx, &domain.Account{
		ID: "u1", Username: "liza",
		History: []domain.PurchaseRecord{{Items: []domain.GameSnapshot{{ID: 2}}}},
	}))
	ranked = cache.Ranked(ctx)
	assert.Equal(t, int64(1), ranked[0].ID)

	cache.Invalidate()
	ranked = cache.Ranked(ctx)
	assert.Equal(t, int64(2), ranked[0].ID)
	assert.Equal(t, 1, ranked[0].Sales)
}

func TestCacheRefreshRecomputesImmediately(t *testing.T) {
	cache, catalog, _ := newCacheUnderTest(t)
	ctx := context.Background()

	require.Len(t, cache.Ranked(ctx), 2)

	require.NoError(t, catalog.Upsert(ctx, &domain.Game{ID: 3, Title: "Celeste", Price: 19.99}))
	assert.Len(t, cache.Refresh(ctx), 3)
	assert.Len(t, cache.Ranked(ctx), 3)
}
