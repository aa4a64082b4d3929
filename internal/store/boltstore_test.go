package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := OpenBolt(filepath.Join(t.TempDir(), "gamestore.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBoltCatalogRoundTrip(t *testing.T) {
	s := openTestStore(t)
	catalog := s.Catalog()
	ctx := context.Background()

	require.NoError(t, catalog.Upsert(ctx, &domain.Game{ID: 2, Title: "Hades II", Price: 29.99}))
	require.NoError(t, catalog.Upsert(ctx, &domain.Game{ID: 1, Title: "Elden Ring", Price: 59.99}))

	games, err := catalog.List(ctx)
	require.NoError(t, err)
	require.Len(t, games, 2)
	// listing always comes back in catalog (id) order regardless of insert order
	assert.Equal(t, int64(1), games[0].ID)
	assert.Equal(t, int64(2), games[1].ID)
	assert.False(t, games[0].CreatedAt.IsZero())

	game, err := catalog.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Hades II", game.Title)

	_, err = catalog.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrGameNotFound)

	require.NoError(t, catalog.Delete(ctx, 1))
	games, err = catalog.List(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 1)
}

func TestBoltAccountUpsertMergesIdentityFields(t *testing.T) {
	s := openTestStore(t)
	accounts := s.Accounts()
	ctx := context.Background()

	require.NoError(t, accounts.Upsert(ctx, &domain.Account{
		ID:            "u1",
		Username:      "liza",
		Email:         "liza@fatboy.games",
		EmailVerified: true,
		Password:      "hashed-secret",
		Role:          domain.RoleUser,
	}))

	// a cart save carries only the id and the documents
	require.NoError(t, accounts.Upsert(ctx, &domain.Account{
		ID:   "u1",
		Cart: []domain.GameSnapshot{{ID: 1, Title: "Elden Ring", Price: 59.99}},
	}))

	acct, err := accounts.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "liza", acct.Username)
	assert.Equal(t, "liza@fatboy.games", acct.Email)
	assert.Equal(t, "hashed-secret", acct.Password)
	assert.Equal(t, domain.RoleUser, acct.Role)
	assert.True(t, acct.EmailVerified)
	assert.Len(t, acct.Cart, 1)
	assert.False(t, acct.CreatedAt.IsZero())
}

func TestBoltAccountCartAndHistoryReplaceWholesale(t *testing.T) {
	s := openTestStore(t)
	accounts := s.Accounts()
	ctx := context.Background()

	require.NoError(t, accounts.Upsert(ctx, &domain.Account{
		ID:       "u1",
		Username: "liza",
		Cart:     []domain.GameSnapshot{{ID: 1}, {ID: 2}},
	}))
	require.NoError(t, accounts.Upsert(ctx, &domain.Account{
		ID:       "u1",
		Cart:     []domain.GameSnapshot{},
		History:  []domain.PurchaseRecord{{Total: 89.98}},
		Username: "liza",
	}))

	acct, err := accounts.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, acct.Cart)
	require.Len(t, acct.History, 1)
	assert.Equal(t, 89.98, acct.History[0].Total)
}

func TestBoltAccountLookupAndDeleteByName(t *testing.T) {
	s := openTestStore(t)
	accounts := s.Accounts()
	ctx := context.Background()

	require.NoError(t, accounts.Upsert(ctx, &domain.Account{ID: "u1", Username: "liza"}))
	require.NoError(t, accounts.Upsert(ctx, &domain.Account{ID: "u2", Username: "marco"}))

	acct, err := accounts.FindByDisplayName(ctx, "marco")
	require.NoError(t, err)
	assert.Equal(t, "u2", acct.ID)

	_, err = accounts.FindByDisplayName(ctx, "nobody")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	require.NoError(t, accounts.DeleteByName(ctx, "liza"))
	_, err = accounts.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	all, err := accounts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
