package shop

import (
	"context"
	"testing"

	"github.com/fatboylabs/gamestore/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToCart(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCartService(env.catalog, env.accounts)
	acct := env.newAccount(t, "u1", "liza")
	ctx := context.Background()

	snapshot, err := svc.AddToCart(ctx, acct, 1)
	require.NoError(t, err)
	assert.Equal(t, "Elden Ring", snapshot.Title)
	assert.Equal(t, 59.99, snapshot.Price)

	// cart change must be persisted, not only in memory
	stored, err := env.accounts.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, stored.Cart, 1)
	assert.Equal(t, int64(1), stored.Cart[0].ID)
}

func TestAddToCartDuplicateLeavesCartUnchanged(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCartService(env.catalog, env.accounts)
	acct := env.newAccount(t, "u1", "liza")
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, acct, 1)
	require.NoError(t, err)

	_, err = svc.AddToCart(ctx, acct, 1)
	assert.ErrorIs(t, err, ErrAlreadyInCart)
	assert.Contains(t, err.Error(), "Elden Ring")

	assert.Len(t, acct.Cart, 1)
	stored, err := env.accounts.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, stored.Cart, 1)
}

func TestAddToCartUnknownGame(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCartService(env.catalog, env.accounts)
	acct := env.newAccount(t, "u1", "liza")

	_, err := svc.AddToCart(context.Background(), acct, 42)
	assert.ErrorIs(t, err, store.ErrGameNotFound)
	assert.Empty(t, acct.Cart)
}

func TestRemoveFromCart(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCartService(env.catalog, env.accounts)
	acct := env.newAccount(t, "u1", "liza")
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		_, err := svc.AddToCart(ctx, acct, id)
		require.NoError(t, err)
	}

	require.NoError(t, svc.RemoveFromCart(ctx, acct, 1))
	require.Len(t, acct.Cart, 2)
	assert.Equal(t, int64(1), acct.Cart[0].ID)
	assert.Equal(t, int64(3), acct.Cart[1].ID)

	stored, err := env.accounts.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, stored.Cart, 2)
}

func TestRemoveFromCartIndexOutOfRange(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCartService(env.catalog, env.accounts)
	acct := env.newAccount(t, "u1", "liza")
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, acct, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.RemoveFromCart(ctx, acct, -1), ErrCartIndexOutOfRange)
	assert.ErrorIs(t, svc.RemoveFromCart(ctx, acct, 1), ErrCartIndexOutOfRange)
	assert.Len(t, acct.Cart, 1)
}

func TestBadgeCountReadsPersistedCart(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCartService(env.catalog, env.accounts)
	acct := env.newAccount(t, "u1", "liza")
	ctx := context.Background()

	count, err := svc.BadgeCount(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = svc.AddToCart(ctx, acct, 2)
	require.NoError(t, err)

	count, err = svc.BadgeCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = svc.BadgeCount(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
}
