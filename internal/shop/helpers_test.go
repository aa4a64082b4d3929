package shop

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/fatboylabs/gamestore/internal/store"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	catalog  store.CatalogStore
	accounts store.AccountStore
	node     *snowflake.Node
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	s, err := store.OpenBolt(filepath.Join(t.TempDir(), "gamestore.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	env := &testEnv{catalog: s.Catalog(), accounts: s.Accounts(), node: node}

	ctx := context.Background()
	for _, g := range []domain.Game{
		{ID: 1, Title: "Elden Ring", Price: 59.99, Img: "https://res.cloudinary.com/demo/image/upload/elden.jpg"},
		{ID: 2, Title: "Hades II", Price: 29.99},
		{ID: 3, Title: "Stardew Valley", Price: 14.99},
		{ID: 4, Title: "Hollow Knight: Silksong", Price: 19.99},
	} {
		game := g
		require.NoError(t, env.catalog.Upsert(ctx, &game))
	}
	return env
}

func (e *testEnv) newAccount(t *testing.T, id, username string) *domain.Account {
	t.Helper()
	acct := &domain.Account{
		ID:       id,
		Username: username,
		Email:    username + "@fatboy.games",
		Role:     domain.RoleUser,
		Cart:     []domain.GameSnapshot{},
		History:  []domain.PurchaseRecord{},
	}
	require.NoError(t, e.accounts.Upsert(context.Background(), acct))
	return acct
}
