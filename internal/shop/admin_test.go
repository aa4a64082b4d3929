package shop

import (
	"context"
	"testing"

	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/fatboylabs/gamestore/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveGameCreate(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.catalog, env.accounts, env.node)
	ctx := context.Background()

	game, err := svc.SaveGame(ctx, GameInput{Title: "Celeste", Price: 19.99, Img: "img-a"})
	require.NoError(t, err)
	assert.NotZero(t, game.ID)

	stored, err := env.catalog.Get(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, "Celeste", stored.Title)
	assert.Equal(t, "img-a", stored.Img)
}

func TestSaveGameUpdateKeepsImagesWhenOmitted(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.catalog, env.accounts, env.node)
	ctx := context.Background()

	require.NoError(t, env.catalog.Upsert(ctx, &domain.Game{
		ID: 5, Title: "Old Title", Price: 9.99, Img: "A", HoverImg: "B",
	}))

	game, err := svc.SaveGame(ctx, GameInput{ID: 5, Title: "New Title", Price: 12.99})
	require.NoError(t, err)
	assert.Equal(t, "New Title", game.Title)
	assert.Equal(t, "A", game.Img)
	assert.Equal(t, "B", game.HoverImg)

	stored, err := env.catalog.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "A", stored.Img)
	assert.Equal(t, "B", stored.HoverImg)
	assert.Equal(t, 12.99, stored.Price)
}

func TestSaveGameUpdateReplacesProvidedImages(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.catalog, env.accounts, env.node)
	ctx := context.Background()

	require.NoError(t, env.catalog.Upsert(ctx, &domain.Game{
		ID: 5, Title: "Old Title", Price: 9.99, Img: "A", HoverImg: "B",
	}))

	game, err := svc.SaveGame(ctx, GameInput{ID: 5, Title: "Old Title", Price: 9.99, Img: "C"})
	require.NoError(t, err)
	assert.Equal(t, "C", game.Img)
	assert.Equal(t, "B", game.HoverImg)
}

func TestSaveGameVanishedIDBehavesLikeCreate(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.catalog, env.accounts, env.node)

	game, err := svc.SaveGame(context.Background(), GameInput{ID: 777, Title: "Ghost", Price: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(777), game.ID)
}

func TestDeleteGameKeepsHistorySnapshots(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.catalog, env.accounts, env.node)
	ctx := context.Background()

	acct := env.newAccount(t, "u1", "liza")
	acct.History = []domain.PurchaseRecord{{
		Items: []domain.GameSnapshot{{ID: 1, Title: "Elden Ring", Price: 59.99}},
		Total: 59.99,
	}}
	require.NoError(t, env.accounts.Upsert(ctx, acct))

	require.NoError(t, svc.DeleteGame(ctx, 1))

	_, err := env.catalog.Get(ctx, 1)
	assert.ErrorIs(t, err, store.ErrGameNotFound)

	stored, err := env.accounts.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, stored.History, 1)
	assert.Equal(t, "Elden Ring", stored.History[0].Items[0].Title)
}

func TestDeleteAccount(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.catalog, env.accounts, env.node)
	ctx := context.Background()

	env.newAccount(t, "u1", "liza")
	require.NoError(t, svc.DeleteAccount(ctx, "liza"))
	_, err := env.accounts.FindByDisplayName(ctx, "liza")
	assert.ErrorIs(t, err, store.ErrAccountNotFound)

	err = svc.DeleteAccount(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
}

func TestDeleteAccountRefusesAdmins(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.catalog, env.accounts, env.node)
	ctx := context.Background()

	require.NoError(t, env.accounts.Upsert(ctx, &domain.Account{
		ID: "a1", Username: "admin", Role: domain.RoleAdmin,
	}))

	assert.ErrorIs(t, svc.DeleteAccount(ctx, "admin"), ErrAccountProtected)
	_, err := env.accounts.FindByDisplayName(ctx, "admin")
	assert.NoError(t, err)
}

func TestBuildOverview(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.catalog, env.accounts, env.node)
	ctx := context.Background()

	require.NoError(t, env.accounts.Upsert(ctx, &domain.Account{
		ID: "a1", Username: "admin", Role: domain.RoleAdmin,
	}))

	liza := env.newAccount(t, "u1", "liza")
	liza.History = []domain.PurchaseRecord{{
		Items: []domain.GameSnapshot{{ID: 1, Title: "Elden Ring"}, {ID: 2, Title: "Hades II"}},
		Total: 89.98,
	}}
	require.NoError(t, env.accounts.Upsert(ctx, liza))

	marco := env.newAccount(t, "u2", "marco")
	marco.History = []domain.PurchaseRecord{{
		Items: []domain.GameSnapshot{{ID: 1, Title: "Elden Ring"}},
		Total: 59.99,
	}}
	require.NoError(t, env.accounts.Upsert(ctx, marco))

	overview, err := svc.BuildOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, overview.TotalUsers)
	assert.Equal(t, 4, overview.TotalGames)
	assert.InDelta(t, 149.97, overview.TotalRevenue, 0.001)
	assert.Equal(t, "Elden Ring", overview.TopGame)
	assert.Equal(t, 2, overview.TopGameSales)
	assert.Equal(t, 2, overview.SalesByTitle["Elden Ring"])
	assert.Equal(t, 1, overview.SalesByTitle["Hades II"])
}

func TestBuildOverviewEmptyStore(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.catalog, env.accounts, env.node)

	overview, err := svc.BuildOverview(context.Background())
	require.NoError(t, err)
	assert.Zero(t, overview.TotalUsers)
	assert.Zero(t, overview.TotalRevenue)
	assert.Equal(t, "None", overview.TopGame)
}
