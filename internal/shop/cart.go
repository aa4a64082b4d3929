package shop

import (
	"context"

	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/fatboylabs/gamestore/internal/store"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// CartService validates and mutates a single account's cart, persisting every
// change through the account store in one Upsert call.
type CartService struct {
	catalog  store.CatalogStore
	accounts store.AccountStore
}

func NewCartService(catalog store.CatalogStore, accounts store.AccountStore) *CartService {
	return &CartService{catalog: catalog, accounts: accounts}
}

// AddToCart appends the game snapshot to the account's cart. Adding a game
// that is already in the cart fails with ErrAlreadyInCart and leaves both
// the in-memory account and the stored document unchanged.
func (s *CartService) AddToCart(ctx context.Context, acct *domain.Account, gameID int64) (*domain.GameSnapshot, error) {
	game, err := s.catalog.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if acct.InCart(gameID) {
		return nil, errors.Wrapf(ErrAlreadyInCart, "%s is already in your cart", game.Title)
	}

	snapshot := game.Snapshot()
	acct.Cart = append(acct.Cart, snapshot)
	if err := s.accounts.Upsert(ctx, acct); err != nil {
		acct.Cart = acct.Cart[:len(acct.Cart)-1]
		return nil, err
	}

	zap.L().Info("cart item added",
		zap.String("username", acct.Username),
		zap.Int64("game_id", gameID),
		zap.Int("cart_size", len(acct.Cart)))
	return &snapshot, nil
}

// RemoveFromCart removes the entry at the given 0-based position and
// persists. Callers confirm with the user before calling; an index outside
// the current cart means the caller rendered stale state.
func (s *CartService) RemoveFromCart(ctx context.Context, acct *domain.Account, index int) error {
	if index < 0 || index >= len(acct.Cart) {
		return errors.Wrapf(ErrCartIndexOutOfRange, "index %d, cart size %d", index, len(acct.Cart))
	}

	removed := acct.Cart[index]
	cart := make([]domain.GameSnapshot, 0, len(acct.Cart)-1)
	cart = append(cart, acct.Cart[:index]...)
	cart = append(cart, acct.Cart[index+1:]...)

	prev := acct.Cart
	acct.Cart = cart
	if err := s.accounts.Upsert(ctx, acct); err != nil {
		acct.Cart = prev
		return err
	}

	zap.L().Info("cart item removed",
		zap.String("username", acct.Username),
		zap.Int64("game_id", removed.ID),
		zap.Int("cart_size", len(acct.Cart)))
	return nil
}

// BadgeCount re-reads the persisted cart length. The dashboard badge is
// always recomputed from the store, never incremented locally, so it stays
// right after a failed save.
func (s *CartService) BadgeCount(ctx context.Context, accountID string) (int, error) {
	acct, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return len(acct.Cart), nil
}
