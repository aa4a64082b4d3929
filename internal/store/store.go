package store

import (
	"context"

	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/pkg/errors"
)

var (
	// ErrGameNotFound is returned when a catalog entry does not exist.
	ErrGameNotFound = errors.New("game not found")
	// ErrAccountNotFound is returned when an account lookup misses.
	ErrAccountNotFound = errors.New("account not found")
)

// CatalogStore is the catalog collaborator contract. Both backends keep the
// listing in catalog (id) order so popularity ties stay stable.
type CatalogStore interface {
	// List returns every catalog entry in original catalog order.
	List(ctx context.Context) ([]domain.Game, error)

	// Get retrieves a single game by id.
	Get(ctx context.Context, id int64) (*domain.Game, error)

	// Upsert creates or replaces a catalog entry.
	Upsert(ctx context.Context, game *domain.Game) error

	// Delete removes a catalog entry. Existing purchase history keeps its
	// denormalized snapshots untouched.
	Delete(ctx context.Context, id int64) error
}

// AccountStore is the account collaborator contract.
//
// Upsert carries merge semantics: when the account already exists, identity
// fields left zero on the incoming value (role, email, password, verified
// flag) are preserved from the stored document. Cart and history always come
// from the incoming value, so a single Upsert covers the checkout
// append-history-and-clear-cart unit.
type AccountStore interface {
	Get(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	Upsert(ctx context.Context, acct *domain.Account) error
	DeleteByName(ctx context.Context, username string) error
	FindByDisplayName(ctx context.Context, username string) (*domain.Account, error)
}

// mergeAccount applies the shared merge rules onto the incoming account
// before it replaces the stored document.
func mergeAccount(incoming, existing *domain.Account) {
	if incoming.Role == "" {
		incoming.Role = existing.Role
	}
	if incoming.Email == "" {
		incoming.Email = existing.Email
	}
	if incoming.Password == "" {
		incoming.Password = existing.Password
	}
	if incoming.Username == "" {
		incoming.Username = existing.Username
	}
	if incoming.VerifyToken == "" {
		incoming.VerifyToken = existing.VerifyToken
	}
	// Verification never silently regresses on a cart or history save.
	if existing.EmailVerified {
		incoming.EmailVerified = true
	}
	if incoming.LastLogin.IsZero() {
		incoming.LastLogin = existing.LastLogin
	}
	if incoming.CreatedAt.IsZero() {
		incoming.CreatedAt = existing.CreatedAt
	}
}
