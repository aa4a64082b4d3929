package shop

import (
	"context"
	"sync"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillCart(t *testing.T, env *testEnv, acct *domain.Account, ids ...int64) {
	t.Helper()
	cartSvc := NewCartService(env.catalog, env.accounts)
	for _, id := range ids {
		_, err := cartSvc.AddToCart(context.Background(), acct, id)
		require.NoError(t, err)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCheckoutService(env.accounts, env.node, nil)
	acct := env.newAccount(t, "u1", "liza")

	_, err := svc.Checkout(context.Background(), acct, PaymentInput{Method: domain.PaymentGcash, MobileNumber: "09123456789"})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutRequiresPaymentMethod(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCheckoutService(env.accounts, env.node, nil)
	acct := env.newAccount(t, "u1", "liza")
	fillCart(t, env, acct, 2)

	_, err := svc.Checkout(context.Background(), acct, PaymentInput{})
	assert.ErrorIs(t, err, ErrNoPaymentMethod)

	_, err = svc.Checkout(context.Background(), acct, PaymentInput{Method: "bitcoin"})
	assert.ErrorIs(t, err, ErrNoPaymentMethod)

	assert.Len(t, acct.Cart, 1)
	assert.Empty(t, acct.History)
}

func TestCheckoutWalletNumberValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCheckoutService(env.accounts, env.node, nil)
	acct := env.newAccount(t, "u1", "liza")
	fillCart(t, env, acct, 2)
	ctx := context.Background()

	// too short
	_, err := svc.Checkout(ctx, acct, PaymentInput{Method: domain.PaymentGcash, MobileNumber: "0912345678"})
	assert.ErrorIs(t, err, ErrInvalidPaymentNumber)

	// wrong prefix even though it is the same subscriber number
	_, err = svc.Checkout(ctx, acct, PaymentInput{Method: domain.PaymentPaymaya, MobileNumber: "639123456789"})
	assert.ErrorIs(t, err, ErrInvalidPaymentNumber)

	// card payments skip the wallet number entirely
	_, err = svc.Checkout(ctx, acct, PaymentInput{Method: domain.PaymentCard})
	assert.NoError(t, err)
}

func TestCheckoutDuplicateOwnershipHaltsWithoutMutation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCheckoutService(env.accounts, env.node, nil)
	acct := env.newAccount(t, "u1", "liza")
	ctx := context.Background()

	fillCart(t, env, acct, 1)
	_, err := svc.Checkout(ctx, acct, PaymentInput{Method: domain.PaymentGcash, MobileNumber: "09123456789"})
	require.NoError(t, err)

	// the game comes back into the cart somehow, say via stale client state
	acct.Cart = []domain.GameSnapshot{{ID: 1, Title: "Elden Ring", Price: 59.99}}
	require.NoError(t, env.accounts.Upsert(ctx, acct))

	_, err = svc.Checkout(ctx, acct, PaymentInput{Method: domain.PaymentGcash, MobileNumber: "09123456789"})
	assert.ErrorIs(t, err, ErrDuplicateOwnership)
	assert.Contains(t, err.Error(), "Elden Ring")

	// nothing moved: cart still holds the item, history still has one record
	stored, err := env.accounts.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, stored.Cart, 1)
	assert.Len(t, stored.History, 1)
}

func TestCheckoutSuccess(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCheckoutService(env.accounts, env.node, nil)
	acct := env.newAccount(t, "u1", "liza")
	ctx := context.Background()

	fillCart(t, env, acct, 2, 4)

	record, err := svc.Checkout(ctx, acct, PaymentInput{Method: domain.PaymentGcash, MobileNumber: "09123456789"})
	require.NoError(t, err)
	assert.NotEmpty(t, record.OrderNo)
	assert.InDelta(t, 49.98, record.Total, 0.001)
	assert.Len(t, record.Items, 2)
	assert.Equal(t, domain.PaymentGcash, record.PaymentMethod)
	assert.False(t, record.Date.IsZero())

	// history append and cart clear land together
	stored, err := env.accounts.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, stored.Cart)
	require.Len(t, stored.History, 1)
	assert.Equal(t, record.OrderNo, stored.History[0].OrderNo)
}

func TestCheckoutPublishesReceiptEvent(t *testing.T) {
	env := newTestEnv(t)
	bus := EventBus.New()
	svc := NewCheckoutService(env.accounts, env.node, bus)
	acct := env.newAccount(t, "u1", "liza")
	ctx := context.Background()

	var mu sync.Mutex
	var got *ReceiptEvent
	require.NoError(t, bus.Subscribe(TopicCheckoutCompleted, func(ev ReceiptEvent) {
		mu.Lock()
		got = &ev
		mu.Unlock()
	}))

	fillCart(t, env, acct, 3)
	record, err := svc.Checkout(ctx, acct, PaymentInput{Method: domain.PaymentCard})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, got)
	assert.Equal(t, "liza", got.Username)
	assert.Equal(t, "liza@fatboy.games", got.Email)
	assert.Equal(t, record.OrderNo, got.Record.OrderNo)
}

func TestCheckoutReceiptEmailFallback(t *testing.T) {
	env := newTestEnv(t)
	bus := EventBus.New()
	svc := NewCheckoutService(env.accounts, env.node, bus)

	// account registered without an email on file
	acct := &domain.Account{
		ID:       "u1",
		Username: "liza",
		Role:     domain.RoleUser,
		Cart:     []domain.GameSnapshot{},
		History:  []domain.PurchaseRecord{},
	}
	require.NoError(t, env.accounts.Upsert(context.Background(), acct))

	var mu sync.Mutex
	var got *ReceiptEvent
	require.NoError(t, bus.Subscribe(TopicCheckoutCompleted, func(ev ReceiptEvent) {
		mu.Lock()
		got = &ev
		mu.Unlock()
	}))

	fillCart(t, env, acct, 3)
	_, err := svc.Checkout(context.Background(), acct, PaymentInput{
		Method:       domain.PaymentCard,
		ReceiptEmail: "fallback@example.com",
	})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, got)
	assert.Equal(t, "fallback@example.com", got.Email)
}
