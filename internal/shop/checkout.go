package shop

import (
	"context"
	"regexp"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/fatboylabs/gamestore/internal/store"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// TopicCheckoutCompleted carries a ReceiptEvent after a committed purchase.
// Subscribers (the receipt mailer) run off the checkout success path; their
// failures never undo the purchase.
const TopicCheckoutCompleted = "checkout.completed"

// mobile wallet numbers: 09 followed by exactly 9 digits, 11 digits total
var walletNumberPattern = regexp.MustCompile(`^09\d{9}$`)

// PaymentInput is what the payment dialog submits.
type PaymentInput struct {
	Method       string
	MobileNumber string
	// ReceiptEmail is the fallback receipt address supplied by the user when
	// the account has no email on file.
	ReceiptEmail string
}

// ReceiptEvent is published on TopicCheckoutCompleted.
type ReceiptEvent struct {
	Username string
	Email    string
	Record   domain.PurchaseRecord
}

// CheckoutService converts a validated cart into a purchase record.
type CheckoutService struct {
	accounts store.AccountStore
	node     *snowflake.Node
	bus      EventBus.Bus
}

func NewCheckoutService(accounts store.AccountStore, node *snowflake.Node, bus EventBus.Bus) *CheckoutService {
	return &CheckoutService{accounts: accounts, node: node, bus: bus}
}

// Checkout runs the precondition chain in order and commits the purchase.
// The first failing check halts with no mutation. On success the history
// append and cart clear are persisted by a single store Upsert.
func (s *CheckoutService) Checkout(ctx context.Context, acct *domain.Account, input PaymentInput) (*domain.PurchaseRecord, error) {
	if len(acct.Cart) == 0 {
		return nil, ErrEmptyCart
	}

	if !domain.ValidPaymentMethod(input.Method) {
		return nil, ErrNoPaymentMethod
	}

	if domain.MobileWalletMethod(input.Method) && !walletNumberPattern.MatchString(input.MobileNumber) {
		return nil, errors.Wrapf(ErrInvalidPaymentNumber,
			"%s number must start with 09 and contain exactly 11 digits", input.Method)
	}

	owned := acct.OwnedGameIDs()
	for _, item := range acct.Cart {
		if owned[item.ID] {
			return nil, errors.Wrapf(ErrDuplicateOwnership, "you already own %q", item.Title)
		}
	}

	record := domain.PurchaseRecord{
		OrderNo:       s.node.Generate().String(),
		Date:          time.Now(),
		Items:         append([]domain.GameSnapshot(nil), acct.Cart...),
		Total:         acct.CartTotal(),
		PaymentMethod: input.Method,
	}

	prevCart, prevHistory := acct.Cart, acct.History
	acct.History = append(acct.History, record)
	acct.Cart = []domain.GameSnapshot{}
	if err := s.accounts.Upsert(ctx, acct); err != nil {
		acct.Cart, acct.History = prevCart, prevHistory
		return nil, err
	}

	zap.L().Info("checkout completed",
		zap.String("username", acct.Username),
		zap.String("order_no", record.OrderNo),
		zap.String("method", record.PaymentMethod),
		zap.Float64("total", record.Total),
		zap.Int("items", len(record.Items)))

	if s.bus != nil {
		email := acct.Email
		if email == "" {
			email = input.ReceiptEmail
		}
		s.bus.Publish(TopicCheckoutCompleted, ReceiptEvent{
			Username: acct.Username,
			Email:    email,
			Record:   record,
		})
	}

	return &record, nil
}
