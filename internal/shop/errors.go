package shop

import "github.com/pkg/errors"

// Workflow sentinel errors. Handlers map these to stable API error codes;
// messages carry the user facing detail (offending title and so on).
var (
	// ErrEmptyCart is returned when checkout starts with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrNoPaymentMethod is returned when no valid payment method was selected.
	ErrNoPaymentMethod = errors.New("no payment method selected")

	// ErrInvalidPaymentNumber is returned when a mobile wallet number does not
	// match the 09XXXXXXXXX pattern.
	ErrInvalidPaymentNumber = errors.New("invalid payment number")

	// ErrAlreadyInCart is returned when adding a game whose id is already in
	// the cart. The cart is left untouched.
	ErrAlreadyInCart = errors.New("already in cart")

	// ErrDuplicateOwnership aborts a checkout containing an already owned
	// game. No mutation happens.
	ErrDuplicateOwnership = errors.New("game already owned")

	// ErrCartIndexOutOfRange guards removals against stale indices.
	ErrCartIndexOutOfRange = errors.New("cart index out of range")
)
