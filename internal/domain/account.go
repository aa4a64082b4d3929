package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	PaymentGcash   = "gcash"
	PaymentPaymaya = "paymaya"
	PaymentCard    = "card"
)

// MobileWalletMethod reports whether a payment method requires a mobile
// wallet number (and therefore number validation at checkout).
func MobileWalletMethod(method string) bool {
	return method == PaymentGcash || method == PaymentPaymaya
}

// ValidPaymentMethod reports whether the method is one the store accepts.
func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentGcash, PaymentPaymaya, PaymentCard:
		return true
	}
	return false
}

// Account is a storefront account document. Cart and History are stored as
// JSON documents on the row: the cart holds full game snapshots, the history
// is an append only ledger.
type Account struct {
	ID            string           `gorm:"primaryKey;size:64" json:"uid"`
	Username      string           `gorm:"uniqueIndex;size:100" json:"username"`
	Email         string           `gorm:"size:200" json:"email"`
	EmailVerified bool             `json:"email_verified"`
	VerifyToken   string           `gorm:"size:64" json:"verify_token,omitempty"`
	Password      string           `gorm:"size:200" json:"password,omitempty"`
	Role          string           `gorm:"index;size:16" json:"role"`
	Cart          []GameSnapshot   `gorm:"serializer:json" json:"cart"`
	History       []PurchaseRecord `gorm:"serializer:json" json:"history"`
	LastLogin     time.Time        `json:"last_login"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// TableName Specify table name
func (Account) TableName() string {
	return "store_account"
}

// InCart reports whether the cart already holds an entry for the game id.
func (a *Account) InCart(gameID int64) bool {
	for _, item := range a.Cart {
		if item.ID == gameID {
			return true
		}
	}
	return false
}

// OwnedGameIDs collects every game id appearing in any purchase record.
func (a *Account) OwnedGameIDs() map[int64]bool {
	owned := make(map[int64]bool)
	for _, record := range a.History {
		for _, item := range record.Items {
			owned[item.ID] = true
		}
	}
	return owned
}

// CartTotal sums the cart item prices. Checkout totals are always computed
// from this, never taken from a rendered label.
func (a *Account) CartTotal() float64 {
	var total float64
	for _, item := range a.Cart {
		total += item.Price
	}
	return total
}

// PurchaseRecord is one checkout outcome. Records are append only: there is
// no edit or retraction path, and Total is fixed at purchase time.
type PurchaseRecord struct {
	OrderNo       string         `json:"order_no,omitempty"`
	Date          time.Time      `json:"date"`
	Items         []GameSnapshot `json:"items"`
	Total         float64        `json:"total"`
	PaymentMethod string         `json:"payment_method"`
}
