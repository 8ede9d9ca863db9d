package models

import (
	"time"
)

// PaymentMethod identifies one of the two tracked wallet buckets.
type PaymentMethod string

const (
	PaymentMethodUPI  PaymentMethod = "upi"
	PaymentMethodCash PaymentMethod = "cash"
)

// Transaction statuses
const (
	TransactionStatusActive  = "active"
	TransactionStatusDeleted = "deleted"
)

// Transaction is a single recorded expense. Deleted transactions are kept as
// rows (status = deleted) so the audit trail stays intact, but they are
// excluded from balances and aggregation.
type Transaction struct {
	ID            uint          `gorm:"primarykey" json:"id"`
	ReferenceID   string        `gorm:"uniqueIndex;not null" json:"reference_id"`
	UserID        uint          `gorm:"index;not null" json:"user_id"`
	Amount        float64       `gorm:"not null" json:"amount"`
	Category      string        `gorm:"not null" json:"category"`
	Title         string        `gorm:"not null" json:"title"`
	Date          time.Time     `gorm:"index;not null" json:"date"`
	PaymentMethod PaymentMethod `gorm:"not null" json:"payment_method"`
	Status        string        `gorm:"not null;default:'active'" json:"status"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Active reports whether the transaction still counts toward balances.
func (t *Transaction) Active() bool {
	return t.Status == TransactionStatusActive
}

// ValidPaymentMethod reports whether m is one of the two tracked buckets.
func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentMethodUPI || m == PaymentMethodCash
}
