package models

import (
	"time"
)

// WalletBalance is the running balance of one payment-method bucket for one
// user. Every user has exactly two rows: upi and cash. Balances may go
// negative; overdraft is a normal state for manually tracked wallets.
type WalletBalance struct {
	ID        uint          `gorm:"primarykey" json:"-"`
	UserID    uint          `gorm:"uniqueIndex:idx_wallet_user_method;not null" json:"user_id"`
	Method    PaymentMethod `gorm:"uniqueIndex:idx_wallet_user_method;not null" json:"method"`
	Balance   float64       `gorm:"not null;default:0" json:"balance"`
	CreatedAt time.Time     `json:"-"`
	UpdatedAt time.Time     `json:"updated_at"`
}
