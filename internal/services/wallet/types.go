package wallet

import (
	"context"

	"kharcha/internal/models"
)

// Balances is the per-user snapshot of both wallet buckets.
type Balances struct {
	UPI  float64 `json:"upi"`
	Cash float64 `json:"cash"`
}

// Config holds wallet configuration.
type Config struct {
	// Starting balance seeded into each bucket at registration.
	InitialUPI  float64
	InitialCash float64
}

// Leg is one side of a ledger operation: a (method, amount) debit effect.
type Leg struct {
	Method models.PaymentMethod
	Amount float64
}

// Op is a compensating ledger operation. Old is the effect to reverse, New
// the effect to apply; both run in one database transaction so an edit is
// never observable half-applied.
type Op struct {
	Old *Leg
	New *Leg
}

// CreateOp debits a new transaction's amount.
func CreateOp(method models.PaymentMethod, amount float64) Op {
	return Op{New: &Leg{Method: method, Amount: amount}}
}

// UpdateOp reverses the old debit and applies the new one as a single unit.
func UpdateOp(oldMethod models.PaymentMethod, oldAmount float64, newMethod models.PaymentMethod, newAmount float64) Op {
	return Op{
		Old: &Leg{Method: oldMethod, Amount: oldAmount},
		New: &Leg{Method: newMethod, Amount: newAmount},
	}
}

// DeleteOp reverses a transaction's debit.
func DeleteOp(method models.PaymentMethod, amount float64) Op {
	return Op{Old: &Leg{Method: method, Amount: amount}}
}

func (op Op) validate() error {
	for _, leg := range []*Leg{op.Old, op.New} {
		if leg == nil {
			continue
		}
		if leg.Amount <= 0 {
			return ErrInvalidAmount
		}
		if !models.ValidPaymentMethod(leg.Method) {
			return ErrInvalidMethod
		}
	}
	return nil
}

// CacheOperator is the slice of the cache service the ledger needs.
type CacheOperator interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error
	GenerateKey(entityType, keyType string, value interface{}) string
}
