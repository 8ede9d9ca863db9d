package wallet

import "errors"

// Service errors
var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidMethod = errors.New("invalid payment method")

	// ErrLedgerInconsistency means a ledger adjustment may have committed
	// without its paired record write (or the reverse). This is the one error
	// that must halt and alert: the accounting invariant is in doubt.
	ErrLedgerInconsistency = errors.New("ledger state inconsistent")
)
