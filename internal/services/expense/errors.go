package expense

import "errors"

// Service errors
var (
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidMethod      = errors.New("invalid payment method")
	ErrMissingTitle       = errors.New("title is required")
	ErrMissingCategory    = errors.New("category is required")
	ErrTransactionDeleted = errors.New("transaction is deleted")
)
