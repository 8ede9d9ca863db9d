package repositories

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBalanceNotFound     = errors.New("wallet balance not found")
)
