// Package wallet maintains the two per-user payment-method balances (upi,
// cash) and applies or reverses debits as transactions change. Balances may
// go negative; these are manually tracked buckets, not bank accounts.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"kharcha/internal/models"
	"kharcha/internal/repositories"
)

// Service is the wallet ledger.
type Service interface {
	// GetBalances returns the current snapshot for both buckets.
	GetBalances(ctx context.Context, userID uint) (*Balances, error)

	// EnsureBalances seeds both bucket rows for a new user. Idempotent.
	EnsureBalances(ctx context.Context, userID uint) error

	// ApplyDebit decreases the (userID, method) balance by amount.
	ApplyDebit(ctx context.Context, userID uint, method models.PaymentMethod, amount float64) error

	// ReverseDebit increases the (userID, method) balance by amount, undoing
	// a prior debit when a transaction is edited or deleted.
	ReverseDebit(ctx context.Context, userID uint, method models.PaymentMethod, amount float64) error

	// Apply runs op's reversal and reapplication together with the record
	// write performed by record, all in one database transaction. A reader
	// never sees the ledger reflect an edit the transaction record does not.
	Apply(ctx context.Context, userID uint, op Op, record func(tx repositories.LedgerRepository) error) error
}

type service struct {
	repo   repositories.LedgerRepository
	cache  CacheOperator
	config Config
}

// NewService creates a new wallet service.
func NewService(repo repositories.LedgerRepository, cache CacheOperator, config Config) Service {
	if repo == nil {
		panic("repo is required")
	}
	if cache == nil {
		panic("cache is required")
	}

	return &service{
		repo:   repo,
		cache:  cache,
		config: config,
	}
}

func (s *service) GetBalances(ctx context.Context, userID uint) (*Balances, error) {
	key := s.cache.GenerateKey("wallet", "user", userID)

	var cached Balances
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	rows, err := s.repo.GetBalances(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}

	balances := &Balances{}
	for _, row := range rows {
		switch row.Method {
		case models.PaymentMethodUPI:
			balances.UPI = row.Balance
		case models.PaymentMethodCash:
			balances.Cash = row.Balance
		}
	}

	if err := s.cache.Set(ctx, key, balances); err != nil {
		// Cache trouble never fails a read.
		fmt.Printf("Failed to cache balances for user %d: %v\n", userID, err)
	}
	return balances, nil
}

func (s *service) EnsureBalances(ctx context.Context, userID uint) error {
	initial := map[models.PaymentMethod]float64{
		models.PaymentMethodUPI:  s.config.InitialUPI,
		models.PaymentMethodCash: s.config.InitialCash,
	}

	err := s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		for _, method := range []models.PaymentMethod{models.PaymentMethodUPI, models.PaymentMethodCash} {
			_, err := tx.GetBalance(userID, method)
			if err == nil {
				continue
			}
			if !errors.Is(err, repositories.ErrBalanceNotFound) {
				return err
			}
			if err := tx.CreateBalance(&models.WalletBalance{
				UserID:  userID,
				Method:  method,
				Balance: initial[method],
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to seed balances: %w", err)
	}

	s.invalidate(ctx, userID)
	return nil
}

func (s *service) ApplyDebit(ctx context.Context, userID uint, method models.PaymentMethod, amount float64) error {
	return s.Apply(ctx, userID, CreateOp(method, amount), nil)
}

func (s *service) ReverseDebit(ctx context.Context, userID uint, method models.PaymentMethod, amount float64) error {
	return s.Apply(ctx, userID, DeleteOp(method, amount), nil)
}

func (s *service) Apply(ctx context.Context, userID uint, op Op, record func(tx repositories.LedgerRepository) error) error {
	if err := op.validate(); err != nil {
		return err
	}

	// Track whether the closure completed: if it did and the commit still
	// failed, the database state is unknown and the caller must be told in a
	// way that cannot be mistaken for a clean failure.
	var applied bool
	err := s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		if op.Old != nil {
			if err := tx.AdjustBalance(userID, op.Old.Method, op.Old.Amount); err != nil {
				return fmt.Errorf("failed to reverse debit: %w", err)
			}
		}
		if op.New != nil {
			if err := tx.AdjustBalance(userID, op.New.Method, -op.New.Amount); err != nil {
				return fmt.Errorf("failed to apply debit: %w", err)
			}
		}
		if record != nil {
			if err := record(tx); err != nil {
				return err
			}
		}
		applied = true
		return nil
	})

	if err != nil {
		if applied {
			return fmt.Errorf("%w: commit failed after ledger adjustment: %v", ErrLedgerInconsistency, err)
		}
		return err
	}

	s.invalidate(ctx, userID)
	return nil
}

func (s *service) invalidate(ctx context.Context, userID uint) {
	key := s.cache.GenerateKey("wallet", "user", userID)
	if err := s.cache.Delete(ctx, key); err != nil {
		fmt.Printf("Failed to invalidate cache key %s: %v\n", key, err)
	}
}
