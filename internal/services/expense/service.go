// Package expense orchestrates the transaction lifecycle: a parsed or manual
// candidate becomes an active record with a paired ledger debit; edits
// reverse the old debit and apply the new one as one unit; deletes reverse
// the debit and keep the row for audit.
package expense

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kharcha/internal/models"
	"kharcha/internal/repositories"
	"kharcha/internal/services/audit"
	"kharcha/internal/services/wallet"
)

type Service interface {
	Create(ctx context.Context, userID uint, input Input) (*models.Transaction, error)
	Update(ctx context.Context, userID, id uint, input Input) (*models.Transaction, error)
	Delete(ctx context.Context, userID, id uint) error
	Get(ctx context.Context, userID, id uint) (*models.Transaction, error)
	List(ctx context.Context, userID uint, filter Filter) ([]models.Transaction, error)
	ImportCSV(ctx context.Context, userID uint, data []byte) (*ImportReport, error)
}

type service struct {
	repo   repositories.LedgerRepository
	ledger wallet.Service
	audit  audit.Service
}

// NewService creates a new expense service.
func NewService(repo repositories.LedgerRepository, ledger wallet.Service, auditSvc audit.Service) Service {
	if repo == nil {
		panic("repo is required")
	}
	if ledger == nil {
		panic("ledger is required")
	}
	if auditSvc == nil {
		panic("audit service is required")
	}

	return &service{
		repo:   repo,
		ledger: ledger,
		audit:  auditSvc,
	}
}

func (s *service) Create(ctx context.Context, userID uint, input Input) (*models.Transaction, error) {
	return s.create(ctx, userID, input, true)
}

func (s *service) create(ctx context.Context, userID uint, input Input, recordAudit bool) (*models.Transaction, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		ReferenceID:   uuid.NewString(),
		UserID:        userID,
		Amount:        input.Amount,
		Category:      input.Category,
		Title:         input.Title,
		Date:          input.Date,
		PaymentMethod: input.PaymentMethod,
		Status:        models.TransactionStatusActive,
		Notes:         input.Notes,
	}

	op := wallet.CreateOp(input.PaymentMethod, input.Amount)
	err := s.ledger.Apply(ctx, userID, op, func(tx repositories.LedgerRepository) error {
		return tx.CreateTransaction(txn)
	})
	if err != nil {
		return nil, err
	}

	if recordAudit {
		s.audit.Record(ctx, userID, models.AuditActionCreate, &txn.ID, models.JSON{
			"amount":         txn.Amount,
			"category":       txn.Category,
			"payment_method": string(txn.PaymentMethod),
		})
	}
	return txn, nil
}

func (s *service) Update(ctx context.Context, userID, id uint, input Input) (*models.Transaction, error) {
	existing, err := s.repo.GetTransaction(userID, id)
	if err != nil {
		return nil, err
	}
	if !existing.Active() {
		return nil, ErrTransactionDeleted
	}
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	oldAmount, oldMethod := existing.Amount, existing.PaymentMethod

	existing.Amount = input.Amount
	existing.Category = input.Category
	existing.Title = input.Title
	existing.Date = input.Date
	existing.PaymentMethod = input.PaymentMethod
	existing.Notes = input.Notes

	// Reversal and reapplication travel with the record write in one
	// database transaction; a half-applied edit is never observable.
	op := wallet.UpdateOp(oldMethod, oldAmount, input.PaymentMethod, input.Amount)
	err = s.ledger.Apply(ctx, userID, op, func(tx repositories.LedgerRepository) error {
		return tx.UpdateTransaction(existing)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, userID, models.AuditActionUpdate, &existing.ID, models.JSON{
		"old_amount":         oldAmount,
		"old_payment_method": string(oldMethod),
		"new_amount":         input.Amount,
		"new_payment_method": string(input.PaymentMethod),
	})
	return existing, nil
}

func (s *service) Delete(ctx context.Context, userID, id uint) error {
	existing, err := s.repo.GetTransaction(userID, id)
	if err != nil {
		return err
	}
	if !existing.Active() {
		return ErrTransactionDeleted
	}

	existing.Status = models.TransactionStatusDeleted

	op := wallet.DeleteOp(existing.PaymentMethod, existing.Amount)
	err = s.ledger.Apply(ctx, userID, op, func(tx repositories.LedgerRepository) error {
		return tx.UpdateTransaction(existing)
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, userID, models.AuditActionDelete, &existing.ID, models.JSON{
		"amount":         existing.Amount,
		"payment_method": string(existing.PaymentMethod),
	})
	return nil
}

func (s *service) Get(ctx context.Context, userID, id uint) (*models.Transaction, error) {
	return s.repo.GetTransaction(userID, id)
}

func (s *service) List(ctx context.Context, userID uint, filter Filter) ([]models.Transaction, error) {
	repoFilter := repositories.TransactionFilter{
		From:       filter.From,
		To:         filter.To,
		Categories: filter.Categories,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if filter.IncludeDeleted {
		repoFilter.Statuses = []string{models.TransactionStatusActive, models.TransactionStatusDeleted}
	}

	txs, err := s.repo.ListTransactions(userID, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func validateInput(input *Input) error {
	if input.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !models.ValidPaymentMethod(input.PaymentMethod) {
		return ErrInvalidMethod
	}
	if input.Title == "" {
		return ErrMissingTitle
	}
	if input.Category == "" {
		return ErrMissingCategory
	}
	if input.Date.IsZero() {
		now := time.Now().UTC()
		input.Date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return nil
}

// IsNotFound reports whether err means the transaction does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, repositories.ErrTransactionNotFound)
}
