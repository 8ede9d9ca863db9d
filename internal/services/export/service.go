// Package export assembles the data contract handed to report renderers: a
// filtered list of active transactions plus the current balance snapshot.
// Rendering (CSV, Excel, PDF) is the caller's concern.
package export

import (
	"context"
	"time"

	"kharcha/internal/models"
	"kharcha/internal/services/audit"
	"kharcha/internal/services/expense"
	"kharcha/internal/services/wallet"
)

// Request selects what to export.
type Request struct {
	From       *time.Time
	To         *time.Time
	Categories []string
}

// Snapshot is the export payload.
type Snapshot struct {
	GeneratedAt  time.Time            `json:"generated_at"`
	From         *time.Time           `json:"from,omitempty"`
	To           *time.Time           `json:"to,omitempty"`
	Transactions []models.Transaction `json:"transactions"`
	Balances     *wallet.Balances     `json:"balances"`
}

type Service interface {
	Snapshot(ctx context.Context, userID uint, req Request) (*Snapshot, error)
}

type service struct {
	expenses expense.Service
	wallets  wallet.Service
	audit    audit.Service
}

func NewService(expenses expense.Service, wallets wallet.Service, auditSvc audit.Service) Service {
	if expenses == nil {
		panic("expense service is required")
	}
	if wallets == nil {
		panic("wallet service is required")
	}
	if auditSvc == nil {
		panic("audit service is required")
	}
	return &service{
		expenses: expenses,
		wallets:  wallets,
		audit:    auditSvc,
	}
}

func (s *service) Snapshot(ctx context.Context, userID uint, req Request) (*Snapshot, error) {
	txs, err := s.expenses.List(ctx, userID, expense.Filter{
		From:       req.From,
		To:         req.To,
		Categories: req.Categories,
	})
	if err != nil {
		return nil, err
	}

	balances, err := s.wallets.GetBalances(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, userID, models.AuditActionExport, nil, models.JSON{
		"transactions": len(txs),
	})

	return &Snapshot{
		GeneratedAt:  time.Now().UTC(),
		From:         req.From,
		To:           req.To,
		Transactions: txs,
		Balances:     balances,
	}, nil
}
