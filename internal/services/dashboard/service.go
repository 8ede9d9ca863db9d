// Package dashboard aggregates active transactions for the overview screens.
package dashboard

import (
	"context"
	"time"

	"kharcha/internal/services/expense"
	"kharcha/internal/services/wallet"
)

// Summary is the aggregate view of a period. Only active transactions count.
type Summary struct {
	Total       float64            `json:"total"`
	Average     float64            `json:"average"`
	Count       int                `json:"count"`
	TopCategory string             `json:"top_category,omitempty"`
	ByCategory  map[string]float64 `json:"by_category"`
	ByDay       map[string]float64 `json:"by_day"`
	Balances    *wallet.Balances   `json:"balances"`
}

type Service interface {
	GetSummary(ctx context.Context, userID uint, from, to *time.Time, categories []string) (*Summary, error)
}

type service struct {
	expenses expense.Service
	wallets  wallet.Service
}

func NewService(expenses expense.Service, wallets wallet.Service) Service {
	if expenses == nil {
		panic("expense service is required")
	}
	if wallets == nil {
		panic("wallet service is required")
	}
	return &service{
		expenses: expenses,
		wallets:  wallets,
	}
}

func (s *service) GetSummary(ctx context.Context, userID uint, from, to *time.Time, categories []string) (*Summary, error) {
	txs, err := s.expenses.List(ctx, userID, expense.Filter{
		From:       from,
		To:         to,
		Categories: categories,
	})
	if err != nil {
		return nil, err
	}

	balances, err := s.wallets.GetBalances(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		ByCategory: make(map[string]float64),
		ByDay:      make(map[string]float64),
		Balances:   balances,
	}

	for _, tx := range txs {
		summary.Total += tx.Amount
		summary.Count++
		summary.ByCategory[tx.Category] += tx.Amount
		summary.ByDay[tx.Date.Format("2006-01-02")] += tx.Amount
	}

	if summary.Count > 0 {
		summary.Average = summary.Total / float64(summary.Count)
	}

	var top float64
	for category, amount := range summary.ByCategory {
		if amount > top || (amount == top && category < summary.TopCategory) {
			top = amount
			summary.TopCategory = category
		}
	}

	return summary, nil
}
