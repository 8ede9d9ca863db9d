package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"kharcha/internal/models"
	"kharcha/internal/services/expense"
	"kharcha/internal/services/wallet"
)

// stubExpenseService fails every mutation with a fixed error.
type stubExpenseService struct {
	err error
}

func (s *stubExpenseService) Create(ctx context.Context, userID uint, input expense.Input) (*models.Transaction, error) {
	return nil, s.err
}

func (s *stubExpenseService) Update(ctx context.Context, userID, id uint, input expense.Input) (*models.Transaction, error) {
	return nil, s.err
}

func (s *stubExpenseService) Delete(ctx context.Context, userID, id uint) error { return s.err }

func (s *stubExpenseService) Get(ctx context.Context, userID, id uint) (*models.Transaction, error) {
	return nil, s.err
}

func (s *stubExpenseService) List(ctx context.Context, userID uint, filter expense.Filter) ([]models.Transaction, error) {
	return nil, nil
}

func (s *stubExpenseService) ImportCSV(ctx context.Context, userID uint, data []byte) (*expense.ImportReport, error) {
	return nil, s.err
}

func testApp(svc expense.Service) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("claims", &models.UserClaims{UserID: 1})
		return c.Next()
	})

	h := NewExpenseHandler(svc, nil, nil)
	app.Post("/api/expenses", h.Create)
	app.Put("/api/expenses/:id", h.Update)
	app.Delete("/api/expenses/:id", h.Delete)
	return app
}

const expenseBody = `{"amount": 100, "category": "Groceries", "title": "Milk", "payment_method": "cash"}`

func TestExpenseHandler_LedgerInconsistency(t *testing.T) {
	inconsistency := fmt.Errorf("%w: commit failed after ledger adjustment: %v",
		wallet.ErrLedgerInconsistency, errors.New("connection lost"))
	app := testApp(&stubExpenseService{err: inconsistency})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"create", "POST", "/api/expenses", expenseBody},
		{"update", "PUT", "/api/expenses/1", expenseBody},
		{"delete", "DELETE", "/api/expenses/1", ""},
	}

	// An unresolved commit is a server-side condition, never a 4xx.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}

			resp, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		})
	}
}

func TestExpenseHandler_ValidationStays400(t *testing.T) {
	app := testApp(&stubExpenseService{err: expense.ErrInvalidAmount})

	req := httptest.NewRequest("POST", "/api/expenses", strings.NewReader(expenseBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
