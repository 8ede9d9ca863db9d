package export

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kharcha/internal/models"
	"kharcha/internal/repositories"
	"kharcha/internal/services/expense"
	"kharcha/internal/services/wallet"
)

type fakeExpenses struct {
	txns []models.Transaction
}

func (f *fakeExpenses) Create(ctx context.Context, userID uint, input expense.Input) (*models.Transaction, error) {
	return nil, nil
}

func (f *fakeExpenses) Update(ctx context.Context, userID, id uint, input expense.Input) (*models.Transaction, error) {
	return nil, nil
}

func (f *fakeExpenses) Delete(ctx context.Context, userID, id uint) error { return nil }

func (f *fakeExpenses) Get(ctx context.Context, userID, id uint) (*models.Transaction, error) {
	return nil, nil
}

func (f *fakeExpenses) List(ctx context.Context, userID uint, filter expense.Filter) ([]models.Transaction, error) {
	return f.txns, nil
}

func (f *fakeExpenses) ImportCSV(ctx context.Context, userID uint, data []byte) (*expense.ImportReport, error) {
	return nil, nil
}

type fakeWallets struct{}

func (fakeWallets) GetBalances(ctx context.Context, userID uint) (*wallet.Balances, error) {
	return &wallet.Balances{UPI: 150, Cash: 75}, nil
}

func (fakeWallets) EnsureBalances(ctx context.Context, userID uint) error { return nil }

func (fakeWallets) ApplyDebit(ctx context.Context, userID uint, method models.PaymentMethod, amount float64) error {
	return nil
}

func (fakeWallets) ReverseDebit(ctx context.Context, userID uint, method models.PaymentMethod, amount float64) error {
	return nil
}

func (fakeWallets) Apply(ctx context.Context, userID uint, op wallet.Op, record func(tx repositories.LedgerRepository) error) error {
	return nil
}

type recordingAudit struct {
	actions []string
	details []models.JSON
}

func (a *recordingAudit) Record(ctx context.Context, userID uint, action string, transactionID *uint, detail models.JSON) {
	a.actions = append(a.actions, action)
	a.details = append(a.details, detail)
}

func (a *recordingAudit) List(ctx context.Context, userID uint, limit, offset int) ([]models.AuditEvent, error) {
	return nil, nil
}

func TestExportService_Snapshot(t *testing.T) {
	txns := []models.Transaction{
		{Amount: 100, Category: "Groceries", Status: models.TransactionStatusActive},
		{Amount: 50, Category: "Travel", Status: models.TransactionStatusActive},
	}
	auditRec := &recordingAudit{}
	service := NewService(&fakeExpenses{txns: txns}, fakeWallets{}, auditRec)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	snapshot, err := service.Snapshot(context.Background(), 1, Request{From: &from})
	assert.NoError(t, err)

	assert.False(t, snapshot.GeneratedAt.IsZero())
	assert.Equal(t, &from, snapshot.From)
	assert.Len(t, snapshot.Transactions, 2)
	assert.Equal(t, 150.0, snapshot.Balances.UPI)
	assert.Equal(t, 75.0, snapshot.Balances.Cash)

	// The export itself lands in the audit log.
	assert.Equal(t, []string{models.AuditActionExport}, auditRec.actions)
	assert.Equal(t, 2, auditRec.details[0]["transactions"])
}
