package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"kharcha/internal/models"
	"kharcha/internal/repositories"
)

// fakeLedger is an in-memory LedgerRepository. ExecuteInTransaction snapshots
// state and restores it when the closure fails, mimicking a rollback;
// commitErr simulates a commit failure after a successful closure.
type fakeLedger struct {
	balances  map[models.PaymentMethod]float64
	txns      []models.Transaction
	commitErr error
	getCalls  int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{balances: make(map[models.PaymentMethod]float64)}
}

func (f *fakeLedger) GetBalance(userID uint, method models.PaymentMethod) (*models.WalletBalance, error) {
	balance, ok := f.balances[method]
	if !ok {
		return nil, repositories.ErrBalanceNotFound
	}
	return &models.WalletBalance{UserID: userID, Method: method, Balance: balance}, nil
}

func (f *fakeLedger) GetBalances(userID uint) ([]models.WalletBalance, error) {
	f.getCalls++
	rows := make([]models.WalletBalance, 0, len(f.balances))
	for _, method := range []models.PaymentMethod{models.PaymentMethodUPI, models.PaymentMethodCash} {
		if balance, ok := f.balances[method]; ok {
			rows = append(rows, models.WalletBalance{UserID: userID, Method: method, Balance: balance})
		}
	}
	return rows, nil
}

func (f *fakeLedger) CreateBalance(balance *models.WalletBalance) error {
	f.balances[balance.Method] = balance.Balance
	return nil
}

func (f *fakeLedger) AdjustBalance(userID uint, method models.PaymentMethod, delta float64) error {
	if _, ok := f.balances[method]; !ok {
		return repositories.ErrBalanceNotFound
	}
	f.balances[method] += delta
	return nil
}

func (f *fakeLedger) CreateTransaction(txn *models.Transaction) error {
	txn.ID = uint(len(f.txns) + 1)
	f.txns = append(f.txns, *txn)
	return nil
}

func (f *fakeLedger) UpdateTransaction(txn *models.Transaction) error {
	for i := range f.txns {
		if f.txns[i].ID == txn.ID {
			f.txns[i] = *txn
			return nil
		}
	}
	return repositories.ErrTransactionNotFound
}

func (f *fakeLedger) GetTransaction(userID, id uint) (*models.Transaction, error) {
	for i := range f.txns {
		if f.txns[i].ID == id && f.txns[i].UserID == userID {
			txn := f.txns[i]
			return &txn, nil
		}
	}
	return nil, repositories.ErrTransactionNotFound
}

func (f *fakeLedger) ListTransactions(userID uint, filter repositories.TransactionFilter) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, txn := range f.txns {
		if txn.UserID == userID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (f *fakeLedger) ExecuteInTransaction(fn func(tx repositories.LedgerRepository) error) error {
	balanceSnap := maps.Clone(f.balances)
	txnSnap := slices.Clone(f.txns)
	if err := fn(f); err != nil {
		f.balances = balanceSnap
		f.txns = txnSnap
		return err
	}
	return f.commitErr
}

type fakeWalletCache struct {
	entries map[string][]byte
}

func newFakeWalletCache() *fakeWalletCache {
	return &fakeWalletCache{entries: make(map[string][]byte)}
}

func (c *fakeWalletCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeWalletCache) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *fakeWalletCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

func (c *fakeWalletCache) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

func seededService(t *testing.T, upi, cash float64) (Service, *fakeLedger, *fakeWalletCache) {
	t.Helper()
	repo := newFakeLedger()
	repo.balances[models.PaymentMethodUPI] = upi
	repo.balances[models.PaymentMethodCash] = cash
	cache := newFakeWalletCache()
	return NewService(repo, cache, Config{}), repo, cache
}

func TestWalletService_GetBalances(t *testing.T) {
	t.Run("returns both buckets", func(t *testing.T) {
		service, _, _ := seededService(t, 1000, 250)

		balances, err := service.GetBalances(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, 1000.0, balances.UPI)
		assert.Equal(t, 250.0, balances.Cash)
	})

	t.Run("second read comes from the cache", func(t *testing.T) {
		service, repo, _ := seededService(t, 100, 50)

		_, err := service.GetBalances(context.Background(), 1)
		assert.NoError(t, err)
		_, err = service.GetBalances(context.Background(), 1)
		assert.NoError(t, err)

		assert.Equal(t, 1, repo.getCalls)
	})
}

func TestWalletService_EnsureBalances(t *testing.T) {
	t.Run("seeds both buckets with configured initials", func(t *testing.T) {
		repo := newFakeLedger()
		service := NewService(repo, newFakeWalletCache(), Config{InitialUPI: 500, InitialCash: 200})

		assert.NoError(t, service.EnsureBalances(context.Background(), 1))
		assert.Equal(t, 500.0, repo.balances[models.PaymentMethodUPI])
		assert.Equal(t, 200.0, repo.balances[models.PaymentMethodCash])
	})

	t.Run("does not overwrite existing balances", func(t *testing.T) {
		service, repo, _ := seededService(t, 42, 7)

		assert.NoError(t, service.EnsureBalances(context.Background(), 1))
		assert.Equal(t, 42.0, repo.balances[models.PaymentMethodUPI])
		assert.Equal(t, 7.0, repo.balances[models.PaymentMethodCash])
	})
}

func TestWalletService_Debits(t *testing.T) {
	t.Run("debit then reverse restores the balance", func(t *testing.T) {
		service, repo, _ := seededService(t, 1000, 0)

		assert.NoError(t, service.ApplyDebit(context.Background(), 1, models.PaymentMethodUPI, 300))
		assert.Equal(t, 700.0, repo.balances[models.PaymentMethodUPI])

		assert.NoError(t, service.ReverseDebit(context.Background(), 1, models.PaymentMethodUPI, 300))
		assert.Equal(t, 1000.0, repo.balances[models.PaymentMethodUPI])
	})

	t.Run("balance may go negative", func(t *testing.T) {
		service, repo, _ := seededService(t, 0, 100)

		assert.NoError(t, service.ApplyDebit(context.Background(), 1, models.PaymentMethodCash, 150))
		assert.Equal(t, -50.0, repo.balances[models.PaymentMethodCash])
	})

	t.Run("invalid amount", func(t *testing.T) {
		service, _, _ := seededService(t, 100, 100)

		err := service.ApplyDebit(context.Background(), 1, models.PaymentMethodUPI, 0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		err = service.ApplyDebit(context.Background(), 1, models.PaymentMethodUPI, -10)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("invalid method", func(t *testing.T) {
		service, _, _ := seededService(t, 100, 100)

		err := service.ApplyDebit(context.Background(), 1, models.PaymentMethod("cheque"), 10)
		assert.ErrorIs(t, err, ErrInvalidMethod)
	})
}

func TestWalletService_Apply(t *testing.T) {
	t.Run("update moves a debit between buckets atomically", func(t *testing.T) {
		service, repo, _ := seededService(t, 1000, 1000)

		// 500 previously debited from cash becomes 300 on upi.
		op := UpdateOp(models.PaymentMethodCash, 500, models.PaymentMethodUPI, 300)
		assert.NoError(t, service.Apply(context.Background(), 1, op, nil))

		assert.Equal(t, 1500.0, repo.balances[models.PaymentMethodCash])
		assert.Equal(t, 700.0, repo.balances[models.PaymentMethodUPI])
	})

	t.Run("record failure rolls back the ledger adjustment", func(t *testing.T) {
		service, repo, _ := seededService(t, 1000, 0)

		err := service.Apply(context.Background(), 1, CreateOp(models.PaymentMethodUPI, 400), func(tx repositories.LedgerRepository) error {
			return errors.New("write failed")
		})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrLedgerInconsistency)
		assert.Equal(t, 1000.0, repo.balances[models.PaymentMethodUPI])
	})

	t.Run("missing bucket fails cleanly", func(t *testing.T) {
		repo := newFakeLedger()
		service := NewService(repo, newFakeWalletCache(), Config{})

		err := service.ApplyDebit(context.Background(), 1, models.PaymentMethodUPI, 10)
		assert.ErrorIs(t, err, repositories.ErrBalanceNotFound)
		assert.NotErrorIs(t, err, ErrLedgerInconsistency)
	})

	t.Run("commit failure after adjustment reports inconsistency", func(t *testing.T) {
		service, repo, _ := seededService(t, 1000, 0)
		repo.commitErr = errors.New("connection lost")

		err := service.ApplyDebit(context.Background(), 1, models.PaymentMethodUPI, 100)
		assert.ErrorIs(t, err, ErrLedgerInconsistency)
	})

	t.Run("successful apply invalidates the cached snapshot", func(t *testing.T) {
		service, _, cache := seededService(t, 1000, 0)

		// Prime the cache.
		_, err := service.GetBalances(context.Background(), 1)
		assert.NoError(t, err)
		assert.NotEmpty(t, cache.entries)

		assert.NoError(t, service.ApplyDebit(context.Background(), 1, models.PaymentMethodUPI, 100))
		assert.Empty(t, cache.entries)

		balances, err := service.GetBalances(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, 900.0, balances.UPI)
	})
}
