package repositories

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"kharcha/internal/models"
)

// TransactionFilter narrows transaction queries. Zero-value fields are
// ignored. Statuses defaults to active only.
type TransactionFilter struct {
	From       *time.Time
	To         *time.Time
	Categories []string
	Statuses   []string
	Limit      int
	Offset     int
}

// LedgerRepository groups the wallet-balance table and the transaction store
// behind one interface so a balance adjustment and its record write can share
// a database transaction via ExecuteInTransaction.
type LedgerRepository interface {
	GetBalance(userID uint, method models.PaymentMethod) (*models.WalletBalance, error)
	GetBalances(userID uint) ([]models.WalletBalance, error)
	CreateBalance(balance *models.WalletBalance) error
	// AdjustBalance adds delta to the (userID, method) balance row. Debits
	// pass a negative delta, reversals a positive one.
	AdjustBalance(userID uint, method models.PaymentMethod, delta float64) error

	CreateTransaction(tx *models.Transaction) error
	UpdateTransaction(tx *models.Transaction) error
	GetTransaction(userID, id uint) (*models.Transaction, error)
	ListTransactions(userID uint, filter TransactionFilter) ([]models.Transaction, error)

	// ExecuteInTransaction runs fn against a transaction-scoped repository.
	// Everything fn does commits or rolls back as one unit.
	ExecuteInTransaction(fn func(tx LedgerRepository) error) error
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) GetBalance(userID uint, method models.PaymentMethod) (*models.WalletBalance, error) {
	var balance models.WalletBalance
	err := r.db.Where("user_id = ? AND method = ?", userID, method).First(&balance).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrBalanceNotFound
		}
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return &balance, nil
}

func (r *ledgerRepository) GetBalances(userID uint) ([]models.WalletBalance, error) {
	var balances []models.WalletBalance
	err := r.db.Where("user_id = ?", userID).Order("method").Find(&balances).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}
	return balances, nil
}

func (r *ledgerRepository) CreateBalance(balance *models.WalletBalance) error {
	if err := r.db.Create(balance).Error; err != nil {
		return fmt.Errorf("failed to create balance: %w", err)
	}
	return nil
}

func (r *ledgerRepository) AdjustBalance(userID uint, method models.PaymentMethod, delta float64) error {
	result := r.db.Model(&models.WalletBalance{}).
		Where("user_id = ? AND method = ?", userID, method).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("failed to adjust balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBalanceNotFound
	}
	return nil
}

func (r *ledgerRepository) CreateTransaction(tx *models.Transaction) error {
	if err := r.db.Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *ledgerRepository) UpdateTransaction(tx *models.Transaction) error {
	if err := r.db.Save(tx).Error; err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

func (r *ledgerRepository) GetTransaction(userID, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.Where("user_id = ? AND id = ?", userID, id).First(&tx).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *ledgerRepository) ListTransactions(userID uint, filter TransactionFilter) ([]models.Transaction, error) {
	query := r.db.Where("user_id = ?", userID)

	statuses := filter.Statuses
	if len(statuses) == 0 {
		statuses = []string{models.TransactionStatusActive}
	}
	query = query.Where("status IN ?", statuses)

	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}
	if len(filter.Categories) > 0 {
		query = query.Where("category IN ?", filter.Categories)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var txs []models.Transaction
	if err := query.Order("date DESC, id DESC").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func (r *ledgerRepository) ExecuteInTransaction(fn func(tx LedgerRepository) error) error {
	return r.db.Transaction(func(dtx *gorm.DB) error {
		return fn(&ledgerRepository{db: dtx})
	})
}
