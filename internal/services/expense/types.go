package expense

import (
	"time"

	"kharcha/internal/models"
)

// Input carries the fields of a transaction to create or the full replacement
// state for an update.
type Input struct {
	Amount        float64              `json:"amount"`
	Category      string               `json:"category"`
	Title         string               `json:"title"`
	Date          time.Time            `json:"date"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	Notes         string               `json:"notes"`
}

// Filter narrows listings. Deleted transactions are excluded unless
// IncludeDeleted is set (audit views set it).
type Filter struct {
	From           *time.Time
	To             *time.Time
	Categories     []string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// RowError reports one rejected line of a CSV import.
type RowError struct {
	Line int    `json:"line"`
	Err  string `json:"error"`
}

// ImportReport summarizes a CSV import.
type ImportReport struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors,omitempty"`
}
