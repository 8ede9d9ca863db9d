package parser

import (
	"context"
	"time"

	"kharcha/internal/models"
)

// DefaultCategories is the fixed set the provider is asked to classify into.
var DefaultCategories = []string{
	"Food & Dining", "Groceries", "Transportation", "Housing", "Utilities",
	"Shopping", "Entertainment", "Health & Wellness", "Education", "Travel",
	"Personal Care", "Gifts & Donations", "Kids", "Pets", "Business", "Miscellaneous",
}

// Default configuration values
const (
	DefaultFallbackCategory = "Miscellaneous"
	DefaultTimeout          = 15 * time.Second
)

// Result is a validated structured parse of one utterance. It is a candidate
// transaction only; nothing is persisted until the caller commits it.
type Result struct {
	Amount        float64              `json:"amount"`
	Category      string               `json:"category"`
	Title         string               `json:"title"`
	Date          time.Time            `json:"date"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
}

// Config holds parser configuration.
type Config struct {
	// Categories constrains classification. Defaults to DefaultCategories.
	Categories []string
	// FallbackCategory receives anything the provider classifies outside
	// Categories. Policy choice, not inference; defaults to Miscellaneous.
	FallbackCategory string
	// Timeout bounds the provider call. A timeout surfaces as ErrParseFailure.
	Timeout time.Duration
}

// Provider is the external language-understanding backend. It is untrusted:
// the reply may be malformed or partially populated.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userInput string) (string, error)
}

// Cache is the parse cache. Only successful parses go in, so a transient
// provider failure can be retried.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}
