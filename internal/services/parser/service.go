// Package parser turns free-text expense descriptions (typed or transcribed)
// into structured transaction candidates, using an external
// language-understanding provider behind a cache so identical input never
// triggers a second provider call.
package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"kharcha/internal/models"
)

// Service parses raw utterances into transaction candidates.
type Service interface {
	Parse(ctx context.Context, rawText string, refDate time.Time) (*Result, error)
}

type service struct {
	provider Provider
	cache    Cache
	config   Config
}

// NewService creates a new parser service.
func NewService(provider Provider, cache Cache, config Config) Service {
	if provider == nil {
		panic("provider is required")
	}
	if cache == nil {
		panic("cache is required")
	}

	if len(config.Categories) == 0 {
		config.Categories = DefaultCategories
	}
	if config.FallbackCategory == "" {
		config.FallbackCategory = DefaultFallbackCategory
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &service{
		provider: provider,
		cache:    cache,
		config:   config,
	}
}

// Parse is an explicit two-step lookup: cache first, provider on miss. It has
// no side effects beyond cache writes.
func (s *service) Parse(ctx context.Context, rawText string, refDate time.Time) (*Result, error) {
	normalized := Normalize(rawText)
	if normalized == "" {
		return nil, &ValidationError{Field: "text", Reason: "empty input"}
	}

	key := CacheKey(normalized, refDate)
	var cached Result
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	} else if err != nil {
		// A broken cache degrades to a provider call, nothing worse.
		log.Printf("parse cache read failed for key %s: %v", key, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	reply, err := s.provider.Complete(callCtx, systemPrompt(s.config.Categories, s.config.FallbackCategory, refDate), normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}

	payload, err := extractPayload(reply)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}

	result, err := s.validate(payload, normalized, refDate)
	if err != nil {
		return nil, err
	}

	// Only successful parses are cached; failures stay retryable.
	if err := s.cache.SetWithTTL(ctx, key, result, 0); err != nil {
		log.Printf("failed to cache parse result for key %s: %v", key, err)
	}

	return result, nil
}

// providerPayload mirrors the provider's reply shape. Amount is a json.Number
// so a quoted amount still parses.
type providerPayload struct {
	Amount        json.Number `json:"amount"`
	Category      string      `json:"category"`
	Title         string      `json:"title"`
	Date          string      `json:"date"`
	PaymentMethod string      `json:"payment_method"`
}

// extractPayload pulls the JSON object out of the reply, tolerating prose or
// code fences around it.
func extractPayload(reply string) (*providerPayload, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in provider reply")
	}

	var payload providerPayload
	if err := json.Unmarshal([]byte(reply[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("malformed provider reply: %v", err)
	}
	return &payload, nil
}

func (s *service) validate(payload *providerPayload, normalized string, refDate time.Time) (*Result, error) {
	if payload.Amount == "" {
		return nil, &ValidationError{Field: "amount", Reason: "missing"}
	}
	amount, err := payload.Amount.Float64()
	if err != nil {
		return nil, &ValidationError{Field: "amount", Reason: "not a number"}
	}
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}

	date, err := ResolveDate(payload.Date, refDate)
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: err.Error()}
	}

	title := strings.TrimSpace(payload.Title)
	if title == "" {
		title = normalized
	}

	return &Result{
		Amount:        amount,
		Category:      s.mapCategory(payload.Category),
		Title:         title,
		Date:          date,
		PaymentMethod: parsePaymentMethod(payload.PaymentMethod),
	}, nil
}

// mapCategory matches case-insensitively against the configured set and falls
// back to the configured fallback category.
func (s *service) mapCategory(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, c := range s.config.Categories {
		if strings.EqualFold(c, raw) {
			return c
		}
	}
	return s.config.FallbackCategory
}

// parsePaymentMethod defaults to cash when absent or unrecognized.
func parsePaymentMethod(raw string) models.PaymentMethod {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "upi", "electronic", "online", "card", "bank":
		return models.PaymentMethodUPI
	default:
		return models.PaymentMethodCash
	}
}
