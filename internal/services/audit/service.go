// Package audit appends user-initiated mutations (create, update, delete,
// import, export) to an append-only log. Recording is fire-and-forget: a
// failed write is reported on the operator log, never to the user, and never
// rolls back the operation it describes.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"kharcha/internal/models"
	"kharcha/internal/repositories"
)

type Service interface {
	// Record appends one event. It never returns an error; write failures go
	// to the operator channel only.
	Record(ctx context.Context, userID uint, action string, transactionID *uint, detail models.JSON)

	// List returns a user's events, newest first.
	List(ctx context.Context, userID uint, limit, offset int) ([]models.AuditEvent, error)
}

type service struct {
	repo repositories.AuditRepository
	// operator receives write failures; defaults to the standard logger.
	operator *log.Logger
}

func NewService(repo repositories.AuditRepository) Service {
	if repo == nil {
		panic("repo is required")
	}
	return &service{
		repo:     repo,
		operator: log.Default(),
	}
}

func (s *service) Record(ctx context.Context, userID uint, action string, transactionID *uint, detail models.JSON) {
	event := &models.AuditEvent{
		ID:            uuid.NewString(),
		UserID:        userID,
		Action:        action,
		TransactionID: transactionID,
		Detail:        detail,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(event); err != nil {
		s.operator.Printf("ALERT: audit write failed (user=%d action=%s): %v", userID, action, err)
	}
}

func (s *service) List(ctx context.Context, userID uint, limit, offset int) ([]models.AuditEvent, error) {
	return s.repo.ListByUser(userID, limit, offset)
}
