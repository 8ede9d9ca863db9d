package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"kharcha/internal/models"
)

// AuditRepository is append-only: events are created and listed, never
// mutated.
type AuditRepository interface {
	Create(event *models.AuditEvent) error
	ListByUser(userID uint, limit, offset int) ([]models.AuditEvent, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(event *models.AuditEvent) error {
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("failed to create audit event: %w", err)
	}
	return nil
}

func (r *auditRepository) ListByUser(userID uint, limit, offset int) ([]models.AuditEvent, error) {
	var events []models.AuditEvent
	query := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	return events, nil
}
