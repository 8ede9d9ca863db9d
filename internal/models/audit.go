package models

import (
	"time"
)

// Audit actions
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
	AuditActionImport = "import"
	AuditActionExport = "export"
)

// AuditEvent is one append-only record of a user-initiated mutation. Events
// are never updated or deleted.
type AuditEvent struct {
	ID            string    `gorm:"primarykey" json:"id"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	Action        string    `gorm:"not null" json:"action"`
	TransactionID *uint     `gorm:"index" json:"transaction_id,omitempty"`
	Detail        JSON      `gorm:"type:jsonb" json:"detail,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
