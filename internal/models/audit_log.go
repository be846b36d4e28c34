package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only record of a mutating action. Rows are never
// updated or deleted by the application.
type AuditLog struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	TenantID   *uuid.UUID `json:"tenant_id" db:"tenant_id"`
	UserID     *uuid.UUID `json:"user_id" db:"user_id"`
	Action     string     `json:"action" db:"action"`
	EntityType string     `json:"entity_type" db:"entity_type"`
	EntityID   string     `json:"entity_id" db:"entity_id"`
	IPAddress  string     `json:"ip_address" db:"ip_address"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
