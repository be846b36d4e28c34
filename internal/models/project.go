package models

import (
	"time"

	"github.com/google/uuid"
)

// Project statuses.
const (
	ProjectStatusActive    = "active"
	ProjectStatusArchived  = "archived"
	ProjectStatusCompleted = "completed"
)

type Project struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TenantID    uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Status      string    `json:"status" db:"status"`
	CreatedBy   uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TaskRef is the id/status pair attached to project listings.
type TaskRef struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

// ProjectWithDetails is a project enriched with the creator's display name
// and its task references, as returned by the list endpoint.
type ProjectWithDetails struct {
	Project
	CreatorName string    `json:"creator_name"`
	Tasks       []TaskRef `json:"tasks"`
}
