package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant statuses.
const (
	TenantStatusActive    = "active"
	TenantStatusSuspended = "suspended"
	TenantStatusTrial     = "trial"
)

// Tenant is an isolated customer workspace and the unit of data partitioning.
// PendingPlan is non-nil only while an upgrade request awaits approval.
type Tenant struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Subdomain   string    `json:"subdomain" db:"subdomain"`
	Status      string    `json:"status" db:"status"`
	Plan        Plan      `json:"subscription_plan" db:"subscription_plan"`
	PendingPlan *Plan     `json:"pending_plan" db:"pending_plan"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TenantWithCounts is a tenant enriched with resource counts for the
// platform admin listing.
type TenantWithCounts struct {
	Tenant
	UserCount    int `json:"user_count"`
	ProjectCount int `json:"project_count"`
}
