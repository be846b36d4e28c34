package common

import (
	"errors"
	"fmt"
)

// Business-rule failures surfaced by services. Handlers translate these to
// HTTP status codes; anything unrecognized becomes a generic 500.
var (
	ErrNotFound           = errors.New("not found")
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrSubdomainTaken     = errors.New("subdomain already exists")
	ErrEmailTaken         = errors.New("user already exists in this workspace")
	ErrAlreadyOnPlan      = errors.New("tenant is already on the requested plan")
	ErrNoPendingRequest   = errors.New("tenant has no pending upgrade request")
	ErrCannotSelfDelete   = errors.New("you cannot remove yourself")
)

// QuotaError reports that a tenant is at its plan limit for a resource.
// The limit is carried so handlers can build a user-facing message.
type QuotaError struct {
	Resource string // "users" or "projects"
	Limit    int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("plan limit reached (%d %s)", e.Limit, e.Resource)
}

// ValidationError wraps malformed-input failures so handlers can map them
// to 400 without inspecting message text.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
