package common

import (
	"context"

	"github.com/google/uuid"

	"taskhive/internal/models"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the verified identity attached to a request after token
// validation. TenantID is nil for platform super admins. It is the ONLY
// source of tenant context for data access; tenant identifiers arriving in
// request bodies or query strings must never be trusted.
type Principal struct {
	UserID   uuid.UUID
	TenantID *uuid.UUID
	Role     models.Role
}

// WithPrincipal returns a context carrying the verified principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal extracts the verified principal from the request context.
func GetPrincipal(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// MustTenantID returns the principal's tenant id. The second result is false
// for super admins, who carry no tenant.
func (p Principal) MustTenantID() (uuid.UUID, bool) {
	if p.TenantID == nil {
		return uuid.Nil, false
	}
	return *p.TenantID, true
}
