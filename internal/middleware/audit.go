package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"taskhive/internal/common"
	"taskhive/internal/models"
	"taskhive/internal/repositories"
)

// AuditMiddleware appends a row to the audit trail for every mutating
// request that succeeded. Audit failures are logged, never propagated.
type AuditMiddleware struct {
	auditRepo repositories.AuditLogsRepository
}

func NewAuditMiddleware(auditRepo repositories.AuditLogsRepository) *AuditMiddleware {
	return &AuditMiddleware{auditRepo: auditRepo}
}

func (m *AuditMiddleware) Record() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			switch c.Request().Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			default:
				return err
			}
			if err != nil || c.Response().Status >= http.StatusBadRequest {
				return err
			}

			ctx := c.Request().Context()
			principal, ok := common.GetPrincipal(ctx)
			if !ok {
				return err
			}

			entry := &models.AuditLog{
				TenantID:   principal.TenantID,
				UserID:     &principal.UserID,
				Action:     c.Request().Method + " " + c.Path(),
				EntityType: entityTypeFromPath(c.Path()),
				EntityID:   c.Param("id"),
				IPAddress:  c.RealIP(),
			}
			if createErr := m.auditRepo.Create(ctx, entry); createErr != nil {
				log.Error().Err(createErr).Str("action", entry.Action).Msg("failed to write audit log")
			}

			return err
		}
	}
}

func entityTypeFromPath(path string) string {
	// tasks first: the task-create route nests under /projects/:projectId.
	for _, entity := range []string{"tasks", "users", "tenants", "projects"} {
		if strings.Contains(path, "/"+entity) {
			return strings.TrimSuffix(entity, "s")
		}
	}
	return "unknown"
}
