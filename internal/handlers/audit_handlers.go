package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"taskhive/internal/common"
	"taskhive/internal/repositories"
)

type AuditHandlers struct {
	auditRepo repositories.AuditLogsRepository
}

func NewAuditHandlers(auditRepo repositories.AuditLogsRepository) *AuditHandlers {
	return &AuditHandlers{auditRepo: auditRepo}
}

// List returns the caller's workspace audit trail, newest first.
// GET /api/audit-logs?limit=50&offset=0
func (h *AuditHandlers) List(c echo.Context) error {
	principal, ok := common.GetPrincipal(c.Request().Context())
	if !ok {
		return common.RespondError(c, common.ErrForbidden)
	}
	tenantID, ok := principal.MustTenantID()
	if !ok {
		return common.RespondError(c, common.ErrForbidden)
	}

	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			return common.RespondError(c, common.NewValidationError("limit must be between 1 and 200"))
		}
		limit = n
	}
	offset := 0
	if raw := c.QueryParam("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return common.RespondError(c, common.NewValidationError("offset must be a non-negative integer"))
		}
		offset = n
	}

	entries, err := h.auditRepo.ListByTenant(c.Request().Context(), tenantID, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondData(c, http.StatusOK, entries)
}
