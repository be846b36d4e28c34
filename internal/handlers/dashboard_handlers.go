package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskhive/internal/analytics"
	"taskhive/internal/common"
)

type DashboardHandlers struct {
	analytics analytics.Service
}

func NewDashboardHandlers(analyticsService analytics.Service) *DashboardHandlers {
	return &DashboardHandlers{analytics: analyticsService}
}

// Stats returns the platform-wide view for super admins and the
// workspace view for everyone else.
// GET /api/dashboard/stats
func (h *DashboardHandlers) Stats(c echo.Context) error {
	principal, ok := common.GetPrincipal(c.Request().Context())
	if !ok {
		return common.RespondError(c, common.ErrForbidden)
	}

	stats, err := h.analytics.DashboardStats(c.Request().Context(), principal)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondData(c, http.StatusOK, stats)
}
