package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"taskhive/internal/caching"
	"taskhive/internal/repositories"
)

type HealthHandlers struct {
	db    repositories.DB
	cache caching.CacheService
}

func NewHealthHandlers(db repositories.DB, cache caching.CacheService) *HealthHandlers {
	return &HealthHandlers{db: db, cache: cache}
}

// Live reports that the process is up.
// GET /api/health
func (h *HealthHandlers) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready checks the database and cache before reporting readiness.
// GET /api/health/ready
func (h *HealthHandlers) Ready(c echo.Context) error {
	ctx := c.Request().Context()

	checks := map[string]string{"database": "ok", "cache": "ok"}
	status := http.StatusOK

	if err := h.db.QueryRow(ctx, "SELECT 1").Scan(new(int)); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if err := h.cache.Ping(ctx); err != nil {
		checks["cache"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, checks)
}
