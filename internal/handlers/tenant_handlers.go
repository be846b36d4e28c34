package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taskhive/internal/common"
	"taskhive/internal/models"
	"taskhive/internal/services"
)

// TenantHandlers covers platform-level tenant administration and the
// plan upgrade workflow.
type TenantHandlers struct {
	tenantService services.TenantService
}

func NewTenantHandlers(tenantService services.TenantService) *TenantHandlers {
	return &TenantHandlers{tenantService: tenantService}
}

// List returns every tenant with its user and project counts.
// GET /api/tenants
func (h *TenantHandlers) List(c echo.Context) error {
	tenants, err := h.tenantService.List(c.Request().Context())
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondData(c, http.StatusOK, tenants)
}

// Create provisions a tenant plus its first admin on behalf of a super admin.
// POST /api/tenants
func (h *TenantHandlers) Create(c echo.Context) error {
	var req services.CreateTenantRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tenant, err := h.tenantService.Create(c.Request().Context(), &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondData(c, http.StatusCreated, tenant)
}

type upgradeRequest struct {
	Plan models.Plan `json:"plan" validate:"required"`
}

// RequestUpgrade records the caller's desired plan as pending.
// PATCH /api/tenants/upgrade
func (h *TenantHandlers) RequestUpgrade(c echo.Context) error {
	principal, ok := common.GetPrincipal(c.Request().Context())
	if !ok {
		return common.RespondError(c, common.ErrForbidden)
	}
	tenantID, ok := principal.MustTenantID()
	if !ok {
		return common.RespondError(c, common.ErrForbidden)
	}

	var req upgradeRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.tenantService.RequestUpgrade(c.Request().Context(), tenantID, req.Plan); err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondMessage(c, http.StatusOK, "Upgrade request submitted")
}

type approveUpgradeRequest struct {
	TenantID uuid.UUID `json:"tenantId" validate:"required"`
}

// ApproveUpgrade promotes a tenant's pending plan to its active plan.
// POST /api/tenants/approve-upgrade
func (h *TenantHandlers) ApproveUpgrade(c echo.Context) error {
	var req approveUpgradeRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.tenantService.ApproveUpgrade(c.Request().Context(), req.TenantID); err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondMessage(c, http.StatusOK, "Upgrade approved")
}
