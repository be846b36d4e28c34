package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskhive/internal/common"
	"taskhive/internal/services"
)

// AuthHandlers handles registration, login and identity lookups.
type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// RegisterTenant provisions a new workspace together with its first admin.
// POST /api/auth/register-tenant
func (h *AuthHandlers) RegisterTenant(c echo.Context) error {
	var req services.RegisterTenantRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.RegisterTenant(c.Request().Context(), &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondData(c, http.StatusCreated, result)
}

// Login exchanges credentials for a signed access token.
// POST /api/auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	var req services.LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondData(c, http.StatusOK, result)
}

// Me returns the authenticated user's own record.
// GET /api/auth/me
func (h *AuthHandlers) Me(c echo.Context) error {
	principal, ok := common.GetPrincipal(c.Request().Context())
	if !ok {
		return common.RespondError(c, common.ErrForbidden)
	}

	user, err := h.authService.CurrentUser(c.Request().Context(), principal.UserID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondData(c, http.StatusOK, user)
}
