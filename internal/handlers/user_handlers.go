package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taskhive/internal/common"
	"taskhive/internal/services"
)

type UserHandlers struct {
	userService services.UserService
}

func NewUserHandlers(userService services.UserService) *UserHandlers {
	return &UserHandlers{userService: userService}
}

// List returns the caller's workspace members.
// GET /api/users
func (h *UserHandlers) List(c echo.Context) error {
	principal, ok := common.GetPrincipal(c.Request().Context())
	if !ok {
		return common.RespondError(c, common.ErrForbidden)
	}

	users, err := h.userService.List(c.Request().Context(), principal)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondData(c, http.StatusOK, users)
}

// Create adds a member to the caller's workspace, subject to the plan's
// user quota.
// POST /api/users
func (h *UserHandlers) Create(c echo.Context) error {
	principal, ok := common.GetPrincipal(c.Request().Context())
	if !ok {
		return common.RespondError(c, common.ErrForbidden)
	}

	var req services.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userService.Create(c.Request().Context(), principal, &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondData(c, http.StatusCreated, user)
}

// Delete removes a workspace member other than the caller.
// DELETE /api/users/:id
func (h *UserHandlers) Delete(c echo.Context) error {
	principal, ok := common.GetPrincipal(c.Request().Context())
	if !ok {
		return common.RespondError(c, common.ErrForbidden)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.RespondError(c, common.NewValidationError("invalid user id"))
	}

	if err := h.userService.Delete(c.Request().Context(), principal, id); err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondMessage(c, http.StatusOK, "User deleted")
}
