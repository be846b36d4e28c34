package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taskhive/internal/common"
	"taskhive/internal/services"
)

type ProjectHandlers struct {
	projectService services.ProjectService
}

func NewProjectHandlers(projectService services.ProjectService) *ProjectHandlers {
	return &ProjectHandlers{projectService: projectService}
}

// List returns the caller's projects with creator names and task summaries.
// GET /api/projects
func (h *ProjectHandlers) List(c echo.Context) error {
	principal, ok := common.GetPrincipal(c.Request().Context())
	if !ok {
		return common.RespondError(c, common.ErrForbidden)
	}

	projects, err := h.projectService.List(c.Request().Context(), principal)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondData(c, http.StatusOK, projects)
}

// Create adds a project, subject to the workspace plan's project quota.
// POST /api/projects
func (h *ProjectHandlers) Create(c echo.Context) error {
	principal, ok := common.GetPrincipal(c.Request().Context())
	if !ok {
		return common.RespondError(c, common.ErrForbidden)
	}

	var req services.CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	project, err := h.projectService.Create(c.Request().Context(), principal, &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondData(c, http.StatusCreated, project)
}

// Update applies a partial edit to a project in the caller's workspace.
// PUT /api/projects/:id
func (h *ProjectHandlers) Update(c echo.Context) error {
	principal, ok := common.GetPrincipal(c.Request().Context())
	if !ok {
		return common.RespondError(c, common.ErrForbidden)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.RespondError(c, common.NewValidationError("invalid project id"))
	}

	var req services.UpdateProjectRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("invalid request body"))
	}

	project, err := h.projectService.Update(c.Request().Context(), principal, id, &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondData(c, http.StatusOK, project)
}

// Delete removes a project and, through the schema, its tasks.
// DELETE /api/projects/:id
func (h *ProjectHandlers) Delete(c echo.Context) error {
	principal, ok := common.GetPrincipal(c.Request().Context())
	if !ok {
		return common.RespondError(c, common.ErrForbidden)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.RespondError(c, common.NewValidationError("invalid project id"))
	}

	if err := h.projectService.Delete(c.Request().Context(), principal, id); err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondMessage(c, http.StatusOK, "Project deleted")
}
