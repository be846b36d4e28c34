package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taskhive/internal/common"
	"taskhive/internal/services"
)

type TaskHandlers struct {
	taskService services.TaskService
}

func NewTaskHandlers(taskService services.TaskService) *TaskHandlers {
	return &TaskHandlers{taskService: taskService}
}

// ListByProject returns a project's tasks ordered by priority then age.
// GET /api/projects/:projectId/tasks
func (h *TaskHandlers) ListByProject(c echo.Context) error {
	principal, ok := common.GetPrincipal(c.Request().Context())
	if !ok {
		return common.RespondError(c, common.ErrForbidden)
	}

	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		return common.RespondError(c, common.NewValidationError("invalid project id"))
	}

	tasks, err := h.taskService.ListByProject(c.Request().Context(), principal, projectID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondData(c, http.StatusOK, tasks)
}

// Create adds a task under a project the caller's workspace owns.
// POST /api/projects/:projectId/tasks
func (h *TaskHandlers) Create(c echo.Context) error {
	principal, ok := common.GetPrincipal(c.Request().Context())
	if !ok {
		return common.RespondError(c, common.ErrForbidden)
	}

	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		return common.RespondError(c, common.NewValidationError("invalid project id"))
	}

	var req services.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.taskService.Create(c.Request().Context(), principal, projectID, &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondData(c, http.StatusCreated, task)
}

type updateTaskStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus moves a task between todo, in_progress and completed.
// PATCH /api/tasks/:id/status
func (h *TaskHandlers) UpdateStatus(c echo.Context) error {
	principal, ok := common.GetPrincipal(c.Request().Context())
	if !ok {
		return common.RespondError(c, common.ErrForbidden)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.RespondError(c, common.NewValidationError("invalid task id"))
	}

	var req updateTaskStatusRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, common.NewValidationError("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.taskService.UpdateStatus(c.Request().Context(), principal, id, req.Status)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondData(c, http.StatusOK, task)
}

// Delete removes a task from the caller's workspace.
// DELETE /api/tasks/:id
func (h *TaskHandlers) Delete(c echo.Context) error {
	principal, ok := common.GetPrincipal(c.Request().Context())
	if !ok {
		return common.RespondError(c, common.ErrForbidden)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.RespondError(c, common.NewValidationError("invalid task id"))
	}

	if err := h.taskService.Delete(c.Request().Context(), principal, id); err != nil {
		return common.RespondError(c, err)
	}
	return common.RespondMessage(c, http.StatusOK, "Task deleted")
}
