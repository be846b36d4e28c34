package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskhive/internal/common"
	"taskhive/internal/models"
	"taskhive/internal/repositories"
)

type TaskService interface {
	Create(ctx context.Context, principal common.Principal, projectID uuid.UUID, req *CreateTaskRequest) (*models.Task, error)
	ListByProject(ctx context.Context, principal common.Principal, projectID uuid.UUID) ([]*models.TaskWithAssignee, error)
	UpdateStatus(ctx context.Context, principal common.Principal, id uuid.UUID, status string) (*models.Task, error)
	Delete(ctx context.Context, principal common.Principal, id uuid.UUID) error
}

type taskService struct {
	taskRepo    repositories.TaskRepository
	projectRepo repositories.ProjectRepository
}

func NewTaskService(taskRepo repositories.TaskRepository, projectRepo repositories.ProjectRepository) TaskService {
	return &taskService{taskRepo: taskRepo, projectRepo: projectRepo}
}

type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	AssignedTo  *uuid.UUID `json:"assignedTo"`
	DueDate     *time.Time `json:"dueDate"`
}

// Create verifies the parent project belongs to the caller's tenant before
// inserting. The task's tenant id is copied from the verified principal,
// never from the request.
func (s *taskService) Create(ctx context.Context, principal common.Principal, projectID uuid.UUID, req *CreateTaskRequest) (*models.Task, error) {
	tenantID, ok := principal.MustTenantID()
	if !ok {
		return nil, common.ErrForbidden
	}

	if _, err := s.projectRepo.GetScoped(ctx, tenantID, projectID); err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !models.ValidTaskPriority(priority) {
		return nil, common.NewValidationError("priority must be one of: low, medium, high")
	}

	task := &models.Task{
		ID:          uuid.New(),
		ProjectID:   projectID,
		TenantID:    tenantID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatusTodo,
		Priority:    priority,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) ListByProject(ctx context.Context, principal common.Principal, projectID uuid.UUID) ([]*models.TaskWithAssignee, error) {
	tenantID, ok := principal.MustTenantID()
	if !ok {
		return nil, common.ErrForbidden
	}

	if _, err := s.projectRepo.GetScoped(ctx, tenantID, projectID); err != nil {
		return nil, err
	}

	return s.taskRepo.ListByProject(ctx, tenantID, projectID)
}

func (s *taskService) UpdateStatus(ctx context.Context, principal common.Principal, id uuid.UUID, status string) (*models.Task, error) {
	tenantID, ok := principal.MustTenantID()
	if !ok {
		return nil, common.ErrForbidden
	}

	if !models.ValidTaskStatus(status) {
		return nil, common.NewValidationError("status must be one of: todo, in_progress, completed")
	}

	if err := s.taskRepo.UpdateStatus(ctx, tenantID, id, status); err != nil {
		return nil, err
	}
	return s.taskRepo.GetScoped(ctx, tenantID, id)
}

func (s *taskService) Delete(ctx context.Context, principal common.Principal, id uuid.UUID) error {
	tenantID, ok := principal.MustTenantID()
	if !ok {
		return common.ErrForbidden
	}
	return s.taskRepo.Delete(ctx, tenantID, id)
}
