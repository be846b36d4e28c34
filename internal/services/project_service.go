package services

import (
	"context"

	"github.com/google/uuid"

	"taskhive/internal/common"
	"taskhive/internal/models"
	"taskhive/internal/repositories"
)

type ProjectService interface {
	Create(ctx context.Context, principal common.Principal, req *CreateProjectRequest) (*models.Project, error)
	List(ctx context.Context, principal common.Principal) ([]*models.ProjectWithDetails, error)
	Update(ctx context.Context, principal common.Principal, id uuid.UUID, req *UpdateProjectRequest) (*models.Project, error)
	Delete(ctx context.Context, principal common.Principal, id uuid.UUID) error
}

type projectService struct {
	projectRepo repositories.ProjectRepository
	tenantRepo  repositories.TenantRepository
}

func NewProjectService(projectRepo repositories.ProjectRepository, tenantRepo repositories.TenantRepository) ProjectService {
	return &projectService{projectRepo: projectRepo, tenantRepo: tenantRepo}
}

type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Create inserts a project for the caller's tenant, enforcing the plan's
// project quota. The tenant comes from the verified principal, never the body.
func (s *projectService) Create(ctx context.Context, principal common.Principal, req *CreateProjectRequest) (*models.Project, error) {
	tenantID, ok := principal.MustTenantID()
	if !ok {
		return nil, common.ErrForbidden
	}

	status := req.Status
	if status == "" {
		status = models.ProjectStatusActive
	}

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		CreatedBy:   principal.UserID,
	}

	if err := s.projectRepo.CreateWithinLimit(ctx, project, tenant.Plan.Limits().MaxProjects); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context, principal common.Principal) ([]*models.ProjectWithDetails, error) {
	tenantID, ok := principal.MustTenantID()
	if !ok {
		return nil, common.ErrForbidden
	}
	return s.projectRepo.ListWithDetails(ctx, tenantID)
}

// UpdateProjectRequest carries a partial update; nil fields keep the stored value.
type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (s *projectService) Update(ctx context.Context, principal common.Principal, id uuid.UUID, req *UpdateProjectRequest) (*models.Project, error) {
	tenantID, ok := principal.MustTenantID()
	if !ok {
		return nil, common.ErrForbidden
	}

	project, err := s.projectRepo.GetScoped(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		switch *req.Status {
		case models.ProjectStatusActive, models.ProjectStatusArchived, models.ProjectStatusCompleted:
			project.Status = *req.Status
		default:
			return nil, common.NewValidationError("status must be one of: active, archived, completed")
		}
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, principal common.Principal, id uuid.UUID) error {
	tenantID, ok := principal.MustTenantID()
	if !ok {
		return common.ErrForbidden
	}
	return s.projectRepo.Delete(ctx, tenantID, id)
}
