package analytics

import (
	"context"
	"math"

	"taskhive/internal/common"
	"taskhive/internal/models"
	"taskhive/internal/repositories"
)

// StatsView is the closed set of dashboard payloads. Which concrete view a
// caller receives is decided by their role, so handlers never branch on raw
// role strings to shape the response.
type StatsView interface {
	isStatsView()
}

// PlatformStats is the super admin view across all tenants.
type PlatformStats struct {
	TotalTenants  int              `json:"totalTenants"`
	TotalUsers    int              `json:"totalUsers"`
	ActiveTenants int              `json:"activeTenants"`
	RecentTenants []*models.Tenant `json:"recentTenants"`
}

func (PlatformStats) isStatsView() {}

// WorkspaceStats is the single-tenant view for workspace members.
type WorkspaceStats struct {
	TotalProjects  int                        `json:"totalProjects"`
	TotalTasks     int                        `json:"totalTasks"`
	ActiveTasks    int                        `json:"activeTasks"`
	TotalUsers     int                        `json:"totalUsers"`
	CompletionRate int                        `json:"completionRate"`
	RecentTasks    []*models.TaskWithAssignee `json:"recentTasks"`
}

func (WorkspaceStats) isStatsView() {}

type Service interface {
	DashboardStats(ctx context.Context, principal common.Principal) (StatsView, error)
}

// Stats are recomputed from storage on every call so the dashboard always
// reflects the current state.
type service struct {
	tenantRepo  repositories.TenantRepository
	userRepo    repositories.UserRepository
	projectRepo repositories.ProjectRepository
	taskRepo    repositories.TaskRepository
}

func NewService(tenantRepo repositories.TenantRepository, userRepo repositories.UserRepository, projectRepo repositories.ProjectRepository, taskRepo repositories.TaskRepository) Service {
	return &service{
		tenantRepo:  tenantRepo,
		userRepo:    userRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

func (s *service) DashboardStats(ctx context.Context, principal common.Principal) (StatsView, error) {
	switch principal.Role {
	case models.RoleSuperAdmin:
		return s.platformStats(ctx)
	case models.RoleTenantAdmin, models.RoleUser:
		return s.workspaceStats(ctx, principal)
	default:
		return nil, common.ErrForbidden
	}
}

func (s *service) platformStats(ctx context.Context) (StatsView, error) {
	tenants, err := s.tenantRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.tenantRepo.CountByStatus(ctx, models.TenantStatusActive)
	if err != nil {
		return nil, err
	}
	recent, err := s.tenantRepo.Recent(ctx, 5)
	if err != nil {
		return nil, err
	}
	return PlatformStats{
		TotalTenants:  tenants,
		TotalUsers:    users,
		ActiveTenants: active,
		RecentTenants: recent,
	}, nil
}

func (s *service) workspaceStats(ctx context.Context, principal common.Principal) (StatsView, error) {
	tenantID, ok := principal.MustTenantID()
	if !ok {
		return nil, common.ErrForbidden
	}

	projects, err := s.projectRepo.CountByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.CountByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	activeTasks, err := s.taskRepo.CountActiveByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.CountByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	recent, err := s.taskRepo.RecentByTenant(ctx, tenantID, 5)
	if err != nil {
		return nil, err
	}

	return WorkspaceStats{
		TotalProjects:  projects,
		TotalTasks:     tasks,
		ActiveTasks:    activeTasks,
		TotalUsers:     users,
		CompletionRate: completionRate(tasks, activeTasks),
		RecentTasks:    recent,
	}, nil
}

// completionRate is the share of tasks no longer active, as a rounded
// percentage. A workspace with no tasks reports zero, not a division error.
func completionRate(total, active int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(total-active) / float64(total) * 100))
}
