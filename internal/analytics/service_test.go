package analytics

import (
	"context"
	"testing"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"taskhive/internal/common"
	"taskhive/internal/models"
)

type mockTenantRepo struct{ mock.Mock }

func (m *mockTenantRepo) CreateTx(ctx context.Context, tx pgx.Tx, tenant *models.Tenant) error {
	return m.Called(ctx, tx, tenant).Error(0)
}

func (m *mockTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *mockTenantRepo) GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	args := m.Called(ctx, subdomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *mockTenantRepo) ListWithCounts(ctx context.Context) ([]*models.TenantWithCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.TenantWithCounts), args.Error(1)
}

func (m *mockTenantRepo) SetPendingPlan(ctx context.Context, id uuid.UUID, plan models.Plan) error {
	return m.Called(ctx, id, plan).Error(0)
}

func (m *mockTenantRepo) ApplyPendingPlan(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTenantRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockTenantRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

func (m *mockTenantRepo) Recent(ctx context.Context, limit int) ([]*models.Tenant, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateTx(ctx context.Context, tx pgx.Tx, user *models.User) error {
	return m.Called(ctx, tx, user).Error(0)
}

func (m *mockUserRepo) CreateWithinLimit(ctx context.Context, user *models.User, maxUsers int) error {
	return m.Called(ctx, user, maxUsers).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetScoped(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.User, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *mockUserRepo) DeleteScoped(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *mockUserRepo) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	args := m.Called(ctx, tenantID)
	return args.Int(0), args.Error(1)
}

func (m *mockUserRepo) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockProjectRepo struct{ mock.Mock }

func (m *mockProjectRepo) CreateWithinLimit(ctx context.Context, project *models.Project, maxProjects int) error {
	return m.Called(ctx, project, maxProjects).Error(0)
}

func (m *mockProjectRepo) GetScoped(ctx context.Context, tenantID, id uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *mockProjectRepo) ListWithDetails(ctx context.Context, tenantID uuid.UUID) ([]*models.ProjectWithDetails, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]*models.ProjectWithDetails), args.Error(1)
}

func (m *mockProjectRepo) Update(ctx context.Context, project *models.Project) error {
	return m.Called(ctx, project).Error(0)
}

func (m *mockProjectRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *mockProjectRepo) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	args := m.Called(ctx, tenantID)
	return args.Int(0), args.Error(1)
}

type mockTaskRepo struct{ mock.Mock }

func (m *mockTaskRepo) Create(ctx context.Context, task *models.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *mockTaskRepo) GetScoped(ctx context.Context, tenantID, id uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *mockTaskRepo) ListByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]*models.TaskWithAssignee, error) {
	args := m.Called(ctx, tenantID, projectID)
	return args.Get(0).([]*models.TaskWithAssignee), args.Error(1)
}

func (m *mockTaskRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	return m.Called(ctx, tenantID, id, status).Error(0)
}

func (m *mockTaskRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *mockTaskRepo) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	args := m.Called(ctx, tenantID)
	return args.Int(0), args.Error(1)
}

func (m *mockTaskRepo) CountActiveByTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	args := m.Called(ctx, tenantID)
	return args.Int(0), args.Error(1)
}

func (m *mockTaskRepo) RecentByTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]*models.TaskWithAssignee, error) {
	args := m.Called(ctx, tenantID, limit)
	return args.Get(0).([]*models.TaskWithAssignee), args.Error(1)
}

type AnalyticsServiceTestSuite struct {
	suite.Suite
	tenantRepo  *mockTenantRepo
	userRepo    *mockUserRepo
	projectRepo *mockProjectRepo
	taskRepo    *mockTaskRepo
	service     Service
	ctx         context.Context
	tenantID    uuid.UUID
}

func (suite *AnalyticsServiceTestSuite) SetupTest() {
	suite.tenantRepo = &mockTenantRepo{}
	suite.userRepo = &mockUserRepo{}
	suite.projectRepo = &mockProjectRepo{}
	suite.taskRepo = &mockTaskRepo{}
	suite.service = NewService(suite.tenantRepo, suite.userRepo, suite.projectRepo, suite.taskRepo)
	suite.ctx = context.Background()
	suite.tenantID = uuid.New()
}

func TestAnalyticsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsServiceTestSuite))
}

func (suite *AnalyticsServiceTestSuite) TestSuperAdminGetsPlatformView() {
	recent := []*models.Tenant{{ID: suite.tenantID, Name: "Acme"}}
	suite.tenantRepo.On("Count", suite.ctx).Return(12, nil)
	suite.userRepo.On("CountAll", suite.ctx).Return(140, nil)
	suite.tenantRepo.On("CountByStatus", suite.ctx, models.TenantStatusActive).Return(10, nil)
	suite.tenantRepo.On("Recent", suite.ctx, 5).Return(recent, nil)

	principal := common.Principal{UserID: uuid.New(), Role: models.RoleSuperAdmin}
	view, err := suite.service.DashboardStats(suite.ctx, principal)

	assert.NoError(suite.T(), err)
	stats, ok := view.(PlatformStats)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), 12, stats.TotalTenants)
	assert.Equal(suite.T(), 140, stats.TotalUsers)
	assert.Equal(suite.T(), 10, stats.ActiveTenants)
	assert.Equal(suite.T(), recent, stats.RecentTenants)
}

func (suite *AnalyticsServiceTestSuite) TestWorkspaceMemberGetsWorkspaceView() {
	recent := []*models.TaskWithAssignee{
		{Task: models.Task{ID: uuid.New(), TenantID: suite.tenantID}},
	}
	suite.projectRepo.On("CountByTenant", suite.ctx, suite.tenantID).Return(4, nil)
	suite.taskRepo.On("CountByTenant", suite.ctx, suite.tenantID).Return(10, nil)
	suite.taskRepo.On("CountActiveByTenant", suite.ctx, suite.tenantID).Return(3, nil)
	suite.userRepo.On("CountByTenant", suite.ctx, suite.tenantID).Return(6, nil)
	suite.taskRepo.On("RecentByTenant", suite.ctx, suite.tenantID, 5).Return(recent, nil)

	principal := common.Principal{UserID: uuid.New(), TenantID: &suite.tenantID, Role: models.RoleUser}
	view, err := suite.service.DashboardStats(suite.ctx, principal)

	assert.NoError(suite.T(), err)
	stats, ok := view.(WorkspaceStats)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), 4, stats.TotalProjects)
	assert.Equal(suite.T(), 10, stats.TotalTasks)
	assert.Equal(suite.T(), 3, stats.ActiveTasks)
	assert.Equal(suite.T(), 70, stats.CompletionRate)
}

func (suite *AnalyticsServiceTestSuite) TestTenantAdminGetsWorkspaceView() {
	suite.projectRepo.On("CountByTenant", suite.ctx, suite.tenantID).Return(0, nil)
	suite.taskRepo.On("CountByTenant", suite.ctx, suite.tenantID).Return(0, nil)
	suite.taskRepo.On("CountActiveByTenant", suite.ctx, suite.tenantID).Return(0, nil)
	suite.userRepo.On("CountByTenant", suite.ctx, suite.tenantID).Return(1, nil)
	suite.taskRepo.On("RecentByTenant", suite.ctx, suite.tenantID, 5).Return([]*models.TaskWithAssignee{}, nil)

	principal := common.Principal{UserID: uuid.New(), TenantID: &suite.tenantID, Role: models.RoleTenantAdmin}
	view, err := suite.service.DashboardStats(suite.ctx, principal)

	assert.NoError(suite.T(), err)
	stats, ok := view.(WorkspaceStats)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), 0, stats.CompletionRate)
}

// Every request recomputes from storage, so a change between two calls shows
// up in the second response.
func (suite *AnalyticsServiceTestSuite) TestWorkspaceViewRecomputesEachCall() {
	suite.projectRepo.On("CountByTenant", suite.ctx, suite.tenantID).Return(4, nil)
	suite.taskRepo.On("CountByTenant", suite.ctx, suite.tenantID).Return(10, nil)
	suite.taskRepo.On("CountActiveByTenant", suite.ctx, suite.tenantID).Return(10, nil).Once()
	suite.taskRepo.On("CountActiveByTenant", suite.ctx, suite.tenantID).Return(7, nil).Once()
	suite.userRepo.On("CountByTenant", suite.ctx, suite.tenantID).Return(6, nil)
	suite.taskRepo.On("RecentByTenant", suite.ctx, suite.tenantID, 5).Return([]*models.TaskWithAssignee{}, nil)

	principal := common.Principal{UserID: uuid.New(), TenantID: &suite.tenantID, Role: models.RoleUser}

	first, err := suite.service.DashboardStats(suite.ctx, principal)
	assert.NoError(suite.T(), err)
	second, err := suite.service.DashboardStats(suite.ctx, principal)
	assert.NoError(suite.T(), err)

	assert.Equal(suite.T(), 0, first.(WorkspaceStats).CompletionRate)
	assert.Equal(suite.T(), 30, second.(WorkspaceStats).CompletionRate)
	suite.projectRepo.AssertNumberOfCalls(suite.T(), "CountByTenant", 2)
}

func TestCompletionRate(t *testing.T) {
	cases := []struct {
		name   string
		total  int
		active int
		want   int
	}{
		{"no tasks", 0, 0, 0},
		{"all active", 10, 10, 0},
		{"all done", 10, 0, 100},
		{"seventy percent", 10, 3, 70},
		{"rounds half up", 3, 1, 67},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, completionRate(tc.total, tc.active))
		})
	}
}
