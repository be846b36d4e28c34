package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"taskhive/internal/common"
	"taskhive/internal/models"
)

type TenantServiceTestSuite struct {
	suite.Suite
	mockDB     pgxmock.PgxPoolIface
	tenantRepo *MockTenantRepository
	userRepo   *MockUserRepository
	service    TenantService
	ctx        context.Context
	tenantID   uuid.UUID
}

func (suite *TenantServiceTestSuite) SetupTest() {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mockDB = mockDB

	suite.tenantRepo = &MockTenantRepository{}
	suite.userRepo = &MockUserRepository{}
	suite.service = NewTenantService(mockDB, suite.tenantRepo, suite.userRepo)
	suite.ctx = context.Background()
	suite.tenantID = uuid.New()
}

func (suite *TenantServiceTestSuite) TearDownTest() {
	suite.mockDB.Close()
}

func TestTenantServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TenantServiceTestSuite))
}

func (suite *TenantServiceTestSuite) TestRequestUpgrade_Success() {
	tenant := &models.Tenant{ID: suite.tenantID, Plan: models.PlanFree}
	suite.tenantRepo.On("GetByID", suite.ctx, suite.tenantID).Return(tenant, nil)
	suite.tenantRepo.On("SetPendingPlan", suite.ctx, suite.tenantID, models.PlanPro).Return(nil)

	err := suite.service.RequestUpgrade(suite.ctx, suite.tenantID, models.PlanPro)

	assert.NoError(suite.T(), err)
	suite.tenantRepo.AssertExpectations(suite.T())
}

func (suite *TenantServiceTestSuite) TestRequestUpgrade_AlreadyOnPlan() {
	tenant := &models.Tenant{ID: suite.tenantID, Plan: models.PlanPro}
	suite.tenantRepo.On("GetByID", suite.ctx, suite.tenantID).Return(tenant, nil)

	err := suite.service.RequestUpgrade(suite.ctx, suite.tenantID, models.PlanPro)

	assert.ErrorIs(suite.T(), err, common.ErrAlreadyOnPlan)
	suite.tenantRepo.AssertNotCalled(suite.T(), "SetPendingPlan", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TenantServiceTestSuite) TestRequestUpgrade_InvalidPlan() {
	err := suite.service.RequestUpgrade(suite.ctx, suite.tenantID, models.Plan("platinum"))

	var vErr *common.ValidationError
	assert.ErrorAs(suite.T(), err, &vErr)
}

func (suite *TenantServiceTestSuite) TestApproveUpgrade_Success() {
	suite.tenantRepo.On("ApplyPendingPlan", suite.ctx, suite.tenantID).Return(nil)

	err := suite.service.ApproveUpgrade(suite.ctx, suite.tenantID)

	assert.NoError(suite.T(), err)
}

func (suite *TenantServiceTestSuite) TestApproveUpgrade_NoPendingRequest() {
	suite.tenantRepo.On("ApplyPendingPlan", suite.ctx, suite.tenantID).Return(common.ErrNoPendingRequest)

	err := suite.service.ApproveUpgrade(suite.ctx, suite.tenantID)

	assert.ErrorIs(suite.T(), err, common.ErrNoPendingRequest)
}

func (suite *TenantServiceTestSuite) TestCreate_DefaultsToFreePlan() {
	suite.tenantRepo.On("GetBySubdomain", suite.ctx, "newco").Return(nil, common.ErrTenantNotFound)
	suite.tenantRepo.On("CreateTx", suite.ctx, mock.Anything, mock.MatchedBy(func(t *models.Tenant) bool {
		return t.Plan == models.PlanFree && t.Subdomain == "newco"
	})).Return(nil)
	suite.userRepo.On("CreateTx", suite.ctx, mock.Anything, mock.Anything).Return(nil)

	suite.mockDB.ExpectBegin()
	suite.mockDB.ExpectCommit()

	tenant, err := suite.service.Create(suite.ctx, &CreateTenantRequest{
		Name:          "New Co",
		Subdomain:     "newco",
		AdminEmail:    "admin@newco.test",
		AdminPassword: "secret123",
		AdminFullName: "New Admin",
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.PlanFree, tenant.Plan)
}

func (suite *TenantServiceTestSuite) TestCreate_RejectsUnknownPlan() {
	_, err := suite.service.Create(suite.ctx, &CreateTenantRequest{
		Name:          "New Co",
		Subdomain:     "newco",
		Plan:          models.Plan("platinum"),
		AdminEmail:    "admin@newco.test",
		AdminPassword: "secret123",
		AdminFullName: "New Admin",
	})

	var vErr *common.ValidationError
	assert.ErrorAs(suite.T(), err, &vErr)
}

func (suite *TenantServiceTestSuite) TestList_ReturnsCounts() {
	expected := []*models.TenantWithCounts{
		{Tenant: models.Tenant{ID: suite.tenantID, Name: "Acme"}, UserCount: 4, ProjectCount: 2},
	}
	suite.tenantRepo.On("ListWithCounts", suite.ctx).Return(expected, nil)

	tenants, err := suite.service.List(suite.ctx)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), expected, tenants)
}
