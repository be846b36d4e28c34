package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskhive/internal/common"
	"taskhive/internal/models"
	"taskhive/internal/repositories"
)

// TenantService covers the platform-admin tenant surface and the two-step
// plan upgrade workflow.
type TenantService interface {
	List(ctx context.Context) ([]*models.TenantWithCounts, error)
	Create(ctx context.Context, req *CreateTenantRequest) (*models.Tenant, error)
	RequestUpgrade(ctx context.Context, tenantID uuid.UUID, plan models.Plan) error
	ApproveUpgrade(ctx context.Context, tenantID uuid.UUID) error
}

type tenantService struct {
	db         repositories.DB
	tenantRepo repositories.TenantRepository
	userRepo   repositories.UserRepository
}

func NewTenantService(db repositories.DB, tenantRepo repositories.TenantRepository, userRepo repositories.UserRepository) TenantService {
	return &tenantService{db: db, tenantRepo: tenantRepo, userRepo: userRepo}
}

func (s *tenantService) List(ctx context.Context) ([]*models.TenantWithCounts, error) {
	return s.tenantRepo.ListWithCounts(ctx)
}

type CreateTenantRequest struct {
	Name          string      `json:"name" validate:"required"`
	Subdomain     string      `json:"subdomain" validate:"required"`
	Plan          models.Plan `json:"plan"`
	AdminEmail    string      `json:"adminEmail" validate:"required,email"`
	AdminPassword string      `json:"adminPassword" validate:"required,min=6"`
	AdminFullName string      `json:"adminFullName" validate:"required"`
}

// Create provisions a workspace on behalf of a platform admin. Like
// self-registration, the tenant and its admin user commit atomically.
func (s *tenantService) Create(ctx context.Context, req *CreateTenantRequest) (*models.Tenant, error) {
	subdomain := strings.ToLower(strings.TrimSpace(req.Subdomain))
	if strings.ContainsAny(subdomain, " .") {
		return nil, common.NewValidationError("subdomain cannot contain spaces or dots")
	}

	plan := req.Plan
	if plan == "" {
		plan = models.PlanFree
	}
	if !plan.Valid() {
		return nil, common.NewValidationError("unknown plan: %s", plan)
	}

	if _, err := s.tenantRepo.GetBySubdomain(ctx, subdomain); err == nil {
		return nil, common.ErrSubdomainTaken
	} else if !errors.Is(err, common.ErrTenantNotFound) {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	tenant := &models.Tenant{
		ID:        uuid.New(),
		Name:      req.Name,
		Subdomain: subdomain,
		Status:    models.TenantStatusActive,
		Plan:      plan,
	}
	admin := &models.User{
		ID:           uuid.New(),
		TenantID:     &tenant.ID,
		Email:        req.AdminEmail,
		PasswordHash: string(passwordHash),
		FullName:     req.AdminFullName,
		Role:         models.RoleTenantAdmin,
		IsActive:     true,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.tenantRepo.CreateTx(ctx, tx, tenant); err != nil {
		return nil, err
	}
	if err := s.userRepo.CreateTx(ctx, tx, admin); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return tenant, nil
}

// RequestUpgrade records a tenant admin's wish to move to a different plan.
// Only pending_plan is written; the live plan changes on approval alone.
func (s *tenantService) RequestUpgrade(ctx context.Context, tenantID uuid.UUID, plan models.Plan) error {
	if !plan.Valid() {
		return common.NewValidationError("unknown plan: %s", plan)
	}

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return err
	}
	if tenant.Plan == plan {
		return common.ErrAlreadyOnPlan
	}

	return s.tenantRepo.SetPendingPlan(ctx, tenantID, plan)
}

// ApproveUpgrade applies a pending plan request. The repository performs the
// swap as a single atomic update; without a pending request it reports
// ErrNoPendingRequest.
func (s *tenantService) ApproveUpgrade(ctx context.Context, tenantID uuid.UUID) error {
	return s.tenantRepo.ApplyPendingPlan(ctx, tenantID)
}
