package services

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskhive/internal/common"
	"taskhive/internal/models"
	"taskhive/internal/repositories"
)

type UserService interface {
	List(ctx context.Context, principal common.Principal) ([]*models.User, error)
	Create(ctx context.Context, principal common.Principal, req *CreateUserRequest) (*models.User, error)
	Delete(ctx context.Context, principal common.Principal, id uuid.UUID) error
}

type userService struct {
	userRepo   repositories.UserRepository
	tenantRepo repositories.TenantRepository
}

func NewUserService(userRepo repositories.UserRepository, tenantRepo repositories.TenantRepository) UserService {
	return &userService{userRepo: userRepo, tenantRepo: tenantRepo}
}

func (s *userService) List(ctx context.Context, principal common.Principal) ([]*models.User, error) {
	tenantID, ok := principal.MustTenantID()
	if !ok {
		return nil, common.ErrForbidden
	}
	return s.userRepo.ListByTenant(ctx, tenantID)
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"fullName" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"`
}

// Create adds a member to the caller's workspace. The new row's tenant is
// locked to the principal's tenant; a tenant id arriving in the body is
// ignored by construction. Quota and email uniqueness are enforced in one
// transaction by the repository.
func (s *userService) Create(ctx context.Context, principal common.Principal, req *CreateUserRequest) (*models.User, error) {
	tenantID, ok := principal.MustTenantID()
	if !ok {
		return nil, common.ErrForbidden
	}

	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleUser
	}
	// A workspace admin can never mint a platform super admin.
	if role != models.RoleUser && role != models.RoleTenantAdmin {
		return nil, common.NewValidationError("role must be one of: user, tenant_admin")
	}

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		TenantID:     &tenantID,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		FullName:     req.FullName,
		Role:         role,
		IsActive:     true,
	}

	if err := s.userRepo.CreateWithinLimit(ctx, user, tenant.Plan.Limits().MaxUsers); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a workspace member. The target must exist inside the
// caller's tenant, and self-deletion is rejected even for admins.
func (s *userService) Delete(ctx context.Context, principal common.Principal, id uuid.UUID) error {
	tenantID, ok := principal.MustTenantID()
	if !ok {
		return common.ErrForbidden
	}

	target, err := s.userRepo.GetScoped(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if target.ID == principal.UserID {
		return common.ErrCannotSelfDelete
	}

	return s.userRepo.DeleteScoped(ctx, tenantID, id)
}
