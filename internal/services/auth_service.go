package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskhive/internal/common"
	"taskhive/internal/middleware"
	"taskhive/internal/models"
	"taskhive/internal/repositories"
)

// AuthService handles login, tenant registration and token issuance.
type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)
	RegisterTenant(ctx context.Context, req *RegisterTenantRequest) (*RegisterTenantResult, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type authService struct {
	db         repositories.DB
	userRepo   repositories.UserRepository
	tenantRepo repositories.TenantRepository
	jwtSecret  string
	tokenTTL   time.Duration
}

func NewAuthService(db repositories.DB, userRepo repositories.UserRepository, tenantRepo repositories.TenantRepository, jwtSecret string, tokenTTL time.Duration) AuthService {
	return &authService{
		db:         db,
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
	}
}

type LoginRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	TenantSubdomain string `json:"tenantSubdomain"`
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login resolves the optional workspace subdomain, checks the user's tenant
// association, then verifies the password. A tenant mismatch and a wrong
// password both surface as ErrInvalidCredentials so the response does not
// reveal which check failed.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	var tenantID *uuid.UUID
	if req.TenantSubdomain != "" {
		tenant, err := s.tenantRepo.GetBySubdomain(ctx, strings.ToLower(req.TenantSubdomain))
		if err != nil {
			return nil, err
		}
		tenantID = &tenant.ID
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	// Non-super-admins must belong to the resolved workspace. An empty
	// subdomain resolves to no workspace, which only a super admin matches.
	if user.Role != models.RoleSuperAdmin && !sameTenant(user.TenantID, tenantID) {
		return nil, common.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.signToken(user, tenantID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: user}, nil
}

func sameTenant(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// signToken issues a 24h HMAC token carrying {userId, tenantId, role}. A
// super admin logging in through a workspace subdomain gets that workspace
// as token context.
func (s *authService) signToken(user *models.User, contextTenant *uuid.UUID) (string, error) {
	tenantID := user.TenantID
	if tenantID == nil {
		tenantID = contextTenant
	}

	now := time.Now()
	claims := middleware.AccessClaims{
		UserID:   user.ID,
		TenantID: tenantID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

type RegisterTenantRequest struct {
	TenantName    string `json:"tenantName" validate:"required"`
	Subdomain     string `json:"subdomain" validate:"required"`
	AdminEmail    string `json:"adminEmail" validate:"required,email"`
	AdminPassword string `json:"adminPassword" validate:"required,min=6"`
	AdminFullName string `json:"adminFullName" validate:"required"`
}

type RegisterTenantResult struct {
	TenantID  uuid.UUID    `json:"tenantId"`
	Subdomain string       `json:"subdomain"`
	AdminUser *models.User `json:"adminUser"`
}

// RegisterTenant creates the workspace and its first admin in a single
// transaction; any failure after the tenant insert rolls both rows back.
func (s *authService) RegisterTenant(ctx context.Context, req *RegisterTenantRequest) (*RegisterTenantResult, error) {
	subdomain := strings.ToLower(strings.TrimSpace(req.Subdomain))
	if strings.ContainsAny(subdomain, " .") {
		return nil, common.NewValidationError("subdomain cannot contain spaces or dots")
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
		Name:      req.TenantName,
		Subdomain: subdomain,
		Status:    models.TenantStatusActive,
		Plan:      models.PlanFree,
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

	return &RegisterTenantResult{
		TenantID:  tenant.ID,
		Subdomain: tenant.Subdomain,
		AdminUser: admin,
	}, nil
}

// CurrentUser returns the profile behind a verified token.
func (s *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
