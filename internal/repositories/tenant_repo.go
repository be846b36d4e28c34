package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"taskhive/internal/common"
	"taskhive/internal/models"
)

type TenantRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, tenant *models.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error)
	ListWithCounts(ctx context.Context) ([]*models.TenantWithCounts, error)
	SetPendingPlan(ctx context.Context, id uuid.UUID, plan models.Plan) error
	ApplyPendingPlan(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status string) (int, error)
	Recent(ctx context.Context, limit int) ([]*models.Tenant, error)
}

type tenantRepo struct {
	db DB
}

func NewTenantRepo(db DB) TenantRepository {
	return &tenantRepo{db: db}
}

const tenantColumns = `id, name, subdomain, status, subscription_plan, pending_plan, created_at, updated_at`

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	err := row.Scan(&tenant.ID, &tenant.Name, &tenant.Subdomain, &tenant.Status, &tenant.Plan, &tenant.PendingPlan, &tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrTenantNotFound
		}
		return nil, err
	}
	return tenant, nil
}

// CreateTx inserts a tenant inside the caller's transaction so registration
// can commit the tenant and its admin user atomically.
func (r *tenantRepo) CreateTx(ctx context.Context, tx pgx.Tx, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, subdomain, status, subscription_plan, pending_plan, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := tx.Exec(ctx, query, tenant.ID, tenant.Name, tenant.Subdomain, tenant.Status, tenant.Plan, tenant.PendingPlan)
	return err
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	return scanTenant(r.db.QueryRow(ctx, query, id))
}

func (r *tenantRepo) GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE subdomain = $1`
	return scanTenant(r.db.QueryRow(ctx, query, subdomain))
}

func (r *tenantRepo) ListWithCounts(ctx context.Context) ([]*models.TenantWithCounts, error) {
	query := `
		SELECT t.id, t.name, t.subdomain, t.status, t.subscription_plan, t.pending_plan, t.created_at, t.updated_at,
			(SELECT COUNT(*) FROM users u WHERE u.tenant_id = t.id),
			(SELECT COUNT(*) FROM projects p WHERE p.tenant_id = t.id)
		FROM tenants t
		ORDER BY t.created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*models.TenantWithCounts
	for rows.Next() {
		t := &models.TenantWithCounts{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Subdomain, &t.Status, &t.Plan, &t.PendingPlan, &t.CreatedAt, &t.UpdatedAt, &t.UserCount, &t.ProjectCount); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (r *tenantRepo) SetPendingPlan(ctx context.Context, id uuid.UUID, plan models.Plan) error {
	query := `UPDATE tenants SET pending_plan = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, plan, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrTenantNotFound
	}
	return nil
}

// ApplyPendingPlan promotes pending_plan to subscription_plan and clears it
// in one UPDATE, so no reader can observe a half-applied upgrade.
func (r *tenantRepo) ApplyPendingPlan(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE tenants
		SET subscription_plan = pending_plan, pending_plan = NULL, updated_at = NOW()
		WHERE id = $1 AND pending_plan IS NOT NULL
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNoPendingRequest
	}
	return nil
}

func (r *tenantRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tenants`).Scan(&count)
	return count, err
}

func (r *tenantRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tenants WHERE status = $1`, status).Scan(&count)
	return count, err
}

func (r *tenantRepo) Recent(ctx context.Context, limit int) ([]*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		tenant := &models.Tenant{}
		if err := rows.Scan(&tenant.ID, &tenant.Name, &tenant.Subdomain, &tenant.Status, &tenant.Plan, &tenant.PendingPlan, &tenant.CreatedAt, &tenant.UpdatedAt); err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}
	return tenants, rows.Err()
}
