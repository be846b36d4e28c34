package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"taskhive/internal/common"
	"taskhive/internal/models"
)

type UserRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, user *models.User) error
	CreateWithinLimit(ctx context.Context, user *models.User, maxUsers int) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetScoped(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.User, error)
	DeleteScoped(ctx context.Context, tenantID, id uuid.UUID) error
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error)
	CountAll(ctx context.Context) (int, error)
}

type userRepo struct {
	db DB
}

func NewUserRepo(db DB) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, tenant_id, email, password_hash, full_name, role, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.TenantID, &user.Email, &user.PasswordHash, &user.FullName, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

const insertUserQuery = `
		INSERT INTO users (id, tenant_id, email, password_hash, full_name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`

// CreateTx inserts a user inside the caller's transaction (tenant registration).
func (r *userRepo) CreateTx(ctx context.Context, tx pgx.Tx, user *models.User) error {
	_, err := tx.Exec(ctx, insertUserQuery, user.ID, user.TenantID, user.Email, user.PasswordHash, user.FullName, user.Role, user.IsActive)
	return err
}

// CreateWithinLimit counts the tenant's users and inserts the new row in one
// serializable transaction, so two concurrent creations cannot both pass the
// quota check. Uniqueness of (email, tenant_id) is verified in the same
// transaction.
func (r *userRepo) CreateWithinLimit(ctx context.Context, user *models.User, maxUsers int) error {
	if user.TenantID == nil {
		return fmt.Errorf("user without tenant cannot be quota-checked")
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE tenant_id = $1`, *user.TenantID).Scan(&count); err != nil {
		return err
	}
	if count >= maxUsers {
		return &common.QuotaError{Resource: "users", Limit: maxUsers}
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE tenant_id = $1 AND email = $2)`, *user.TenantID, user.Email).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return common.ErrEmailTaken
	}

	if _, err := tx.Exec(ctx, insertUserQuery, user.ID, user.TenantID, user.Email, user.PasswordHash, user.FullName, user.Role, user.IsActive); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID looks a user up by primary key alone. It serves identity flows
// (login, /auth/me) where the id comes from a verified token, never from
// client input; tenant-scoped reads go through GetScoped.
func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 ORDER BY created_at ASC LIMIT 1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepo) GetScoped(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE tenant_id = $1 AND id = $2`
	return scanUser(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *userRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE tenant_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.TenantID, &user.Email, &user.PasswordHash, &user.FullName, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepo) DeleteScoped(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *userRepo) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE tenant_id = $1`, tenantID).Scan(&count)
	return count, err
}

func (r *userRepo) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}
