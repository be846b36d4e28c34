package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"taskhive/internal/common"
	"taskhive/internal/models"
)

type ProjectRepository interface {
	CreateWithinLimit(ctx context.Context, project *models.Project, maxProjects int) error
	GetScoped(ctx context.Context, tenantID, id uuid.UUID) (*models.Project, error)
	ListWithDetails(ctx context.Context, tenantID uuid.UUID) ([]*models.ProjectWithDetails, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error)
}

type projectRepo struct {
	db DB
}

func NewProjectRepo(db DB) ProjectRepository {
	return &projectRepo{db: db}
}

const projectColumns = `id, tenant_id, name, description, status, created_by, created_at, updated_at`

// CreateWithinLimit counts the tenant's projects and inserts the new row in
// one serializable transaction so concurrent creations cannot jointly exceed
// the plan limit.
func (r *projectRepo) CreateWithinLimit(ctx context.Context, project *models.Project, maxProjects int) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM projects WHERE tenant_id = $1`, project.TenantID).Scan(&count); err != nil {
		return err
	}
	if count >= maxProjects {
		return &common.QuotaError{Resource: "projects", Limit: maxProjects}
	}

	query := `
		INSERT INTO projects (id, tenant_id, name, description, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	if _, err := tx.Exec(ctx, query, project.ID, project.TenantID, project.Name, project.Description, project.Status, project.CreatedBy); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *projectRepo) GetScoped(ctx context.Context, tenantID, id uuid.UUID) (*models.Project, error) {
	project := &models.Project{}
	query := `SELECT ` + projectColumns + ` FROM projects WHERE tenant_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&project.ID, &project.TenantID, &project.Name, &project.Description, &project.Status, &project.CreatedBy, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return project, nil
}

// ListWithDetails returns the tenant's projects newest first, with the
// creator's display name and the id/status pairs of their tasks.
func (r *projectRepo) ListWithDetails(ctx context.Context, tenantID uuid.UUID) ([]*models.ProjectWithDetails, error) {
	query := `
		SELECT p.id, p.tenant_id, p.name, p.description, p.status, p.created_by, p.created_at, p.updated_at, u.full_name
		FROM projects p
		JOIN users u ON u.id = p.created_by
		WHERE p.tenant_id = $1
		ORDER BY p.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.ProjectWithDetails
	byID := make(map[uuid.UUID]*models.ProjectWithDetails)
	for rows.Next() {
		p := &models.ProjectWithDetails{Tasks: []models.TaskRef{}}
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.Description, &p.Status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt, &p.CreatorName); err != nil {
			return nil, err
		}
		projects = append(projects, p)
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	taskRows, err := r.db.Query(ctx, `SELECT id, status, project_id FROM tasks WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return nil, err
	}
	defer taskRows.Close()

	for taskRows.Next() {
		var ref models.TaskRef
		var projectID uuid.UUID
		if err := taskRows.Scan(&ref.ID, &ref.Status, &projectID); err != nil {
			return nil, err
		}
		if p, ok := byID[projectID]; ok {
			p.Tasks = append(p.Tasks, ref)
		}
	}
	return projects, taskRows.Err()
}

func (r *projectRepo) Update(ctx context.Context, project *models.Project) error {
	query := `
		UPDATE projects
		SET name = $1, description = $2, status = $3, updated_at = NOW()
		WHERE tenant_id = $4 AND id = $5
	`
	tag, err := r.db.Exec(ctx, query, project.Name, project.Description, project.Status, project.TenantID, project.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete removes the project row; its tasks go with it through the
// ON DELETE CASCADE foreign key, not through application logic.
func (r *projectRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *projectRepo) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM projects WHERE tenant_id = $1`, tenantID).Scan(&count)
	return count, err
}
