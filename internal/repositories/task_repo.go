package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"taskhive/internal/common"
	"taskhive/internal/models"
)

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetScoped(ctx context.Context, tenantID, id uuid.UUID) (*models.Task, error)
	ListByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]*models.TaskWithAssignee, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error)
	CountActiveByTenant(ctx context.Context, tenantID uuid.UUID) (int, error)
	RecentByTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]*models.TaskWithAssignee, error)
}

type taskRepo struct {
	db DB
}

func NewTaskRepo(db DB) TaskRepository {
	return &taskRepo{db: db}
}

const taskColumns = `id, project_id, tenant_id, title, description, status, priority, assigned_to, due_date, created_at, updated_at`

func (r *taskRepo) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, project_id, tenant_id, title, description, status, priority, assigned_to, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, task.ID, task.ProjectID, task.TenantID, task.Title, task.Description, task.Status, task.Priority, task.AssignedTo, task.DueDate)
	return err
}

func (r *taskRepo) GetScoped(ctx context.Context, tenantID, id uuid.UUID) (*models.Task, error) {
	task := &models.Task{}
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE tenant_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&task.ID, &task.ProjectID, &task.TenantID, &task.Title, &task.Description, &task.Status, &task.Priority, &task.AssignedTo, &task.DueDate, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return task, nil
}

func scanTasksWithAssignee(rows pgx.Rows) ([]*models.TaskWithAssignee, error) {
	defer rows.Close()

	var tasks []*models.TaskWithAssignee
	for rows.Next() {
		t := &models.TaskWithAssignee{}
		var assigneeID *uuid.UUID
		var assigneeName, assigneeEmail *string
		err := rows.Scan(&t.ID, &t.ProjectID, &t.TenantID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.AssignedTo, &t.DueDate, &t.CreatedAt, &t.UpdatedAt,
			&assigneeID, &assigneeName, &assigneeEmail)
		if err != nil {
			return nil, err
		}
		if assigneeID != nil {
			t.Assignee = &models.TaskAssignee{ID: *assigneeID, FullName: *assigneeName, Email: *assigneeEmail}
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ListByProject orders by priority (high before medium before low), then by
// creation time ascending, and joins assignee display fields.
func (r *taskRepo) ListByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]*models.TaskWithAssignee, error) {
	query := `
		SELECT t.id, t.project_id, t.tenant_id, t.title, t.description, t.status, t.priority, t.assigned_to, t.due_date, t.created_at, t.updated_at,
			u.id, u.full_name, u.email
		FROM tasks t
		LEFT JOIN users u ON u.id = t.assigned_to
		WHERE t.tenant_id = $1 AND t.project_id = $2
		ORDER BY CASE t.priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC, t.created_at ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	return scanTasksWithAssignee(rows)
}

func (r *taskRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	query := `UPDATE tasks SET status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	tag, err := r.db.Exec(ctx, query, status, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *taskRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *taskRepo) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE tenant_id = $1`, tenantID).Scan(&count)
	return count, err
}

func (r *taskRepo) CountActiveByTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM tasks WHERE tenant_id = $1 AND status IN ('todo', 'in_progress')`
	err := r.db.QueryRow(ctx, query, tenantID).Scan(&count)
	return count, err
}

func (r *taskRepo) RecentByTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]*models.TaskWithAssignee, error) {
	query := `
		SELECT t.id, t.project_id, t.tenant_id, t.title, t.description, t.status, t.priority, t.assigned_to, t.due_date, t.created_at, t.updated_at,
			u.id, u.full_name, u.email
		FROM tasks t
		LEFT JOIN users u ON u.id = t.assigned_to
		WHERE t.tenant_id = $1
		ORDER BY t.created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit)
	if err != nil {
		return nil, err
	}
	return scanTasksWithAssignee(rows)
}
