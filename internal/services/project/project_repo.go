package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrProjectNotFound       = errors.New("project not found")
	ErrProjectAlreadyDeleted = errors.New("project already deleted")
)

// ProjectRepo handles database operations for projects
type ProjectRepo struct {
	db *sqlx.DB
}

func NewProjectRepo(db *sqlx.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

func (r *ProjectRepo) Create(ctx context.Context, req *CreateProjectRequest, createdBy string, progress int, status Status) (*Project, error) {
	query := `
        INSERT INTO projects (title, description, team, progress, status, created_by)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, title, description, team, progress, status, created_by, deleted_at, created_at, updated_at
    `

	team := req.Team
	if team == nil {
		team = []string{}
	}

	var p Project
	err := r.db.GetContext(ctx, &p, query, req.Title, req.Description, pq.Array(team), progress, status, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return &p, nil
}

// GetByID retrieves a live project. Soft-deleted projects are addressable by
// primary key for audit only and never served here.
func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*Project, error) {
	query := `
        SELECT id, title, description, team, progress, status, created_by, deleted_at, created_at, updated_at
        FROM projects
        WHERE id = $1 AND deleted_at IS NULL
    `

	var p Project
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &p, nil
}

func (r *ProjectRepo) List(ctx context.Context) ([]*Project, error) {
	query := `
        SELECT id, title, description, team, progress, status, created_by, deleted_at, created_at, updated_at
        FROM projects
        WHERE deleted_at IS NULL
        ORDER BY created_at DESC
    `

	var projects []*Project
	err := r.db.SelectContext(ctx, &projects, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

// Update applies the non-nil fields. Replacing the team does not reassign
// existing tasks; it only changes future assignment eligibility.
func (r *ProjectRepo) Update(ctx context.Context, id string, req *UpdateProjectRequest) (*Project, error) {
	setParts := []string{}
	args := []interface{}{}

	if req.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", len(args)+1))
		args = append(args, *req.Title)
	}

	if req.Description != nil {
		setParts = append(setParts, fmt.Sprintf("description = $%d", len(args)+1))
		args = append(args, *req.Description)
	}

	if req.Team != nil {
		setParts = append(setParts, fmt.Sprintf("team = $%d", len(args)+1))
		args = append(args, pq.Array(*req.Team))
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	setParts = append(setParts, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
        UPDATE projects
        SET %s
        WHERE id = $%d AND deleted_at IS NULL
        RETURNING id, title, description, team, progress, status, created_by, deleted_at, created_at, updated_at
    `, strings.Join(setParts, ", "), len(args))

	var p Project
	err := r.db.GetContext(ctx, &p, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return &p, nil
}

// SoftDelete sets the delete marker once. A second delete surfaces
// ErrProjectAlreadyDeleted and never overwrites the original timestamp.
func (r *ProjectRepo) SoftDelete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `
        UPDATE projects
        SET deleted_at = NOW()
        WHERE id = $1 AND deleted_at IS NULL
    `, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var exists bool
		if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)`, id); err != nil {
			return fmt.Errorf("failed to check project: %w", err)
		}
		if exists {
			return ErrProjectAlreadyDeleted
		}
		return ErrProjectNotFound
	}

	return nil
}

// TaskCounts groups the live task population of the given projects.
type TaskCounts struct {
	ProjectID string `db:"project_id"`
	Total     int    `db:"total"`
	Done      int    `db:"done"`
}

// CountTasks returns per-project totals over non-deleted tasks, the input to
// the derived progress computation.
func (r *ProjectRepo) CountTasks(ctx context.Context, projectIDs []string) (map[string]TaskCounts, error) {
	counts := make(map[string]TaskCounts, len(projectIDs))
	if len(projectIDs) == 0 {
		return counts, nil
	}

	query := `
        SELECT project_id,
               COUNT(*) AS total,
               COUNT(*) FILTER (WHERE status = 'done') AS done
        FROM tasks
        WHERE deleted_at IS NULL AND project_id = ANY($1)
        GROUP BY project_id
    `

	var rows []TaskCounts
	err := r.db.SelectContext(ctx, &rows, query, pq.Array(projectIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	for _, row := range rows {
		counts[row.ProjectID] = row
	}

	return counts, nil
}

// CountTasksForUsers mirrors the historical creation-time seed: the initial
// advisory progress is computed from tasks assigned to the incoming team.
func (r *ProjectRepo) CountTasksForUsers(ctx context.Context, userIDs []string) (total, done int, err error) {
	if len(userIDs) == 0 {
		return 0, 0, nil
	}

	query := `
        SELECT COUNT(*) AS total,
               COUNT(*) FILTER (WHERE status = 'done') AS done
        FROM tasks
        WHERE deleted_at IS NULL AND assigned_to = ANY($1)
    `

	row := struct {
		Total int `db:"total"`
		Done  int `db:"done"`
	}{}
	if err := r.db.GetContext(ctx, &row, query, pq.Array(userIDs)); err != nil {
		return 0, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	return row.Total, row.Done, nil
}
