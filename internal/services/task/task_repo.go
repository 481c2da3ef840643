package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrTaskNotFound = errors.New("task not found")

const taskColumns = `t.id, t.title, t.description, t.status, t.priority, t.tags, t.due_date,
       t.created_by, t.assigned_to, t.project_id, t.deleted_at, t.created_at, t.updated_at`

// TaskRepo handles database operations for tasks. Reads join the owning
// project so tasks under a soft-deleted project disappear with it.
type TaskRepo struct {
	db *sqlx.DB
}

func NewTaskRepo(db *sqlx.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

func (r *TaskRepo) Create(ctx context.Context, req *CreateTaskRequest, createdBy, assignedTo string) (*Task, error) {
	query := `
        INSERT INTO tasks (title, description, status, priority, tags, due_date, created_by, assigned_to, project_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, title, description, status, priority, tags, due_date, created_by, assigned_to, project_id, deleted_at, created_at, updated_at
    `

	var t Task
	err := r.db.GetContext(ctx, &t, query,
		req.Title, req.Description, req.Status, req.Priority, pq.Array(req.Tags),
		req.dueAt, createdBy, assignedTo, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return &t, nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id string) (*Task, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM tasks t
        JOIN projects p ON p.id = t.project_id AND p.deleted_at IS NULL
        WHERE t.id = $1 AND t.deleted_at IS NULL
    `, taskColumns)

	var t Task
	err := r.db.GetContext(ctx, &t, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return &t, nil
}

func (r *TaskRepo) List(ctx context.Context, filter ListTasksFilter) ([]*Task, error) {
	query, args := buildListQuery(filter)

	var tasks []*Task
	err := r.db.SelectContext(ctx, &tasks, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// buildListQuery assembles the WHERE clause from the present predicates.
// Every predicate is ANDed; absent ones impose no constraint.
func buildListQuery(filter ListTasksFilter) (string, []interface{}) {
	conds := []string{"t.deleted_at IS NULL"}
	args := []interface{}{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != "" {
		add("t.status = $%d", filter.Status)
	}
	if filter.Priority != "" {
		add("t.priority = $%d", filter.Priority)
	}
	if filter.Search != "" {
		add("t.title ILIKE '%%' || $%d || '%%'", filter.Search)
	}
	if filter.Tag != "" {
		add("$%d = ANY(t.tags)", filter.Tag)
	}
	if filter.AssignedTo != "" {
		add("t.assigned_to = $%d", filter.AssignedTo)
	}
	if filter.CreatedBy != "" {
		add("t.created_by = $%d", filter.CreatedBy)
	}
	if filter.ProjectID != "" {
		add("t.project_id = $%d", filter.ProjectID)
	}

	query := fmt.Sprintf(`
        SELECT %s
        FROM tasks t
        JOIN projects p ON p.id = t.project_id AND p.deleted_at IS NULL
        WHERE %s
        ORDER BY t.created_at DESC
    `, taskColumns, strings.Join(conds, " AND "))

	return query, args
}

// Update applies the non-nil fields. Callers are expected to have masked the
// request down to the subject's writable fields already.
func (r *TaskRepo) Update(ctx context.Context, id string, req *UpdateTaskRequest) (*Task, error) {
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

	if req.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *req.Status)
	}

	if req.Priority != nil {
		setParts = append(setParts, fmt.Sprintf("priority = $%d", len(args)+1))
		args = append(args, *req.Priority)
	}

	if req.Tags != nil {
		setParts = append(setParts, fmt.Sprintf("tags = $%d", len(args)+1))
		args = append(args, pq.Array(*req.Tags))
	}

	if req.dueAt != nil {
		setParts = append(setParts, fmt.Sprintf("due_date = $%d", len(args)+1))
		args = append(args, *req.dueAt)
	}

	if req.AssignedTo != nil {
		setParts = append(setParts, fmt.Sprintf("assigned_to = $%d", len(args)+1))
		args = append(args, *req.AssignedTo)
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	setParts = append(setParts, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
        UPDATE tasks
        SET %s
        WHERE id = $%d AND deleted_at IS NULL
        RETURNING id, title, description, status, priority, tags, due_date, created_by, assigned_to, project_id, deleted_at, created_at, updated_at
    `, strings.Join(setParts, ", "), len(args))

	var t Task
	err := r.db.GetContext(ctx, &t, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return &t, nil
}

func (r *TaskRepo) SoftDelete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `
        UPDATE tasks
        SET deleted_at = NOW()
        WHERE id = $1 AND deleted_at IS NULL
    `, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// ListDueBetween returns live tasks with a due date in [from, to), optionally
// narrowed to one assignee. Used by the notification selector.
func (r *TaskRepo) ListDueBetween(ctx context.Context, from, to time.Time, assignedTo string) ([]*Task, error) {
	conds := []string{"t.deleted_at IS NULL", "t.due_date >= $1", "t.due_date < $2"}
	args := []interface{}{from, to}

	if assignedTo != "" {
		args = append(args, assignedTo)
		conds = append(conds, fmt.Sprintf("t.assigned_to = $%d", len(args)))
	}

	query := fmt.Sprintf(`
        SELECT %s
        FROM tasks t
        JOIN projects p ON p.id = t.project_id AND p.deleted_at IS NULL
        WHERE %s
        ORDER BY t.due_date ASC
    `, taskColumns, strings.Join(conds, " AND "))

	var tasks []*Task
	err := r.db.SelectContext(ctx, &tasks, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list due tasks: %w", err)
	}

	return tasks, nil
}
