package task

import (
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/taskdeck/taskdeck/internal/perrors"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
	StatusBlocked    Status = "blocked"
)

// Any status is reachable from any other: status is a free-form
// classification tag for the board, not a workflow gate.
func validStatus(s Status) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone, StatusBlocked:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func validPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Task struct {
	ID          string         `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description *string        `db:"description" json:"description,omitempty"`
	Status      Status         `db:"status" json:"status"`
	Priority    Priority       `db:"priority" json:"priority"`
	Tags        pq.StringArray `db:"tags" json:"tags"`
	DueDate     *time.Time     `db:"due_date" json:"dueDate,omitempty"`
	CreatedBy   string         `db:"created_by" json:"createdBy"`
	AssignedTo  string         `db:"assigned_to" json:"assignedTo"`
	ProjectID   string         `db:"project_id" json:"projectId"`
	DeletedAt   *time.Time     `db:"deleted_at" json:"deletedAt,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// CreateTaskRequest captures the task creation payload. AssignedTo is only
// honored for admins; everyone else self-assigns.
type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Status      Status   `json:"status,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	DueDate     string   `json:"dueDate"`
	ProjectID   string   `json:"projectId"`
	AssignedTo  string   `json:"assignedTo,omitempty"`

	dueAt time.Time
}

// Validate checks the payload before any mutation is attempted, collecting
// one entry per offending field. It also normalizes: defaults are applied,
// tags are trimmed in place with order and duplicates preserved.
func (r *CreateTaskRequest) Validate() error {
	var fields []perrors.FieldError

	if len(strings.TrimSpace(r.Title)) < 3 {
		fields = append(fields, perrors.FieldError{Field: "title", Message: "Title must be at least 3 characters"})
	}

	if r.Status == "" {
		r.Status = StatusTodo
	} else if !validStatus(r.Status) {
		fields = append(fields, perrors.FieldError{Field: "status", Message: "Status must be one of todo, in-progress, done, blocked"})
	}

	if r.Priority == "" {
		r.Priority = PriorityLow
	} else if !validPriority(r.Priority) {
		fields = append(fields, perrors.FieldError{Field: "priority", Message: "Priority must be one of low, medium, high, urgent"})
	}

	if tags, ferr := normalizeTags(r.Tags); ferr != nil {
		fields = append(fields, *ferr)
	} else {
		r.Tags = tags
	}

	if r.DueDate == "" {
		fields = append(fields, perrors.FieldError{Field: "dueDate", Message: "Due date is required"})
	} else if due, err := time.Parse(time.RFC3339, r.DueDate); err != nil {
		fields = append(fields, perrors.FieldError{Field: "dueDate", Message: "Due date must be a valid RFC 3339 timestamp"})
	} else {
		r.dueAt = due
	}

	if strings.TrimSpace(r.ProjectID) == "" {
		fields = append(fields, perrors.FieldError{Field: "projectId", Message: "Project is required"})
	}

	if len(fields) > 0 {
		return perrors.NewErrValidation("Invalid task payload", fields)
	}
	return nil
}

// UpdateTaskRequest captures a partial update; nil means "leave unchanged".
type UpdateTaskRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	DueDate     *string   `json:"dueDate,omitempty"`
	AssignedTo  *string   `json:"assignedTo,omitempty"`

	dueAt *time.Time
}

func (r *UpdateTaskRequest) Validate() error {
	var fields []perrors.FieldError

	if r.Title != nil && len(strings.TrimSpace(*r.Title)) < 3 {
		fields = append(fields, perrors.FieldError{Field: "title", Message: "Title must be at least 3 characters"})
	}

	if r.Status != nil && !validStatus(*r.Status) {
		fields = append(fields, perrors.FieldError{Field: "status", Message: "Status must be one of todo, in-progress, done, blocked"})
	}

	if r.Priority != nil && !validPriority(*r.Priority) {
		fields = append(fields, perrors.FieldError{Field: "priority", Message: "Priority must be one of low, medium, high, urgent"})
	}

	if r.Tags != nil {
		if tags, ferr := normalizeTags(*r.Tags); ferr != nil {
			fields = append(fields, *ferr)
		} else {
			*r.Tags = tags
		}
	}

	if r.DueDate != nil {
		if due, err := time.Parse(time.RFC3339, *r.DueDate); err != nil {
			fields = append(fields, perrors.FieldError{Field: "dueDate", Message: "Due date must be a valid RFC 3339 timestamp"})
		} else {
			r.dueAt = &due
		}
	}

	if len(fields) > 0 {
		return perrors.NewErrValidation("Invalid task payload", fields)
	}
	return nil
}

// normalizeTags trims each tag and rejects blanks. Duplicates are permitted
// and order is preserved exactly as given.
func normalizeTags(tags []string) ([]string, *perrors.FieldError) {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			return nil, &perrors.FieldError{Field: "tags", Message: "Tags must be non-empty strings"}
		}
		out = append(out, trimmed)
	}
	return out, nil
}

// ListTasksFilter holds independently combinable predicates; all present
// predicates are ANDed. A zero value means "no constraint on that field".
type ListTasksFilter struct {
	Status     string
	Priority   string
	Search     string
	Tag        string
	AssignedTo string
	CreatedBy  string
	ProjectID  string
}
