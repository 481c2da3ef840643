package project

import (
	"time"

	"github.com/lib/pq"
)

type Status string

const (
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Project is a board of tasks shared by a team. Progress and Status are
// derived from the live task population on every read; the stored columns
// only hold the seed computed at creation and are never authoritative.
type Project struct {
	ID          string         `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description *string        `db:"description" json:"description,omitempty"`
	Team        pq.StringArray `db:"team" json:"team"`
	Progress    int            `db:"progress" json:"progress"`
	Status      Status         `db:"status" json:"status"`
	CreatedBy   string         `db:"created_by" json:"createdBy"`
	DeletedAt   *time.Time     `db:"deleted_at" json:"deletedAt,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

type CreateProjectRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Team        []string `json:"team,omitempty"`
}

// UpdateProjectRequest captures a partial update. Progress and status are
// deliberately absent: they cannot be set through the API.
type UpdateProjectRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Team        *[]string `json:"team,omitempty"`
}
