// Package notification derives the "due tomorrow" reminder feed. It is a
// read-only view recomputed on every call: nothing is persisted, deduped or
// acknowledged.
package notification

import (
	"context"
	"time"

	"github.com/taskdeck/taskdeck/internal/policy"
	"github.com/taskdeck/taskdeck/internal/services/task"
)

// TaskSource is the slice of the task store the selector reads. Satisfied by
// *task.TaskRepo.
type TaskSource interface {
	ListDueBetween(ctx context.Context, from, to time.Time, assignedTo string) ([]*task.Task, error)
}

type NotificationService struct {
	tasks TaskSource
	now   func() time.Time
}

func NewNotificationService(tasks TaskSource) *NotificationService {
	return &NotificationService{tasks: tasks, now: time.Now}
}

// DueTomorrow returns the tasks due on the calendar day after "now",
// restricted to the subject's assignments unless the subject is an admin.
func (s *NotificationService) DueTomorrow(ctx context.Context, sub policy.Subject) ([]*task.Task, error) {
	from, to := dueWindow(s.now())

	assignedTo := ""
	if sub.Role != policy.RoleAdmin {
		assignedTo = sub.UserID
	}

	tasks, err := s.tasks.ListDueBetween(ctx, from, to, assignedTo)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}

	return tasks, nil
}

// dueWindow is the UTC calendar day exactly one day ahead of now, not a
// rolling 24h window: a task due at 23:59 tomorrow is included even if now
// is 00:00 today.
func dueWindow(now time.Time) (from, to time.Time) {
	tomorrow := now.UTC().AddDate(0, 0, 1)
	from = time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, 1)
}
