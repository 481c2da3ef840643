package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/policy"
	"github.com/taskdeck/taskdeck/internal/services/task"
)

func TestDueWindow(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	from, to := dueWindow(now)

	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), to)

	contains := func(due time.Time) bool {
		return !due.Before(from) && due.Before(to)
	}

	assert.True(t, contains(time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)))
	assert.True(t, contains(time.Date(2024, 3, 11, 23, 59, 59, 0, time.UTC)))
	assert.False(t, contains(time.Date(2024, 3, 12, 0, 0, 1, 0, time.UTC)))
	assert.False(t, contains(time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)))
}

func TestDueWindowLateInTheDay(t *testing.T) {
	// The window is calendar-based, so a late "now" still covers all of
	// tomorrow rather than sliding into the day after.
	now := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)
	from, to := dueWindow(now)

	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), to)
}

type fakeTaskSource struct {
	from, to   time.Time
	assignedTo string
	tasks      []*task.Task
}

func (f *fakeTaskSource) ListDueBetween(_ context.Context, from, to time.Time, assignedTo string) ([]*task.Task, error) {
	f.from, f.to, f.assignedTo = from, to, assignedTo
	return f.tasks, nil
}

func TestDueTomorrowScoping(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("member sees only own assignments", func(t *testing.T) {
		src := &fakeTaskSource{}
		svc := &NotificationService{tasks: src, now: func() time.Time { return now }}

		_, err := svc.DueTomorrow(context.Background(), policy.Subject{UserID: "u-bob", Role: policy.RoleMember})
		require.NoError(t, err)
		assert.Equal(t, "u-bob", src.assignedTo)
		assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), src.from)
	})

	t.Run("admin sees all", func(t *testing.T) {
		src := &fakeTaskSource{}
		svc := &NotificationService{tasks: src, now: func() time.Time { return now }}

		_, err := svc.DueTomorrow(context.Background(), policy.Subject{UserID: "u-admin", Role: policy.RoleAdmin})
		require.NoError(t, err)
		assert.Empty(t, src.assignedTo)
	})

	t.Run("nil result becomes empty slice", func(t *testing.T) {
		svc := &NotificationService{tasks: &fakeTaskSource{}, now: func() time.Time { return now }}
		tasks, err := svc.DueTomorrow(context.Background(), policy.Subject{UserID: "u-bob", Role: policy.RoleMember})
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})
}
