package task

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/perrors"
)

func validCreate() *CreateTaskRequest {
	return &CreateTaskRequest{
		Title:     "Ship the quarterly report",
		DueDate:   "2024-03-11T09:00:00Z",
		ProjectID: "p-1",
	}
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var perr perrors.Err
	require.True(t, errors.As(err, &perr))
	names := make([]string, 0, len(perr.Fields))
	for _, f := range perr.Fields {
		names = append(names, f.Field)
	}
	return names
}

func TestCreateTaskRequestValidate(t *testing.T) {
	t.Run("valid payload applies defaults", func(t *testing.T) {
		req := validCreate()
		require.NoError(t, req.Validate())
		assert.Equal(t, StatusTodo, req.Status)
		assert.Equal(t, PriorityLow, req.Priority)
		assert.False(t, req.dueAt.IsZero())
	})

	t.Run("explicit status and priority kept", func(t *testing.T) {
		req := validCreate()
		req.Status = StatusBlocked
		req.Priority = PriorityUrgent
		require.NoError(t, req.Validate())
		assert.Equal(t, StatusBlocked, req.Status)
		assert.Equal(t, PriorityUrgent, req.Priority)
	})

	tests := []struct {
		name   string
		mutate func(*CreateTaskRequest)
		field  string
	}{
		{"short title", func(r *CreateTaskRequest) { r.Title = "ab" }, "title"},
		{"whitespace title", func(r *CreateTaskRequest) { r.Title = "  a  " }, "title"},
		{"unknown status", func(r *CreateTaskRequest) { r.Status = "paused" }, "status"},
		{"unknown priority", func(r *CreateTaskRequest) { r.Priority = "critical" }, "priority"},
		{"missing due date", func(r *CreateTaskRequest) { r.DueDate = "" }, "dueDate"},
		{"garbage due date", func(r *CreateTaskRequest) { r.DueDate = "tomorrow" }, "dueDate"},
		{"blank tag", func(r *CreateTaskRequest) { r.Tags = []string{"a", "   "} }, "tags"},
		{"missing project", func(r *CreateTaskRequest) { r.ProjectID = "" }, "projectId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreate()
			tt.mutate(req)
			err := req.Validate()
			require.Error(t, err)
			assert.Contains(t, fieldsOf(t, err), tt.field)
		})
	}

	t.Run("one entry per offending field", func(t *testing.T) {
		req := &CreateTaskRequest{Title: "x", Status: "nope", DueDate: "bad"}
		err := req.Validate()
		require.Error(t, err)
		assert.ElementsMatch(t, []string{"title", "status", "dueDate", "projectId"}, fieldsOf(t, err))
	})
}

func TestCreateTaskRequestTagNormalization(t *testing.T) {
	req := validCreate()
	req.Tags = []string{" a ", "b", "a"}
	require.NoError(t, req.Validate())

	// Duplicates and order survive; only whitespace is trimmed.
	assert.Equal(t, []string{"a", "b", "a"}, req.Tags)
}

func TestUpdateTaskRequestValidate(t *testing.T) {
	str := func(s string) *string { return &s }
	status := func(s Status) *Status { return &s }
	priority := func(p Priority) *Priority { return &p }

	t.Run("empty update is valid", func(t *testing.T) {
		assert.NoError(t, (&UpdateTaskRequest{}).Validate())
	})

	t.Run("partial fields validated independently", func(t *testing.T) {
		req := &UpdateTaskRequest{
			Title:    str("ok title"),
			Status:   status(StatusDone),
			Priority: priority(PriorityHigh),
			DueDate:  str("2024-04-01T00:00:00Z"),
		}
		require.NoError(t, req.Validate())
		require.NotNil(t, req.dueAt)
	})

	t.Run("bad fields collected", func(t *testing.T) {
		req := &UpdateTaskRequest{
			Title:   str("no"),
			Status:  status("archived"),
			DueDate: str("not-a-date"),
		}
		err := req.Validate()
		require.Error(t, err)
		assert.ElementsMatch(t, []string{"title", "status", "dueDate"}, fieldsOf(t, err))
	})

	t.Run("tags trimmed in place", func(t *testing.T) {
		tags := []string{" x ", "x"}
		req := &UpdateTaskRequest{Tags: &tags}
		require.NoError(t, req.Validate())
		assert.Equal(t, []string{"x", "x"}, *req.Tags)
	})
}
