package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/policy"
)

func TestMaskUpdateMemberAssignee(t *testing.T) {
	// A member assigned to someone else's task sends a full payload; only
	// the status survives the mask, and the request still succeeds.
	res := policy.Resource{OwnerID: "u-creator", AssigneeID: "u-member"}
	dec := policy.Decide(policy.ProfileProjectScoped, policy.Subject{UserID: "u-member", Role: policy.RoleMember}, policy.KindTask, policy.OpUpdate, res)
	require.True(t, dec.Allow)

	title := "Hijacked title"
	status := StatusDone
	priority := PriorityUrgent
	assignee := "u-member"
	req := &UpdateTaskRequest{
		Title:      &title,
		Status:     &status,
		Priority:   &priority,
		AssignedTo: &assignee,
	}
	require.NoError(t, req.Validate())

	masked := maskUpdate(dec, req)

	assert.Nil(t, masked.Title)
	assert.Nil(t, masked.Priority)
	assert.Nil(t, masked.AssignedTo)
	require.NotNil(t, masked.Status)
	assert.Equal(t, StatusDone, *masked.Status)
}

func TestMaskUpdateCreatorKeepsFieldsButNotAssignee(t *testing.T) {
	res := policy.Resource{OwnerID: "u-creator", AssigneeID: "u-creator"}
	dec := policy.Decide(policy.ProfileProjectScoped, policy.Subject{UserID: "u-creator", Role: policy.RoleMember}, policy.KindTask, policy.OpUpdate, res)
	require.True(t, dec.Allow)

	title := "Renamed by its creator"
	due := "2024-05-01T12:00:00Z"
	assignee := "u-other"
	req := &UpdateTaskRequest{Title: &title, DueDate: &due, AssignedTo: &assignee}
	require.NoError(t, req.Validate())

	masked := maskUpdate(dec, req)

	require.NotNil(t, masked.Title)
	assert.Equal(t, title, *masked.Title)
	require.NotNil(t, masked.DueDate)
	require.NotNil(t, masked.dueAt)
	assert.Nil(t, masked.AssignedTo)
}

func TestMaskUpdateAdminKeepsEverything(t *testing.T) {
	res := policy.Resource{OwnerID: "u-creator", AssigneeID: "u-member"}
	dec := policy.Decide(policy.ProfileProjectScoped, policy.Subject{UserID: "u-admin", Role: policy.RoleAdmin}, policy.KindTask, policy.OpUpdate, res)
	require.True(t, dec.Allow)

	title := "Retitled"
	assignee := "u-other"
	req := &UpdateTaskRequest{Title: &title, AssignedTo: &assignee}
	require.NoError(t, req.Validate())

	masked := maskUpdate(dec, req)

	require.NotNil(t, masked.Title)
	require.NotNil(t, masked.AssignedTo)
	assert.Equal(t, assignee, *masked.AssignedTo)
}
