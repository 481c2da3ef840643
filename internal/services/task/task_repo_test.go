package task

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListQueryNoFilters(t *testing.T) {
	query, args := buildListQuery(ListTasksFilter{})

	assert.Empty(t, args)
	assert.Contains(t, query, "t.deleted_at IS NULL")
	assert.Contains(t, query, "p.deleted_at IS NULL")
	assert.NotContains(t, query, "t.status =")
	assert.NotContains(t, query, "t.priority =")
}

func TestBuildListQueryAndSemantics(t *testing.T) {
	query, args := buildListQuery(ListTasksFilter{
		Status:   "done",
		Priority: "urgent",
	})

	require.Equal(t, []interface{}{"done", "urgent"}, args)
	assert.Contains(t, query, "t.status = $1")
	assert.Contains(t, query, "t.priority = $2")

	// Both predicates combine with AND, on top of the soft-delete guard.
	where := query[strings.Index(query, "WHERE"):]
	assert.Equal(t, 2, strings.Count(where, " AND "))
}

func TestBuildListQueryAllFilters(t *testing.T) {
	query, args := buildListQuery(ListTasksFilter{
		Status:     "in-progress",
		Priority:   "high",
		Search:     "report",
		Tag:        "finance",
		AssignedTo: "u-1",
		CreatedBy:  "u-2",
		ProjectID:  "p-1",
	})

	require.Len(t, args, 7)
	assert.Contains(t, query, "t.status = $1")
	assert.Contains(t, query, "t.priority = $2")
	assert.Contains(t, query, "t.title ILIKE '%' || $3 || '%'")
	assert.Contains(t, query, "$4 = ANY(t.tags)")
	assert.Contains(t, query, "t.assigned_to = $5")
	assert.Contains(t, query, "t.created_by = $6")
	assert.Contains(t, query, "t.project_id = $7")
}

func TestBuildListQuerySearchIsParameterized(t *testing.T) {
	_, args := buildListQuery(ListTasksFilter{Search: "'; DROP TABLE tasks; --"})
	require.Equal(t, []interface{}{"'; DROP TABLE tasks; --"}, args)
}
