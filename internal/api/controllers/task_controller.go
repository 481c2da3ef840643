package controllers

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/taskdeck/taskdeck/internal/perrors"
	"github.com/taskdeck/taskdeck/internal/policy"
	"github.com/taskdeck/taskdeck/internal/services"
	task2 "github.com/taskdeck/taskdeck/internal/services/task"
)

func taskFiltersFromQuery(ctx *fasthttp.RequestCtx) task2.ListTasksFilter {
	return task2.ListTasksFilter{
		Status:   queryString(ctx, "status"),
		Priority: queryString(ctx, "priority"),
		Search:   queryString(ctx, "search"),
		Tag:      queryString(ctx, "tag"),
	}
}

func RegisterTaskRoutes(r *router.Router, svc *services.Services) {
	// Personal task list: members see tasks they created.
	r.GET("/api/tasks", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		sub, ok := currentSubject(ctx)
		if !ok {
			writeUnauthorized(ctx, stdCtx)
			return
		}

		filter := taskFiltersFromQuery(ctx)
		filter.ProjectID = queryString(ctx, "projectId")

		tasks, err := svc.Task.List(stdCtx, policy.ProfileCreatorScoped, sub, filter)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list tasks", err)
			return
		}

		writeOK(ctx, stdCtx, "Tasks retrieved successfully", tasks)
	})

	// Create task
	r.POST("/api/tasks", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		sub, ok := currentSubject(ctx)
		if !ok {
			writeUnauthorized(ctx, stdCtx)
			return
		}

		var body task2.CreateTaskRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		created, err := svc.Task.Create(stdCtx, sub, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create task", err)
			return
		}

		writeOK(ctx, stdCtx, "Task created successfully", created)
	})

	// Get task by id, visible to its creator only
	r.GET("/api/tasks/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		sub, ok := currentSubject(ctx)
		if !ok {
			writeUnauthorized(ctx, stdCtx)
			return
		}

		id, err := pathID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		t, err := svc.Task.GetByID(stdCtx, policy.ProfileCreatorScoped, sub, id)
		if err != nil {
			if errors.Is(err, task2.ErrTaskNotFound) {
				writeError(ctx, stdCtx, "Task not found", perrors.NewErrNotFound("Task not found", err))
				return
			}
			writeError(ctx, stdCtx, "Failed to get task", err)
			return
		}

		writeOK(ctx, stdCtx, "Task retrieved successfully", t)
	})

	// Update task. The policy engine decides which fields the subject may
	// write; anything else in the payload is dropped at the store boundary.
	r.PUT("/api/tasks/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		sub, ok := currentSubject(ctx)
		if !ok {
			writeUnauthorized(ctx, stdCtx)
			return
		}

		id, err := pathID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		var body task2.UpdateTaskRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		updated, err := svc.Task.Update(stdCtx, sub, id, &body)
		if err != nil {
			if errors.Is(err, task2.ErrTaskNotFound) {
				writeError(ctx, stdCtx, "Task not found", perrors.NewErrNotFound("Task not found", err))
				return
			}
			writeError(ctx, stdCtx, "Failed to update task", err)
			return
		}

		writeOK(ctx, stdCtx, "Task updated successfully", updated)
	})

	// Status-only reclassification, the board drag-and-drop path.
	r.PATCH("/api/tasks/{id}/status", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		sub, ok := currentSubject(ctx)
		if !ok {
			writeUnauthorized(ctx, stdCtx)
			return
		}

		id, err := pathID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		var body struct {
			Status task2.Status `json:"status"`
		}
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		updated, err := svc.Task.UpdateStatus(stdCtx, sub, id, body.Status)
		if err != nil {
			if errors.Is(err, task2.ErrTaskNotFound) {
				writeError(ctx, stdCtx, "Task not found", perrors.NewErrNotFound("Task not found", err))
				return
			}
			writeError(ctx, stdCtx, "Failed to update task status", err)
			return
		}

		writeOK(ctx, stdCtx, "Task status updated successfully", updated)
	})

	// Soft-delete task, creator or admin
	r.DELETE("/api/tasks/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		sub, ok := currentSubject(ctx)
		if !ok {
			writeUnauthorized(ctx, stdCtx)
			return
		}

		id, err := pathID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		if err := svc.Task.SoftDelete(stdCtx, sub, id); err != nil {
			if errors.Is(err, task2.ErrTaskNotFound) {
				writeError(ctx, stdCtx, "Task not found", perrors.NewErrNotFound("Task not found", err))
				return
			}
			writeError(ctx, stdCtx, "Failed to delete task", err)
			return
		}

		writeOK(ctx, stdCtx, "Task deleted successfully", nil)
	})

	// Project board view: role-scoped task list for one project.
	r.GET("/api/projects/{id}/tasks", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		sub, ok := currentSubject(ctx)
		if !ok {
			writeUnauthorized(ctx, stdCtx)
			return
		}

		projectID, err := pathID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		filter := taskFiltersFromQuery(ctx)
		filter.ProjectID = projectID

		tasks, err := svc.Task.List(stdCtx, policy.ProfileProjectScoped, sub, filter)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list tasks", err)
			return
		}

		writeOK(ctx, stdCtx, "Tasks retrieved successfully", tasks)
	})
}
