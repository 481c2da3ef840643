package controllers

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/taskdeck/taskdeck/internal/perrors"
	"github.com/taskdeck/taskdeck/internal/services"
	project2 "github.com/taskdeck/taskdeck/internal/services/project"
)

func RegisterProjectRoutes(r *router.Router, svc *services.Services) {
	// Create project, admin only
	r.POST("/api/projects", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		sub, ok := currentSubject(ctx)
		if !ok {
			writeUnauthorized(ctx, stdCtx)
			return
		}

		var body project2.CreateProjectRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		created, err := svc.Project.Create(stdCtx, sub, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create project", err)
			return
		}

		writeOK(ctx, stdCtx, "Project created successfully", created)
	})

	// List projects with derived progress
	r.GET("/api/projects", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		sub, ok := currentSubject(ctx)
		if !ok {
			writeUnauthorized(ctx, stdCtx)
			return
		}

		projects, err := svc.Project.List(stdCtx, sub)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list projects", err)
			return
		}

		writeOK(ctx, stdCtx, "Projects retrieved successfully", projects)
	})

	// Get project by id with derived progress
	r.GET("/api/projects/{id}", func(ctx *fasthttp.RequestCtx) {
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

		p, err := svc.Project.GetByID(stdCtx, sub, id)
		if err != nil {
			if errors.Is(err, project2.ErrProjectNotFound) {
				writeError(ctx, stdCtx, "Project not found", perrors.NewErrNotFound("Project not found", err))
				return
			}
			writeError(ctx, stdCtx, "Failed to get project", err)
			return
		}

		writeOK(ctx, stdCtx, "Project retrieved successfully", p)
	})

	// Update project, admin only
	r.PUT("/api/projects/{id}", func(ctx *fasthttp.RequestCtx) {
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

		var body project2.UpdateProjectRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		updated, err := svc.Project.Update(stdCtx, sub, id, &body)
		if err != nil {
			if errors.Is(err, project2.ErrProjectNotFound) {
				writeError(ctx, stdCtx, "Project not found", perrors.NewErrNotFound("Project not found", err))
				return
			}
			writeError(ctx, stdCtx, "Failed to update project", err)
			return
		}

		writeOK(ctx, stdCtx, "Project updated successfully", updated)
	})

	// Soft-delete project, admin only
	r.DELETE("/api/projects/{id}", func(ctx *fasthttp.RequestCtx) {
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

		if err := svc.Project.SoftDelete(stdCtx, sub, id); err != nil {
			switch {
			case errors.Is(err, project2.ErrProjectNotFound):
				writeError(ctx, stdCtx, "Project not found", perrors.NewErrNotFound("Project not found", err))
			case errors.Is(err, project2.ErrProjectAlreadyDeleted):
				writeError(ctx, stdCtx, "Project already deleted", perrors.NewErrConflict("Project already deleted", err))
			default:
				writeError(ctx, stdCtx, "Failed to delete project", err)
			}
			return
		}

		writeOK(ctx, stdCtx, "Project deleted successfully", nil)
	})
}
