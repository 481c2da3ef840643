package controllers

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/taskdeck/taskdeck/internal/perrors"
	"github.com/taskdeck/taskdeck/internal/policy"
	"github.com/taskdeck/taskdeck/internal/services"
	user2 "github.com/taskdeck/taskdeck/internal/services/user"
)

func RegisterUserRoutes(r *router.Router, svc *services.Services) {
	// List users, for team pickers and task assignment.
	r.GET("/api/users", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		sub, ok := currentSubject(ctx)
		if !ok {
			writeUnauthorized(ctx, stdCtx)
			return
		}

		if sub.Role != policy.RoleAdmin {
			writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Only admins can list users", errors.New("not an admin")))
			return
		}

		users, err := svc.User.List(stdCtx)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list users", err)
			return
		}

		out := make([]UserResponse, 0, len(users))
		for _, u := range users {
			out = append(out, toUserResponse(u))
		}

		writeOK(ctx, stdCtx, "Users retrieved successfully", out)
	})

	// Self-service profile update: name, email, password, avatar.
	r.PUT("/api/users/me", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		sub, ok := currentSubject(ctx)
		if !ok {
			writeUnauthorized(ctx, stdCtx)
			return
		}

		var req user2.UpdateProfileRequest
		if err := parseBody(ctx, &req); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		updated, err := svc.User.UpdateProfile(stdCtx, sub.UserID, &req)
		if err != nil {
			switch {
			case errors.Is(err, user2.ErrUserNotFound):
				writeError(ctx, stdCtx, "User not found", perrors.NewErrNotFound("User not found", err))
			case errors.Is(err, user2.ErrEmailTaken):
				writeError(ctx, stdCtx, "Email already in use", perrors.NewErrConflict("Email already in use", err))
			default:
				writeError(ctx, stdCtx, "Failed to update profile", err)
			}
			return
		}

		writeOK(ctx, stdCtx, "User updated successfully", toUserResponse(updated))
	})
}
