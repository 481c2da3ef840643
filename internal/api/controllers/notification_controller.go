package controllers

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/taskdeck/taskdeck/internal/services"
)

func RegisterNotificationRoutes(r *router.Router, svc *services.Services) {
	// Reminder feed: tasks due on the next calendar day, recomputed per call.
	r.GET("/api/notifications", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		sub, ok := currentSubject(ctx)
		if !ok {
			writeUnauthorized(ctx, stdCtx)
			return
		}

		tasks, err := svc.Notification.DueTomorrow(stdCtx, sub)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to get notifications", err)
			return
		}

		writeOK(ctx, stdCtx, "Notifications retrieved successfully", tasks)
	})
}
