package controllers

import (
	"context"
	"errors"
	"fmt"

	json "github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/taskdeck/taskdeck/internal/api/authenticator"
	"github.com/taskdeck/taskdeck/internal/api/response"
	"github.com/taskdeck/taskdeck/internal/perrors"
	"github.com/taskdeck/taskdeck/internal/policy"
)

// requestContext returns a baseline context for handlers. fasthttp does not
// provide a standard context, so we start from the trace context the
// middleware extracted, falling back to Background.
func requestContext(ctx *fasthttp.RequestCtx) context.Context {
	if traceCtx, ok := ctx.UserValue("traceCtx").(context.Context); ok {
		return traceCtx
	}
	return context.Background()
}

// currentSubject reads the identity the auth middleware resolved. Handlers
// never look at the credential themselves.
func currentSubject(ctx *fasthttp.RequestCtx) (policy.Subject, bool) {
	claims, ok := ctx.UserValue("userClaims").(*authenticator.UserClaims)
	if !ok || claims == nil {
		return policy.Subject{}, false
	}
	return policy.Subject{UserID: claims.UserID, Role: policy.Role(claims.Role)}, true
}

func parseBody(ctx *fasthttp.RequestCtx, target any) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return errors.New("request body is empty")
	}

	return json.Unmarshal(body, target)
}

func writeError(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, err error) {
	response.NewResponse[any](stdCtx, message, nil).WithError(err).Write(ctx)
}

func writeOK(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, data any) {
	response.NewResponse(stdCtx, message, data).Write(ctx)
}

func writeUnauthorized(ctx *fasthttp.RequestCtx, stdCtx context.Context) {
	writeError(ctx, stdCtx, "Unauthorized", perrors.NewErrUnauthorized("Unauthorized", errors.New("no subject")))
}

func pathParam(ctx *fasthttp.RequestCtx, key string) (string, error) {
	val := ctx.UserValue(key)
	if val == nil {
		return "", fmt.Errorf("%s is required", key)
	}

	return fmt.Sprint(val), nil
}

// pathID is pathParam for UUID route segments. Rejecting malformed IDs here
// keeps garbage out of the repos, which all bind IDs as uuid columns.
func pathID(ctx *fasthttp.RequestCtx, key string) (string, error) {
	val, err := pathParam(ctx, key)
	if err != nil {
		return "", err
	}

	if _, err := uuid.Parse(val); err != nil {
		return "", fmt.Errorf("%s must be a valid UUID", key)
	}

	return val, nil
}

func queryString(ctx *fasthttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}
