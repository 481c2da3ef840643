package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"golang.org/x/oauth2"

	"github.com/taskdeck/taskdeck/internal/api/authenticator"
	"github.com/taskdeck/taskdeck/internal/api/ratelimit"
	"github.com/taskdeck/taskdeck/internal/perrors"
	"github.com/taskdeck/taskdeck/internal/services"
	user2 "github.com/taskdeck/taskdeck/internal/services/user"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Role   string  `json:"role"`
	Avatar *string `json:"avatar,omitempty"`
}

func toUserResponse(u *user2.User) UserResponse {
	return UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   string(u.Role),
		Avatar: u.Avatar,
	}
}

func RegisterAuthRoutes(r *router.Router, svc *services.Services, auth *authenticator.Authenticator, limiter *ratelimit.LoginLimiter) {
	r.GET("/api/auth/enabled", func(ctx *fasthttp.RequestCtx) {
		writeOK(ctx, requestContext(ctx), "success", map[string]any{
			"sso_enabled": auth.SSOEnabled(),
		})
	})

	// Self-service signup; always produces a member.
	r.POST("/api/auth/register", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		var req user2.RegisterRequest
		if err := parseBody(ctx, &req); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		created, err := svc.User.Register(stdCtx, &req)
		if err != nil {
			switch {
			case errors.Is(err, user2.ErrEmailTaken):
				writeError(ctx, stdCtx, "Email already in use", perrors.NewErrConflict("Email already in use", err))
			default:
				writeError(ctx, stdCtx, "Failed to register", err)
			}
			return
		}

		writeOK(ctx, stdCtx, "User registered successfully", toUserResponse(created))
	})

	// Login with email/password
	r.POST("/api/auth/login", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		var req LoginRequest
		if err := parseBody(ctx, &req); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if req.Email == "" || req.Password == "" {
			writeError(ctx, stdCtx, "Email and password are required", perrors.NewErrInvalidRequest("Email and password are required", errors.New("missing credentials")))
			return
		}

		if limiter != nil {
			key := fmt.Sprintf("%s:%s", req.Email, ctx.RemoteIP())
			if ok, _ := limiter.Allow(stdCtx, key); !ok {
				writeError(ctx, stdCtx, "Too many login attempts", perrors.New(perrors.ErrCode{Code: "too_many_requests", Status: fasthttp.StatusTooManyRequests}, "Too many login attempts", errors.New("rate limited")))
				return
			}
		}

		// A wrong password and an unknown email produce the same answer.
		u, err := svc.User.Authenticate(stdCtx, req.Email, req.Password)
		if err != nil {
			writeError(ctx, stdCtx, "Invalid credentials", perrors.NewErrUnauthorized("Invalid credentials", err))
			return
		}

		token, err := auth.GenerateToken(u.ID, u.Email, u.Name, string(u.Role))
		if err != nil {
			writeError(ctx, stdCtx, "Failed to generate token", err)
			return
		}

		setAccessTokenCookie(ctx, token, time.Now().Add(24*time.Hour))

		writeOK(ctx, stdCtx, "Logged in successfully", LoginResponse{
			Token: token,
			User:  toUserResponse(u),
		})
	})

	// Get current user info
	r.GET("/api/auth/me", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		sub, ok := currentSubject(ctx)
		if !ok {
			writeUnauthorized(ctx, stdCtx)
			return
		}

		u, err := svc.User.GetByID(stdCtx, sub.UserID)
		if err != nil {
			if errors.Is(err, user2.ErrUserNotFound) {
				writeError(ctx, stdCtx, "User not found", perrors.NewErrNotFound("User not found", err))
				return
			}
			writeError(ctx, stdCtx, "Failed to get user", err)
			return
		}

		writeOK(ctx, stdCtx, "success", toUserResponse(u))
	})

	// Logout clears the cookie; the token itself simply expires.
	r.POST("/api/auth/logout", func(ctx *fasthttp.RequestCtx) {
		setAccessTokenCookie(ctx, "", time.Now().Add(-1*time.Hour))
		writeOK(ctx, requestContext(ctx), "Logged out successfully", nil)
	})

	if auth.SSOEnabled() {
		registerSSORoutes(r, auth)
	}
}

func setAccessTokenCookie(ctx *fasthttp.RequestCtx, token string, expiry time.Time) {
	var cookie fasthttp.Cookie
	cookie.SetKey("access_token")
	cookie.SetValue(token)
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	cookie.SetSecure(false) // Set to true in production (HTTPS)
	cookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	cookie.SetExpire(expiry)
	ctx.Response.Header.SetCookie(&cookie)
}

func registerSSORoutes(r *router.Router, auth *authenticator.Authenticator) {
	r.GET("/api/auth/sso/login", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		csrf := make([]byte, 16)
		rand.Read(csrf)

		state := authenticator.OAuthState{
			CSRF:      base64.RawURLEncoding.EncodeToString(csrf),
			Redirect:  "http://localhost:3000",
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(5 * time.Minute).Unix(),
		}

		encodedState, err := auth.GetSignedState(state)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create signed state", err)
			return
		}

		url := auth.AuthCodeURL(encodedState, oauth2.SetAuthURLParam("audience", auth.Audience()))
		ctx.Redirect(url, fasthttp.StatusTemporaryRedirect)
	})

	r.GET("/api/auth/sso/callback", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		encodedState := ctx.URI().QueryArgs().Peek("state")
		code := ctx.URI().QueryArgs().Peek("code")

		if encodedState == nil || code == nil {
			writeError(ctx, stdCtx, "missing parameters", perrors.NewErrInvalidRequest("missing parameters", errors.New("missing parameters")))
			return
		}

		state, err := auth.VerifySignedState(string(encodedState))
		if err != nil {
			writeError(ctx, stdCtx, "Failed to decode state", err)
			return
		}

		token, err := auth.Exchange(stdCtx, string(code))
		if err != nil {
			writeError(ctx, stdCtx, "Failed to exchange token", err)
			return
		}

		if _, err := auth.VerifyIDToken(stdCtx, token); err != nil {
			writeError(ctx, stdCtx, "Failed to verify ID token", err)
			return
		}

		setAccessTokenCookie(ctx, token.AccessToken, time.Now().Add(1*time.Hour))
		ctx.Redirect(state.Redirect, fasthttp.StatusFound)
	})
}
