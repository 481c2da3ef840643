package authenticator

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/bytedance/sonic"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/taskdeck/taskdeck/internal/config"
)

const tokenTTL = 24 * time.Hour

// UserClaims is the subject identity carried by an access token. It is
// resolved once per request at the boundary and passed explicitly to
// handlers; the role still comes from the user directory on sensitive paths.
type UserClaims struct {
	UserID string `json:"sub"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

type localClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator issues and verifies locally signed HS256 access tokens, and
// optionally validates tokens from an external OIDC issuer when one is
// configured. The OIDC path is the opaque "credential verifier": we consume
// its verdict, we do not reimplement it.
type Authenticator struct {
	provider *oidc.Provider
	oauth2.Config

	secret       []byte
	stateSecret  string
	issuer       string
	jwksProvider *jwks.CachingProvider
	audience     string
	ssoEnabled   bool
}

func New(conf *config.Config) (*Authenticator, error) {
	if conf.JWT_SECRET == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	a := &Authenticator{
		secret:   []byte(conf.JWT_SECRET),
		audience: "taskdeck-api",
	}

	if conf.OIDC_DOMAIN == "" {
		return a, nil
	}

	issuer := "https://" + conf.OIDC_DOMAIN + "/"

	provider, err := oidc.NewProvider(context.Background(), issuer)
	if err != nil {
		return nil, err
	}

	issuerURL, err := url.Parse(issuer)
	if err != nil {
		return nil, err
	}

	a.provider = provider
	a.Config = oauth2.Config{
		ClientID:     conf.OIDC_CLIENT_ID,
		ClientSecret: conf.OIDC_CLIENT_SECRET,
		RedirectURL:  conf.OIDC_CALLBACK_URL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}
	a.stateSecret = conf.STATE_SECRET
	a.issuer = issuer
	a.jwksProvider = jwks.NewCachingProvider(issuerURL, 5*time.Minute)
	a.ssoEnabled = true

	return a, nil
}

func (a *Authenticator) SSOEnabled() bool {
	return a.ssoEnabled
}

func (a *Authenticator) Audience() string {
	return a.audience
}

// GenerateToken mints a local HS256 access token for an authenticated user.
func (a *Authenticator) GenerateToken(userID, email, name, role string) (string, error) {
	now := time.Now()
	claims := localClaims{
		Email: email,
		Name:  name,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Audience:  jwt.ClaimStrings{a.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// VerifyAccessToken resolves a bearer credential into a subject identity.
// Locally issued tokens are tried first; when SSO is configured, tokens from
// the external issuer are validated against its JWKS.
func (a *Authenticator) VerifyAccessToken(ctx context.Context, token string) (*UserClaims, error) {
	claims, localErr := a.verifyLocalToken(token)
	if localErr == nil {
		return claims, nil
	}

	if !a.ssoEnabled {
		return nil, localErr
	}

	return a.verifyIssuerToken(ctx, token)
}

func (a *Authenticator) verifyLocalToken(token string) (*UserClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &localClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithAudience(a.audience))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*localClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}

	return &UserClaims{
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   claims.Role,
	}, nil
}

func (a *Authenticator) verifyIssuerToken(ctx context.Context, token string) (*UserClaims, error) {
	jwtValidator, err := validator.New(a.jwksProvider.KeyFunc, validator.RS256, a.issuer, []string{a.audience})
	if err != nil {
		return nil, err
	}

	payload, err := jwtValidator.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	validated, ok := payload.(*validator.ValidatedClaims)
	if !ok {
		return nil, errors.New("invalid token payload")
	}

	return &UserClaims{UserID: validated.RegisteredClaims.Subject}, nil
}

// VerifyIDToken verifies that an *oauth2.Token is a valid *oidc.IDToken.
func (a *Authenticator) VerifyIDToken(ctx context.Context, token *oauth2.Token) (*oidc.IDToken, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("no id_token field in oauth2 token")
	}

	oidcConfig := &oidc.Config{
		ClientID: a.ClientID,
	}

	return a.provider.Verifier(oidcConfig).Verify(ctx, rawIDToken)
}

type OAuthState struct {
	CSRF      string `json:"csrf"`
	Redirect  string `json:"redirect"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

func (a *Authenticator) GetSignedState(state OAuthState) (string, error) {
	payload, err := sonic.Marshal(state)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, []byte(a.stateSecret))
	mac.Write(payload)
	sig := mac.Sum(nil)

	combined := append(payload, sig...)
	return base64.StdEncoding.EncodeToString(combined), nil
}

func (a *Authenticator) VerifySignedState(encodedState string) (*OAuthState, error) {
	raw, err := base64.StdEncoding.DecodeString(encodedState)
	if err != nil {
		return nil, errors.New("invalid base64")
	}

	if len(raw) < sha256.Size {
		return nil, errors.New("state too short")
	}

	payload := raw[:len(raw)-sha256.Size]
	sig := raw[len(raw)-sha256.Size:]

	mac := hmac.New(sha256.New, []byte(a.stateSecret))
	mac.Write(payload)
	expectedSig := mac.Sum(nil)
	if !hmac.Equal(sig, expectedSig) {
		return nil, errors.New("invalid state signature")
	}

	var state OAuthState
	if err := sonic.Unmarshal(payload, &state); err != nil {
		return nil, errors.New("invalid state payload")
	}

	if time.Now().Unix() > state.ExpiresAt {
		return nil, errors.New("state expired")
	}

	return &state, nil
}
