// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package auth validates Heimdall issued JWTs and extracts the principal.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	errs "github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
)

const (
	// PS256 is the default for Heimdall's JWT finalizer.
	signatureAlgorithm = validator.PS256
	defaultIssuer      = "heimdall"
	defaultAudience    = "lfx-v2-facet-query-service"
	defaultJWKSURL     = "http://heimdall:4457/.well-known/jwks"
	defaultClockSkew   = 5 * time.Second
	jwksCacheTTL       = 5 * time.Minute
)

// JWTAuthConfig holds the configuration parameters for JWT authentication.
type JWTAuthConfig struct {
	// JWKSURL is the URL to the JSON Web Key Set endpoint
	JWKSURL string
	// Audience is the intended audience for the JWT token
	Audience string
	// Issuer is the expected token issuer
	Issuer string
	// ClockSkew tolerates small clock differences on expiry checks
	ClockSkew time.Duration
}

func (c JWTAuthConfig) withDefaults() JWTAuthConfig {
	if c.JWKSURL == "" {
		c.JWKSURL = defaultJWKSURL
	}
	if c.Audience == "" {
		c.Audience = defaultAudience
	}
	if c.Issuer == "" {
		c.Issuer = defaultIssuer
	}
	if c.ClockSkew == 0 {
		c.ClockSkew = defaultClockSkew
	}
	return c
}

// HeimdallClaims contains extra custom claims we want to parse from the JWT
// token.
type HeimdallClaims struct {
	Principal string `json:"principal"`
	Email     string `json:"email,omitempty"`
}

// Validate provides additional middleware validation of any claims defined in
// HeimdallClaims.
func (c *HeimdallClaims) Validate(ctx context.Context) error {
	if c.Principal == "" {
		return errors.New("principal must be provided")
	}
	return nil
}

// JWTAuth implements port.Authenticator.
type JWTAuth struct {
	validator *validator.Validator
	config    JWTAuthConfig
}

// ParsePrincipal validates token, with or without its "Bearer " prefix, and
// returns the principal claim.
func (j *JWTAuth) ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error) {

	if j.validator == nil {
		return "", errors.New("JWT validator is not set up")
	}

	token = bearerToken(token)
	if token == "" {
		return "", errs.NewUnauthorized("missing bearer token")
	}

	parsedJWT, err := j.validator.ValidateToken(ctx, token)
	if err != nil {
		logger.ErrorContext(ctx, "failed to validate JWT token",
			"error", err,
		)
		return "", errs.NewUnauthorized(sanitize(err))
	}

	claims, ok := parsedJWT.(*validator.ValidatedClaims)
	if !ok {
		return "", errs.NewUnauthorized("failed to get validated authorization claims")
	}

	heimdall, ok := claims.CustomClaims.(*HeimdallClaims)
	if !ok {
		return "", errs.NewUnauthorized("failed to get custom authorization claims")
	}

	logger.DebugContext(ctx, "parsed principal", "principal", heimdall.Principal)
	return heimdall.Principal, nil
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// sanitize keeps the first two levels of a validation error. Deeper levels
// may describe keys and claims and are dropped. Colons approximate error
// nesting.
func sanitize(err error) string {
	msg := strings.Replace(err.Error(), ": go-jose/go-jose/jwt", "", 1)
	first := strings.Index(msg, ":")
	if first == -1 || first+1 >= len(msg) {
		return msg
	}
	if second := strings.Index(msg[first+1:], ":"); second != -1 {
		return msg[:first+second+1]
	}
	return msg
}

// NewJWTAuth creates a new JWT authentication service
func NewJWTAuth(config JWTAuthConfig) (*JWTAuth, error) {
	config = config.withDefaults()

	jwksURL, err := url.Parse(config.JWKSURL)
	if err != nil {
		slog.With("error", err).Error("invalid JWKS_URL")
		return nil, err
	}
	issuer, err := url.Parse(config.Issuer)
	if err != nil {
		slog.With("error", err).Error("invalid JWT issuer")
		return nil, err
	}
	provider := jwks.NewCachingProvider(issuer, jwksCacheTTL, jwks.WithCustomJWKSURI(jwksURL))

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		signatureAlgorithm,
		issuer.String(),
		[]string{config.Audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &HeimdallClaims{}
		}),
		validator.WithAllowedClockSkew(config.ClockSkew),
	)
	if err != nil {
		slog.With("error", err).Error("failed to set up the Heimdall JWT validator")
		return nil, err
	}

	return &JWTAuth{
		validator: jwtValidator,
		config:    config,
	}, nil
}
