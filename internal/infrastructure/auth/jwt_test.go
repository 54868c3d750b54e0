// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	errs "github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "bearer   abc", want: "abc"},
		{header: "abc", want: "abc"},
		{header: "Bearer ", want: "Bearer"},
		{header: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, bearerToken(tt.header))
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "deep errors are cut after the second level",
			err:  errors.New("could not parse the token: go-jose/go-jose/jwt: validation failed: key abc"),
			want: "could not parse the token: validation failed",
		},
		{
			name: "two levels are kept",
			err:  errors.New("expected claims not validated: token is expired"),
			want: "expected claims not validated: token is expired",
		},
		{
			name: "single level",
			err:  errors.New("token is malformed"),
			want: "token is malformed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitize(tt.err))
		})
	}
}

func TestHeimdallClaimsValidate(t *testing.T) {
	assert.Error(t, (&HeimdallClaims{}).Validate(context.Background()))
	assert.NoError(t, (&HeimdallClaims{Principal: "ann"}).Validate(context.Background()))
}

func TestParsePrincipalRejectsGarbage(t *testing.T) {
	auth, err := NewJWTAuth(JWTAuthConfig{JWKSURL: "http://127.0.0.1:1/jwks"})
	require.NoError(t, err)
	assert.Equal(t, defaultIssuer, auth.config.Issuer)

	_, err = auth.ParsePrincipal(context.Background(), "Bearer not-a-jwt", slog.Default())
	assert.IsType(t, errs.Unauthorized{}, err)

	_, err = auth.ParsePrincipal(context.Background(), "", slog.Default())
	assert.IsType(t, errs.Unauthorized{}, err)
}
