// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
)

// mockTokenPrefix lets local callers pick a principal per request
const mockTokenPrefix = "mock:"

// MockAuthService provides a mock implementation of the authentication service
type MockAuthService struct{}

// ParsePrincipal returns the principal named by a "mock:<principal>" bearer token,
// or the one configured in JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL
func (m *MockAuthService) ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error) {

	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	principal, ok := strings.CutPrefix(token, mockTokenPrefix)
	if !ok || principal == "" {
		principal = os.Getenv("JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL")
	}

	if principal == "" {
		return "", errors.NewUnauthorized("mock principal not configured in JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL")
	}

	logger.DebugContext(ctx, "parsed principal",
		"principal", principal,
	)

	return principal, nil
}

// NewMockAuthService creates a new mock authentication service
func NewMockAuthService() port.Authenticator {
	return &MockAuthService{}
}
