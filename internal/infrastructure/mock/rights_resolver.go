// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/access"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
)

// MockRightsResolver resolves principals from an in-memory table
type MockRightsResolver struct {
	mu      sync.RWMutex
	callers map[string]access.Caller
	// Err is returned by every lookup when set
	Err error
	// NotReady is returned by IsReady when set
	NotReady error
	calls    int
}

// AddCaller registers the caller behind principal
func (m *MockRightsResolver) AddCaller(principal string, caller access.Caller) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callers[principal] = caller
}

// ResolveRights returns the registered caller. Unknown principals are
// logged in users without rights.
func (m *MockRightsResolver) ResolveRights(ctx context.Context, principal string) (access.Caller, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Err != nil {
		return access.Caller{}, m.Err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	caller, ok := m.callers[principal]
	if !ok {
		caller = access.Caller{Username: principal}
	}
	slog.DebugContext(ctx, "mock rights resolved",
		"principal", principal,
		"rights", caller.Rights,
	)
	return caller, nil
}

// Calls counts lookups, failed ones included
func (m *MockRightsResolver) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

// Close implements the RightsResolver interface (no-op for mock)
func (m *MockRightsResolver) Close() error {
	return nil
}

// IsReady implements the RightsResolver interface
func (m *MockRightsResolver) IsReady(ctx context.Context) error {
	if m.NotReady != nil {
		return errors.NewServiceUnavailable("mock rights resolver is not ready", m.NotReady)
	}
	return nil
}

// NewMockRightsResolver creates a resolver with one curator,
// "curator", holding every curation right at a sample organization
func NewMockRightsResolver() *MockRightsResolver {
	return &MockRightsResolver{
		callers: map[string]access.Caller{
			"curator": {
				UserID:          "curator",
				Username:        "curator",
				Rights:          []string{"MANAGE_DOI", "SUPPORT", "MANAGE_PUBLISHING_REQUESTS", "MANAGE_DEGREE", "MANAGE_RESOURCES_ALL", "MANAGE_IMPORT"},
				Organization:    "https://api.example.org/organization/20754.0.0.0",
				TopOrganization: "https://api.example.org/organization/20754.0.0.0",
			},
		},
	}
}
