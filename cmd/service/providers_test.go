// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"
	"time"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/resumption"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationEnv(t *testing.T) {
	t.Setenv("TEST_DURATION", "")
	d, err := durationEnv("TEST_DURATION", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)

	t.Setenv("TEST_DURATION", "90s")
	d, err = durationEnv("TEST_DURATION", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	t.Setenv("TEST_DURATION", "soon")
	_, err = durationEnv("TEST_DURATION", time.Minute)
	assert.ErrorContains(t, err, "TEST_DURATION")
}

func TestIntEnv(t *testing.T) {
	t.Setenv("TEST_INT", "")
	n, err := intEnv("TEST_INT", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	t.Setenv("TEST_INT", "x")
	_, err = intEnv("TEST_INT", 7)
	assert.Error(t, err)
}

func TestNATSConfig(t *testing.T) {
	t.Setenv("NATS_URL", "")
	t.Setenv("NATS_RIGHTS_SUBJECT", "")
	t.Setenv("NATS_TIMEOUT", "3s")
	t.Setenv("NATS_MAX_RECONNECT", "")
	t.Setenv("NATS_RECONNECT_WAIT", "")

	config, err := natsConfig()

	require.NoError(t, err)
	assert.Equal(t, "nats://localhost:4222", config.URL)
	assert.Equal(t, constants.RightsSubject, config.Subject)
	assert.Equal(t, 3*time.Second, config.Timeout)
	assert.Equal(t, 3, config.MaxReconnect)
	assert.Equal(t, 2*time.Second, config.ReconnectWait)
}

func TestMockProviders(t *testing.T) {
	ctx := context.Background()
	t.Setenv("SEARCH_SOURCE", "mock")
	t.Setenv("ACCESS_RIGHTS_SOURCE", "mock")
	t.Setenv("JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL", "local")
	t.Setenv("RESUMPTION_TOKEN_TTL", "2h")
	t.Setenv("HARVEST_PAGE_SIZE", "25")

	assert.IsType(t, &mock.MockQueryExecutor{}, ExecutorImpl(ctx))
	assert.IsType(t, &mock.MockRightsResolver{}, RightsResolverImpl(ctx))
	assert.IsType(t, &mock.MockAuthService{}, AuthServiceImpl(ctx))
	assert.Equal(t, 2*time.Hour, ResumptionCodecImpl(ctx).TTL())
	assert.Equal(t, 25, HarvestPageSize(ctx))

	t.Setenv("RESUMPTION_TOKEN_TTL", "")
	assert.Equal(t, resumption.DefaultTTL, ResumptionCodecImpl(ctx).TTL())
}
