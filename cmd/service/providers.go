// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/infrastructure/auth"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/infrastructure/elasticsearch"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/infrastructure/nats"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/infrastructure/opensearch"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/resumption"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/constants"
)

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func durationEnv(name string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(name)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration %q: %w", name, value, err)
	}
	return d, nil
}

func intEnv(name string, fallback int) (int, error) {
	value := os.Getenv(name)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

// ExecutorImpl injects the search backend selected by SEARCH_SOURCE
func ExecutorImpl(ctx context.Context) port.QueryExecutor {

	var (
		executor port.QueryExecutor
		err      error
	)

	searchSource := envOrDefault("SEARCH_SOURCE", "opensearch")
	indexPrefix := os.Getenv("INDEX_PREFIX")

	switch searchSource {
	case "mock":
		slog.InfoContext(ctx, "initializing mock query executor")
		executor = mock.NewMockQueryExecutor()

	case "opensearch":
		config := opensearch.Config{
			URL:         envOrDefault("OPENSEARCH_URL", "http://localhost:9200"),
			Username:    os.Getenv("OPENSEARCH_USERNAME"),
			Password:    os.Getenv("OPENSEARCH_PASSWORD"),
			IndexPrefix: indexPrefix,
		}
		slog.InfoContext(ctx, "initializing opensearch query executor",
			"url", config.URL,
			"index_prefix", config.IndexPrefix,
		)
		executor, err = opensearch.NewExecutor(ctx, config)
		if err != nil {
			log.Fatalf("failed to initialize OpenSearch executor: %v", err)
		}

	case "elasticsearch":
		config := elasticsearch.Config{
			URL:         envOrDefault("ELASTICSEARCH_URL", "http://localhost:9200"),
			Username:    os.Getenv("ELASTICSEARCH_USERNAME"),
			Password:    os.Getenv("ELASTICSEARCH_PASSWORD"),
			IndexPrefix: indexPrefix,
		}
		slog.InfoContext(ctx, "initializing elasticsearch query executor",
			"url", config.URL,
			"index_prefix", config.IndexPrefix,
		)
		executor, err = elasticsearch.NewExecutor(config)
		if err != nil {
			log.Fatalf("failed to initialize Elasticsearch executor: %v", err)
		}

	default:
		log.Fatalf("unsupported search implementation: %s", searchSource)
	}

	return executor
}

// natsConfig reads the NATS_* variables
func natsConfig() (nats.Config, error) {
	timeout, err := durationEnv("NATS_TIMEOUT", 10*time.Second)
	if err != nil {
		return nats.Config{}, err
	}
	maxReconnect, err := intEnv("NATS_MAX_RECONNECT", 3)
	if err != nil {
		return nats.Config{}, err
	}
	reconnectWait, err := durationEnv("NATS_RECONNECT_WAIT", 2*time.Second)
	if err != nil {
		return nats.Config{}, err
	}
	return nats.Config{
		URL:           envOrDefault("NATS_URL", "nats://localhost:4222"),
		Subject:       envOrDefault("NATS_RIGHTS_SUBJECT", constants.RightsSubject),
		Timeout:       timeout,
		MaxReconnect:  maxReconnect,
		ReconnectWait: reconnectWait,
	}, nil
}

// RightsResolverImpl injects the rights resolver selected by
// ACCESS_RIGHTS_SOURCE
func RightsResolverImpl(ctx context.Context) port.RightsResolver {

	var (
		resolver port.RightsResolver
		err      error
	)

	source := envOrDefault("ACCESS_RIGHTS_SOURCE", "nats")

	switch source {
	case "mock":
		slog.InfoContext(ctx, "initializing mock rights resolver")
		resolver = mock.NewMockRightsResolver()

	case "nats":
		config, errConfig := natsConfig()
		if errConfig != nil {
			log.Fatalf("invalid NATS configuration: %v", errConfig)
		}
		slog.InfoContext(ctx, "initializing NATS rights resolver",
			"url", config.URL,
			"subject", config.Subject,
		)
		resolver, err = nats.NewRightsResolver(ctx, config)
		if err != nil {
			log.Fatalf("failed to initialize NATS rights resolver: %v", err)
		}

	default:
		log.Fatalf("unsupported access rights implementation: %s", source)
	}

	return resolver
}

// AuthServiceImpl injects the authenticator. JWT validation is replaced by
// the mock when JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL is set.
func AuthServiceImpl(ctx context.Context) port.Authenticator {
	if principal := os.Getenv("JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL"); principal != "" {
		slog.WarnContext(ctx, "JWT validation is disabled",
			"principal", principal,
		)
		return mock.NewMockAuthService()
	}

	clockSkew, err := durationEnv("JWT_CLOCK_SKEW", 0)
	if err != nil {
		log.Fatalf("invalid JWT configuration: %v", err)
	}
	jwtAuth, err := auth.NewJWTAuth(auth.JWTAuthConfig{
		JWKSURL:   os.Getenv("JWKS_URL"),
		Audience:  os.Getenv("AUDIENCE"),
		Issuer:    os.Getenv("JWT_ISSUER"),
		ClockSkew: clockSkew,
	})
	if err != nil {
		log.Fatalf("failed to initialize JWT authentication: %v", err)
	}
	return jwtAuth
}

// ResumptionCodecImpl reads RESUMPTION_TOKEN_TTL
func ResumptionCodecImpl(ctx context.Context) *resumption.Codec {
	ttl, err := durationEnv("RESUMPTION_TOKEN_TTL", resumption.DefaultTTL)
	if err != nil {
		log.Fatalf("invalid resumption configuration: %v", err)
	}
	slog.InfoContext(ctx, "resumption tokens configured", "ttl", ttl)
	return resumption.NewCodec(ttl)
}

// HarvestPageSize reads HARVEST_PAGE_SIZE
func HarvestPageSize(ctx context.Context) int {
	size, err := intEnv("HARVEST_PAGE_SIZE", constants.DefaultHarvestPageSize)
	if err != nil {
		log.Fatalf("invalid harvest configuration: %v", err)
	}
	slog.InfoContext(ctx, "harvest configured", "page_size", size)
	return size
}
