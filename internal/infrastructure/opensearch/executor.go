// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package opensearch

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/infrastructure/metrics"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

// OpenSearchExecutor implements the QueryExecutor interface for OpenSearch
type OpenSearchExecutor struct {
	client OpenSearchClientRetriever
	config Config
}

// OpenSearchClientRetriever defines the interface for OpenSearch operations
// This allows for easy mocking and testing
type OpenSearchClientRetriever interface {
	Search(ctx context.Context, index string, body []byte) (*model.SearchResponse, error)
	IsReady(ctx context.Context) error
}

// Execute implements the QueryExecutor interface
func (os *OpenSearchExecutor) Execute(ctx context.Context, endpoint string, body []byte) (*model.SearchResponse, error) {
	index := os.config.index(endpoint)

	start := time.Now()
	response, err := os.client.Search(ctx, index, body)
	metrics.ObserveBackend(endpoint, start, err)
	if err != nil {
		slog.ErrorContext(ctx, "opensearch search failed", "index", index, "error", err)
		return nil, errors.NewServiceUnavailable("search backend failed", err)
	}

	slog.DebugContext(ctx, "opensearch search completed",
		"index", index,
		"hits", len(response.Hits.Hits),
		"total", response.Hits.Total.Value,
	)
	return response, nil
}

// IsReady checks the cluster health
func (os *OpenSearchExecutor) IsReady(ctx context.Context) error {
	if err := os.client.IsReady(ctx); err != nil {
		return errors.NewServiceUnavailable("opensearch is not ready", err)
	}
	return nil
}

// NewExecutor returns a new OpenSearchExecutor implementation
func NewExecutor(ctx context.Context, config Config) (port.QueryExecutor, error) {

	addresses := config.addresses()
	if len(addresses) == 0 {
		slog.ErrorContext(ctx, "opensearch URL is required")
		return nil, fmt.Errorf("opensearch URL is required")
	}

	opensearchClient, errOpensearchClient := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses: addresses,
			Username:  config.Username,
			Password:  config.Password,
			Transport: &http.Transport{
				MaxIdleConnsPerHost:   10,
				ResponseHeaderTimeout: 10 * time.Second,
				DialContext:           (&net.Dialer{Timeout: 3 * time.Second}).DialContext,
			},
		},
	})
	if errOpensearchClient != nil {
		slog.ErrorContext(ctx, "failed to create OpenSearch client", "error", errOpensearchClient)
		return nil, fmt.Errorf("failed to create OpenSearch client: %w", errOpensearchClient)
	}

	return &OpenSearchExecutor{
		client: &httpClient{client: opensearchClient},
		config: config,
	}, nil
}
