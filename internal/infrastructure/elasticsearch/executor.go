// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package elasticsearch executes compiled queries against an Elasticsearch
// or OpenSearch cluster over its plain REST API.
package elasticsearch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/infrastructure/metrics"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/httpclient"
)

// ElasticsearchClient defines the interface for Elasticsearch operations
// This allows for easy mocking and testing
type ElasticsearchClient interface {
	Search(ctx context.Context, index string, body []byte) (*model.SearchResponse, error)
	IsHealthy(ctx context.Context) error
}

// ElasticsearchExecutor implements the QueryExecutor interface for Elasticsearch
type ElasticsearchExecutor struct {
	client      ElasticsearchClient
	indexPrefix string
}

// Execute implements the QueryExecutor interface
func (es *ElasticsearchExecutor) Execute(ctx context.Context, endpoint string, body []byte) (*model.SearchResponse, error) {
	start := time.Now()
	response, err := es.client.Search(ctx, es.indexPrefix+endpoint, body)
	metrics.ObserveBackend(endpoint, start, err)
	if err != nil {
		slog.ErrorContext(ctx, "elasticsearch search failed", "endpoint", endpoint, "error", err)
		return nil, errors.NewServiceUnavailable("search backend failed", err)
	}
	return response, nil
}

// IsReady checks the cluster health
func (es *ElasticsearchExecutor) IsReady(ctx context.Context) error {
	if err := es.client.IsHealthy(ctx); err != nil {
		return errors.NewServiceUnavailable("elasticsearch is not ready", err)
	}
	return nil
}

// Config represents Elasticsearch configuration
type Config struct {
	URL         string `json:"url"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	IndexPrefix string `json:"index_prefix"`
}

// NewExecutor creates a new Elasticsearch executor from configuration
func NewExecutor(config Config) (port.QueryExecutor, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("elasticsearch URL is required")
	}

	httpConfig := httpclient.DefaultConfig()
	httpConfig.Username = config.Username
	httpConfig.Password = config.Password

	return &ElasticsearchExecutor{
		client:      NewHTTPClient(config.URL, httpConfig),
		indexPrefix: config.IndexPrefix,
	}, nil
}
