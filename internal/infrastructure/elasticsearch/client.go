// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/httpclient"
)

// HTTPClient implements the ElasticsearchClient interface using HTTP
type HTTPClient struct {
	baseURL string
	client  *httpclient.Client
}

// NewHTTPClient creates a new HTTP client for Elasticsearch
func NewHTTPClient(baseURL string, config httpclient.Config) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpclient.NewClient(config),
	}
}

// Search posts body to the index _search endpoint. Sort values are decoded
// as json.Number so that they can be sent back verbatim.
func (c *HTTPClient) Search(ctx context.Context, index string, body []byte) (*model.SearchResponse, error) {
	searchURL := fmt.Sprintf("%s/%s/_search", c.baseURL, url.PathEscape(index))

	slog.DebugContext(ctx, "executing elasticsearch search", "index", index, "query", string(body))

	resp, err := c.client.PostJSON(ctx, searchURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(resp.Body))
	decoder.UseNumber()
	var searchResponse model.SearchResponse
	if err := decoder.Decode(&searchResponse); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &searchResponse, nil
}

// IsHealthy checks if Elasticsearch is healthy
func (c *HTTPClient) IsHealthy(ctx context.Context) error {
	resp, err := c.client.Get(ctx, c.baseURL+"/_cluster/health")
	if err != nil {
		return fmt.Errorf("failed to execute health check: %w", err)
	}

	var healthResponse struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.Body, &healthResponse); err != nil {
		return fmt.Errorf("failed to unmarshal health check response: %w", err)
	}

	if healthResponse.Status != "green" && healthResponse.Status != "yellow" {
		return fmt.Errorf("elasticsearch cluster status is %s", healthResponse.Status)
	}

	return nil
}
