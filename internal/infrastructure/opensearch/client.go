// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package opensearch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/model"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

type httpClient struct {
	client *opensearchapi.Client
}

func (c *httpClient) Search(ctx context.Context, index string, body []byte) (*model.SearchResponse, error) {

	slog.DebugContext(ctx, "executing opensearch search",
		"index", index,
		"query", string(body),
	)

	searchRequest := opensearchapi.SearchReq{
		Indices: []string{index},
		Body:    bytes.NewReader(body),
	}

	searchResponse, errSearchResponse := c.client.Search(ctx, &searchRequest)
	if errSearchResponse != nil {
		return nil, fmt.Errorf("failed to execute search: %w", errSearchResponse)
	}

	if searchResponse.Errors {
		return nil, fmt.Errorf("opensearch search returned errors")
	}

	result := &model.SearchResponse{
		Hits: model.Hits{
			Total: model.Total{
				Value: searchResponse.Hits.Total.Value,
			},
			Hits: make([]model.Hit, len(searchResponse.Hits.Hits)),
		},
		Aggregations: searchResponse.Aggregations,
	}
	for i, hit := range searchResponse.Hits.Hits {
		result.Hits.Hits[i] = model.Hit{
			ID:     hit.ID,
			Score:  float64(hit.Score),
			Source: hit.Source,
			Sort:   hit.Sort,
		}
	}

	return result, nil
}

func (c *httpClient) IsReady(ctx context.Context) error {
	health, err := c.client.Cluster.Health(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to check cluster health: %w", err)
	}
	if health.Status != "green" && health.Status != "yellow" {
		return fmt.Errorf("opensearch cluster status is %s", health.Status)
	}
	return nil
}
