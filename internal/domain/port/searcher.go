// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/model"
)

// QueryExecutor sends compiled request bodies to the search engine.
// This abstraction allows different backends (OpenSearch, Elasticsearch over
// plain HTTP, in memory) without the services knowing about them.
type QueryExecutor interface {
	// Execute runs body against endpoint and decodes the response
	Execute(ctx context.Context, endpoint string, body []byte) (*model.SearchResponse, error)

	// IsReady checks if the search backend is ready
	IsReady(ctx context.Context) error
}
