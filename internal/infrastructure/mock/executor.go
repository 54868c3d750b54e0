// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
)

// ExecutedRequest is one request received by MockQueryExecutor
type ExecutedRequest struct {
	Endpoint string
	Body     map[string]any
}

// MockDocument is a stored document. Its sort values are echoed on hits.
type MockDocument struct {
	ID     string
	Source map[string]any
	Sort   []any
}

// MockQueryExecutor is an in-memory QueryExecutor. It does not evaluate
// queries: hits requests page through the stored documents by from (or
// search_after) and size, and aggregation-only requests (size 0) answer with
// the stored aggregations.
type MockQueryExecutor struct {
	mu           sync.Mutex
	documents    map[string][]MockDocument
	aggregations map[string]json.RawMessage
	requests     []ExecutedRequest
	// Err is returned by every Execute when set
	Err error
	// NotReady is returned by IsReady when set
	NotReady error
}

// AddDocuments stores documents under endpoint in order
func (m *MockQueryExecutor) AddDocuments(endpoint string, docs ...MockDocument) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[endpoint] = append(m.documents[endpoint], docs...)
}

// SetAggregations sets the aggregations returned for endpoint
func (m *MockQueryExecutor) SetAggregations(endpoint string, aggregations json.RawMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aggregations[endpoint] = aggregations
}

// Requests returns the requests received so far
func (m *MockQueryExecutor) Requests() []ExecutedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ExecutedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Execute implements the QueryExecutor interface
func (m *MockQueryExecutor) Execute(ctx context.Context, endpoint string, body []byte) (*model.SearchResponse, error) {
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("mock executor received invalid JSON: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, ExecutedRequest{Endpoint: endpoint, Body: decoded})

	if m.Err != nil {
		return nil, m.Err
	}

	docs := m.documents[endpoint]
	size := intField(decoded, "size", len(docs))
	from := intField(decoded, "from", 0)
	if after, ok := decoded["search_after"]; ok {
		from = position(docs, after)
	}

	response := &model.SearchResponse{Hits: model.Hits{Total: model.Total{Value: len(docs)}}}
	if size == 0 {
		response.Aggregations = m.aggregations[endpoint]
	}
	for i := from; i < len(docs) && i < from+size; i++ {
		source, err := json.Marshal(docs[i].Source)
		if err != nil {
			return nil, err
		}
		response.Hits.Hits = append(response.Hits.Hits, model.Hit{
			ID:     docs[i].ID,
			Score:  1,
			Source: source,
			Sort:   docs[i].Sort,
		})
	}

	slog.DebugContext(ctx, "mock query executed",
		"endpoint", endpoint,
		"hits", len(response.Hits.Hits),
	)
	return response, nil
}

func intField(body map[string]any, name string, fallback int) int {
	if v, ok := body[name].(float64); ok {
		return int(v)
	}
	return fallback
}

// position returns the index following the document whose sort values equal
// after, or len(docs) when there is none.
func position(docs []MockDocument, after any) int {
	want, err := json.Marshal(after)
	if err != nil {
		return len(docs)
	}
	for i, doc := range docs {
		got, err := json.Marshal(normalize(doc.Sort))
		if err == nil && string(got) == string(want) {
			return i + 1
		}
	}
	return len(docs)
}

// normalize round-trips sort values through JSON so that they compare equal
// to values decoded from a request body.
func normalize(values []any) any {
	raw, err := json.Marshal(values)
	if err != nil {
		return values
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return values
	}
	return out
}

// IsReady implements the QueryExecutor interface
func (m *MockQueryExecutor) IsReady(ctx context.Context) error {
	if m.NotReady != nil {
		return errors.NewServiceUnavailable("mock executor is not ready", m.NotReady)
	}
	return nil
}

// NewMockQueryExecutor creates an empty executor
func NewMockQueryExecutor() *MockQueryExecutor {
	return &MockQueryExecutor{
		documents:    map[string][]MockDocument{},
		aggregations: map[string]json.RawMessage{},
	}
}
