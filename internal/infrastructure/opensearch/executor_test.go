// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package opensearch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/model"
	apperrors "github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockOpenSearchClient is a mock implementation of OpenSearchClientRetriever
type MockOpenSearchClient struct {
	searchResponse *model.SearchResponse
	searchError    error
	readyError     error
	lastIndex      string
	lastBody       []byte
}

func (m *MockOpenSearchClient) Search(ctx context.Context, index string, body []byte) (*model.SearchResponse, error) {
	m.lastIndex = index
	m.lastBody = body
	if m.searchError != nil {
		return nil, m.searchError
	}
	return m.searchResponse, nil
}

func (m *MockOpenSearchClient) IsReady(ctx context.Context) error {
	return m.readyError
}

func TestOpenSearchExecutorExecute(t *testing.T) {
	tests := []struct {
		name      string
		mock      *MockOpenSearchClient
		wantHits  int
		wantError bool
	}{
		{
			name: "hits are passed through",
			mock: &MockOpenSearchClient{searchResponse: &model.SearchResponse{
				Hits: model.Hits{
					Total: model.Total{Value: 42},
					Hits: []model.Hit{
						{ID: "a", Source: json.RawMessage(`{"title":"A"}`), Sort: []any{"A", "a"}},
						{ID: "b", Source: json.RawMessage(`{"title":"B"}`), Sort: []any{"B", "b"}},
					},
				},
			}},
			wantHits: 2,
		},
		{
			name:      "backend failures are unavailable errors",
			mock:      &MockOpenSearchClient{searchError: errors.New("connection refused")},
			wantError: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			executor := &OpenSearchExecutor{client: tc.mock, config: Config{IndexPrefix: "dev-"}}
			body := []byte(`{"query":{"match_all":{}}}`)

			response, err := executor.Execute(context.Background(), "tickets", body)

			assert.Equal(t, "dev-tickets", tc.mock.lastIndex)
			assert.Equal(t, body, tc.mock.lastBody)
			if tc.wantError {
				assert.IsType(t, apperrors.ServiceUnavailable{}, err)
				assert.Nil(t, response)
				return
			}
			require.NoError(t, err)
			assert.Len(t, response.Hits.Hits, tc.wantHits)
			assert.Equal(t, 42, response.Hits.Total.Value)
		})
	}
}

func TestOpenSearchExecutorIsReady(t *testing.T) {
	down := &OpenSearchExecutor{client: &MockOpenSearchClient{readyError: errors.New("red")}}
	assert.IsType(t, apperrors.ServiceUnavailable{}, down.IsReady(context.Background()))

	up := &OpenSearchExecutor{client: &MockOpenSearchClient{}}
	assert.NoError(t, up.IsReady(context.Background()))
}

func TestNewExecutorRequiresURL(t *testing.T) {
	_, err := NewExecutor(context.Background(), Config{})
	assert.Error(t, err)
}

func TestConfigAddresses(t *testing.T) {
	tests := []struct {
		url  string
		want []string
	}{
		{url: "", want: nil},
		{url: "http://a:9200", want: []string{"http://a:9200"}},
		{url: "http://a:9200, http://b:9200,", want: []string{"http://a:9200", "http://b:9200"}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Config{URL: tc.url}.addresses(), tc.url)
	}
	assert.Equal(t, "dev-ticket", Config{IndexPrefix: "dev-"}.index("ticket"))
}
