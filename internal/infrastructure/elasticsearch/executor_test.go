// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package elasticsearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor(url string) *ElasticsearchExecutor {
	return &ElasticsearchExecutor{
		client:      NewHTTPClient(url, httpclient.Config{Timeout: 5 * time.Second}),
		indexPrefix: "test-",
	}
}

func TestExecuteDecodesHitsAndAggregations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/test-resources/_search", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"size":1}`, string(body))
		_, _ = w.Write([]byte(`{
			"hits": {
				"total": {"value": 3},
				"hits": [{"_id": "a", "_score": 1.5, "_source": {"title": "A"}, "sort": [1719792000123, "a"]}]
			},
			"aggregations": {"withAppliedFilter": {"doc_count": 3}}
		}`))
	}))
	defer server.Close()

	response, err := newTestExecutor(server.URL).Execute(context.Background(), "resources", []byte(`{"size":1}`))

	require.NoError(t, err)
	assert.Equal(t, 3, response.Hits.Total.Value)
	require.Len(t, response.Hits.Hits, 1)
	assert.Equal(t, []any{json.Number("1719792000123"), "a"}, response.Hits.Hits[0].Sort)
	assert.JSONEq(t, `{"title": "A"}`, string(response.Hits.Hits[0].Source))
	assert.JSONEq(t, `{"withAppliedFilter": {"doc_count": 3}}`, string(response.Aggregations))
}

func TestExecuteReportsBackendErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"type": "search_phase_execution_exception"}}`))
	}))
	defer server.Close()

	_, err := newTestExecutor(server.URL).Execute(context.Background(), "tickets", []byte(`{}`))

	assert.IsType(t, apperrors.ServiceUnavailable{}, err)
}

func TestIsReady(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		wantErr bool
	}{
		{name: "green", status: "green"},
		{name: "yellow", status: "yellow"},
		{name: "red", status: "red", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/_cluster/health", r.URL.Path)
				_, _ = w.Write([]byte(`{"status": "` + tc.status + `"}`))
			}))
			defer server.Close()

			err := newTestExecutor(server.URL).IsReady(context.Background())
			if tc.wantErr {
				assert.IsType(t, apperrors.ServiceUnavailable{}, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewExecutorRequiresURL(t *testing.T) {
	_, err := NewExecutor(Config{})
	assert.Error(t, err)
}
