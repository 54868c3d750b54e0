// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/log"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveWithID runs one request through the middleware and returns the ID
// seen by the handler along with the recorder.
func serveWithID(t *testing.T, header string) (string, *httptest.ResponseRecorder) {
	t.Helper()
	var seen string
	handler := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/search/ticket", nil)
	if header != "" {
		req.Header.Set(RequestIDHeader, header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return seen, rec
}

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{name: "missing header", header: ""},
		{name: "plain id", header: "existing-id-123", keep: true},
		{name: "uuid", header: "550e8400-e29b-41d4-a716-446655440000", keep: true},
		{name: "longest accepted", header: strings.Repeat("a", maxRequestIDLength), keep: true},
		{name: "too long", header: strings.Repeat("a", maxRequestIDLength+1)},
		{name: "control character", header: "abc\x01def"},
		{name: "space", header: "abc def"},
		{name: "non ascii", header: "réq"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seen, rec := serveWithID(t, tc.header)

			if tc.keep {
				assert.Equal(t, tc.header, seen)
			} else {
				_, err := uuid.Parse(seen)
				assert.NoError(t, err, "expected a generated uuid, got %q", seen)
			}
			assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
		})
	}
}

func TestRequestIDMiddlewareGeneratesDistinctIDs(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		id, _ := serveWithID(t, "")
		_, dup := seen[id]
		require.False(t, dup, "duplicate request id %s", id)
		seen[id] = struct{}{}
	}
}

func TestRequestIDFromContextWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	assert.Empty(t, RequestIDFromContext(req.Context()))
}

func TestRequestIDMiddlewareLogAttributes(t *testing.T) {
	var attrs []slog.Attr
	handler := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attrs = log.Attrs(r.Context())
	}))
	req := httptest.NewRequest(http.MethodPost, "/harvest", nil)
	req.Header.Set(RequestIDHeader, "req-1")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, attrs, 3)
	assert.Equal(t, "req-1", attrs[0].Value.String())
	assert.Equal(t, http.MethodPost, attrs[1].Value.String())
	assert.Equal(t, "/harvest", attrs[2].Value.String())
}

func BenchmarkRequestIDMiddleware(b *testing.B) {
	handler := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for i := 0; i < b.N; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/search/ticket", nil))
	}
}
