// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package service wires the search and harvest operations to HTTP.
package service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/infrastructure/metrics"
	usecase "github.com/linuxfoundation/lfx-v2-facet-query-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/log"

	goahttp "goa.design/goa/v3/http"
)

// Route describes one mounted endpoint.
type Route struct {
	Name    string
	Method  string
	Pattern string
}

// QuerySvc serves faceted search and harvesting over HTTP.
type QuerySvc struct {
	search    *usecase.Search
	harvest   *usecase.Harvest
	readiness *usecase.Readiness
	auth      port.Authenticator
}

// Mount registers every endpoint on mux and returns the mounted routes.
func (s *QuerySvc) Mount(mux goahttp.Muxer) []Route {
	routes := []struct {
		Route
		handler http.HandlerFunc
	}{
		{Route{"search", http.MethodGet, "/search/{resource}"}, s.Search(mux)},
		{Route{"harvest", http.MethodGet, "/harvest"}, s.Harvest},
		{Route{"readyz", http.MethodGet, "/readyz"}, s.Readyz},
		{Route{"livez", http.MethodGet, "/livez"}, s.Livez},
		{Route{"metrics", http.MethodGet, "/metrics"}, metrics.Handler().ServeHTTP},
	}
	mounted := make([]Route, 0, len(routes))
	for _, r := range routes {
		mux.Handle(r.Method, r.Pattern, metrics.Middleware(r.Name)(r.handler).ServeHTTP)
		mounted = append(mounted, r.Route)
	}
	return mounted
}

// authenticate returns a context carrying the principal. Requests without
// credentials are anonymous.
func (s *QuerySvc) authenticate(r *http.Request) (context.Context, string, error) {
	ctx := r.Context()
	principal := constants.AnonymousPrincipal
	if header := r.Header.Get("Authorization"); header != "" {
		parsed, err := s.auth.ParsePrincipal(ctx, header, slog.Default())
		if err != nil {
			return ctx, "", err
		}
		principal = parsed
	}
	ctx = log.AppendCtx(ctx, slog.String(string(constants.PrincipalAttribute), principal))
	return context.WithValue(ctx, constants.PrincipalContextID, principal), principal, nil
}

// Search handles GET /search/{resource}.
func (s *QuerySvc) Search(mux goahttp.Muxer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, principal, err := s.authenticate(r)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		resource := mux.Vars(r)["resource"]

		slog.DebugContext(ctx, "querySvc.search",
			"resource", resource,
		)

		result, err := s.search.Search(ctx, requestToSearch(resource, r.URL.RawQuery, principal))
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		write(ctx, w, http.StatusOK, result)
	}
}

// Harvest handles GET /harvest.
func (s *QuerySvc) Harvest(w http.ResponseWriter, r *http.Request) {
	ctx, principal, err := s.authenticate(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	req := requestToHarvest(r, principal)

	slog.DebugContext(ctx, "querySvc.harvest",
		"verb", req.Verb,
		"resumed", req.ResumptionToken != "",
	)

	result, err := s.harvest.Harvest(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	write(ctx, w, http.StatusOK, result)
}

// Readyz checks if the service is able to take inbound requests.
func (s *QuerySvc) Readyz(w http.ResponseWriter, r *http.Request) {
	if err := s.readiness.IsReady(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "querySvc.readyz failed", "error", err)
		writeError(r.Context(), w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("OK\n"))
}

// Livez always answers while the process runs. Non-recoverable errors must
// terminate the process instead.
func (s *QuerySvc) Livez(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("OK\n"))
}

// write encodes v as JSON. The encoder sets the content type, so it is
// built before the status is written.
func write(ctx context.Context, w http.ResponseWriter, status int, v any) {
	encoder := goahttp.ResponseEncoder(ctx, w)
	w.WriteHeader(status)
	if err := encoder.Encode(v); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, body := wrapError(ctx, err)
	write(ctx, w, status, body)
}

// NewQuerySvc returns the HTTP service over the given operations.
func NewQuerySvc(search *usecase.Search, harvest *usecase.Harvest, readiness *usecase.Readiness, auth port.Authenticator) *QuerySvc {
	return &QuerySvc{
		search:    search,
		harvest:   harvest,
		readiness: readiness,
		auth:      auth,
	}
}
