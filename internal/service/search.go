// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"net/url"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/compiler"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/validator"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/resources/catalog"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/paging"

	"github.com/go-openapi/jsonpointer"
)

// KeyPageToken is the request parameter carrying a page token.
const KeyPageToken = "pageToken"

// Search runs faceted searches over the resource types of a catalog.
type Search struct {
	catalog  *catalog.Catalog
	executor port.QueryExecutor
	resolver port.RightsResolver
	pageKey  *[32]byte
}

// Search compiles req, sends the hits request and, when facets were asked
// for, the aggregation request, and formats both answers.
func (s *Search) Search(ctx context.Context, req model.SearchRequest) (*model.SearchResult, error) {

	slog.DebugContext(ctx, "starting search",
		"resource", req.Resource,
		"params", len(req.Params),
	)

	rt, err := s.catalog.Lookup(req.Resource)
	if err != nil {
		return nil, err
	}

	raw, err := s.withPageToken(ctx, rt, req)
	if err != nil {
		return nil, err
	}

	caller, err := resolveCaller(ctx, s.resolver, req.Principal)
	if err != nil {
		return nil, err
	}

	q, err := Compile(ctx, rt, raw, caller)
	if err != nil {
		return nil, err
	}

	hits, err := s.execute(ctx, q.Endpoint, q.Body())
	if err != nil {
		return nil, err
	}

	result := &model.SearchResult{
		Hits:  make([]json.RawMessage, 0, len(hits.Hits.Hits)),
		Total: hits.Hits.Total.Value,
		From:  q.From,
		Size:  q.Size,
	}
	for _, hit := range hits.Hits.Hits {
		result.Hits = append(result.Hits, hit.Source)
	}

	if body := q.FacetBody(); body != nil {
		aggregations, err := s.execute(ctx, q.Endpoint, body)
		if err != nil {
			return nil, err
		}
		if result.Facets, err = facets(aggregations, q.FacetPaths); err != nil {
			return nil, err
		}
	}

	if token, err := s.nextPageToken(q, hits); err != nil {
		return nil, err
	} else if token != "" {
		result.NextPageToken = &token
	}

	slog.DebugContext(ctx, "search completed",
		"resource", rt.Name,
		"total", result.Total,
		"returned", len(result.Hits),
		"facets", len(result.Facets),
	)
	return result, nil
}

// withPageToken opens the page token and passes its sort values on as the
// searchAfter parameter. Parameter values stay URL encoded, so the injected
// cursor is escaped like any other.
func (s *Search) withPageToken(ctx context.Context, rt model.ResourceType, req model.SearchRequest) (map[string][]string, error) {
	token := req.PageToken
	if values := req.Params[KeyPageToken]; token == "" && len(values) > 0 {
		token = values[0]
		if unescaped, err := url.QueryUnescape(token); err == nil {
			token = unescaped
		}
	}
	raw := maps.Clone(req.Params)
	if raw == nil {
		raw = map[string][]string{}
	}
	delete(raw, KeyPageToken)
	if token == "" {
		return raw, nil
	}
	// Any spelling the registry resolves to searchAfter counts.
	registry := rt.Registry()
	searchAfter := registry.Key(validator.KeySearchAfter)
	for name := range raw {
		if searchAfter != nil && registry.Resolve(name) == searchAfter {
			return nil, errors.NewConflict("pageToken and searchAfter cannot be combined", KeyPageToken, validator.KeySearchAfter)
		}
	}
	if s.pageKey == nil {
		return nil, errors.NewUnexpected("page token secret is not configured")
	}
	cursor, err := paging.DecodePageToken(ctx, token, s.pageKey)
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(cursor)
	if err != nil {
		return nil, errors.NewUnexpected("failed to encode search after values", err)
	}
	raw[validator.KeySearchAfter] = []string{url.QueryEscape(string(encoded))}
	return raw, nil
}

// lookupFacet resolves a facet pointer against the decoded response.
func lookupFacet(doc any, pointer string) (any, bool) {
	ptr, err := jsonpointer.New(pointer)
	if err != nil {
		return nil, false
	}
	value, _, err := ptr.Get(doc)
	if err != nil {
		return nil, false
	}
	return value, true
}

// nextPageToken seals the sort values of the last hit. Tokens are only
// minted after a full page sorted by something other than relevance.
func (s *Search) nextPageToken(q *compiler.CompiledQuery, response *model.SearchResponse) (string, error) {
	hits := response.Hits.Hits
	if s.pageKey == nil || q.Size == 0 || len(hits) < q.Size {
		return "", nil
	}
	if len(q.Sort) == 0 || q.Sort[0].Path == param.ScorePath {
		return "", nil
	}
	last := hits[len(hits)-1]
	if len(last.Sort) == 0 {
		return "", nil
	}
	return paging.EncodePageToken(last.Sort, s.pageKey)
}

func (s *Search) execute(ctx context.Context, endpoint string, body map[string]any) (*model.SearchResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.NewUnexpected("failed to encode query", err)
	}
	return s.executor.Execute(ctx, endpoint, payload)
}

// facets picks every requested aggregation out of response by its pointer.
// A facet absent from the response is returned as an empty list.
func facets(response *model.SearchResponse, paths map[string]string) (map[string]json.RawMessage, error) {
	raw, err := response.Raw()
	if err != nil {
		return nil, errors.NewUnexpected("failed to render aggregation response", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var doc any
	if err := decoder.Decode(&doc); err != nil {
		return nil, errors.NewUnexpected("failed to decode aggregation response", err)
	}

	out := make(map[string]json.RawMessage, len(paths))
	for name, pointer := range paths {
		value, ok := lookupFacet(doc, pointer)
		if !ok {
			out[name] = json.RawMessage("[]")
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, errors.NewUnexpected("failed to encode facet "+name, err)
		}
		out[name] = encoded
	}
	return out, nil
}

// NewSearch creates a Search. Without pageKey no page tokens are minted or
// accepted.
func NewSearch(c *catalog.Catalog, executor port.QueryExecutor, resolver port.RightsResolver, pageKey *[32]byte) *Search {
	return &Search{
		catalog:  c,
		executor: executor,
		resolver: resolver,
		pageKey:  pageKey,
	}
}
