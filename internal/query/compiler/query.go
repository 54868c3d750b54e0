// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package compiler

import (
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/clause"
)

// SortField is one resolved sort entry.
type SortField struct {
	Path  string
	Order string
}

// CompiledQuery is the output of a compilation. Body is always sent, FacetBody
// only when facets were requested.
type CompiledQuery struct {
	Endpoint    string
	MainQuery   clause.Clause
	PostFilter  clause.Clause
	Facets      []Facet
	FacetPaths  map[string]string
	Sort        []SortField
	From        int
	Size        int
	Includes    []string
	Excludes    []string
	SearchAfter []any
}

// Body renders the hits request.
func (q *CompiledQuery) Body() map[string]any {
	body := map[string]any{
		"query":            q.MainQuery,
		"post_filter":      q.PostFilter,
		"size":             q.Size,
		"track_total_hits": true,
	}
	if len(q.SearchAfter) > 0 {
		body["search_after"] = q.SearchAfter
	} else {
		body["from"] = q.From
	}
	if len(q.Sort) > 0 {
		sorts := make([]map[string]any, len(q.Sort))
		for i, s := range q.Sort {
			sorts[i] = map[string]any{s.Path: map[string]any{"order": s.Order}}
		}
		body["sort"] = sorts
	}
	if len(q.Includes) > 0 || len(q.Excludes) > 0 {
		source := map[string]any{}
		if len(q.Includes) > 0 {
			source["includes"] = q.Includes
		}
		if len(q.Excludes) > 0 {
			source["excludes"] = q.Excludes
		}
		body["_source"] = source
	}
	return body
}

// FacetBody renders the zero-size aggregation request, with every facet
// computed under the post filter. It is nil when no facet was requested.
func (q *CompiledQuery) FacetBody() map[string]any {
	if len(q.Facets) == 0 {
		return nil
	}
	aggs := make(map[string]any, len(q.Facets))
	for _, f := range q.Facets {
		aggs[f.Name] = f.Aggregation
	}
	return map[string]any{
		"size":  0,
		"query": q.MainQuery,
		"aggs": map[string]any{
			appliedFilterAggregation: map[string]any{
				"filter": q.PostFilter,
				"aggs":   aggs,
			},
		},
	}
}
