// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package compiler

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/clause"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/validator"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	registry *param.Registry
	compiler *Compiler
}

func newFixture(custom CustomFunc) fixture {
	r := param.NewRegistry("book", []*param.Key{
		param.NewKey("query", param.FreeText, param.AllOf, param.WithPaths(param.TextPath("title"), param.TextPath("summary"))),
		param.NewKey("tags", param.Keyword, param.AnyOf, param.WithPaths(param.KeywordPath("tags"))),
		param.NewKey("owner", param.Custom, param.AllOf),
		param.NewKey(validator.KeyFields, param.Ignored, param.NotApplicable),
		param.NewKey(validator.KeyAggregation, param.Ignored, param.NotApplicable),
		param.NewKey(validator.KeyPage, param.Ignored, param.NotApplicable),
		param.NewKey(validator.KeyFrom, param.Ignored, param.NotApplicable),
		param.NewKey(validator.KeySize, param.Ignored, param.NotApplicable),
		param.NewKey(validator.KeySort, param.SortKeyKind, param.NotApplicable),
		param.NewKey(validator.KeySearchAfter, param.Ignored, param.NotApplicable, param.WithDecoding(param.DecodeNone)),
		param.NewKey(validator.KeyInclude, param.Ignored, param.NotApplicable),
		param.NewKey(validator.KeyExclude, param.Ignored, param.NotApplicable),
	}, validator.KeyFields,
		param.NewSortKey("title", "title.keyword"),
		param.NewSortKey("name", "name.en.keyword", "name.nb.keyword"),
	)
	return fixture{
		registry: r,
		compiler: New(Profile{
			Registry:   r,
			Endpoint:   "books",
			TieBreaker: "_id",
			Facets: []Facet{
				{Name: "tags", Aggregation: map[string]any{"terms": map[string]any{"field": "tags.keyword"}}, Pointer: "/buckets"},
				{Name: "year", Aggregation: map[string]any{"terms": map[string]any{"field": "year"}}, Pointer: "/buckets"},
			},
			Custom: custom,
		}),
	}
}

func (f fixture) store(t *testing.T, values map[string]string) *param.Store {
	t.Helper()
	s := param.NewStore(f.registry)
	for name, value := range values {
		k := f.registry.Key(name)
		require.NotNil(t, k, name)
		s.Set(k, value)
	}
	return s
}

func TestCompileWithoutAccessMatchesNothing(t *testing.T) {
	f := newFixture(nil)

	q, err := f.compiler.Compile(context.Background(), f.store(t, map[string]string{"tags": "a"}), nil)

	require.NoError(t, err)
	assert.Equal(t, clause.MatchNone{}, q.PostFilter)
}

func TestCompileEmptyStoreMatchesAll(t *testing.T) {
	f := newFixture(nil)
	public := clause.Term{Field: "public", Value: true}

	q, err := f.compiler.Compile(context.Background(), f.store(t, nil), []clause.Clause{public})

	require.NoError(t, err)
	assert.Equal(t, clause.MatchAll{}, q.MainQuery)
	assert.Equal(t, clause.Bool{Name: "postFilter", Filter: []clause.Clause{public}}, q.PostFilter)
	assert.Equal(t, "books", q.Endpoint)
	assert.Equal(t, 0, q.From)
	assert.Equal(t, 15, q.Size)
	assert.Equal(t, []SortField{{Path: "_score", Order: "desc"}, {Path: "_id", Order: "asc"}}, q.Sort)
	assert.Nil(t, q.FacetBody())
}

func TestCompileAndsEveryKey(t *testing.T) {
	f := newFixture(func(store *param.Store, key *param.Key, value param.Value) ([]clause.Entry, error) {
		switch key.Name() {
		case "owner":
			return []clause.Entry{{Key: key, Clause: clause.Term{Field: "owner.keyword", Value: value.String()}}}, nil
		default:
			Unhandled(store.Registry(), key)
			return nil, nil
		}
	})

	q, err := f.compiler.Compile(context.Background(), f.store(t, map[string]string{
		"tags":  "a,b",
		"owner": "ann",
		"query": "red, green",
	}), nil)

	require.NoError(t, err)
	assert.Equal(t, clause.Bool{Name: "mainQuery", Must: []clause.Clause{
		clause.MultiMatch{Query: "red, green", Fields: []string{"title", "summary"}, Type: "cross_fields", Operator: "and", Boost: 1},
		clause.Terms{Field: "tags.keyword", Values: []string{"a", "b"}},
		clause.Term{Field: "owner.keyword", Value: "ann"},
	}}, q.MainQuery)
}

func TestCompileFieldsNarrowFreeText(t *testing.T) {
	tests := []struct {
		name   string
		fields string
		want   []string
	}{
		{name: "all keeps the default paths", fields: "all", want: []string{"title", "summary"}},
		{name: "explicit list", fields: "summary", want: []string{"summary"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(nil)
			q, err := f.compiler.Compile(context.Background(), f.store(t, map[string]string{"query": "x", "fields": tt.fields}), nil)
			require.NoError(t, err)
			must := q.MainQuery.(clause.Bool).Must
			require.Len(t, must, 1)
			assert.Equal(t, tt.want, must[0].(clause.MultiMatch).Fields)
		})
	}
}

func TestCompileUnhandledCustomKeyPanics(t *testing.T) {
	f := newFixture(nil)
	store := f.store(t, map[string]string{"owner": "ann"})

	assert.PanicsWithValue(t, UnhandledCustomKeyError{Registry: "book", Key: "owner"}, func() {
		_, _ = f.compiler.Compile(context.Background(), store, nil)
	})
}

func TestCompileFacets(t *testing.T) {
	tests := []struct {
		name        string
		aggregation string
		want        []string
		wantErr     bool
	}{
		{name: "none", aggregation: "none"},
		{name: "all", aggregation: "ALL", want: []string{"tags", "year"}},
		{name: "named", aggregation: "year", want: []string{"year"}},
		{name: "unknown", aggregation: "colour", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(nil)
			q, err := f.compiler.Compile(context.Background(), f.store(t, map[string]string{"aggregation": tt.aggregation}), nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			var names []string
			for _, facet := range q.Facets {
				names = append(names, facet.Name)
				assert.Equal(t, "/aggregations/withAppliedFilter/"+facet.Name+"/buckets", q.FacetPaths[facet.Name])
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestFacetBodyUsesPostFilter(t *testing.T) {
	f := newFixture(nil)
	public := clause.Term{Field: "public", Value: true}

	q, err := f.compiler.Compile(context.Background(), f.store(t, map[string]string{"aggregation": "tags"}), []clause.Clause{public})
	require.NoError(t, err)

	raw, err := json.Marshal(q.FacetBody())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"size": 0,
		"query": {"match_all": {}},
		"aggs": {"withAppliedFilter": {
			"filter": {"bool": {"_name": "postFilter", "filter": [{"term": {"public": {"value": true}}}]}},
			"aggs": {"tags": {"terms": {"field": "tags.keyword"}}}
		}}
	}`, string(raw))
}

func TestCompileSort(t *testing.T) {
	tests := []struct {
		name string
		sort string
		want []SortField
	}{
		{
			name: "direction defaults to the profile order",
			sort: "title",
			want: []SortField{{Path: "title.keyword", Order: "desc"}, {Path: "_id", Order: "asc"}},
		},
		{
			name: "logical key expands to several paths",
			sort: "name:ASC",
			want: []SortField{
				{Path: "name.en.keyword", Order: "asc"},
				{Path: "name.nb.keyword", Order: "asc"},
				{Path: "_id", Order: "asc"},
			},
		},
		{
			name: "relevance maps to score",
			sort: "relevance,title:asc",
			want: []SortField{{Path: "_score", Order: "desc"}, {Path: "title.keyword", Order: "asc"}, {Path: "_id", Order: "asc"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(nil)
			q, err := f.compiler.Compile(context.Background(), f.store(t, map[string]string{"sort": tt.sort}), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Sort)
		})
	}
}

func TestCompileWindow(t *testing.T) {
	tests := []struct {
		name     string
		values   map[string]string
		from     int
		size     int
		wantFrom bool
	}{
		{name: "explicit", values: map[string]string{"from": "40", "size": "20"}, from: 40, size: 20},
		{name: "page without from", values: map[string]string{"page": "2", "size": "10"}, from: 20, size: 10},
		{name: "defaults", values: map[string]string{}, from: 0, size: 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(nil)
			q, err := f.compiler.Compile(context.Background(), f.store(t, tt.values), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.from, q.From)
			assert.Equal(t, tt.size, q.Size)
			assert.Equal(t, tt.from, q.Body()["from"])
		})
	}
}

func TestCompileRejectsSearchAfterWithTrailingText(t *testing.T) {
	for _, value := range []string{`["a"] junk`, `["a"]["b"]`, `["a"`} {
		t.Run(value, func(t *testing.T) {
			f := newFixture(nil)
			store := f.store(t, map[string]string{"searchAfter": value, "sort": "title"})

			_, err := f.compiler.Compile(context.Background(), store, nil)

			var validation errors.Validation
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, errors.KindInvalidValue, validation.Kind())
		})
	}
}

func TestCompileRejectsPageBeyondWindow(t *testing.T) {
	f := newFixture(nil)

	_, err := f.compiler.Compile(context.Background(),
		f.store(t, map[string]string{"page": "922337203685477580", "size": "100"}), nil)

	var validation errors.Validation
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, errors.KindInvalidValue, validation.Kind())
	assert.Equal(t, validator.KeyPage, validation.Key())
}

func TestCompileConsumesSearchAfter(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []any
	}{
		{name: "json array", value: `["Dune", 12.5, "abc"]`, want: []any{"Dune", json.Number("12.5"), "abc"}},
		{name: "comma list", value: "1690000000000,abc", want: []any{int64(1690000000000), "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(nil)
			store := f.store(t, map[string]string{"searchAfter": tt.value, "sort": "title", "from": "30"})

			q, err := f.compiler.Compile(context.Background(), store, nil)

			require.NoError(t, err)
			assert.Equal(t, tt.want, q.SearchAfter)
			assert.False(t, store.Has(f.registry.Key(validator.KeySearchAfter)))
			body := q.Body()
			assert.Equal(t, tt.want, body["search_after"])
			assert.NotContains(t, body, "from")
		})
	}
}

func TestCompileProjection(t *testing.T) {
	f := newFixture(nil)

	q, err := f.compiler.Compile(context.Background(), f.store(t, map[string]string{
		"include": "title,tags",
		"exclude": "internal",
	}), nil)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"includes": []string{"title", "tags"},
		"excludes": []string{"internal"},
	}, q.Body()["_source"])
}

func TestCompileRejectsForeignStore(t *testing.T) {
	f := newFixture(nil)
	other := newFixture(nil)

	_, err := f.compiler.Compile(context.Background(), param.NewStore(other.registry), nil)

	assert.Error(t, err)
}
