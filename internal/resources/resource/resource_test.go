// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package resource

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/access"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/clause"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/compiler"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, raw map[string][]string, caller access.Caller) (*compiler.CompiledQuery, error) {
	t.Helper()
	rt := New()
	store, err := rt.Validator.Validate(context.Background(), raw, rt.Required...)
	if err != nil {
		return nil, err
	}
	filters, err := rt.Filter.Apply(caller, store)
	if err != nil {
		return nil, err
	}
	return rt.Compiler.Compile(context.Background(), store, filters)
}

func must(t *testing.T, q *compiler.CompiledQuery) []clause.Clause {
	t.Helper()
	b, ok := q.MainQuery.(clause.Bool)
	require.True(t, ok, "main query is %T", q.MainQuery)
	return b.Must
}

func TestCompilePublicationSearch(t *testing.T) {
	q, err := compile(t, map[string][]string{
		"category":        {"AcademicArticle"},
		"publicationYear": {"2019,2021"},
		"sort":            {"publicationDate:desc"},
		"size":            {"10"},
	}, access.Caller{})

	require.NoError(t, err)
	assert.Equal(t, []clause.Clause{
		clause.Terms{Field: pathInstanceType + ".keyword", Values: []string{"AcademicArticle"}},
		clause.Range{Field: pathYear, GTE: json.Number("2019"), LTE: json.Number("2021")},
	}, must(t, q))
	assert.Equal(t, Endpoint, q.Endpoint)
	assert.Equal(t, 10, q.Size)
	assert.Equal(t, []compiler.SortField{
		{Path: pathYear, Order: "desc"},
		{Path: "entityDescription.publicationDate.month", Order: "desc"},
		{Path: "entityDescription.publicationDate.day", Order: "desc"},
		{Path: "_id", Order: "asc"},
	}, q.Sort)
}

func TestYearBounds(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string][]string
		want clause.Clause
	}{
		{
			name: "single year matches that year only",
			raw:  map[string][]string{"publicationYear": {"2020"}},
			want: clause.Range{Field: pathYear, GTE: json.Number("2020"), LTE: json.Number("2020")},
		},
		{
			name: "open lower bound",
			raw:  map[string][]string{"publicationYear": {",2020"}},
			want: clause.Range{Field: pathYear, LTE: json.Number("2020")},
		},
		{
			name: "before is exclusive",
			raw:  map[string][]string{"publication_year_before": {"2020"}},
			want: clause.Range{Field: pathYear, LT: json.Number("2020")},
		},
		{
			name: "since is inclusive",
			raw:  map[string][]string{"publicationYearSince": {"2020"}},
			want: clause.Range{Field: pathYear, GTE: json.Number("2020")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := compile(t, tt.raw, access.Caller{})
			require.NoError(t, err)
			assert.Equal(t, []clause.Clause{tt.want}, must(t, q))
		})
	}
}

func TestInvalidYearIsRejected(t *testing.T) {
	_, err := compile(t, map[string][]string{"publicationYear": {"twenty"}}, access.Caller{})

	var validation errors.Validation
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, errors.KindInvalidValue, validation.Kind())
	assert.Equal(t, "publicationYear", validation.Key())
}

func TestStatusNormalization(t *testing.T) {
	q, err := compile(t, map[string][]string{"status": {"published_metadata,draft"}}, access.Caller{})

	require.NoError(t, err)
	assert.Equal(t, []clause.Clause{
		clause.Terms{Field: "status.keyword", Values: []string{StatusPublishedMetadata, StatusDraft}},
	}, must(t, q))
}

func TestAccess(t *testing.T) {
	published := clause.Terms{Field: "status.keyword", Values: []string{StatusPublished, StatusPublishedMetadata}}
	tests := []struct {
		name   string
		caller access.Caller
		want   []clause.Clause
	}{
		{
			name:   "anonymous callers see published work",
			caller: access.Caller{},
			want:   []clause.Clause{published},
		},
		{
			name:   "users also see their own",
			caller: access.Caller{Username: "ann"},
			want: []clause.Clause{clause.Bool{
				Name:               "resourceAccess",
				Should:             []clause.Clause{published, clause.Term{Field: pathOwner + ".keyword", Value: "ann"}},
				MinimumShouldMatch: 1,
			}},
		},
		{
			name: "curators see what their institution curates",
			caller: access.Caller{
				Username:        "ann",
				Rights:          []string{RightManageResourcesAll},
				TopOrganization: "https://api/cristin/organization/194.0.0.0",
			},
			want: []clause.Clause{clause.Bool{
				Name: "resourceAccess",
				Should: []clause.Clause{
					published,
					clause.Term{Field: pathOwner + ".keyword", Value: "ann"},
					clause.Term{Field: pathCurating + ".keyword", Value: "https://api/cristin/organization/194.0.0.0"},
				},
				MinimumShouldMatch: 1,
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := New()
			got, err := rt.Filter.Apply(tt.caller, param.NewStore(rt.Registry()))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnitHierarchy(t *testing.T) {
	t.Run("subunits are included by default", func(t *testing.T) {
		q, err := compile(t, map[string][]string{"unit": {"194.63.0.0"}}, access.Caller{})
		require.NoError(t, err)
		assert.Equal(t, []clause.Clause{clause.Bool{
			Name: "unitHierarchy",
			Should: []clause.Clause{
				clause.Terms{Field: pathAffiliation + ".keyword", Values: []string{"194.63.0.0"}},
				clause.Terms{Field: pathOrganizations + ".keyword", Values: []string{"194.63.0.0"}},
			},
			MinimumShouldMatch: 1,
		}}, must(t, q))
	})

	t.Run("subunits can be excluded", func(t *testing.T) {
		q, err := compile(t, map[string][]string{"organizationId": {"194.63.0.0"}, "excludeSubunits": {"true"}}, access.Caller{})
		require.NoError(t, err)
		assert.Equal(t, []clause.Clause{
			clause.Terms{Field: pathAffiliation + ".keyword", Values: []string{"194.63.0.0"}},
		}, must(t, q))
	})
}

func TestRelationalKeys(t *testing.T) {
	q, err := compile(t, map[string][]string{
		"hasChapterTitle": {"fjords"},
		"partOfAnthology": {"0190"},
	}, access.Caller{})

	require.NoError(t, err)
	got := must(t, q)
	require.Len(t, got, 2)
	child, ok := got[0].(clause.HasChild)
	require.True(t, ok)
	assert.Equal(t, "chapter", child.Type)
	assert.Equal(t, clause.HasParent{
		ParentType: "anthology",
		Query:      clause.Terms{Field: "identifier.keyword", Values: []string{"0190"}},
	}, got[1])
}

func TestFacetsAreDeclared(t *testing.T) {
	q, err := compile(t, map[string][]string{"aggregation": {"all"}}, access.Caller{})

	require.NoError(t, err)
	var names []string
	for _, f := range q.Facets {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"instanceType", "status", "publicationYear", "topLevelOrganization", "fundingSource"}, names)
	assert.Equal(t, "/aggregations/withAppliedFilter/status/buckets", q.FacetPaths["status"])
}

func TestEveryCustomKeyIsHandled(t *testing.T) {
	rt := New()
	registry := rt.Registry()
	for _, k := range registry.Keys() {
		if k.Kind() != param.Custom {
			continue
		}
		store := param.NewStore(registry)
		store.Set(k, "x")
		assert.NotPanics(t, func() {
			_, err := rt.Compiler.Compile(context.Background(), store, nil)
			assert.NoError(t, err)
		}, k.Name())
	}
}
