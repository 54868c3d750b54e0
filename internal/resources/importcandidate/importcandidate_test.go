// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package importcandidate

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

var importer = access.Caller{Username: "ann", Rights: []string{RightManageImport}}

func TestIdentifierSearchIsNested(t *testing.T) {
	rt := New()
	store, err := rt.Validator.Validate(context.Background(), map[string][]string{
		"scopusIdentifier": {"2-s2.0-85", "2-s2.0-86"},
	}, rt.Required...)
	require.NoError(t, err)
	filters, err := rt.Filter.Apply(importer, store)
	require.NoError(t, err)

	q, err := rt.Compiler.Compile(context.Background(), store, filters)
	require.NoError(t, err)

	main := q.MainQuery.(clause.Bool)
	require.Len(t, main.Must, 1)
	raw, err := json.Marshal(main.Must[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"nested":{"path":"additionalIdentifiers","query":{"bool":{
		"_name":"scopusIdentifier",
		"must":[
			{"term":{"additionalIdentifiers.sourceName.keyword":{"value":"Scopus"}}},
			{"terms":{"additionalIdentifiers.value.keyword":["2-s2.0-85","2-s2.0-86"]}}
		]}}}}`, string(raw))
	assert.Equal(t, []compiler.SortField{{Path: "createdDate", Order: "desc"}, {Path: "_id", Order: "asc"}}, q.Sort)
}

func TestImportStatusNormalization(t *testing.T) {
	rt := New()
	store, err := rt.Validator.Validate(context.Background(), map[string][]string{
		"importStatus": {"not imported"},
	})
	require.NoError(t, err)

	v, ok := store.Get(rt.Registry().Key("importStatus"))
	require.True(t, ok)
	assert.Equal(t, StatusNotImported, v.String())

	_, err = rt.Validator.Validate(context.Background(), map[string][]string{
		"importStatus": {"pending"},
	})
	var validation errors.Validation
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, errors.KindInvalidValue, validation.Kind())
}

func TestAccessRequiresImportRight(t *testing.T) {
	rt := New()
	store := param.NewStore(rt.Registry())

	_, err := rt.Filter.Apply(access.Caller{Username: "ann", Rights: []string{"MANAGE_DOI"}}, store)
	var forbidden errors.Forbidden
	assert.ErrorAs(t, err, &forbidden)

	got, err := rt.Filter.Apply(importer, store)
	require.NoError(t, err)
	assert.Equal(t, []clause.Clause{clause.MatchAll{}}, got)
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
