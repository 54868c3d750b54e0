// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package importcandidate defines how publications awaiting import from
// external sources are searched.
package importcandidate

import (
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/access"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/clause"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/compiler"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/validator"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
)

// Endpoint is the import candidate index.
const Endpoint = "import-candidates"

// RightManageImport is required to search import candidates at all.
const RightManageImport = "MANAGE_IMPORT"

type policy struct {
	validator.BasePolicy
	keys keys
}

func (p policy) SetValue(store *param.Store, key *param.Key, value string) error {
	if key == p.keys.importStatus {
		v, err := importStatuses.Normalize(key, value)
		if err != nil {
			return err
		}
		value = v
	}
	return p.BasePolicy.SetValue(store, key, value)
}

func (p policy) Default(key *param.Key) (string, bool) {
	if key.Name() == validator.KeySort {
		return "createdDate:desc", true
	}
	return p.BasePolicy.Default(key)
}

func filter(caller access.Caller, _ *param.Store) ([]clause.Clause, error) {
	if !caller.Has(RightManageImport) {
		return nil, errors.NewForbidden()
	}
	return []clause.Clause{clause.MatchAll{}}, nil
}

func facets() []compiler.Facet {
	terms := func(field string) map[string]any {
		return map[string]any{"terms": map[string]any{"field": field, "size": 50}}
	}
	return []compiler.Facet{
		{Name: "importStatus", Aggregation: terms(pathImportStatus + ".keyword"), Pointer: "/buckets"},
		{Name: "instanceType", Aggregation: terms(pathInstanceType + ".keyword"), Pointer: "/buckets"},
		{Name: "collaborationType", Aggregation: terms(pathCollaboration + ".keyword"), Pointer: "/buckets"},
		{Name: "publicationYear", Aggregation: terms(pathYear + ".keyword"), Pointer: "/buckets"},
		{Name: "topLevelOrganization", Aggregation: terms(pathTopOrganization + ".keyword"), Pointer: "/buckets"},
	}
}

// custom matches identifiers issued by one source. Source and value must sit
// on the same identifier object, hence the nested query.
func (k keys) custom(store *param.Store, key *param.Key, value param.Value) ([]clause.Entry, error) {
	var source string
	switch key {
	case k.cristinIdentifier:
		source = SourceCristin
	case k.scopusIdentifier:
		source = SourceScopus
	default:
		compiler.Unhandled(store.Registry(), key)
		return nil, nil
	}
	return []clause.Entry{{Key: key, Clause: clause.Nested{
		Path: pathIdentifiers,
		Query: clause.Bool{
			Name: key.Name(),
			Must: []clause.Clause{
				clause.Term{Field: pathIdentifiers + ".sourceName.keyword", Value: source},
				clause.Terms{Field: pathIdentifiers + ".value.keyword", Values: value.Split(param.DefaultSeparator)},
			},
		},
	}}}, nil
}

// New builds the import candidate resource type.
func New() model.ResourceType {
	k := newKeys()
	registry := newRegistry(k)
	return model.ResourceType{
		Name:      Name,
		Validator: validator.New(registry, policy{keys: k}),
		Compiler: compiler.New(compiler.Profile{
			Registry:     registry,
			Endpoint:     Endpoint,
			Facets:       facets(),
			DefaultOrder: param.SortDescending,
			TieBreaker:   "_id",
			Custom:       k.custom,
		}),
		Filter: access.FilterFunc(filter),
		Required: []*param.Key{
			registry.Key(validator.KeyFrom),
			registry.Key(validator.KeySize),
			registry.Key(validator.KeySort),
			registry.Key(validator.KeyAggregation),
		},
	}
}
