// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package ticket defines the searchable parameters, access rules and facets
// of curator tickets.
package ticket

import (
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/compiler"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/validator"
)

// New builds the ticket resource type with its own registry.
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
		Filter: filter{owner: k.owner},
		Required: []*param.Key{
			registry.Key(validator.KeyFrom),
			registry.Key(validator.KeySize),
			registry.Key(validator.KeySort),
			registry.Key(validator.KeyAggregation),
		},
	}
}
