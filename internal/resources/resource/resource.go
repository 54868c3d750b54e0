// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package resource defines how publications are searched and harvested.
package resource

import (
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/access"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/compiler"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/validator"
)

// Harvesting key names, used by the harvest service to build its requests.
const (
	KeyInstanceType   = "instanceType"
	KeyModifiedSince  = "modifiedSince"
	KeyModifiedBefore = "modifiedBefore"
	SortModified      = "modifiedDate"
)

// New builds the publication resource type.
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
