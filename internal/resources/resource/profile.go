// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package resource

import (
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/clause"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/compiler"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/resources"
)

// Endpoint is the publication index.
const Endpoint = "resources"

func facets() []compiler.Facet {
	terms := func(field string, size int) map[string]any {
		return map[string]any{"terms": map[string]any{"field": field, "size": size}}
	}
	return []compiler.Facet{
		{Name: "instanceType", Aggregation: terms(pathInstanceType+".keyword", 100), Pointer: "/buckets"},
		{Name: "status", Aggregation: terms(pathStatus+".keyword", 10), Pointer: "/buckets"},
		{Name: "publicationYear", Aggregation: terms(pathYear+".keyword", 200), Pointer: "/buckets"},
		{Name: "topLevelOrganization", Aggregation: terms(pathTopOrganization+".keyword", 50), Pointer: "/buckets"},
		{Name: "fundingSource", Aggregation: terms(pathFunding+".keyword", 50), Pointer: "/buckets"},
	}
}

func (k keys) custom(store *param.Store, key *param.Key, value param.Value) ([]clause.Entry, error) {
	if key != k.unit {
		compiler.Unhandled(store.Registry(), key)
		return nil, nil
	}
	exclude, err := resources.Flag(store, k.excludeSubunits)
	if err != nil {
		return nil, err
	}
	// Publications list every contributor organization with its ancestors,
	// so subunit matches come for free unless only direct affiliations count.
	ancestors := pathOrganizations + ".keyword"
	if exclude {
		ancestors = ""
	}
	return []clause.Entry{{
		Key:    key,
		Clause: resources.Hierarchy(key, value.Split(param.DefaultSeparator), pathAffiliation+".keyword", ancestors, exclude),
	}}, nil
}
