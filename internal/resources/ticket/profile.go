// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package ticket

import (
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/clause"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/compiler"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/resources"
)

// Endpoint is the ticket index.
const Endpoint = "tickets"

func facets() []compiler.Facet {
	terms := func(field string) map[string]any {
		return map[string]any{"terms": map[string]any{"field": field, "size": 50}}
	}
	return []compiler.Facet{
		{Name: "type", Aggregation: terms(pathType + ".keyword"), Pointer: "/buckets"},
		{Name: "status", Aggregation: terms(pathStatus + ".keyword"), Pointer: "/buckets"},
		{Name: "organization", Aggregation: terms(pathOrganization + ".keyword"), Pointer: "/buckets"},
		{Name: "assignee", Aggregation: terms(pathAssignee + ".keyword"), Pointer: "/buckets"},
	}
}

// custom compiles the ticket CUSTOM keys.
func (k keys) custom(store *param.Store, key *param.Key, value param.Value) ([]clause.Entry, error) {
	switch key {
	case k.assignee:
		return k.assigneeClause(store, key, value), nil
	case k.organizationID:
		exclude, err := resources.Flag(store, k.excludeSubunits)
		if err != nil {
			return nil, err
		}
		ids := value.Split(param.DefaultSeparator)
		return []clause.Entry{{
			Key:    key,
			Clause: resources.Hierarchy(key, ids, pathOrganization+".keyword", pathOrgAncestors+".keyword", exclude),
		}}, nil
	default:
		compiler.Unhandled(store.Registry(), key)
		return nil, nil
	}
}

// assigneeClause matches tickets assigned to any of the values. When New
// tickets are asked for, unassigned New tickets match too, since nobody has
// picked them up yet.
func (k keys) assigneeClause(store *param.Store, key *param.Key, value param.Value) []clause.Entry {
	assigned := clause.Terms{Field: pathAssignee + ".keyword", Values: value.Split(param.DefaultSeparator)}
	status, ok := store.Get(k.status)
	includesNew := false
	if ok {
		for _, s := range status.Split(param.DefaultSeparator) {
			if s == StatusNew {
				includesNew = true
			}
		}
	}
	if !includesNew {
		return []clause.Entry{{Key: key, Clause: assigned}}
	}
	unassigned := clause.Bool{
		Name:    "unassignedNew",
		Must:    []clause.Clause{clause.Term{Field: pathStatus + ".keyword", Value: StatusNew}},
		MustNot: []clause.Clause{clause.Exists{Field: "assignee"}},
	}
	return []clause.Entry{{Key: key, Clause: clause.Bool{
		Name:               "assignee",
		Should:             []clause.Clause{assigned, unassigned},
		MinimumShouldMatch: 1,
	}}}
}
