// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package clause

import (
	"fmt"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
)

// relationQuery compiles the value with the key's sub key and wraps the
// result in a join over the declared relation.
type relationQuery struct {
	table *Table
}

func (q relationQuery) Build(key *param.Key, value string) ([]Entry, error) {
	sub, relation := key.SubKey()
	if sub == nil {
		return nil, fmt.Errorf("relational key %q has no sub key", key.Name())
	}
	entries, err := q.table.Build(sub, value)
	if err != nil {
		return nil, err
	}
	inner := Clauses(entries)
	var query Clause
	if len(inner) == 1 {
		query = inner[0]
	} else {
		query = Bool{Name: sub.Name(), Must: inner}
	}

	var c Clause
	if key.Kind() == param.HasParts {
		c = HasChild{Type: relation, Query: query}
	} else {
		c = HasParent{ParentType: relation, Query: query}
	}
	if key.Operator().IsNegated() {
		c = Bool{Name: key.Name() + "Not", MustNot: []Clause{c}}
	}
	return []Entry{{Key: key, Clause: c}}, nil
}
