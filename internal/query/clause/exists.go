// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package clause

import "github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"

// existsQuery matches on the presence of any of the key's paths. A negated
// operator flips the boolean.
type existsQuery struct{}

func (existsQuery) Build(key *param.Key, value string) ([]Entry, error) {
	want, err := param.NewValue(key, value).AsBool()
	if err != nil {
		return nil, err
	}
	if key.Operator().IsNegated() {
		want = !want
	}
	paths := key.SearchPaths(false)
	exists := make([]Clause, len(paths))
	for i, p := range paths {
		exists[i] = Exists{Field: p}
	}
	var c Clause
	if want {
		c = Bool{Name: key.Name() + "Exists", Should: exists, MinimumShouldMatch: 1}
	} else {
		c = Bool{Name: key.Name() + "Missing", MustNot: exists}
	}
	return []Entry{{Key: key, Clause: c}}, nil
}
