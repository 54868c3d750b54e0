// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package clause

import "github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"

// textQuery prefers phrase-prefix hits and falls back to requiring every term
// of the value. With acrossFields the terms may be spread over the paths.
type textQuery struct {
	acrossFields bool
}

func (q textQuery) buildAny(key *param.Key, values []string) (Clause, error) {
	return anyOf(key, q.perValue(key, values)), nil
}

func (q textQuery) buildAll(key *param.Key, values []string) (Clause, error) {
	return allOf(key, q.perValue(key, values)), nil
}

func (q textQuery) perValue(key *param.Key, values []string) []Clause {
	paths := key.SearchPaths(false)
	matchType := "best_fields"
	if q.acrossFields {
		matchType = "cross_fields"
	}
	out := make([]Clause, len(values))
	for i, v := range values {
		out[i] = Bool{
			Name: key.Name() + "Text",
			Should: []Clause{
				MultiMatch{Query: v, Fields: paths, Type: "phrase_prefix", Boost: key.Boost() + fuzzyPrefixBonus},
				MultiMatch{Query: v, Fields: paths, Type: matchType, Operator: "and", Boost: key.Boost()},
			},
			MinimumShouldMatch: 1,
		}
	}
	return out
}

// freeTextQuery searches the whole value across the key's paths.
type freeTextQuery struct{}

func (freeTextQuery) buildAny(key *param.Key, values []string) (Clause, error) {
	return anyOf(key, freeText(key, values, key.SearchPaths(false))), nil
}

func (freeTextQuery) buildAll(key *param.Key, values []string) (Clause, error) {
	return allOf(key, freeText(key, values, key.SearchPaths(false))), nil
}

// FreeText compiles a free-text value over an explicit field list, used when
// the request narrows the searched fields.
func FreeText(key *param.Key, value string, fields []string) Entry {
	return Entry{Key: key, Clause: allOf(key, freeText(key, []string{value}, fields))}
}

func freeText(key *param.Key, values []string, fields []string) []Clause {
	out := make([]Clause, len(values))
	for i, v := range values {
		out[i] = MultiMatch{
			Query:    v,
			Fields:   fields,
			Type:     "cross_fields",
			Operator: "and",
			Boost:    key.Boost(),
		}
	}
	return out
}
