// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package clause

import "github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"

const fuzzyPrefixBonus = 0.1

// keywordQuery matches exact values against keyword subfields.
type keywordQuery struct{}

// buildAny emits one terms clause per path and unions them.
func (keywordQuery) buildAny(key *param.Key, values []string) (Clause, error) {
	return anyOf(key, termsPerPath(key, values)), nil
}

// buildAll emits one term per value and path, all required.
func (keywordQuery) buildAll(key *param.Key, values []string) (Clause, error) {
	paths := key.SearchPaths(true)
	terms := make([]Clause, 0, len(values)*len(paths))
	for _, v := range values {
		for _, p := range paths {
			terms = append(terms, Term{Field: p, Value: v})
		}
	}
	return allOf(key, terms), nil
}

func termsPerPath(key *param.Key, values []string) []Clause {
	paths := key.SearchPaths(true)
	out := make([]Clause, len(paths))
	for i, p := range paths {
		out[i] = Terms{Field: p, Values: values}
	}
	return out
}

// fuzzyKeywordQuery accepts either an exact keyword hit or a fuzzy prefix
// match on the analysed paths.
type fuzzyKeywordQuery struct{}

func (q fuzzyKeywordQuery) buildAny(key *param.Key, values []string) (Clause, error) {
	return anyOf(key, q.perValue(key, values)), nil
}

func (q fuzzyKeywordQuery) buildAll(key *param.Key, values []string) (Clause, error) {
	return allOf(key, q.perValue(key, values)), nil
}

func (fuzzyKeywordQuery) perValue(key *param.Key, values []string) []Clause {
	keywordPaths := key.SearchPaths(true)
	textPaths := key.SearchPaths(false)
	out := make([]Clause, len(values))
	for i, v := range values {
		should := make([]Clause, 0, len(keywordPaths)+1)
		for _, p := range keywordPaths {
			should = append(should, Term{Field: p, Value: v})
		}
		should = append(should, MultiMatch{
			Query:     v,
			Fields:    textPaths,
			Type:      "bool_prefix",
			Operator:  "and",
			Fuzziness: "AUTO",
			Boost:     key.Boost(),
		})
		out[i] = Bool{Name: key.Name() + "Fuzzy", Should: should, MinimumShouldMatch: 1}
	}
	return out
}
