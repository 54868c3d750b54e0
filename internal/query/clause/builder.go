// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package clause

import (
	"fmt"
	"strings"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
)

// Builder compiles one key and its raw value into clauses.
type Builder interface {
	Build(key *param.Key, value string) ([]Entry, error)
}

// combiner is implemented by every kind-specific strategy.
type combiner interface {
	buildAny(key *param.Key, values []string) (Clause, error)
	buildAll(key *param.Key, values []string) (Clause, error)
}

// splitting wraps a combiner with the shared split-and-dispatch flow.
type splitting struct {
	combiner
	// whole disables value splitting.
	whole bool
}

// Build splits value, duplicates a lone BETWEEN value and dispatches on the
// key's operator.
func (s splitting) Build(key *param.Key, value string) ([]Entry, error) {
	values := splitValues(key, value, s.whole)
	if len(values) == 0 {
		return nil, errors.NewInvalidValue(key.Name(), value, key.ErrorMessage(value))
	}
	var (
		c   Clause
		err error
	)
	if key.Operator().IsAny() {
		c, err = s.buildAny(key, values)
	} else {
		c, err = s.buildAll(key, values)
	}
	if err != nil {
		return nil, err
	}
	return []Entry{{Key: key, Clause: c}}, nil
}

func splitValues(key *param.Key, value string, whole bool) []string {
	if whole {
		if v := strings.TrimSpace(value); v != "" {
			return []string{v}
		}
		return nil
	}
	values := param.NewValue(key, value).Split(param.DefaultSeparator)
	if key.Operator() == param.Between && len(values) == 1 {
		values = append(values, values[0])
	}
	return values
}

// anyOf unions clauses; NOT_ANY_OF turns the union into must_not.
func anyOf(key *param.Key, clauses []Clause) Clause {
	if key.Operator().IsNegated() {
		return Bool{Name: key.Name() + "NotAnyOf", MustNot: clauses}
	}
	if len(clauses) == 1 {
		return clauses[0]
	}
	return Bool{Name: key.Name() + "AnyOf", Should: clauses, MinimumShouldMatch: 1}
}

// allOf intersects clauses; NOT_ALL_OF negates the conjunction.
func allOf(key *param.Key, clauses []Clause) Clause {
	var conj Clause
	if len(clauses) == 1 {
		conj = clauses[0]
	} else {
		conj = Bool{Name: key.Name() + "AllOf", Must: clauses}
	}
	if key.Operator().IsNegated() {
		return Bool{Name: key.Name() + "NotAllOf", MustNot: []Clause{conj}}
	}
	return conj
}

// Table is the strategy table from field kind to builder.
type Table struct {
	builders map[param.FieldKind]Builder
}

// NewTable registers a builder for every compilable field kind. CUSTOM,
// SORT_KEY, IGNORED and INVALID keys have no entry.
func NewTable() *Table {
	t := &Table{builders: make(map[param.FieldKind]Builder)}
	t.builders[param.Keyword] = splitting{combiner: keywordQuery{}}
	t.builders[param.FuzzyKeyword] = splitting{combiner: fuzzyKeywordQuery{}}
	t.builders[param.Text] = splitting{combiner: textQuery{}}
	t.builders[param.AcrossFields] = splitting{combiner: textQuery{acrossFields: true}}
	t.builders[param.FreeText] = splitting{combiner: freeTextQuery{}, whole: true}
	t.builders[param.Number] = rangeQuery{}
	t.builders[param.Date] = rangeQuery{}
	t.builders[param.Exists] = existsQuery{}
	t.builders[param.HasParts] = relationQuery{table: t}
	t.builders[param.PartOf] = relationQuery{table: t}
	return t
}

// For returns the builder registered for kind.
func (t *Table) For(kind param.FieldKind) (Builder, bool) {
	b, ok := t.builders[kind]
	return b, ok
}

// Build compiles key with its registered builder.
func (t *Table) Build(key *param.Key, value string) ([]Entry, error) {
	b, ok := t.For(key.Kind())
	if !ok {
		return nil, fmt.Errorf("no clause builder for %s key %q", key.Kind(), key.Name())
	}
	return b.Build(key, value)
}

// Clauses strips the keys from entries.
func Clauses(entries []Entry) []Clause {
	out := make([]Clause, len(entries))
	for i, e := range entries {
		out[i] = e.Clause
	}
	return out
}
