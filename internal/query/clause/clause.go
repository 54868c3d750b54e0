// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package clause holds the OpenSearch boolean-query nodes the compiler emits
// and the builders, one per field kind, that produce them.
package clause

import (
	"encoding/json"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
)

// Clause is one node of an OpenSearch query tree. Each implementation
// marshals to the OpenSearch query DSL.
type Clause interface {
	json.Marshaler
	clause()
}

// Entry pairs a compiled clause with the key it was compiled from.
type Entry struct {
	Key    *param.Key
	Clause Clause
}

// Term matches one exact value.
type Term struct {
	Field string
	Value any
}

// Terms matches any of several exact values.
type Terms struct {
	Field  string
	Values []string
}

// Range bounds a numeric or date field. Nil bounds are omitted.
type Range struct {
	Field string
	GTE   any
	LTE   any
	LT    any
}

// Exists matches documents with a value at Field.
type Exists struct {
	Field string
}

// MultiMatch searches Query across Fields.
type MultiMatch struct {
	Query     string
	Fields    []string
	Type      string
	Operator  string
	Fuzziness string
	Boost     float64
}

// MatchAll matches every document.
type MatchAll struct{}

// MatchNone matches no document.
type MatchNone struct{}

// Bool combines child clauses. Name is surfaced as "_name" for debugging.
type Bool struct {
	Name               string
	Must               []Clause
	Should             []Clause
	MustNot            []Clause
	Filter             []Clause
	MinimumShouldMatch int
}

// HasChild matches parents whose children of Type match Query.
type HasChild struct {
	Type  string
	Query Clause
}

// HasParent matches children whose parent of ParentType matches Query.
type HasParent struct {
	ParentType string
	Query      Clause
}

// Nested matches documents with an object under Path matching Query.
type Nested struct {
	Path  string
	Query Clause
}

func (Term) clause()       {}
func (Terms) clause()      {}
func (Range) clause()      {}
func (Exists) clause()     {}
func (MultiMatch) clause() {}
func (MatchAll) clause()   {}
func (MatchNone) clause()  {}
func (Bool) clause()       {}
func (HasChild) clause()   {}
func (HasParent) clause()  {}
func (Nested) clause()     {}

type object = map[string]any

// MarshalJSON renders {"term": {field: {"value": v}}}.
func (t Term) MarshalJSON() ([]byte, error) {
	return json.Marshal(object{"term": object{t.Field: object{"value": t.Value}}})
}

// MarshalJSON renders {"terms": {field: [values]}}.
func (t Terms) MarshalJSON() ([]byte, error) {
	return json.Marshal(object{"terms": object{t.Field: t.Values}})
}

// MarshalJSON renders {"range": {field: {...bounds}}}.
func (r Range) MarshalJSON() ([]byte, error) {
	bounds := object{}
	if r.GTE != nil {
		bounds["gte"] = r.GTE
	}
	if r.LTE != nil {
		bounds["lte"] = r.LTE
	}
	if r.LT != nil {
		bounds["lt"] = r.LT
	}
	return json.Marshal(object{"range": object{r.Field: bounds}})
}

// MarshalJSON renders {"exists": {"field": field}}.
func (e Exists) MarshalJSON() ([]byte, error) {
	return json.Marshal(object{"exists": object{"field": e.Field}})
}

// MarshalJSON renders a multi_match query, omitting unset options.
func (m MultiMatch) MarshalJSON() ([]byte, error) {
	body := object{
		"query":  m.Query,
		"fields": m.Fields,
	}
	if m.Type != "" {
		body["type"] = m.Type
	}
	if m.Operator != "" {
		body["operator"] = m.Operator
	}
	if m.Fuzziness != "" {
		body["fuzziness"] = m.Fuzziness
	}
	if m.Boost != 0 && m.Boost != 1 {
		body["boost"] = m.Boost
	}
	return json.Marshal(object{"multi_match": body})
}

// MarshalJSON renders {"match_all": {}}.
func (MatchAll) MarshalJSON() ([]byte, error) {
	return []byte(`{"match_all":{}}`), nil
}

// MarshalJSON renders {"match_none": {}}.
func (MatchNone) MarshalJSON() ([]byte, error) {
	return []byte(`{"match_none":{}}`), nil
}

// MarshalJSON renders a bool query, omitting empty occurrences.
func (b Bool) MarshalJSON() ([]byte, error) {
	body := object{}
	if len(b.Must) > 0 {
		body["must"] = b.Must
	}
	if len(b.Should) > 0 {
		body["should"] = b.Should
	}
	if len(b.MustNot) > 0 {
		body["must_not"] = b.MustNot
	}
	if len(b.Filter) > 0 {
		body["filter"] = b.Filter
	}
	if b.MinimumShouldMatch > 0 {
		body["minimum_should_match"] = b.MinimumShouldMatch
	}
	if b.Name != "" {
		body["_name"] = b.Name
	}
	return json.Marshal(object{"bool": body})
}

// MarshalJSON renders a has_child query that contributes no score.
func (h HasChild) MarshalJSON() ([]byte, error) {
	return json.Marshal(object{"has_child": object{
		"type":       h.Type,
		"query":      h.Query,
		"score_mode": "none",
	}})
}

// MarshalJSON renders a has_parent query that contributes no score.
func (h HasParent) MarshalJSON() ([]byte, error) {
	return json.Marshal(object{"has_parent": object{
		"parent_type": h.ParentType,
		"query":       h.Query,
		"score":       false,
	}})
}

// MarshalJSON renders a nested query.
func (n Nested) MarshalJSON() ([]byte, error) {
	return json.Marshal(object{"nested": object{
		"path":  n.Path,
		"query": n.Query,
	}})
}
