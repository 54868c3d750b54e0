// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package compiler

import (
	"fmt"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/clause"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
)

// Name of the filter aggregation wrapping every facet.
const appliedFilterAggregation = "withAppliedFilter"

// Aggregation parameter sentinels.
const (
	AggregationAll  = "all"
	AggregationNone = "none"
)

// FieldsAll keeps the default free-text paths.
const FieldsAll = "all"

// CustomFunc compiles a CUSTOM key. Resource implementations switch over the
// key and must panic with UnhandledCustomKeyError in their default case.
type CustomFunc func(store *param.Store, key *param.Key, value param.Value) ([]clause.Entry, error)

// Facet is one named aggregation. Pointer locates the facet result inside the
// aggregation response, relative to the aggregation itself.
type Facet struct {
	Name        string
	Aggregation map[string]any
	Pointer     string
}

// Profile describes how one resource type compiles.
type Profile struct {
	Registry *param.Registry
	// Endpoint is the index or alias the queries target.
	Endpoint string
	Facets   []Facet
	// DefaultOrder applies to sort entries without a direction.
	DefaultOrder string
	// TieBreaker is appended to every sort so search-after pages are stable.
	TieBreaker string
	Custom     CustomFunc
}

// UnhandledCustomKeyError reports a CUSTOM key that the resource never
// compiles. It is raised with panic: reaching it is a defect.
type UnhandledCustomKeyError struct {
	Registry string
	Key      string
}

func (e UnhandledCustomKeyError) Error() string {
	return fmt.Sprintf("unhandled custom key %q in registry %q", e.Key, e.Registry)
}

// Unhandled panics for key. Resource CustomFunc implementations call it from
// their default case.
func Unhandled(registry *param.Registry, key *param.Key) {
	panic(UnhandledCustomKeyError{Registry: registry.Name(), Key: key.Name()})
}
