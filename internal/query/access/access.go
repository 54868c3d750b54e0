// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package access turns a caller's identity and rights into the mandatory
// filter clauses of a query.
package access

import (
	"slices"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/clause"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
)

// Caller is the identity and rights of the requester, as resolved by an
// external authorization service. It is immutable once built.
type Caller struct {
	UserID   string
	Username string
	// Rights are the access rights granted for Organization.
	Rights []string
	// Organization is the URI of the organization the caller acts for.
	Organization string
	// TopOrganization is the URI of the root of Organization's hierarchy.
	TopOrganization string
}

// Anonymous reports whether the caller is not logged in.
func (c Caller) Anonymous() bool {
	return c.Username == ""
}

// Has reports whether right was granted.
func (c Caller) Has(right string) bool {
	return slices.Contains(c.Rights, right)
}

// Filter computes the access clauses of one resource type.
type Filter interface {
	// Apply returns the clauses every hit must satisfy, or an
	// errors.Forbidden when the caller may not search at all.
	Apply(caller Caller, store *param.Store) ([]clause.Clause, error)
}

// FilterFunc adapts a function to Filter.
type FilterFunc func(caller Caller, store *param.Store) ([]clause.Clause, error)

// Apply calls f.
func (f FilterFunc) Apply(caller Caller, store *param.Store) ([]clause.Clause, error) {
	return f(caller, store)
}

// PostFilter combines access clauses into the post filter. Without any
// clause nothing can match.
func PostFilter(clauses []clause.Clause) clause.Clause {
	if len(clauses) == 0 {
		return clause.MatchNone{}
	}
	return clause.Bool{Name: "postFilter", Filter: clauses}
}
