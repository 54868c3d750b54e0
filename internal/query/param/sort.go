// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package param

import (
	"regexp"
	"strings"
)

const (
	// RelevanceName is the sort name mapped to the search score.
	RelevanceName = "relevance"
	// ScorePath is the OpenSearch pseudo field for relevance sorting.
	ScorePath = "_score"

	// SortAscending and SortDescending are the accepted directions.
	SortAscending  = "asc"
	SortDescending = "desc"
)

// SortKey is one entry of a resource's sort vocabulary. A logical sort name
// may expand to several physical paths.
type SortKey struct {
	name    string
	pattern *regexp.Regexp
	paths   []string
}

// NewSortKey declares a sort key with a name pattern derived like parameter keys.
func NewSortKey(name string, paths ...string) SortKey {
	return SortKey{
		name:    name,
		pattern: regexp.MustCompile(derivedNamePattern(name)),
		paths:   paths,
	}
}

// RelevanceSort is the pseudo sort key for score ordering. It also answers to
// "score".
func RelevanceSort() SortKey {
	return SortKey{
		name:    RelevanceName,
		pattern: regexp.MustCompile(`(?i)^(relevance|score|_score)$`),
		paths:   []string{ScorePath},
	}
}

// Name returns the canonical sort name.
func (s SortKey) Name() string { return s.name }

// IsRelevance reports whether s sorts by score.
func (s SortKey) IsRelevance() bool { return s.name == RelevanceName }

// Paths returns the physical sort paths.
func (s SortKey) Paths() []string {
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

func (s SortKey) matches(raw string) bool {
	return s.pattern.MatchString(raw)
}

// ValidDirection reports whether direction is asc or desc, ignoring case.
func ValidDirection(direction string) bool {
	return strings.EqualFold(direction, SortAscending) || strings.EqualFold(direction, SortDescending)
}
