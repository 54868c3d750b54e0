// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package resources holds helpers shared by the resource type definitions.
package resources

import (
	"fmt"
	"strings"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/clause"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
)

// Enum maps loosely spelled values to their canonical names. Lookups ignore
// case, underscores, hyphens and spaces.
type Enum struct {
	canonical map[string]string
	names     []string
}

// NewEnum declares the canonical names.
func NewEnum(names ...string) Enum {
	e := Enum{canonical: make(map[string]string, len(names)), names: names}
	for _, n := range names {
		e.canonical[fold(n)] = n
	}
	return e
}

// Names returns the canonical names in declaration order.
func (e Enum) Names() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// Normalize rewrites every comma separated value of key to its canonical name.
func (e Enum) Normalize(key *param.Key, value string) (string, error) {
	parts := param.NewValue(key, value).Split(param.DefaultSeparator)
	for i, p := range parts {
		n, ok := e.canonical[fold(p)]
		if !ok {
			return "", errors.NewInvalidValue(key.Name(), value,
				fmt.Sprintf("%s: '%s' is not one of %s", key.Name(), p, strings.Join(e.names, ", ")))
		}
		parts[i] = n
	}
	return strings.Join(parts, param.DefaultSeparator), nil
}

func fold(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}

// Hierarchy matches organizations directly or, unless subunits are
// excluded, through the path listing their ancestors.
func Hierarchy(key *param.Key, ids []string, idPath, ancestorsPath string, excludeSubunits bool) clause.Clause {
	direct := clause.Terms{Field: idPath, Values: ids}
	if excludeSubunits || ancestorsPath == "" {
		return direct
	}
	return clause.Bool{
		Name:               key.Name() + "Hierarchy",
		Should:             []clause.Clause{direct, clause.Terms{Field: ancestorsPath, Values: ids}},
		MinimumShouldMatch: 1,
	}
}

// Flag reads a boolean key from store, false when absent.
func Flag(store *param.Store, key *param.Key) (bool, error) {
	if key == nil {
		return false, nil
	}
	v, ok := store.Get(key)
	if !ok {
		return false, nil
	}
	return v.AsBool()
}
