// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package clause

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
)

// rangeQuery compiles NUMBER and DATE keys. Values are positional: for
// BETWEEN the first is the lower bound and the second the upper, and either
// may be empty for an open bound.
type rangeQuery struct{}

// Build keeps empty positions so that ",2020" means "up to 2020". The
// comparison operators take exactly one value.
func (q rangeQuery) Build(key *param.Key, value string) ([]Entry, error) {
	parts := strings.Split(value, param.DefaultSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) == 1 && key.Operator() == param.Between {
		parts = append(parts, parts[0])
	}
	lower := parts[0]
	upper := ""
	if len(parts) > 1 {
		upper = parts[1]
	}
	if len(parts) > 2 || (lower == "" && upper == "") || (key.Operator() != param.Between && len(parts) > 1) {
		return nil, errors.NewInvalidValue(key.Name(), value, key.ErrorMessage(value))
	}

	from, err := q.bound(key, lower, false)
	if err != nil {
		return nil, err
	}
	to, err := q.bound(key, upper, true)
	if err != nil {
		return nil, err
	}
	if key.Operator() != param.Between && from == nil {
		return nil, errors.NewInvalidValue(key.Name(), value, key.ErrorMessage(value))
	}

	paths := key.SearchPaths(false)
	ranges := make([]Clause, len(paths))
	for i, p := range paths {
		r := Range{Field: p}
		switch key.Operator() {
		case param.Between:
			r.GTE, r.LTE = from, to
		case param.GreaterOrEqual:
			r.GTE = from
		case param.LessThan:
			r.LT = from
		default:
			return nil, fmt.Errorf("range key %q has operator %s", key.Name(), key.Operator())
		}
		ranges[i] = r
	}
	return []Entry{{Key: key, Clause: allOf(key, ranges)}}, nil
}

// bound returns nil for an open bound, a json.Number for numbers and an
// expanded, normalized date string for dates.
func (rangeQuery) bound(key *param.Key, raw string, upper bool) (any, error) {
	if raw == "" {
		return nil, nil
	}
	v := param.NewValue(key, raw)
	if key.Kind() == param.Number {
		if _, err := v.AsNumber(); err != nil {
			return nil, err
		}
		return json.Number(raw), nil
	}
	if _, err := v.AsDate(); err != nil {
		return nil, err
	}
	return ExpandDate(raw, upper), nil
}

// ExpandDate widens a partial date to the first (lower) or last (upper) day
// it covers: "2020" becomes 2020-01-01 or 2020-12-31 and "2020-02" becomes
// 2020-02-01 or 2020-02-29. Longer values are only normalized.
func ExpandDate(raw string, upper bool) string {
	raw = param.NormalizeDate(raw)
	switch len(raw) {
	case len("2006"):
		if upper {
			return raw + "-12-31"
		}
		return raw + "-01-01"
	case len("2006-01"):
		if !upper {
			return raw + "-01"
		}
		t, err := time.Parse("2006-01", raw)
		if err != nil {
			return raw + "-31"
		}
		return t.AddDate(0, 1, -1).Format(time.DateOnly)
	default:
		return raw
	}
}
