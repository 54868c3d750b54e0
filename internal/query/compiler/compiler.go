// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package compiler assembles a validated parameter store into OpenSearch
// request bodies.
package compiler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/access"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/clause"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/validator"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
)

const (
	defaultFrom  = 0
	defaultSize  = 15
	defaultOrder = param.SortDescending
)

// Compiler compiles stores of one resource type. Compilation performs no I/O
// and a Compiler is safe for concurrent use.
type Compiler struct {
	profile Profile
	table   *clause.Table
}

// New returns a compiler for profile.
func New(profile Profile) *Compiler {
	if profile.DefaultOrder == "" {
		profile.DefaultOrder = defaultOrder
	}
	return &Compiler{profile: profile, table: clause.NewTable()}
}

// Profile returns the resource profile.
func (c *Compiler) Profile() Profile {
	return c.profile
}

// Compile builds the query for store. filters are the access clauses; with
// none the post filter matches nothing. The search-after value is consumed
// from the store.
func (c *Compiler) Compile(ctx context.Context, store *param.Store, filters []clause.Clause) (*CompiledQuery, error) {
	if store.Registry() != c.profile.Registry {
		return nil, errors.NewUnexpected(fmt.Sprintf("store for %q compiled with the %q profile",
			store.Registry().Name(), c.profile.Registry.Name()))
	}

	main, err := c.mainQuery(store)
	if err != nil {
		return nil, err
	}
	q := &CompiledQuery{
		Endpoint:   c.profile.Endpoint,
		MainQuery:  main,
		PostFilter: access.PostFilter(filters),
		FacetPaths: map[string]string{},
	}
	if q.Facets, err = c.facets(store); err != nil {
		return nil, err
	}
	for _, f := range q.Facets {
		q.FacetPaths[f.Name] = "/aggregations/" + appliedFilterAggregation + "/" + f.Name + f.Pointer
	}
	if q.Sort, err = c.sort(store); err != nil {
		return nil, err
	}
	if q.From, q.Size, err = c.window(store); err != nil {
		return nil, err
	}
	q.Includes = c.list(store, validator.KeyInclude)
	q.Excludes = c.list(store, validator.KeyExclude)
	if q.SearchAfter, err = c.searchAfter(store); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "compiled query",
		"registry", c.profile.Registry.Name(),
		"endpoint", q.Endpoint,
		"from", q.From,
		"size", q.Size,
		"facets", len(q.Facets),
	)
	return q, nil
}

// mainQuery ANDs the clause of every present search key.
func (c *Compiler) mainQuery(store *param.Store) (clause.Clause, error) {
	var must []clause.Clause
	for _, key := range store.SearchKeys() {
		value, _ := store.Get(key)
		entries, err := c.build(store, key, value)
		if err != nil {
			return nil, err
		}
		must = append(must, clause.Clauses(entries)...)
	}
	if len(must) == 0 {
		return clause.MatchAll{}, nil
	}
	return clause.Bool{Name: "mainQuery", Must: must}, nil
}

func (c *Compiler) build(store *param.Store, key *param.Key, value param.Value) ([]clause.Entry, error) {
	switch key.Kind() {
	case param.Custom:
		if c.profile.Custom == nil {
			Unhandled(c.profile.Registry, key)
		}
		return c.profile.Custom(store, key, value)
	case param.FreeText:
		if fields := c.list(store, validator.KeyFields); len(fields) > 0 && !strings.EqualFold(fields[0], FieldsAll) {
			return []clause.Entry{clause.FreeText(key, value.String(), fields)}, nil
		}
		return c.table.Build(key, value.String())
	case param.Ignored, param.SortKeyKind, param.Invalid:
		return nil, nil
	default:
		return c.table.Build(key, value.String())
	}
}

// facets selects the requested facets: all, none or a list of names.
func (c *Compiler) facets(store *param.Store) ([]Facet, error) {
	key := c.profile.Registry.Key(validator.KeyAggregation)
	if key == nil {
		return nil, nil
	}
	value, ok := store.Get(key)
	if !ok || value.EqualFold(AggregationNone) {
		return nil, nil
	}
	if value.EqualFold(AggregationAll) {
		return c.profile.Facets, nil
	}
	var out []Facet
	for _, name := range value.Split(param.DefaultSeparator) {
		found := false
		for _, f := range c.profile.Facets {
			if strings.EqualFold(f.Name, name) {
				out = append(out, f)
				found = true
				break
			}
		}
		if !found {
			return nil, errors.NewInvalidValue(key.Name(), value.String(),
				fmt.Sprintf("%s: unknown aggregation '%s'", key.Name(), name))
		}
	}
	return out, nil
}

// sort resolves sort names to paths. Without a sort the hits are ordered by
// relevance.
func (c *Compiler) sort(store *param.Store) ([]SortField, error) {
	entries := []string{param.RelevanceName}
	if key := c.profile.Registry.Key(validator.KeySort); key != nil {
		if value, ok := store.Get(key); ok {
			entries = value.Split(param.DefaultSeparator)
		}
	}
	var out []SortField
	for _, entry := range entries {
		name, direction, _ := strings.Cut(entry, param.SortSeparator)
		sortKey, ok := c.profile.Registry.ResolveSort(name)
		if !ok {
			return nil, errors.NewInvalidSort(entry, fmt.Sprintf("unknown sort '%s'", name))
		}
		direction = strings.ToLower(strings.TrimSpace(direction))
		if !param.ValidDirection(direction) {
			direction = c.profile.DefaultOrder
			if sortKey.IsRelevance() {
				direction = param.SortDescending
			}
		}
		for _, path := range sortKey.Paths() {
			out = append(out, SortField{Path: path, Order: direction})
		}
	}
	if c.profile.TieBreaker != "" {
		out = append(out, SortField{Path: c.profile.TieBreaker, Order: param.SortAscending})
	}
	return out, nil
}

// window resolves from and size. A page left in the store is turned into an
// offset when no from was given.
func (c *Compiler) window(store *param.Store) (int, int, error) {
	from, err := c.intValue(store, validator.KeyFrom, -1)
	if err != nil {
		return 0, 0, err
	}
	size, err := c.intValue(store, validator.KeySize, defaultSize)
	if err != nil {
		return 0, 0, err
	}
	if from < 0 {
		page, err := c.intValue(store, validator.KeyPage, -1)
		if err != nil {
			return 0, 0, err
		}
		from = defaultFrom
		if page >= 0 {
			offset, ok := validator.Offset(page, size)
			if !ok {
				raw := strconv.Itoa(page)
				return 0, 0, errors.NewInvalidValue(validator.KeyPage, raw,
					fmt.Sprintf("%s: '%s' pages beyond the first %d results", validator.KeyPage, raw, validator.MaxResultWindow))
			}
			from = offset
		}
	}
	return from, size, nil
}

func (c *Compiler) intValue(store *param.Store, name string, fallback int) (int, error) {
	key := c.profile.Registry.Key(name)
	if key == nil {
		return fallback, nil
	}
	value, ok := store.Get(key)
	if !ok {
		return fallback, nil
	}
	return value.AsInt()
}

func (c *Compiler) list(store *param.Store, name string) []string {
	key := c.profile.Registry.Key(name)
	if key == nil {
		return nil
	}
	value, ok := store.Get(key)
	if !ok {
		return nil
	}
	return value.Split(param.DefaultSeparator)
}

// searchAfter removes the cursor from the store. A JSON array keeps its typed
// sort values; anything else is read as a comma list.
func (c *Compiler) searchAfter(store *param.Store) ([]any, error) {
	key := c.profile.Registry.Key(validator.KeySearchAfter)
	if key == nil {
		return nil, nil
	}
	value, ok := store.Remove(key)
	if !ok {
		return nil, nil
	}
	raw := strings.TrimSpace(value.String())
	if strings.HasPrefix(raw, "[") {
		var cursor []any
		dec := json.NewDecoder(strings.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&cursor); err != nil {
			return nil, errors.NewInvalidValue(key.Name(), raw, key.ErrorMessage(raw), err)
		}
		if _, err := dec.Token(); err != io.EOF {
			return nil, errors.NewInvalidValue(key.Name(), raw, key.ErrorMessage(raw))
		}
		return cursor, nil
	}
	parts := value.Split(param.DefaultSeparator)
	cursor := make([]any, len(parts))
	for i, p := range parts {
		if n, err := strconv.ParseInt(p, 10, 64); err == nil {
			cursor[i] = n
			continue
		}
		cursor[i] = p
	}
	return cursor, nil
}
