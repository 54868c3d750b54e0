// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package validator turns raw request parameters into a populated
// param.Store for one resource registry.
package validator

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"unicode"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
)

// Validator validates raw parameters against one registry. It holds no
// per-request state and is safe for concurrent use.
type Validator struct {
	registry *param.Registry
	policy   Policy
}

// New returns a validator for registry using policy for the resource rules.
func New(registry *param.Registry, policy Policy) *Validator {
	if policy == nil {
		policy = BasePolicy{}
	}
	return &Validator{registry: registry, policy: policy}
}

// Registry returns the registry the validator resolves against.
func (v *Validator) Registry() *param.Registry {
	return v.registry
}

type rawEntry struct {
	name  string
	key   *param.Key
	value string
}

// Validate resolves, decodes and stores every raw parameter, injects defaults
// for the required keys and checks the result. Unknown keys are reported
// together after every known key has been processed.
func (v *Validator) Validate(ctx context.Context, raw map[string][]string, required ...*param.Key) (*param.Store, error) {
	store := param.NewStore(v.registry)

	var invalidKeys []string
	for _, e := range v.resolve(raw) {
		if e.key == v.registry.Invalid() {
			invalidKeys = append(invalidKeys, e.name)
			continue
		}
		value, err := decode(e.key, e.value)
		if err != nil {
			return nil, err
		}
		if value == "" {
			continue
		}
		if err := v.policy.SetValue(store, e.key, value); err != nil {
			return nil, err
		}
	}

	var missing []string
	for _, k := range required {
		if store.Has(k) {
			continue
		}
		if value, ok := v.policy.Default(k); ok {
			store.Set(k, value)
			continue
		}
		missing = append(missing, k.Name())
	}
	if len(missing) > 0 {
		return nil, errors.NewMissingRequired(missing)
	}

	for _, k := range append(store.SearchKeys(), store.PagingKeys()...) {
		value, _ := store.Get(k)
		if !k.ValidValue(value.String()) {
			return nil, errors.NewInvalidValue(k.Name(), value.String(), k.ErrorMessage(value.String()))
		}
	}

	if err := v.validateSort(store); err != nil {
		return nil, err
	}

	if len(invalidKeys) > 0 {
		slog.DebugContext(ctx, "rejecting unknown parameters",
			"registry", v.registry.Name(),
			"keys", invalidKeys,
		)
		return nil, errors.NewUnknownParameter(invalidKeys, v.registry.ValidNames())
	}

	if err := v.policy.PostValidate(store); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "validated parameters",
		"registry", v.registry.Name(),
		"store", store.String(),
	)
	return store, nil
}

// resolve flattens raw into entries ordered by key ordinal, then raw name,
// so that merges are deterministic regardless of map iteration.
func (v *Validator) resolve(raw map[string][]string) []rawEntry {
	entries := make([]rawEntry, 0, len(raw))
	for name, values := range raw {
		key := v.registry.Resolve(name)
		for _, value := range values {
			entries = append(entries, rawEntry{name: name, key: key, value: value})
		}
		if len(values) == 0 {
			entries = append(entries, rawEntry{name: name, key: key})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].key.Ordinal() != entries[j].key.Ordinal() {
			return entries[i].key.Ordinal() < entries[j].key.Ordinal()
		}
		return entries[i].name < entries[j].name
	})

	// report each unknown name once
	out := entries[:0]
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.key == v.registry.Invalid() {
			if seen[e.name] {
				continue
			}
			seen[e.name] = true
		}
		out = append(out, e)
	}
	return out
}

func (v *Validator) validateSort(store *param.Store) error {
	sortKey := v.registry.Key(KeySort)
	if sortKey == nil {
		return nil
	}
	value, ok := store.Get(sortKey)
	if !ok {
		return nil
	}
	for _, entry := range value.Split(param.DefaultSeparator) {
		parts := strings.Split(entry, param.SortSeparator)
		if len(parts) > 2 {
			return errors.NewInvalidSort(value.String(),
				fmt.Sprintf("sort entry '%s' has too many parts, expected name[:asc|desc]", entry))
		}
		if _, ok := v.registry.ResolveSort(parts[0]); !ok {
			return errors.NewInvalidSort(value.String(),
				fmt.Sprintf("unknown sort '%s', valid sorts are %s", parts[0], strings.Join(v.registry.SortNames(), ", ")))
		}
		if len(parts) == 2 && !param.ValidDirection(strings.TrimSpace(parts[1])) {
			return errors.NewInvalidSort(value.String(),
				fmt.Sprintf("invalid sort direction '%s', expected asc or desc", parts[1]))
		}
	}
	return nil
}

// decode applies the key's decoding and strips non-printable runes.
func decode(key *param.Key, value string) (string, error) {
	if key.Decoding() == param.DecodeURL {
		decoded, err := url.QueryUnescape(value)
		if err != nil {
			return "", errors.NewInvalidValue(key.Name(), value, key.ErrorMessage(value), err)
		}
		value = decoded
	}
	value = strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, value)
	return strings.TrimSpace(value), nil
}
