// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package param

import (
	"fmt"
	"sort"
	"strings"
)

// InvalidName is the name of every registry's sentinel key.
const InvalidName = "invalid"

// Registry is the closed, immutable set of keys recognised for one resource
// type. It is safe for concurrent use once constructed.
type Registry struct {
	name     string
	keys     []*Key
	byName   map[string]*Key
	boundary *Key
	sortKeys []SortKey
}

// NewRegistry builds a registry from keys in ordinal order. The INVALID
// sentinel is prepended at ordinal 0. boundary names the first key of the
// paging bucket. Declaration mistakes are programming errors and panic.
func NewRegistry(name string, keys []*Key, boundary string, sortKeys ...SortKey) *Registry {
	invalid := NewKey(InvalidName, Invalid, NotApplicable, WithNamePattern(`a^`))
	r := &Registry{
		name:     name,
		keys:     make([]*Key, 0, len(keys)+1),
		byName:   make(map[string]*Key, len(keys)+1),
		sortKeys: append([]SortKey{RelevanceSort()}, sortKeys...),
	}
	for _, k := range append([]*Key{invalid}, keys...) {
		if k.registry != "" {
			panic(fmt.Sprintf("param: key %q already belongs to registry %q", k.name, k.registry))
		}
		if _, dup := r.byName[k.name]; dup {
			panic(fmt.Sprintf("param: duplicate key %q in registry %q", k.name, name))
		}
		relational := k.kind == HasParts || k.kind == PartOf
		if k.kind.Searchable() && k.operator == NotApplicable {
			panic(fmt.Sprintf("param: key %q in registry %q needs an operator", k.name, name))
		}
		if k.kind.Searchable() && !relational && k.kind != Custom && len(k.paths) == 0 {
			panic(fmt.Sprintf("param: key %q in registry %q needs paths", k.name, name))
		}
		if k.operator.IsRange() && k.kind != Number && k.kind != Date {
			panic(fmt.Sprintf("param: key %q uses %s on a %s field", k.name, k.operator, k.kind))
		}
		if k.kind == Invalid && k.name != InvalidName {
			panic(fmt.Sprintf("param: registry %q declares a second INVALID key %q", name, k.name))
		}
		if relational && k.subKey == nil {
			panic(fmt.Sprintf("param: relational key %q has no sub key", k.name))
		}
		k.ordinal = len(r.keys)
		k.registry = name
		r.keys = append(r.keys, k)
		r.byName[k.name] = k
	}
	b, ok := r.byName[boundary]
	if !ok {
		panic(fmt.Sprintf("param: boundary key %q missing from registry %q", boundary, name))
	}
	r.boundary = b
	return r
}

// Name returns the resource name of the registry.
func (r *Registry) Name() string { return r.name }

// Invalid returns the sentinel key.
func (r *Registry) Invalid() *Key { return r.keys[0] }

// Boundary returns the first paging key.
func (r *Registry) Boundary() *Key { return r.boundary }

// Keys returns all keys in ordinal order, sentinel included.
func (r *Registry) Keys() []*Key {
	out := make([]*Key, len(r.keys))
	copy(out, r.keys)
	return out
}

// Key returns the key with the canonical name, or nil.
func (r *Registry) Key(name string) *Key {
	return r.byName[name]
}

// Owns reports whether k was declared in this registry.
func (r *Registry) Owns(k *Key) bool {
	return k != nil && k.registry == r.name && k.ordinal < len(r.keys) && r.keys[k.ordinal] == k
}

// IsPaging reports whether k belongs to the paging bucket.
func (r *Registry) IsPaging(k *Key) bool {
	return k.ordinal >= r.boundary.ordinal
}

// Resolve maps a raw request key to its Key. Zero or several matches yield
// the INVALID sentinel.
func (r *Registry) Resolve(raw string) *Key {
	raw = strings.TrimSpace(raw)
	var found *Key
	for _, k := range r.keys[1:] {
		if !k.MatchesName(raw) {
			continue
		}
		if found != nil {
			return r.Invalid()
		}
		found = k
	}
	if found == nil {
		return r.Invalid()
	}
	return found
}

// ValidNames returns the sorted request names accepted by the registry.
func (r *Registry) ValidNames() []string {
	names := make([]string, 0, len(r.keys)-1)
	for _, k := range r.keys[1:] {
		names = append(names, k.name)
	}
	sort.Strings(names)
	return names
}

// ResolveSort maps a raw sort name to the vocabulary entry.
func (r *Registry) ResolveSort(raw string) (SortKey, bool) {
	raw = strings.TrimSpace(raw)
	for _, s := range r.sortKeys {
		if s.matches(raw) {
			return s, true
		}
	}
	return SortKey{}, false
}

// SortNames returns the sort vocabulary.
func (r *Registry) SortNames() []string {
	names := make([]string, len(r.sortKeys))
	for i, s := range r.sortKeys {
		names[i] = s.name
	}
	return names
}
