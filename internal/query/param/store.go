// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package param

import (
	"sort"
	"strings"
)

// Store holds the decoded values of one request, split into the search and
// paging buckets. It is mutated during validation only.
type Store struct {
	registry *Registry
	search   map[*Key]string
	paging   map[*Key]string
}

// NewStore returns an empty store bound to registry.
func NewStore(registry *Registry) *Store {
	return &Store{
		registry: registry,
		search:   make(map[*Key]string),
		paging:   make(map[*Key]string),
	}
}

// Registry returns the registry the store is bound to.
func (s *Store) Registry() *Registry { return s.registry }

func (s *Store) bucket(k *Key) map[*Key]string {
	if s.registry.IsPaging(k) {
		return s.paging
	}
	return s.search
}

// Set stores value for k, replacing any previous value.
func (s *Store) Set(k *Key, value string) {
	s.bucket(k)[k] = value
}

// Merge appends value to an existing entry using the list separator.
func (s *Store) Merge(k *Key, value string) {
	s.MergeWith(k, value, DefaultSeparator)
}

// MergeWith appends value to an existing entry using sep.
func (s *Store) MergeWith(k *Key, value, sep string) {
	b := s.bucket(k)
	if existing, ok := b[k]; ok && existing != "" {
		b[k] = existing + sep + value
		return
	}
	b[k] = value
}

// Get returns the typed value of k.
func (s *Store) Get(k *Key) (Value, bool) {
	v, ok := s.bucket(k)[k]
	if !ok {
		return Value{}, false
	}
	return Value{raw: v, key: k}, true
}

// Has reports whether k is present.
func (s *Store) Has(k *Key) bool {
	_, ok := s.bucket(k)[k]
	return ok
}

// Remove deletes k and returns the removed value.
func (s *Store) Remove(k *Key) (Value, bool) {
	b := s.bucket(k)
	v, ok := b[k]
	if ok {
		delete(b, k)
	}
	return Value{raw: v, key: k}, ok
}

// InSearch reports whether k is held in the search bucket.
func (s *Store) InSearch(k *Key) bool {
	_, ok := s.search[k]
	return ok
}

// InPaging reports whether k is held in the paging bucket.
func (s *Store) InPaging(k *Key) bool {
	_, ok := s.paging[k]
	return ok
}

// SearchKeys returns the present search keys in ordinal order.
func (s *Store) SearchKeys() []*Key {
	return sortedKeys(s.search)
}

// PagingKeys returns the present paging keys in ordinal order.
func (s *Store) PagingKeys() []*Key {
	return sortedKeys(s.paging)
}

// String renders the store as a query string for logs.
func (s *Store) String() string {
	parts := make([]string, 0, len(s.search)+len(s.paging))
	for _, k := range append(s.SearchKeys(), s.PagingKeys()...) {
		parts = append(parts, k.name+"="+s.bucket(k)[k])
	}
	return strings.Join(parts, "&")
}

func sortedKeys(m map[*Key]string) []*Key {
	keys := make([]*Key, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].ordinal < keys[j].ordinal
	})
	return keys
}
