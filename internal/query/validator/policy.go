// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
)

// Names of the paging keys every resource registry declares.
const (
	KeyFields      = "fields"
	KeyFrom        = "from"
	KeySize        = "size"
	KeyPage        = "page"
	KeySort        = "sort"
	KeySortOrder   = "sortOrder"
	KeyAggregation = "aggregation"
	KeySearchAfter = "searchAfter"
	KeyInclude     = "include"
	KeyExclude     = "exclude"
)

// Defaults applied to required paging keys.
const (
	DefaultFrom        = "0"
	DefaultSize        = "15"
	DefaultSort        = param.RelevanceName
	DefaultAggregation = "none"
)

// MaxResultWindow bounds from+size, matching the index.max_result_window
// default of OpenSearch. Deeper pages go through searchAfter.
const MaxResultWindow = 10000

// Offset returns page*size, or false when the page ends beyond
// MaxResultWindow.
func Offset(page, size int) (int, bool) {
	if page < 0 || size < 0 {
		return 0, false
	}
	if size == 0 {
		return 0, true
	}
	if page > (MaxResultWindow-size)/size {
		return 0, false
	}
	return page * size, true
}

// Policy carries the per-resource rules of validation.
type Policy interface {
	// SetValue routes one decoded value into the store.
	SetValue(store *param.Store, key *param.Key, value string) error
	// Default returns the value injected for a missing required key.
	Default(key *param.Key) (string, bool)
	// PostValidate runs once every generic check has passed.
	PostValidate(store *param.Store) error
}

// BasePolicy implements the rules shared by every resource. Resource
// policies embed it and override what they need.
type BasePolicy struct{}

// SetValue merges repeated keys with a comma and folds sortOrder into the
// last sort entry with a colon.
func (BasePolicy) SetValue(store *param.Store, key *param.Key, value string) error {
	if key.Name() == KeySortOrder {
		sortKey := store.Registry().Key(KeySort)
		if sortKey == nil {
			return errors.NewInvalidSort(value, "sortOrder is not supported here")
		}
		if !store.Has(sortKey) {
			store.Set(sortKey, DefaultSort)
		}
		store.MergeWith(sortKey, value, param.SortSeparator)
		return nil
	}
	store.Merge(key, value)
	return nil
}

// Default supplies the paging window, relevance sort and no aggregation.
func (BasePolicy) Default(key *param.Key) (string, bool) {
	switch key.Name() {
	case KeyFrom:
		return DefaultFrom, true
	case KeySize:
		return DefaultSize, true
	case KeySort:
		return DefaultSort, true
	case KeyAggregation:
		return DefaultAggregation, true
	}
	return "", false
}

// PostValidate rejects a search-after cursor combined with relevance sort
// and turns a zero-based page number into an offset. A page overrides the
// default from but conflicts with an explicit one. The resulting window must
// end within MaxResultWindow.
func (BasePolicy) PostValidate(store *param.Store) error {
	registry := store.Registry()
	if err := CheckSearchAfter(store); err != nil {
		return err
	}
	pageKey, fromKey, sizeKey := registry.Key(KeyPage), registry.Key(KeyFrom), registry.Key(KeySize)
	if fromKey == nil || sizeKey == nil {
		return nil
	}
	size, err := strconv.Atoi(DefaultSize)
	if err != nil {
		return err
	}
	if v, ok := store.Get(sizeKey); ok {
		if size, err = v.AsInt(); err != nil {
			return err
		}
	}

	if pageKey != nil {
		if page, ok := store.Remove(pageKey); ok {
			if v, explicit := store.Get(fromKey); explicit && v.String() != DefaultFrom {
				return errors.NewConflict("page and from cannot be combined", KeyPage, KeyFrom)
			}
			n, err := page.AsInt()
			if err != nil {
				return err
			}
			from, ok := Offset(n, size)
			if !ok {
				return errors.NewInvalidValue(KeyPage, page.String(), windowMessage(KeyPage, page.String()))
			}
			store.Set(fromKey, strconv.Itoa(from))
		}
	}

	if v, ok := store.Get(fromKey); ok {
		from, err := v.AsInt()
		if err != nil {
			return err
		}
		if from > MaxResultWindow-size {
			return errors.NewInvalidValue(KeyFrom, v.String(), windowMessage(KeyFrom, v.String()))
		}
	}
	return nil
}

func windowMessage(key, value string) string {
	return fmt.Sprintf("%s: '%s' pages beyond the first %d results, use searchAfter to go deeper", key, value, MaxResultWindow)
}

// CheckSearchAfter fails when a search-after cursor is used with relevance
// ordering, whose scores are not stable across pages.
func CheckSearchAfter(store *param.Store) error {
	registry := store.Registry()
	searchAfter, sortKey := registry.Key(KeySearchAfter), registry.Key(KeySort)
	if searchAfter == nil || !store.Has(searchAfter) {
		return nil
	}
	relevance := true
	if sortKey != nil {
		if v, ok := store.Get(sortKey); ok {
			relevance = false
			for _, entry := range v.Split(param.DefaultSeparator) {
				name, _, _ := strings.Cut(entry, param.SortSeparator)
				if s, ok := registry.ResolveSort(name); ok && s.IsRelevance() {
					relevance = true
				}
			}
		}
	}
	if relevance {
		return errors.NewConflict("searchAfter cannot be combined with sorting by relevance", KeySearchAfter, KeySort)
	}
	return nil
}
