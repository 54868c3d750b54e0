// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package catalog indexes the searchable resource types by name.
package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/resources/importcandidate"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/resources/resource"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/resources/ticket"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
)

// Catalog is read only once built and safe for concurrent use.
type Catalog struct {
	types map[string]model.ResourceType
}

// New indexes types. Two types with the same name are a programming error.
func New(types ...model.ResourceType) *Catalog {
	c := &Catalog{types: make(map[string]model.ResourceType, len(types))}
	for _, t := range types {
		name := strings.ToLower(t.Name)
		if _, dup := c.types[name]; dup {
			panic(fmt.Sprintf("resource type %q declared twice", t.Name))
		}
		c.types[name] = t
	}
	return c
}

var (
	defaultCatalog *Catalog
	defaultOnce    sync.Once
)

// Default returns the catalog of every built-in resource type. The
// registries are built on first use and shared afterwards.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = New(resource.New(), ticket.New(), importcandidate.New())
	})
	return defaultCatalog
}

// Lookup finds a resource type by name, ignoring case.
func (c *Catalog) Lookup(name string) (model.ResourceType, error) {
	t, ok := c.types[strings.ToLower(name)]
	if !ok {
		return model.ResourceType{}, errors.NewNotFound(fmt.Sprintf("unknown resource type %q", name))
	}
	return t, nil
}

// Names lists the resource type names in lexical order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.types))
	for _, t := range c.types {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}
