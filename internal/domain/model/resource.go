// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/access"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/compiler"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/validator"
)

// ResourceType bundles everything needed to search one kind of document.
// It is built once at startup and shared by all requests.
type ResourceType struct {
	// Name is the path segment the resource is searched under
	Name string
	// Validator turns raw parameters into a store
	Validator *validator.Validator
	// Compiler assembles the store into OpenSearch bodies
	Compiler *compiler.Compiler
	// Filter contributes the access clauses
	Filter access.Filter
	// Required keys are defaulted when absent
	Required []*param.Key
}

// Registry returns the parameter registry of the resource.
func (r ResourceType) Registry() *param.Registry {
	return r.Validator.Registry()
}
