// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import "encoding/json"

// SearchRequest is one faceted search.
type SearchRequest struct {
	// Resource names the ResourceType to search
	Resource string
	// Params are the raw query parameters. Values are still URL encoded.
	Params map[string][]string
	// Principal is the authenticated caller, or the anonymous principal
	Principal string
	// PageToken continues a previous search
	PageToken string
}

// SearchResult is the formatted answer of a search.
type SearchResult struct {
	// Hits are the document sources of the page
	Hits []json.RawMessage `json:"hits"`
	// Total number of matching documents
	Total int `json:"totalHits"`
	// Facets holds one aggregation result per requested facet
	Facets map[string]json.RawMessage `json:"aggregations,omitempty"`
	// NextPageToken is set when a full page was returned
	NextPageToken *string `json:"nextPageToken,omitempty"`
	// From and Size echo the paging window
	From int `json:"from"`
	Size int `json:"size"`
}
