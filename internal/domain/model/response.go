// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import "encoding/json"

// SearchResponse is the part of an OpenSearch search response the services
// read. Every executor decodes into it.
type SearchResponse struct {
	Hits         Hits            `json:"hits"`
	Aggregations json.RawMessage `json:"aggregations,omitempty"`
}

// Hits represents the hits in the search response
type Hits struct {
	Total Total `json:"total"`
	Hits  []Hit `json:"hits"`
}

// Total represents the total number of hits
type Total struct {
	Value int `json:"value"`
}

// Hit represents a single search result hit
type Hit struct {
	ID     string          `json:"_id"`
	Score  float64         `json:"_score"`
	Source json.RawMessage `json:"_source"`
	Sort   []any           `json:"sort,omitempty"`
}

// Raw renders the response the way OpenSearch does, so that JSON pointers
// computed for OpenSearch responses resolve against it.
func (r *SearchResponse) Raw() ([]byte, error) {
	return json.Marshal(r)
}
