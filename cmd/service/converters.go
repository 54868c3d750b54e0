// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/model"
)

// Harvest query parameters.
const (
	paramVerb            = "verb"
	paramMetadataPrefix  = "metadataPrefix"
	paramFrom            = "from"
	paramUntil           = "until"
	paramSet             = "set"
	paramResumptionToken = "resumptionToken"
)

// requestToSearch converts a search request. Every query parameter is
// passed through; the registry of the resource decides what is accepted.
func requestToSearch(resource string, rawQuery string, principal string) model.SearchRequest {
	return model.SearchRequest{
		Resource:  resource,
		Params:    encodedParams(rawQuery),
		Principal: principal,
	}
}

// encodedParams splits a raw query string into names and values. Names are
// unescaped; values keep their percent and plus encoding so that each key
// decodes them once, the way its registry declares.
func encodedParams(rawQuery string) map[string][]string {
	params := map[string][]string{}
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		if unescaped, err := url.QueryUnescape(name); err == nil {
			name = unescaped
		}
		params[name] = append(params[name], value)
	}
	return params
}

// requestToHarvest converts a harvest request. The verb defaults to
// ListRecords.
func requestToHarvest(r *http.Request, principal string) model.HarvestRequest {
	query := r.URL.Query()
	verb := query.Get(paramVerb)
	if verb == "" {
		verb = model.VerbListRecords
	}
	return model.HarvestRequest{
		Verb:            verb,
		MetadataPrefix:  query.Get(paramMetadataPrefix),
		From:            query.Get(paramFrom),
		Until:           query.Get(paramUntil),
		Set:             query.Get(paramSet),
		ResumptionToken: query.Get(paramResumptionToken),
		Principal:       principal,
	}
}
