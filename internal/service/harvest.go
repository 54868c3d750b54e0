// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/resumption"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/validator"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/resources/catalog"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/resources/resource"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
)

// MetadataPrefixJSON is the only metadata format served: the indexed
// document itself.
const MetadataPrefixJSON = "json"

// Scope parameters kept in resumption tokens.
const (
	scopeVerb           = "verb"
	scopeMetadataPrefix = "metadataPrefix"
	scopeFrom           = "from"
	scopeUntil          = "until"
	scopeSet            = "set"
)

// datestampField is the document field harvest pages are ordered by.
const datestampField = "modifiedDate"

// Harvest pages through every publication in modification order.
type Harvest struct {
	catalog  *catalog.Catalog
	executor port.QueryExecutor
	resolver port.RightsResolver
	codec    *resumption.Codec
	pageSize int
	now      func() time.Time
}

// Harvest answers one harvest page. A resumption token replaces every other
// scope argument and only advances the cursor.
func (h *Harvest) Harvest(ctx context.Context, req model.HarvestRequest) (*model.HarvestResult, error) {
	scope, cursor, completeSize, err := h.scope(req)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "starting harvest",
		"verb", scope[scopeVerb],
		"set", scope[scopeSet],
		"cursor", cursor,
	)

	after, err := parseCursor(cursor)
	if err != nil {
		return nil, err
	}

	rt, err := h.catalog.Lookup(resource.Name)
	if err != nil {
		return nil, err
	}
	caller, err := resolveCaller(ctx, h.resolver, req.Principal)
	if err != nil {
		return nil, err
	}

	q, err := Compile(ctx, rt, h.params(scope, cursor, after), caller)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(q.Body())
	if err != nil {
		return nil, errors.NewUnexpected("failed to encode harvest query", err)
	}
	response, err := h.executor.Execute(ctx, q.Endpoint, payload)
	if err != nil {
		return nil, err
	}

	result := &model.HarvestResult{
		Verb:           scope[scopeVerb],
		MetadataPrefix: scope[scopeMetadataPrefix],
		Records:        make([]model.HarvestRecord, 0, len(response.Hits.Hits)),
	}
	var last time.Time
	for _, hit := range response.Hits.Hits {
		record, datestamp, err := toRecord(hit, scope[scopeVerb] == model.VerbListRecords)
		if err != nil {
			return nil, err
		}
		result.Records = append(result.Records, record)
		last = datestamp
	}

	// remaining counts the records from this page on. A search-after cursor
	// leaves the total at the full list size.
	remaining := response.Hits.Total.Value
	if after != nil {
		remaining -= after.Seen
	}
	if completeSize < 0 {
		completeSize = remaining
	}
	seen := completeSize - remaining
	if len(result.Records) == h.pageSize && remaining > h.pageSize {
		next, err := nextCursor(response.Hits.Hits[len(response.Hits.Hits)-1], last, seen+len(result.Records))
		if err != nil {
			return nil, err
		}
		value, err := h.codec.Encode(scope, next, completeSize)
		if err != nil {
			return nil, errors.NewUnexpected("failed to mint resumption token", err)
		}
		result.ResumptionToken = &model.ResumptionToken{
			Value:            value,
			ExpirationDate:   h.now().Add(h.codec.TTL()).UTC(),
			CompleteListSize: completeSize,
			Cursor:           seen,
		}
	}

	slog.DebugContext(ctx, "harvest page completed",
		"records", len(result.Records),
		"remaining", remaining,
		"resumable", result.ResumptionToken != nil,
	)
	return result, nil
}

// scope returns the page independent arguments, the cursor and, for a
// continued harvest, the list size reported on its first page (-1 otherwise).
func (h *Harvest) scope(req model.HarvestRequest) (map[string]string, string, int, error) {
	if req.ResumptionToken != "" {
		if req.From != "" || req.Until != "" || req.Set != "" || req.MetadataPrefix != "" {
			return nil, "", 0, errors.NewConflict("resumptionToken is exclusive", "resumptionToken", scopeMetadataPrefix, scopeFrom, scopeUntil, scopeSet)
		}
		token, _, err := h.codec.Decode(req.ResumptionToken)
		if err != nil {
			return nil, "", 0, err
		}
		if token.Expired(h.now()) {
			return nil, "", 0, errors.NewTokenDecode(fmt.Sprintf("resumption token expired at %s", token.Expiration.Format(time.RFC3339)))
		}
		if token.Scope[scopeVerb] != req.Verb {
			return nil, "", 0, errors.NewTokenDecode(fmt.Sprintf("resumption token was issued for %s", token.Scope[scopeVerb]))
		}
		return token.Scope, token.Cursor, token.TotalSize, nil
	}

	if req.Verb != model.VerbListRecords && req.Verb != model.VerbListIdentifiers {
		return nil, "", 0, errors.NewInvalidValue(scopeVerb, req.Verb, fmt.Sprintf("%s: '%s' is not a supported verb", scopeVerb, req.Verb))
	}
	if req.MetadataPrefix == "" {
		return nil, "", 0, errors.NewMissingRequired([]string{scopeMetadataPrefix})
	}
	if req.MetadataPrefix != MetadataPrefixJSON {
		return nil, "", 0, errors.NewInvalidValue(scopeMetadataPrefix, req.MetadataPrefix,
			fmt.Sprintf("%s: '%s' is not supported, use '%s'", scopeMetadataPrefix, req.MetadataPrefix, MetadataPrefixJSON))
	}
	scope := map[string]string{
		scopeVerb:           req.Verb,
		scopeMetadataPrefix: req.MetadataPrefix,
	}
	for name, value := range map[string]string{scopeFrom: req.From, scopeUntil: req.Until, scopeSet: req.Set} {
		if value != "" {
			scope[name] = value
		}
	}
	return scope, "", -1, nil
}

// harvestCursor continues a harvest after the last record returned, by its
// (modifiedDate, _id) sort values, so records sharing a datestamp are
// neither skipped nor repeated.
type harvestCursor struct {
	After []any `json:"after"`
	Seen  int   `json:"seen"`
}

// parseCursor reads a search-after cursor. Datestamp cursors, minted when
// the backend returned no sort values, yield nil.
func parseCursor(cursor string) (*harvestCursor, error) {
	if !strings.HasPrefix(cursor, "{") {
		return nil, nil
	}
	var c harvestCursor
	dec := json.NewDecoder(strings.NewReader(cursor))
	dec.UseNumber()
	if err := dec.Decode(&c); err != nil || len(c.After) == 0 || c.Seen < 0 {
		return nil, errors.NewTokenDecode(fmt.Sprintf("resumption cursor '%s' is malformed", cursor), err)
	}
	return &c, nil
}

// nextCursor continues after hit. Without sort values it falls back to the
// datestamp of the hit bumped past its own precision.
func nextCursor(hit model.Hit, datestamp time.Time, seen int) (string, error) {
	if len(hit.Sort) == 0 {
		return resumption.NextCursor(datestamp), nil
	}
	raw, err := json.Marshal(harvestCursor{After: hit.Sort, Seen: seen})
	if err != nil {
		return "", errors.NewUnexpected("failed to encode resumption cursor", err)
	}
	return string(raw), nil
}

// params maps the scope onto resource parameters, escaped like a query
// string. A search-after cursor keeps from as the lower bound; a datestamp
// cursor replaces it.
func (h *Harvest) params(scope map[string]string, cursor string, after *harvestCursor) map[string][]string {
	raw := map[string][]string{
		validator.KeySort: {url.QueryEscape(resource.SortModified + param.SortSeparator + param.SortAscending)},
		validator.KeySize: {strconv.Itoa(h.pageSize)},
		validator.KeyFrom: {"0"},
	}
	set := func(key, value string) {
		raw[key] = []string{url.QueryEscape(value)}
	}
	if value := scope[scopeSet]; value != "" {
		set(resource.KeyInstanceType, value)
	}
	switch from := scope[scopeFrom]; {
	case after != nil:
		if encoded, err := json.Marshal(after.After); err == nil {
			set(validator.KeySearchAfter, string(encoded))
		}
		if from != "" {
			set(resource.KeyModifiedSince, from)
		}
	case cursor != "":
		set(resource.KeyModifiedSince, cursor)
	case from != "":
		set(resource.KeyModifiedSince, from)
	}
	if until := scope[scopeUntil]; until != "" {
		set(resource.KeyModifiedBefore, until)
	}
	return raw
}

func toRecord(hit model.Hit, withMetadata bool) (model.HarvestRecord, time.Time, error) {
	var header struct {
		ModifiedDate      string `json:"modifiedDate"`
		EntityDescription struct {
			Reference struct {
				PublicationInstance struct {
					Type string `json:"type"`
				} `json:"publicationInstance"`
			} `json:"reference"`
		} `json:"entityDescription"`
	}
	if err := json.Unmarshal(hit.Source, &header); err != nil {
		return model.HarvestRecord{}, time.Time{}, errors.NewUnexpected(fmt.Sprintf("document %s is not an object", hit.ID), err)
	}
	datestamp, err := time.Parse(time.RFC3339Nano, header.ModifiedDate)
	if err != nil {
		return model.HarvestRecord{}, time.Time{}, errors.NewUnexpected(fmt.Sprintf("document %s has invalid %s '%s'", hit.ID, datestampField, header.ModifiedDate), err)
	}
	record := model.HarvestRecord{
		Identifier: hit.ID,
		Datestamp:  datestamp.UTC().Format(time.RFC3339Nano),
		SetSpec:    header.EntityDescription.Reference.PublicationInstance.Type,
	}
	if withMetadata {
		record.Metadata = hit.Source
	}
	return record, datestamp, nil
}

// NewHarvest creates a Harvest serving pageSize records per page, or
// constants.DefaultHarvestPageSize when pageSize is not positive.
func NewHarvest(c *catalog.Catalog, executor port.QueryExecutor, resolver port.RightsResolver, codec *resumption.Codec, pageSize int) *Harvest {
	if pageSize <= 0 {
		pageSize = constants.DefaultHarvestPageSize
	}
	if codec == nil {
		codec = resumption.NewCodec(resumption.DefaultTTL)
	}
	return &Harvest{
		catalog:  c,
		executor: executor,
		resolver: resolver,
		codec:    codec,
		pageSize: pageSize,
		now:      time.Now,
	}
}
