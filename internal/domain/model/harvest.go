// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"encoding/json"
	"time"
)

// Harvest verbs.
const (
	VerbListRecords     = "ListRecords"
	VerbListIdentifiers = "ListIdentifiers"
)

// HarvestRequest is one page of an OAI-PMH style harvest. Either the scope
// fields or ResumptionToken are set.
type HarvestRequest struct {
	Verb            string
	MetadataPrefix  string
	From            string
	Until           string
	Set             string
	ResumptionToken string
	Principal       string
}

// HarvestRecord is one harvested document.
type HarvestRecord struct {
	Identifier string          `json:"identifier"`
	Datestamp  string          `json:"datestamp"`
	SetSpec    string          `json:"setSpec,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
}

// ResumptionToken describes how to continue a harvest.
type ResumptionToken struct {
	Value            string    `json:"value"`
	ExpirationDate   time.Time `json:"expirationDate"`
	CompleteListSize int       `json:"completeListSize"`
	Cursor           int       `json:"cursor"`
}

// HarvestResult is one harvest page.
type HarvestResult struct {
	Verb            string           `json:"verb"`
	MetadataPrefix  string           `json:"metadataPrefix"`
	Records         []HarvestRecord  `json:"records"`
	ResumptionToken *ResumptionToken `json:"resumptionToken,omitempty"`
}
