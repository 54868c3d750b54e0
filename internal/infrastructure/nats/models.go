// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"time"
)

// Config represents NATS configuration
type Config struct {
	// URL is the NATS server URL
	URL string `json:"url"`
	// Subject answers rights lookups
	Subject string `json:"subject"`
	// Timeout is the request timeout duration
	Timeout time.Duration `json:"timeout"`
	// MaxReconnect is the maximum number of reconnection attempts
	MaxReconnect int `json:"max_reconnect"`
	// ReconnectWait is the time to wait between reconnection attempts
	ReconnectWait time.Duration `json:"reconnect_wait"`
}

// RightsNATSRequest asks for the identity and rights behind a principal.
type RightsNATSRequest struct {
	// Subject is the NATS subject for the request
	Subject string `json:"subject"`
	// Principal is sent as the message body
	Principal string `json:"principal"`
	// Timeout is the request timeout duration
	Timeout time.Duration `json:"timeout"`
}

// RightsField is one "name<TAB>value" line of a rights reply. Names may
// repeat, one "right" line per granted right.
type RightsField struct {
	Name  string
	Value string
}

// RightsNATSResponse lists the reply lines in the order received.
type RightsNATSResponse []RightsField

// Field names understood in a rights reply.
const (
	FieldUserID          = "userId"
	FieldUsername        = "username"
	FieldOrganization    = "organization"
	FieldTopOrganization = "topOrganization"
	FieldRight           = "right"
)
