// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

const (

	// DefaultHarvestPageSize is the number of records per harvest page
	DefaultHarvestPageSize = 50

	// NonceSize is the secretbox nonce length prefixed to page tokens
	NonceSize = 24
)
