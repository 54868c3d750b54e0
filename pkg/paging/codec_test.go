// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package paging

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(seed string) *[32]byte {
	var key [32]byte
	copy(key[:], seed)
	return &key
}

func TestPageTokenRoundTrip(t *testing.T) {
	key := testKey("12345678901234567890123456789012")
	tests := []struct {
		name        string
		searchAfter []any
		want        []any
	}{
		{
			name:        "relevance score and id",
			searchAfter: []any{1.25, "0190e0b6"},
			want:        []any{json.Number("1.25"), "0190e0b6"},
		},
		{
			name:        "epoch millis keep every digit",
			searchAfter: []any{int64(1719792000123), "a"},
			want:        []any{json.Number("1719792000123"), "a"},
		},
		{
			name:        "null sort value of a missing field",
			searchAfter: []any{nil, "b"},
			want:        []any{nil, "b"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			token, err := EncodePageToken(tc.searchAfter, key)
			require.NoError(t, err)
			assert.NotContains(t, token, "=")

			got, err := DecodePageToken(context.Background(), token, key)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEncodePageTokenRejectsEmptyCursor(t *testing.T) {
	_, err := EncodePageToken(nil, testKey("k"))
	assert.IsType(t, errors.Unexpected{}, err)
}

func TestDecodePageTokenFailures(t *testing.T) {
	key := testKey("12345678901234567890123456789012")
	foreign, err := EncodePageToken([]any{"x"}, testKey("another-key"))
	require.NoError(t, err)
	valid, err := EncodePageToken([]any{"x"}, key)
	require.NoError(t, err)
	corrupted := []byte(valid)
	corrupted[len(corrupted)/2] ^= 1

	tests := []struct {
		name  string
		token string
	}{
		{name: "not base64", token: "invalid-base64-!!!"},
		{name: "empty", token: ""},
		{name: "shorter than nonce and overhead", token: "dGVzdA"},
		{name: "sealed with another key", token: foreign},
		{name: "corrupted", token: string(corrupted)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodePageToken(context.Background(), tc.token, key)
			var validation errors.Validation
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, errors.KindTokenDecode, validation.Kind())
			assert.Nil(t, got)
		})
	}
}

func TestPageTokensDifferPerNonce(t *testing.T) {
	key := testKey("12345678901234567890123456789012")
	first, err := EncodePageToken([]any{"same"}, key)
	require.NoError(t, err)
	second, err := EncodePageToken([]any{"same"}, key)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
