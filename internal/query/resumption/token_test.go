// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package resumption

import (
	"testing"
	"time"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedCodec(now time.Time) *Codec {
	c := NewCodec(0)
	c.now = func() time.Time { return now }
	return c
}

func TestRoundTrip(t *testing.T) {
	now := time.Date(2023, 5, 30, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		scope     map[string]string
		cursor    string
		totalSize int
	}{
		{
			name: "harvest scope",
			scope: map[string]string{
				"metadataPrefix": "oai_dc",
				"from":           "2023-01-01",
				"until":          "2023-06-01",
			},
			cursor:    "2023-05-30T10:00:00.000000001Z",
			totalSize: 1200,
		},
		{
			name:   "values needing escapes",
			scope:  map[string]string{"set": "a&b=c d", "empty": ""},
			cursor: "x+y/z",
		},
		{
			name:      "empty scope",
			scope:     map[string]string{},
			cursor:    "",
			totalSize: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := fixedCodec(now)
			encoded, err := c.Encode(tt.scope, tt.cursor, tt.totalSize)
			require.NoError(t, err)

			token, present, err := c.Decode(encoded)
			require.NoError(t, err)
			assert.True(t, present)
			assert.Equal(t, tt.scope, token.Scope)
			assert.Equal(t, tt.cursor, token.Cursor)
			assert.Equal(t, tt.totalSize, token.TotalSize)
			assert.Equal(t, now.Add(DefaultTTL), token.Expiration)
		})
	}
}

func TestEncodeFormat(t *testing.T) {
	c := fixedCodec(time.Date(2023, 5, 30, 10, 0, 0, 0, time.UTC))

	encoded, err := c.Encode(map[string]string{"until": "2023-06-01", "metadataPrefix": "oai_dc"}, "2023-05-30T10:00:00Z", 7)

	require.NoError(t, err)
	assert.Equal(t,
		"metadataPrefix=oai_dc&until=2023-06-01&cursor=2023-05-30T10%3A00%3A00Z&totalSize=7&expirationDate=2023-05-31T10%3A00%3A00Z",
		encoded)
}

func TestEncodeRejectsReservedScope(t *testing.T) {
	_, err := NewCodec(time.Hour).Encode(map[string]string{"cursor": "x"}, "", 0)

	assert.Error(t, err)
}

func TestDecodeAbsentToken(t *testing.T) {
	for _, token := range []string{"", "   "} {
		got, present, err := NewCodec(0).Decode(token)
		assert.NoError(t, err)
		assert.False(t, present)
		assert.Equal(t, Token{}, got)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "no pairs", token: "not-a-valid-token"},
		{name: "non numeric total size", token: "cursor=a&totalSize=many&expirationDate=2023-05-31T10%3A00%3A00Z"},
		{name: "negative total size", token: "cursor=a&totalSize=-1&expirationDate=2023-05-31T10%3A00%3A00Z"},
		{name: "missing cursor", token: "totalSize=1&expirationDate=2023-05-31T10%3A00%3A00Z"},
		{name: "bad expiration", token: "cursor=a&totalSize=1&expirationDate=tomorrow"},
		{name: "bad escape", token: "from=%zz&cursor=a&totalSize=1&expirationDate=2023-05-31T10%3A00%3A00Z"},
		{name: "repeated key", token: "cursor=a&cursor=b&totalSize=1&expirationDate=2023-05-31T10%3A00%3A00Z"},
		{name: "empty segment", token: "cursor=a&&totalSize=1&expirationDate=2023-05-31T10%3A00%3A00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, present, err := NewCodec(0).Decode(tt.token)
			assert.True(t, present)
			var validation errors.Validation
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, errors.KindTokenDecode, validation.Kind())
		})
	}
}

func TestTokenExpired(t *testing.T) {
	exp := time.Date(2023, 5, 31, 10, 0, 0, 0, time.UTC)
	token := Token{Expiration: exp}

	assert.False(t, token.Expired(exp.Add(-time.Second)))
	assert.True(t, token.Expired(exp.Add(time.Second)))
	assert.False(t, Token{}.Expired(exp))
}

func TestNextCursorAdvances(t *testing.T) {
	// records stored with second precision
	last := time.Date(2023, 5, 30, 10, 0, 0, 0, time.UTC)
	sameSecond := last
	nextSecond := last.Add(time.Second)

	cursor, err := time.Parse(time.RFC3339Nano, NextCursor(last))
	require.NoError(t, err)

	assert.True(t, cursor.After(last))
	assert.True(t, sameSecond.Before(cursor), "a record at the last timestamp must fall before the cursor")
	assert.False(t, nextSecond.Before(cursor), "later records must not be skipped")
}
