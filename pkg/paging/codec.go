// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package paging seals search_after cursors into opaque page tokens.
package paging

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
	"golang.org/x/crypto/nacl/secretbox"
)

// DecodePageToken opens a token minted by EncodePageToken and returns the
// sort values of the last hit of the previous page. Numbers are kept as
// json.Number so that long identifiers survive unchanged.
func DecodePageToken(ctx context.Context, encoded string, secretKey *[32]byte) ([]any, error) {

	slog.DebugContext(ctx, "decoding page token",
		"encoded_token", encoded,
	)

	encrypted, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.NewTokenDecode("invalid encoded page token", err)
	}

	if len(encrypted) < constants.NonceSize+secretbox.Overhead {
		return nil, errors.NewTokenDecode(
			"invalid page token length",
			fmt.Errorf("expected at least %d bytes, got %d", constants.NonceSize+secretbox.Overhead, len(encrypted)),
		)
	}

	var nonce [constants.NonceSize]byte
	copy(nonce[:], encrypted[:constants.NonceSize])
	decrypted, ok := secretbox.Open(nil, encrypted[constants.NonceSize:], &nonce, secretKey)
	if !ok {
		return nil, errors.NewTokenDecode("failed to decrypt page token")
	}

	decoder := json.NewDecoder(bytes.NewReader(decrypted))
	decoder.UseNumber()
	var searchAfter []any
	if err := decoder.Decode(&searchAfter); err != nil {
		return nil, errors.NewTokenDecode("page token does not hold sort values", err)
	}
	if len(searchAfter) == 0 {
		return nil, errors.NewTokenDecode("page token holds no sort values")
	}

	slog.DebugContext(ctx, "decoded page token successfully",
		"search_after", searchAfter,
	)

	return searchAfter, nil
}

// EncodePageToken seals the sort values of the last hit of a page.
func EncodePageToken(searchAfter []any, secretKey *[32]byte) (string, error) {
	if len(searchAfter) == 0 {
		return "", errors.NewUnexpected("page token needs sort values")
	}
	encoded, err := json.Marshal(searchAfter)
	if err != nil {
		return "", errors.NewUnexpected("failed to marshal search_after data", err)
	}

	var nonce [constants.NonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", errors.NewUnexpected("failed to generate nonce for page token", err)
	}

	return base64.RawURLEncoding.EncodeToString(secretbox.Seal(nonce[:], encoded, &nonce, secretKey)), nil
}
