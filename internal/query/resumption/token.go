// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package resumption encodes the continuation state of a harvest into an
// opaque, URL-safe token.
package resumption

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
)

// DefaultTTL is how long a minted token stays valid.
const DefaultTTL = 24 * time.Hour

const (
	keyCursor     = "cursor"
	keyTotalSize  = "totalSize"
	keyExpiration = "expirationDate"

	pairSeparator  = "&"
	valueSeparator = "="
)

var reserved = map[string]bool{keyCursor: true, keyTotalSize: true, keyExpiration: true}

// Token is the decoded continuation state. Scope holds the page independent
// parameters of the original request.
type Token struct {
	Scope      map[string]string
	Cursor     string
	TotalSize  int
	Expiration time.Time
}

// Expired reports whether the token is past its expiration at now.
func (t Token) Expired(now time.Time) bool {
	return !t.Expiration.IsZero() && now.After(t.Expiration)
}

// Codec mints and reads tokens. Expiration is stamped on encode and returned
// on decode; enforcing it is left to the caller.
type Codec struct {
	ttl time.Duration
	now func() time.Time
}

// NewCodec returns a codec stamping tokens with ttl, or DefaultTTL when ttl
// is not positive.
func NewCodec(ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{ttl: ttl, now: time.Now}
}

// TTL returns the validity stamped on new tokens.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Encode serialises scope, cursor and totalSize as sorted, URL-escaped
// key=value pairs joined by '&'.
func (c *Codec) Encode(scope map[string]string, cursor string, totalSize int) (string, error) {
	names := make([]string, 0, len(scope))
	for name := range scope {
		if reserved[name] {
			return "", fmt.Errorf("resumption: scope parameter %q is reserved", name)
		}
		if name == "" {
			return "", fmt.Errorf("resumption: empty scope parameter name")
		}
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names)+3)
	for _, name := range names {
		pairs = append(pairs, url.QueryEscape(name)+valueSeparator+url.QueryEscape(scope[name]))
	}
	expiration := c.now().Add(c.ttl).UTC().Format(time.RFC3339)
	pairs = append(pairs,
		keyCursor+valueSeparator+url.QueryEscape(cursor),
		keyTotalSize+valueSeparator+strconv.Itoa(totalSize),
		keyExpiration+valueSeparator+url.QueryEscape(expiration),
	)
	return strings.Join(pairs, pairSeparator), nil
}

// Decode parses token. An empty token is not an error: present is false and
// the caller starts a fresh query. A malformed token returns a
// Validation error of kind TokenDecode.
func (c *Codec) Decode(token string) (t Token, present bool, err error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Token{}, false, nil
	}

	t.Scope = map[string]string{}
	seen := map[string]bool{}
	for _, pair := range strings.Split(token, pairSeparator) {
		rawName, rawValue, ok := strings.Cut(pair, valueSeparator)
		if !ok || rawName == "" {
			return Token{}, true, errors.NewTokenDecode(fmt.Sprintf("malformed resumption token segment '%s'", pair))
		}
		name, err := url.QueryUnescape(rawName)
		if err != nil {
			return Token{}, true, errors.NewTokenDecode("malformed resumption token", err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return Token{}, true, errors.NewTokenDecode("malformed resumption token", err)
		}
		if seen[name] {
			return Token{}, true, errors.NewTokenDecode(fmt.Sprintf("resumption token repeats '%s'", name))
		}
		seen[name] = true

		switch name {
		case keyCursor:
			t.Cursor = value
		case keyTotalSize:
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return Token{}, true, errors.NewTokenDecode(fmt.Sprintf("resumption token has invalid total size '%s'", value), err)
			}
			t.TotalSize = n
		case keyExpiration:
			exp, err := time.Parse(time.RFC3339, value)
			if err != nil {
				return Token{}, true, errors.NewTokenDecode(fmt.Sprintf("resumption token has invalid expiration '%s'", value), err)
			}
			t.Expiration = exp
		default:
			t.Scope[name] = value
		}
	}
	for name := range reserved {
		if !seen[name] {
			return Token{}, true, errors.NewTokenDecode(fmt.Sprintf("resumption token lacks '%s'", name))
		}
	}
	return t, true, nil
}

// NextCursor advances last by one nanosecond so that a page starting at the
// cursor excludes the record that ended the previous page.
func NextCursor(last time.Time) string {
	return last.Add(time.Nanosecond).UTC().Format(time.RFC3339Nano)
}
