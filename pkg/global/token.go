// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package global holds process wide secrets read once from the environment.
package global

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// PageTokenSecretEnv names the variable holding the page token secret.
const PageTokenSecretEnv = "PAGE_TOKEN_SECRET"

var (
	pageTokenSecret       [32]byte
	doOncePageTokenSecret sync.Once
)

// PageTokenSecret returns the key sealing page tokens. A secret of exactly
// 32 bytes is used as is; any other length is hashed down to 32 bytes so
// that every byte of it counts. The process exits when the variable is unset.
func PageTokenSecret(ctx context.Context) *[32]byte {

	doOncePageTokenSecret.Do(func() {
		value := os.Getenv(PageTokenSecretEnv)
		if value == "" {
			slog.ErrorContext(ctx, fmt.Sprintf("%s environment variable is not set", PageTokenSecretEnv))
			os.Exit(1)
		}
		pageTokenSecret = deriveKey(value)
	})

	return &pageTokenSecret
}

func deriveKey(secret string) [32]byte {
	if len(secret) == 32 {
		var key [32]byte
		copy(key[:], secret)
		return key
	}
	return sha256.Sum256([]byte(secret))
}
