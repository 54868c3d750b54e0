// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package httpclient

import (
	"time"
)

const defaultUserAgent = "lfx-v2-facet-query-service"

// Config holds the configuration for the HTTP client
type Config struct {
	Timeout time.Duration

	// MaxRetries counts attempts after the first one
	MaxRetries int

	// RetryDelay is the wait before the first retry. With RetryBackoff it
	// doubles per attempt up to MaxRetryDelay.
	RetryDelay    time.Duration
	RetryBackoff  bool
	MaxRetryDelay time.Duration

	// Username and Password enable basic authentication when both are set
	Username string
	Password string

	UserAgent string
}

// retryDelay returns the wait before attempt (1 for the first retry).
func (c Config) retryDelay(attempt int) time.Duration {
	delay := c.RetryDelay
	if c.RetryBackoff && attempt > 1 {
		delay <<= attempt - 1
	}
	if c.MaxRetryDelay > 0 && (delay > c.MaxRetryDelay || delay < 0) {
		delay = c.MaxRetryDelay
	}
	return delay
}

// DefaultConfig suits calls to a search cluster inside the same network.
func DefaultConfig() Config {
	return Config{
		Timeout:       10 * time.Second,
		MaxRetries:    2,
		RetryDelay:    200 * time.Millisecond,
		RetryBackoff:  true,
		MaxRetryDelay: 2 * time.Second,
		UserAgent:     defaultUserAgent,
	}
}
