// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package errors defines the typed errors returned across layers. Transports
// map each type to a status; Validation additionally carries a kind.
package errors

import "fmt"

// base holds the message shared by every error type and the joined causes.
type base struct {
	message string
	err     error
}

// error renders "message: cause", or the message alone without a cause.
func (b base) error() string {
	if b.err == nil {
		return b.message
	}
	return fmt.Sprintf("%s: %v", b.message, b.err)
}

// Message returns the message without the causes.
func (b base) Message() string {
	return b.message
}

// Unwrap exposes the joined causes to errors.Is and errors.As.
func (b base) Unwrap() error {
	return b.err
}
