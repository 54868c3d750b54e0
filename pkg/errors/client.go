// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationKind classifies a Validation error so transports and callers can
// react without parsing messages.
type ValidationKind string

const (
	// KindGeneral is used for validation failures without a more specific kind.
	KindGeneral ValidationKind = "general"
	// KindUnknownParameter reports raw keys that did not resolve in a registry.
	KindUnknownParameter ValidationKind = "unknown_parameter"
	// KindInvalidValue reports a value that failed its key's pattern or coercion.
	KindInvalidValue ValidationKind = "invalid_value"
	// KindMissingRequired reports required keys absent after defaulting.
	KindMissingRequired ValidationKind = "missing_required"
	// KindInvalidSort reports a malformed or unknown sort expression.
	KindInvalidSort ValidationKind = "invalid_sort"
	// KindConflict reports mutually exclusive parameters used together.
	KindConflict ValidationKind = "conflict"
	// KindTokenDecode reports a continuation token that could not be decoded.
	KindTokenDecode ValidationKind = "token_decode"
)

// Validation represents a validation error in the application.
type Validation struct {
	base
	kind  ValidationKind
	key   string
	value string
}

// Error returns the error message for Validation.
func (v Validation) Error() string {
	return v.error()
}

// Kind returns the validation kind.
func (v Validation) Kind() ValidationKind {
	if v.kind == "" {
		return KindGeneral
	}
	return v.kind
}

// Key returns the offending parameter key, if the error names one.
func (v Validation) Key() string {
	return v.key
}

// Value returns the offending raw value, if the error names one.
func (v Validation) Value() string {
	return v.value
}

// NewValidation creates a new Validation error with the provided message.
func NewValidation(message string, err ...error) Validation {
	return Validation{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
		kind: KindGeneral,
	}
}

// NewUnknownParameter reports every unresolved key at once, together with the
// vocabulary the caller may use instead.
func NewUnknownParameter(keys []string, valid []string) Validation {
	return Validation{
		base: base{
			message: fmt.Sprintf("invalid query parameter(s) %s, valid parameters are %s",
				quoteList(keys), quoteList(valid)),
		},
		kind: KindUnknownParameter,
		key:  strings.Join(keys, ","),
	}
}

// NewInvalidValue reports a value rejected for key, with a rendered message.
func NewInvalidValue(key, value, message string, err ...error) Validation {
	return Validation{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
		kind:  KindInvalidValue,
		key:   key,
		value: value,
	}
}

// NewMissingRequired reports every required key that is still absent.
func NewMissingRequired(keys []string) Validation {
	return Validation{
		base: base{
			message: fmt.Sprintf("missing required parameter(s) %s", quoteList(keys)),
		},
		kind: KindMissingRequired,
		key:  strings.Join(keys, ","),
	}
}

// NewInvalidSort reports a sort expression that cannot be honored.
func NewInvalidSort(value, message string) Validation {
	return Validation{
		base: base{
			message: message,
		},
		kind:  KindInvalidSort,
		key:   "sort",
		value: value,
	}
}

// NewConflict reports parameters that must not be combined.
func NewConflict(message string, keys ...string) Validation {
	return Validation{
		base: base{
			message: message,
		},
		kind: KindConflict,
		key:  strings.Join(keys, ","),
	}
}

// NewTokenDecode reports a continuation token that was supplied but is malformed.
func NewTokenDecode(message string, err ...error) Validation {
	return Validation{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
		kind: KindTokenDecode,
	}
}

// Forbidden represents an authorization failure. The message never explains
// which rule denied the caller.
type Forbidden struct {
	base
}

// Error returns the error message for Forbidden.
func (f Forbidden) Error() string {
	return f.error()
}

// NewForbidden creates a new Forbidden error.
func NewForbidden(err ...error) Forbidden {
	return Forbidden{
		base: base{
			message: "not authorized",
			err:     errors.Join(err...),
		},
	}
}

// NotFound represents a missing resource.
type NotFound struct {
	base
}

// Error returns the error message for NotFound.
func (n NotFound) Error() string {
	return n.error()
}

// NewNotFound creates a new NotFound error with the provided message.
func NewNotFound(message string, err ...error) NotFound {
	return NotFound{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// Unauthorized represents a missing or invalid credential.
type Unauthorized struct {
	base
}

// Error returns the error message for Unauthorized.
func (u Unauthorized) Error() string {
	return u.error()
}

// NewUnauthorized creates a new Unauthorized error with the provided message.
func NewUnauthorized(message string, err ...error) Unauthorized {
	return Unauthorized{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}
