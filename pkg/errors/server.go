// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import "errors"

// Unexpected is a failure the caller cannot fix, such as a response that
// cannot be encoded. Its message is not shown to callers.
type Unexpected struct {
	base
}

func (u Unexpected) Error() string {
	return u.error()
}

// NewUnexpected creates an Unexpected error
func NewUnexpected(message string, err ...error) Unexpected {
	return Unexpected{base: base{message: message, err: errors.Join(err...)}}
}

// ServiceUnavailable reports a backend (search cluster, rights service) that
// cannot answer right now. Retrying later may succeed.
type ServiceUnavailable struct {
	base
}

func (su ServiceUnavailable) Error() string {
	return su.error()
}

// NewServiceUnavailable creates a ServiceUnavailable error
func NewServiceUnavailable(message string, err ...error) ServiceUnavailable {
	return ServiceUnavailable{base: base{message: message, err: errors.Join(err...)}}
}
