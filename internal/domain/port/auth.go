// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"
	"log/slog"
)

// Authenticator turns the Authorization header of a request into the
// principal whose rights are resolved.
type Authenticator interface {
	// ParsePrincipal validates authorization, with or without its "Bearer "
	// prefix. Invalid credentials return errors.Unauthorized.
	ParsePrincipal(ctx context.Context, authorization string, logger *slog.Logger) (string, error)
}
