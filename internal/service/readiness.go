// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/port"
)

// Readiness reports whether every backend a request depends on is ready.
type Readiness struct {
	executor port.QueryExecutor
	resolver port.RightsResolver
}

// IsReady checks the search backend and the rights resolver. Every failure is
// returned, not only the first.
func (r *Readiness) IsReady(ctx context.Context) error {
	var errs []error
	if err := r.executor.IsReady(ctx); err != nil {
		slog.WarnContext(ctx, "search backend is not ready", "error", err)
		errs = append(errs, err)
	}
	if err := r.resolver.IsReady(ctx); err != nil {
		slog.WarnContext(ctx, "rights resolver is not ready", "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// NewReadiness creates a Readiness over both backends
func NewReadiness(executor port.QueryExecutor, resolver port.RightsResolver) *Readiness {
	return &Readiness{executor: executor, resolver: resolver}
}
