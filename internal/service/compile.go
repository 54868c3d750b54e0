// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package service holds the search and harvest operations. They depend on
// the QueryExecutor and RightsResolver ports only.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/infrastructure/metrics"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/access"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/compiler"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/constants"
)

// Compile validates raw against rt, applies the access filter of caller and
// assembles the query. Validation errors are returned before the filter runs.
func Compile(ctx context.Context, rt model.ResourceType, raw map[string][]string, caller access.Caller) (q *compiler.CompiledQuery, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveCompile(rt.Name, start, err)
	}()

	store, err := rt.Validator.Validate(ctx, raw, rt.Required...)
	if err != nil {
		slog.DebugContext(ctx, "parameters rejected",
			"resource", rt.Name,
			"error", err,
		)
		return nil, err
	}

	filters, err := rt.Filter.Apply(caller, store)
	if err != nil {
		slog.DebugContext(ctx, "caller may not search",
			"resource", rt.Name,
			"username", caller.Username,
		)
		return nil, err
	}

	return rt.Compiler.Compile(ctx, store, filters)
}

// resolveCaller looks up the rights behind principal. The anonymous
// principal resolves to the empty caller without a lookup.
func resolveCaller(ctx context.Context, resolver port.RightsResolver, principal string) (access.Caller, error) {
	if principal == "" || principal == constants.AnonymousPrincipal {
		slog.DebugContext(ctx, "anonymous caller")
		return access.Caller{}, nil
	}
	caller, err := resolver.ResolveRights(ctx, principal)
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve caller rights",
			"principal", principal,
			"error", err,
		)
		return access.Caller{}, err
	}
	return caller, nil
}
