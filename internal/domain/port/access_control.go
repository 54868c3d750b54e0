// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/access"
)

// RightsResolver resolves a principal into its identity and granted rights.
// This abstraction allows different access control implementations (NATS, etc.)
// without the domain layer knowing about specific implementations
type RightsResolver interface {
	// ResolveRights looks up the caller behind principal
	ResolveRights(ctx context.Context, principal string) (access.Caller, error)

	// Close gracefully closes the resolver connection
	Close() error

	// IsReady checks if the access control service is ready to process requests
	IsReady(ctx context.Context) error
}
