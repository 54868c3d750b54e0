// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/access"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
)

// NATSRightsResolver implements the RightsResolver interface for NATS
type NATSRightsResolver struct {
	client  NATSClientInterface
	subject string
}

// ResolveRights implements the RightsResolver interface
func (n *NATSRightsResolver) ResolveRights(ctx context.Context, principal string) (access.Caller, error) {
	slog.DebugContext(ctx, "resolving access rights over NATS",
		"subject", n.subject,
		"principal", principal,
	)

	response, err := n.client.RequestRights(ctx, &RightsNATSRequest{
		Subject:   n.subject,
		Principal: principal,
	})
	if err != nil {
		slog.ErrorContext(ctx, "NATS rights lookup failed", "error", err)
		return access.Caller{}, errors.NewServiceUnavailable("access rights lookup failed", err)
	}

	caller, err := n.convertFromNATSResponse(ctx, response)
	if err != nil {
		return access.Caller{}, err
	}

	slog.DebugContext(ctx, "NATS rights lookup completed",
		"username", caller.Username,
		"organization", caller.Organization,
		"rights", len(caller.Rights),
	)

	return caller, nil
}

// IsReady checks the underlying connection
func (n *NATSRightsResolver) IsReady(ctx context.Context) error {
	if err := n.client.IsReady(ctx); err != nil {
		return errors.NewServiceUnavailable("access rights service is not ready", err)
	}
	return nil
}

// Close gracefully closes the NATS connection
func (n *NATSRightsResolver) Close() error {
	return n.client.Close()
}

// convertFromNATSResponse folds the reply lines into a caller. A reply
// without a username means the principal is unknown.
func (n *NATSRightsResolver) convertFromNATSResponse(ctx context.Context, response RightsNATSResponse) (access.Caller, error) {
	var caller access.Caller
	for _, field := range response {
		switch field.Name {
		case FieldUserID:
			caller.UserID = field.Value
		case FieldUsername:
			caller.Username = field.Value
		case FieldOrganization:
			caller.Organization = field.Value
		case FieldTopOrganization:
			caller.TopOrganization = field.Value
		case FieldRight:
			caller.Rights = append(caller.Rights, field.Value)
		default:
			slog.DebugContext(ctx, "ignoring unknown rights field", "field", field.Name)
		}
	}
	if caller.Username == "" {
		return access.Caller{}, errors.NewForbidden(fmt.Errorf("no identity returned for principal"))
	}
	return caller, nil
}

// NewRightsResolver creates a new NATS rights resolver
func NewRightsResolver(ctx context.Context, config Config) (port.RightsResolver, error) {
	slog.InfoContext(ctx, "creating NATS rights resolver",
		"url", config.URL,
		"subject", config.Subject,
	)

	client, err := NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS client: %w", err)
	}

	return &NATSRightsResolver{
		client:  client,
		subject: config.Subject,
	}, nil
}
