// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const defaultTimeout = 5 * time.Second

// NATSClient wraps the NATS connection and provides rights lookups
type NATSClient struct {
	conn    *nats.Conn
	config  Config
	timeout time.Duration
}

// NATSClientInterface defines the interface for NATS operations
// This allows for easy mocking and testing
type NATSClientInterface interface {
	RequestRights(ctx context.Context, request *RightsNATSRequest) (RightsNATSResponse, error)
	IsReady(ctx context.Context) error
	Close() error
}

// RequestRights sends a rights request via NATS and parses the
// tab separated reply
func (c *NATSClient) RequestRights(ctx context.Context, request *RightsNATSRequest) (RightsNATSResponse, error) {

	if request == nil {
		slog.ErrorContext(ctx, "invalid NATS rights request: request cannot be nil")
		return nil, fmt.Errorf("invalid NATS rights request: request cannot be nil")
	}

	if request.Subject == "" || request.Principal == "" {
		slog.ErrorContext(ctx, "invalid NATS rights request",
			"subject", request.Subject,
		)
		return nil, fmt.Errorf("invalid NATS rights request: subject and principal must be set")
	}

	timeout := request.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	requestCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	natsResponse, errRequest := c.conn.RequestWithContext(requestCtx, request.Subject, []byte(request.Principal))
	if errRequest != nil {
		slog.ErrorContext(ctx, "NATS request failed", "error", errRequest)
		return nil, fmt.Errorf("NATS request failed: %w", errRequest)
	}

	slog.DebugContext(ctx, "received NATS response",
		"subject", request.Subject,
		"bytes", len(natsResponse.Data),
	)

	return parseRights(ctx, natsResponse.Data)
}

// parseRights reads one "name<TAB>value" pair per line. Blank lines are
// skipped.
func parseRights(ctx context.Context, data []byte) (RightsNATSResponse, error) {
	var response RightsNATSResponse
	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimRight(line, "\r")
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		name, value, found := bytes.Cut(line, []byte("\t"))
		if !found {
			slog.ErrorContext(ctx, "invalid NATS response format",
				"message", string(line),
			)
			return nil, errors.New("failed to process rights response")
		}
		response = append(response, RightsField{Name: string(name), Value: string(value)})
	}
	return response, nil
}

// IsReady reports whether the connection is up
func (c *NATSClient) IsReady(ctx context.Context) error {
	if c.conn == nil || !c.conn.IsConnected() {
		return errors.New("NATS connection is not established")
	}
	return nil
}

// Close gracefully closes the NATS connection
func (c *NATSClient) Close() error {
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}

// NewClient creates a new NATS client with the given configuration
func NewClient(ctx context.Context, config Config) (*NATSClient, error) {
	slog.InfoContext(ctx, "creating NATS client",
		"url", config.URL,
		"timeout", config.Timeout,
	)

	opts := []nats.Option{
		nats.Name("lfx-v2-facet-query-service"),
		nats.Timeout(config.Timeout),
		nats.MaxReconnects(config.MaxReconnect),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			slog.WarnContext(ctx, "NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS connection closed")
		}),
	}

	conn, err := nats.Connect(config.URL, opts...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to NATS", "error", err)
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	client := &NATSClient{
		conn:    conn,
		config:  config,
		timeout: config.Timeout,
	}

	slog.InfoContext(ctx, "NATS client created successfully",
		"connected_url", conn.ConnectedUrl(),
		"status", conn.Status(),
	)

	return client, nil
}
