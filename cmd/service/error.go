// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message   string `json:"message"`
	Kind      string `json:"kind,omitempty"`
	Key       string `json:"key,omitempty"`
	Value     string `json:"value,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// wrapError maps err to a status code and response body.
func wrapError(ctx context.Context, err error) (int, ErrorResponse) {
	response := ErrorResponse{RequestID: middleware.RequestIDFromContext(ctx)}
	if err == nil {
		response.Message = "unknown error"
		return http.StatusInternalServerError, response
	}
	response.Message = err.Error()

	var (
		validation   errors.Validation
		unauthorized errors.Unauthorized
		forbidden    errors.Forbidden
		notFound     errors.NotFound
		unavailable  errors.ServiceUnavailable
		status       int
	)
	switch {
	case stderrors.As(err, &validation):
		status = http.StatusBadRequest
		response.Kind = string(validation.Kind())
		response.Key = validation.Key()
		response.Value = validation.Value()
	case stderrors.As(err, &unauthorized):
		status = http.StatusUnauthorized
	case stderrors.As(err, &forbidden):
		status = http.StatusForbidden
		response.Message = forbidden.Message()
	case stderrors.As(err, &notFound):
		status = http.StatusNotFound
	case stderrors.As(err, &unavailable):
		// Backend causes stay in the logs.
		status = http.StatusServiceUnavailable
		response.Message = unavailable.Message()
	default:
		status = http.StatusInternalServerError
		response.Message = "internal server error"
	}

	level := slog.LevelInfo
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(ctx, level, "request failed",
		"status", status,
		"error", err,
	)
	return status, response
}
