// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus metrics about compiled searches.
package metrics

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
)

const namespace = "facet_query"

// Compilation outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeRejected  = "rejected"
	OutcomeForbidden = "forbidden"
	OutcomeError     = "error"
)

var (
	CompilationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compilations_total",
			Help:      "Total number of search requests compiled, by outcome",
		},
		[]string{"resource", "outcome"},
	)

	RejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_rejections_total",
			Help:      "Total number of requests rejected by parameter validation",
		},
		[]string{"resource", "kind"},
	)

	CompileDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Time spent validating and compiling a request",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
		},
		[]string{"resource"},
	)

	BackendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Search backend request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"endpoint", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status"},
	)
)

var registerOnce sync.Once

// Register registers every metric with the default registry. Safe to call
// more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(CompilationsTotal, RejectionsTotal, CompileDuration, BackendDuration, httpRequestsTotal)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Outcome classifies err for the compilations counter.
func Outcome(err error) string {
	var (
		validation apperrors.Validation
		forbidden  apperrors.Forbidden
	)
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &validation):
		return OutcomeRejected
	case errors.As(err, &forbidden):
		return OutcomeForbidden
	default:
		return OutcomeError
	}
}

// ObserveCompile records one compilation of resource that started at start.
func ObserveCompile(resource string, start time.Time, err error) {
	outcome := Outcome(err)
	CompilationsTotal.WithLabelValues(resource, outcome).Inc()
	CompileDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())

	var validation apperrors.Validation
	if errors.As(err, &validation) {
		RejectionsTotal.WithLabelValues(resource, string(validation.Kind())).Inc()
	}
}

// ObserveBackend records one request to the search backend.
func ObserveBackend(endpoint string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	BackendDuration.WithLabelValues(endpoint, status).Observe(time.Since(start).Seconds())
}
