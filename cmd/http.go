// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/cmd/service"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/middleware"

	"goa.design/clue/debug"
	goahttp "goa.design/goa/v3/http"
)

// newHandler mounts every endpoint and wraps the muxer in the middlewares.
// The request ID is assigned before anything else runs.
func newHandler(ctx context.Context, querySvc *service.QuerySvc, dbg bool) http.Handler {
	mux := goahttp.NewMuxer()
	if dbg {
		// pprof under /debug/pprof and the runtime log level switch under /debug.
		debug.MountPprofHandlers(debug.Adapt(mux))
		debug.MountDebugLogEnabler(debug.Adapt(mux))
	}

	for _, r := range querySvc.Mount(mux) {
		slog.InfoContext(ctx, "HTTP endpoint mounted",
			"name", r.Name,
			"method", r.Method,
			"pattern", r.Pattern,
		)
	}

	var handler http.Handler = mux
	if dbg {
		handler = debug.HTTP()(handler)
	}
	handler = middleware.RecoverMiddleware()(handler)
	return middleware.RequestIDMiddleware()(handler)
}

// handleHTTPServer starts the HTTP server and shuts it down once ctx is
// done. Listen failures are sent to errc.
func handleHTTPServer(ctx context.Context, addr string, querySvc *service.QuerySvc, wg *sync.WaitGroup, errc chan<- error, dbg bool, shutdownTimeout time.Duration) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newHandler(ctx, querySvc, dbg),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()

		go func() {
			slog.InfoContext(ctx, "HTTP server listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
		}()

		<-ctx.Done()
		slog.Info("shutting down HTTP server", "addr", addr)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown HTTP server", "error", err)
		}
	}()
}
