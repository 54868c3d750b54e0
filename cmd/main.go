// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/cmd/service"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/infrastructure/metrics"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/resources/catalog"
	usecase "github.com/linuxfoundation/lfx-v2-facet-query-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/global"
	logging "github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/log"
)

const (
	defaultPort = "8080"
	// defaultShutdownTimeout should exceed the NATS request timeout and stay
	// below the pod's terminationGracePeriodSeconds.
	defaultShutdownTimeout = 25 * time.Second
)

func init() {
	logging.InitStructureLogConfig()
}

// listenAddr joins bind and port; "*" binds every interface.
func listenAddr(bind, port string) string {
	if bind == "*" || bind == "" {
		return ":" + port
	}
	return bind + ":" + port
}

func main() {
	var (
		dbgF            = flag.Bool("d", false, "enable debug logging and pprof endpoints")
		port            = flag.String("p", defaultPort, "listen port")
		bind            = flag.String("bind", "*", "interface to bind on")
		shutdownTimeout = flag.Duration("shutdown-timeout", defaultShutdownTimeout, "graceful shutdown timeout")
	)
	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := listenAddr(*bind, *port)
	slog.InfoContext(ctx, "starting facet query service",
		"addr", addr,
		"shutdown-timeout", shutdownTimeout.String(),
	)

	executor := service.ExecutorImpl(ctx)
	rightsResolver := service.RightsResolverImpl(ctx)
	authService := service.AuthServiceImpl(ctx)
	metrics.Register()

	// Building the catalog compiles every registry, so misconfigured
	// resources fail at startup.
	resourceCatalog := catalog.Default()
	slog.InfoContext(ctx, "resource catalog loaded", "resources", resourceCatalog.Names())

	querySvc := service.NewQuerySvc(
		usecase.NewSearch(resourceCatalog, executor, rightsResolver, global.PageTokenSecret(ctx)),
		usecase.NewHarvest(resourceCatalog, executor, rightsResolver, service.ResumptionCodecImpl(ctx), service.HarvestPageSize(ctx)),
		usecase.NewReadiness(executor, rightsResolver),
		authService,
	)

	var wg sync.WaitGroup
	errc := make(chan error, 1)
	handleHTTPServer(ctx, addr, querySvc, &wg, errc, *dbgF, *shutdownTimeout)

	select {
	case <-ctx.Done():
		slog.InfoContext(ctx, "received shutdown signal, stopping servers")
	case err := <-errc:
		slog.ErrorContext(ctx, "HTTP server failed", "error", err)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), *shutdownTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		if err := rightsResolver.Close(); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to close rights resolver", "error", err)
		}
		close(done)
	}()

	select {
	case <-done:
		slog.InfoContext(shutdownCtx, "graceful shutdown completed")
	case <-shutdownCtx.Done():
		slog.WarnContext(shutdownCtx, "graceful shutdown timed out")
		fmt.Fprintln(os.Stderr, "forced exit after shutdown timeout")
		os.Exit(1)
	}
}
