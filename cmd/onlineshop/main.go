// Package main runs the onlineshop service: the shop REST API, the gRPC health service and optional pprof.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "net/http/pprof"

	"github.com/abgdnv/onlineshop/internal/app"
	"github.com/abgdnv/onlineshop/internal/config"
	"github.com/abgdnv/onlineshop/internal/store"
	grpcImpl "github.com/abgdnv/onlineshop/internal/transport/grpc"
	"github.com/abgdnv/onlineshop/migrations"
	"github.com/abgdnv/onlineshop/pkg/bootstrap"
	"github.com/abgdnv/onlineshop/pkg/cache"
	"github.com/abgdnv/onlineshop/pkg/telemetry"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/health"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run loads the configuration, wires the stores and services and serves until ctx is cancelled.
func run(ctx context.Context) error {
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	if cfg.Telemetry.Enabled {
		tp, err := telemetry.NewTracerProvider(ctx, config.ServiceName, cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("failed to create tracer provider: %w", err)
		}
		defer shutdownWithTimeout(logger, "tracer provider", cfg.Shutdown.Timeout, tp.Shutdown)
	}
	metrics, err := telemetry.NewMetrics(config.ServiceName)
	if err != nil {
		return err
	}
	defer shutdownWithTimeout(logger, "meter provider", cfg.Shutdown.Timeout, metrics.Shutdown)

	stores, closeStores, err := setupStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStores()

	if cfg.Cache.Enabled {
		rdb, err := cache.NewClient(ctx, cfg.Cache)
		if err != nil {
			return err
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Warn("failed to close redis client", "error", err)
			}
		}()
		logger.Info("Product reads are cached in Redis", "addr", cfg.Cache.Addr, "ttl", cfg.Cache.TTL)
		stores = stores.WithProductCache(cache.NewViewCache[store.Product](rdb, cfg.Cache.TTL, logger))
	}

	publisher, closePublisher, err := app.SetupPublisher(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to set up event publisher: %w", err)
	}
	defer closePublisher()

	deps := app.SetupDependencies(stores, publisher, logger)
	deps.Metrics = metrics.Handler()
	healthServer := health.NewServer()
	watcher := grpcImpl.NewHealthWatcher(healthServer, deps.Pinger, cfg.GRPC.HealthInterval, logger)
	httpServer := app.SetupHttpServer(deps, cfg)
	grpcServer := app.SetupGrpcServer(deps, cfg, healthServer)

	g, gCtx := errgroup.WithContext(ctx)

	// Start the HTTP server
	g.Go(func() error {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	// gracefully shutdown HTTP server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	// Start the gRPC server
	g.Go(func() error {
		grpcAddr := ":" + cfg.GRPC.Port
		lis, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on gRPC port: %w", err)
		}
		logger.Info("gRPC server listening", slog.String("addr", grpcAddr))
		return grpcServer.Serve(lis)
	})
	// gracefully shutdown gRPC server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down gRPC server...")
		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
			logger.Info("gRPC server stopped gracefully.")
			return nil
		case <-time.After(cfg.Shutdown.Timeout):
			logger.Warn("gRPC server graceful stop timed out. Forcing stop.")
			grpcServer.Stop()
			return fmt.Errorf("grpc server graceful stop timed out")
		}
	})

	// Keep the health status in line with the store
	g.Go(func() error {
		return watcher.Run(gCtx)
	})

	// Start the pprof server if enabled
	if cfg.PProf.Enabled {
		pprofServer := &http.Server{
			Addr:              cfg.PProf.Addr,
			ReadHeaderTimeout: cfg.HTTPServer.Timeout.ReadHeader,
		}
		g.Go(func() error {
			logger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		// gracefully shutdown pprof server on context cancellation
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down pprof server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			return pprofServer.Shutdown(shutdownCtx)
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// setupStores selects the store backend. For PostgreSQL it connects, applies migrations if enabled
// and returns a function closing the pool.
func setupStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (app.Stores, func(), error) {
	if cfg.Store.InMemory() {
		logger.Warn("Using in-memory stores, data is lost on restart")
		return app.NewMemoryStores(), func() {}, nil
	}

	dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
	if err != nil {
		return app.Stores{}, nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}
	logger.Info("Successfully connected to the database!")

	if cfg.Database.Migrate {
		version, err := migrations.Up(cfg.Database.URL)
		if err != nil {
			dbPool.Close()
			return app.Stores{}, nil, err
		}
		logger.Info("Database schema is up to date", "version", version)
	}
	return app.NewPgStores(dbPool), dbPool.Close, nil
}

func shutdownWithTimeout(logger *slog.Logger, name string, timeout time.Duration, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.Warn("failed to shut down "+name, "error", err)
	}
}
