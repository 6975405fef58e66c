// Package grpc exposes the standard gRPC health service of the shop, driven by the reachability of its store.
package grpc

import (
	"context"
	"log/slog"
	"time"

	"github.com/abgdnv/onlineshop/pkg/server"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name reported to health checks next to the overall ("") status.
const ServiceName = "onlineshop"

// Pinger checks that a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthWatcher keeps the health server status in line with periodic pings of the store.
type HealthWatcher struct {
	health   *health.Server
	pinger   Pinger
	interval time.Duration
	logger   *slog.Logger
}

func NewHealthWatcher(hs *health.Server, pinger Pinger, interval time.Duration, logger *slog.Logger) *HealthWatcher {
	return &HealthWatcher{
		health:   hs,
		pinger:   pinger,
		interval: interval,
		logger:   logger.With("component", "health"),
	}
}

// Register returns a registration adding the health service to a gRPC server.
func Register(hs *health.Server) server.RegistrationFunc {
	return func(s *grpc.Server) {
		healthpb.RegisterHealthServer(s, hs)
	}
}

// Run probes immediately and then on every interval until ctx is done.
// On return every service is marked NOT_SERVING.
func (w *HealthWatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			w.health.Shutdown()
			return nil
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}

// Check pings the store once and publishes the resulting status.
func (w *HealthWatcher) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	pingCtx, cancel := context.WithTimeout(ctx, w.interval)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := w.pinger.Ping(pingCtx); err != nil {
		w.logger.WarnContext(ctx, "Store ping failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	w.health.SetServingStatus("", status)
	w.health.SetServingStatus(ServiceName, status)
	return status
}
