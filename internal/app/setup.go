// Package app wires stores, services and transports of the onlineshop service.
package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/abgdnv/onlineshop/internal/config"
	"github.com/abgdnv/onlineshop/internal/events"
	"github.com/abgdnv/onlineshop/internal/service"
	"github.com/abgdnv/onlineshop/internal/store"
	grpcImpl "github.com/abgdnv/onlineshop/internal/transport/grpc"
	"github.com/abgdnv/onlineshop/internal/transport/rest"
	"github.com/abgdnv/onlineshop/pkg/messaging"
	natsclient "github.com/abgdnv/onlineshop/pkg/nats"
	"github.com/abgdnv/onlineshop/pkg/server"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

// Stores groups the entity stores together with the probe used for health checks.
type Stores struct {
	Products store.ProductStore
	Users    store.UserStore
	Carts    store.CartStore
	Pinger   grpcImpl.Pinger
}

// NewPgStores creates the PostgreSQL backed stores.
func NewPgStores(dbPool *pgxpool.Pool) Stores {
	return Stores{
		Products: store.NewPgProductStore(dbPool),
		Users:    store.NewPgUserStore(dbPool),
		Carts:    store.NewPgCartStore(dbPool),
		Pinger:   dbPool,
	}
}

// NewMemoryStores creates stores sharing one in-memory data set.
func NewMemoryStores() Stores {
	mem := store.NewMemory()
	return Stores{
		Products: mem.Products(),
		Users:    mem.Users(),
		Carts:    mem.Carts(),
		Pinger:   mem,
	}
}

// WithProductCache returns a copy of the stores whose product reads go through cache.
func (s Stores) WithProductCache(cache store.ProductCache) Stores {
	s.Products = store.NewCachedProductStore(s.Products, cache)
	return s
}

type Dependencies struct {
	ProductService service.ProductService
	UserService    service.UserService
	CartService    service.CartService
	Pinger         grpcImpl.Pinger
	Metrics        http.Handler
	Logger         *slog.Logger
}

// SetupDependencies creates the services on top of the stores. Product changes are sent to publisher.
func SetupDependencies(stores Stores, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	return &Dependencies{
		ProductService: service.NewProducts(stores.Products, publisher, logger),
		UserService:    service.NewUsers(stores.Users, logger),
		CartService:    service.NewCarts(stores.Carts, logger),
		Pinger:         stores.Pinger,
		Logger:         logger,
	}
}

// SetupPublisher connects to NATS, makes sure the product stream exists and guards publishing with a circuit breaker.
// The returned close function drains the connection. When NATS is disabled events are dropped.
func SetupPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.NATS.Enabled {
		logger.Info("NATS disabled, product events are not published")
		return messaging.NoopPublisher{}, func() {}, nil
	}

	nc, err := natsclient.NewClient(cfg.NATS.Url, cfg.NATS.Timeout)
	if err != nil {
		return nil, nil, err
	}
	js, err := natsclient.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	if err := natsclient.EnsureStream(ctx, js, cfg.NATS.Stream, events.StreamSubjects); err != nil {
		nc.Close()
		return nil, nil, err
	}
	logger.Info("Connected to NATS", "url", nc.ConnectedUrlRedacted(), "stream", cfg.NATS.Stream)

	publisher := messaging.NewBreakerPublisher(natsclient.NewNatsPublisher(js), cfg.CircuitBreaker, logger)
	closeFn := func() {
		if err := nc.Drain(); err != nil {
			logger.Warn("failed to drain NATS connection", "error", err)
		}
	}
	return publisher, closeFn, nil
}

// SetupHttpHandler builds the router of the shop API.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	handler := rest.NewHandler(deps.ProductService, deps.UserService, deps.CartService, deps.Logger)
	handler.RegisterRoutes(mux)
	if deps.Metrics != nil {
		mux.Handle("/metrics", deps.Metrics)
	}
	return mux
}

// SetupHttpServer creates the traced HTTP server of the shop API.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	httpCfg := server.HTTPConfig{
		Operation:      config.ServiceName,
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}
	return server.NewHTTPServer(httpCfg, SetupHttpHandler(deps))
}

// SetupGrpcServer creates the gRPC server exposing the health service.
func SetupGrpcServer(deps *Dependencies, cfg *config.Config, hs *health.Server) *grpc.Server {
	return server.NewGRPCServer(server.GRPCOptions{
		Logger:           deps.Logger,
		EnableReflection: cfg.GRPC.ReflectionEnabled,
		ServerOptions:    []grpc.ServerOption{grpc.StatsHandler(otelgrpc.NewServerHandler())},
	}, grpcImpl.Register(hs))
}
