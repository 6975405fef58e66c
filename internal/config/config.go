// Package config holds the configuration of the onlineshop service.
package config

import (
	"strings"

	"github.com/abgdnv/onlineshop/internal/events"
	"github.com/abgdnv/onlineshop/pkg/config"
	"github.com/abgdnv/onlineshop/pkg/config/configloader"
)

// ServiceName prefixes the environment variables of the service (SHOP_...).
const ServiceName = "shop"

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer     config.HTTPConfig           `koanf:"server"`
	Database       config.DatabaseConfig       `koanf:"database"`
	Store          config.StoreConfig          `koanf:"store"`
	Log            config.LogConfig            `koanf:"log"`
	PProf          config.PProfConfig          `koanf:"pprof"`
	GRPC           config.GrpcServerConfig     `koanf:"grpc"`
	Shutdown       config.ShutdownConfig       `koanf:"shutdown"`
	NATS           config.NATSConfig           `koanf:"nats"`
	CircuitBreaker config.CircuitBreakerConfig `koanf:"circuitbreaker"`
	Telemetry      config.TelemetryConfig      `koanf:"telemetry"`
	Cache          config.CacheConfig          `koanf:"cache"`
}

// Defaults are the values used when neither config.yaml nor the environment sets a key.
func Defaults() map[string]any {
	return map[string]any{
		"server.port":                        8080,
		"server.maxheaderbytes":              1 << 20,
		"server.timeout.read":                "5s",
		"server.timeout.write":               "10s",
		"server.timeout.idle":                "120s",
		"server.timeout.readheader":          "2s",
		"database.timeout":                   "5s",
		"database.migrate":                   true,
		"store.driver":                       config.StoreDriverPostgres,
		"log.level":                          "info",
		"grpc.port":                          "9090",
		"grpc.healthinterval":                "10s",
		"shutdown.timeout":                   "15s",
		"nats.timeout":                       "5s",
		"nats.stream":                        events.StreamName,
		"circuitbreaker.consecutivefailures": 5,
		"circuitbreaker.opentimeout":         "30s",
		"circuitbreaker.halfopenrequests":    1,
		"telemetry.traces.otlphttp.timeout":  "5s",
		"cache.ttl":                          "5m",
		"cache.timeout":                      "2s",
	}
}

// Load reads the service configuration from config.yaml, .env and SHOP_ environment variables.
func Load() (*Config, error) {
	return configloader.Load[*Config](ServiceName, Defaults())
}

// String renders every section with secrets masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Store.String())
	if !c.Store.InMemory() {
		b.WriteString(c.Database.String())
	}
	b.WriteString(c.GRPC.String())
	b.WriteString(c.NATS.String())
	b.WriteString(c.CircuitBreaker.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Cache.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if !c.Store.InMemory() {
		if err := c.Database.Validate(); err != nil {
			return err
		}
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	if err := c.GRPC.Validate(); err != nil {
		return err
	}
	if err := c.NATS.Validate(); err != nil {
		return err
	}
	if c.NATS.Enabled {
		if err := c.CircuitBreaker.Validate(); err != nil {
			return err
		}
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	return c.Cache.Validate()
}
