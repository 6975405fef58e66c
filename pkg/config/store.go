package config

import (
	"fmt"
	"strings"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// StoreConfig selects the persistence backend of the entity stores.
type StoreConfig struct {
	Driver string `koanf:"driver"`
}

// String returns a string representation of the store configuration.
func (c *StoreConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Store ---\n")
	b.WriteString(fmt.Sprintf("  driver: %s\n", c.Driver))
	return b.String()
}

func (c *StoreConfig) Validate() error {
	switch c.Driver {
	case StoreDriverPostgres, StoreDriverMemory:
		return nil
	case "":
		c.Driver = StoreDriverPostgres
		return nil
	default:
		return fmt.Errorf("unsupported store driver: %q", c.Driver)
	}
}

// InMemory reports whether the in-memory stores are selected.
func (c *StoreConfig) InMemory() bool {
	return c.Driver == StoreDriverMemory
}
