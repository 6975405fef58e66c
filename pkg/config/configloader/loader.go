// Package configloader loads a service configuration from a yaml file, a .env file and the environment.
package configloader

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Validator interface {
	Validate() error
}

// Sources describes where configuration values come from. Later sources override earlier ones.
type Sources struct {
	Defaults   map[string]any
	ConfigFile string
	EnvFile    string
	EnvPrefix  string
}

// DefaultSources returns the conventional sources for a service:
// config.yaml and .env in the working directory and <SERVICE>_ prefixed environment variables.
func DefaultSources(serviceName string, defaults map[string]any) Sources {
	return Sources{
		Defaults:   defaults,
		ConfigFile: "config.yaml",
		EnvFile:    ".env",
		EnvPrefix:  fmt.Sprintf("%s_", strings.ToUpper(serviceName)),
	}
}

// Load reads the configuration of the named service from the default sources.
func Load[T Validator](serviceName string, defaults map[string]any) (T, error) {
	return LoadFrom[T](DefaultSources(serviceName, defaults))
}

// LoadFrom reads, unmarshals and validates a configuration from the given sources.
// T is expected to be a pointer to a struct.
func LoadFrom[T Validator](src Sources) (T, error) {
	var cfg T
	k := koanf.New(".")

	// 0. Built-in defaults, the lowest priority
	if len(src.Defaults) > 0 {
		if err := k.Load(confmap.Provider(src.Defaults, "."), nil); err != nil {
			return cfg, fmt.Errorf("error loading default config: %w", err)
		}
	}

	// 1. Load configuration from yaml file
	if src.ConfigFile != "" {
		if err := k.Load(file.Provider(src.ConfigFile), yaml.Parser()); err != nil {
			if !os.IsNotExist(err) {
				log.Printf("WARN: error loading YAML config file '%s': %v", src.ConfigFile, err)
			}
		}
	}

	// 2. Load environment variables from .env file
	envTransformer := func(key string) string {
		key = strings.ToLower(key)
		key = strings.TrimPrefix(key, strings.ToLower(src.EnvPrefix))
		return strings.ReplaceAll(key, "_", ".")
	}
	if src.EnvFile != "" {
		if envFileMap, err := godotenv.Read(src.EnvFile); err == nil {
			envMap := make(map[string]any)
			for key, value := range envFileMap {
				if !strings.HasPrefix(strings.ToUpper(key), src.EnvPrefix) {
					continue
				}
				envMap[envTransformer(key)] = value
			}
			if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
				log.Printf("WARN: error loading .env config: %v", err)
			}
		} else if !os.IsNotExist(err) {
			log.Printf("WARN: error reading .env file: %v", err)
		}
	}

	// 3. Load environment variables from the system, the highest priority
	if err := k.Load(env.Provider(src.EnvPrefix, ".", envTransformer), nil); err != nil {
		log.Printf("WARN: error loading system env vars: %v", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}
