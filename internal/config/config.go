package config

import (
	"errors"
	"ev-route-service/internal/adapters/routing"
	"ev-route-service/internal/platform/obs"
	"ev-route-service/internal/services"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "EVR_"

type ServerConfig struct {
	Port                int `json:"port"`
	ReadTimeoutSeconds  int `json:"read_timeout_seconds"`
	WriteTimeoutSeconds int `json:"write_timeout_seconds"`
	IdleTimeoutSeconds  int `json:"idle_timeout_seconds"`
}

func (s ServerConfig) Addr() string { return fmt.Sprintf(":%d", s.Port) }

type StoreConfig struct {
	// Backend is "file" or "postgres".
	Backend      string `json:"backend"`
	StationsPath string `json:"stations_path"`
	DatabaseURL  string `json:"database_url"`
	SeedPath     string `json:"seed_path"`
}

type CacheConfig struct {
	// Backend is "none", "redis" or "postgres".
	Backend    string `json:"backend"`
	RedisAddr  string `json:"redis_addr"`
	TTLSeconds int    `json:"ttl_seconds"`
}

func (c CacheConfig) TTL() time.Duration { return time.Duration(c.TTLSeconds) * time.Second }

type Config struct {
	Server  ServerConfig          `json:"server"`
	Logging obs.LoggingConfig     `json:"logging"`
	Store   StoreConfig           `json:"store"`
	Routing routing.ORSConfig     `json:"routing"`
	Cache   CacheConfig           `json:"cache"`
	Engine  services.EngineConfig `json:"engine"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:                8080,
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 60,
			IdleTimeoutSeconds:  60,
		},
		Logging: obs.LoggingConfig{Level: "info", Format: "json"},
		Store: StoreConfig{
			Backend:      "file",
			StationsPath: "data/stations.json",
			SeedPath:     "data/stations.json",
		},
		Routing: routing.ORSConfig{
			BaseURL:          "https://api.openrouteservice.org",
			Profile:          "driving-car",
			SnapRadiusMeters: 5000,
			TimeoutSeconds:   10,
			MaxAttempts:      4,
		},
		Cache:  CacheConfig{Backend: "none", TTLSeconds: 24 * 60 * 60},
		Engine: services.DefaultEngineConfig(),
	}
}

// Load builds the configuration from defaults, an optional file and the environment.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("load config: unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load config: read %q: %w", path, err)
		}
	}

	// The callback turns EVR_SERVER__PORT into server.port, so keys split on ".".
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load config: environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("load config: decode: %w", err)
	}
	applyLegacyEnv(&cfg, k)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Plain variables from older deployments fill in only what the prefixed ones left unset.
func applyLegacyEnv(cfg *Config, k *koanf.Koanf) {
	if v := os.Getenv("PORT"); v != "" && !k.Exists("server.port") {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("ORS_API_KEY"); v != "" && !k.Exists("routing.api_key") {
		cfg.Routing.APIKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" && !k.Exists("store.database_url") {
		cfg.Store.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" && !k.Exists("cache.redis_addr") {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("STATIONS_PATH"); v != "" && !k.Exists("store.stations_path") {
		cfg.Store.StationsPath = v
	}
}

func (c Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port))
	}

	switch c.Store.Backend {
	case "file":
		if strings.TrimSpace(c.Store.StationsPath) == "" {
			errs = append(errs, errors.New("store.stations_path is required for the file store"))
		}
	case "postgres":
		if strings.TrimSpace(c.Store.DatabaseURL) == "" {
			errs = append(errs, errors.New("store.database_url is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend %q is not one of file, postgres", c.Store.Backend))
	}

	switch c.Cache.Backend {
	case "none":
	case "redis":
		if strings.TrimSpace(c.Cache.RedisAddr) == "" {
			errs = append(errs, errors.New("cache.redis_addr is required for the redis cache"))
		}
	case "postgres":
		if strings.TrimSpace(c.Store.DatabaseURL) == "" {
			errs = append(errs, errors.New("store.database_url is required for the postgres cache"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend %q is not one of none, redis, postgres", c.Cache.Backend))
	}

	if err := c.Engine.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
