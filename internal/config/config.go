package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	pkgconfig "github.com/wekeepgrowing/semo-fleet/pkg/config"
	"github.com/wekeepgrowing/semo-fleet/pkg/logger"
)

// ServiceName is the viper config name and the env prefix (FLEET_*).
const ServiceName = "fleet"

type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	JWT        JWTConfig        `yaml:"jwt"`
	Log        logger.Config    `yaml:"log"`
	Compliance ComplianceConfig `yaml:"compliance"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type ServiceConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads configs/<env>/fleet.yaml (or $CONFIG_PATH) with FLEET_* env overrides.
func Load() (*Config, error) {
	raw, err := pkgconfig.Load(ServiceName, defaults())
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

// LoadFile reads an explicit config file, used by fleetctl --config.
func LoadFile(path string) (*Config, error) {
	raw, err := pkgconfig.LoadFile(ServiceName, path, defaults())
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

func decode(raw pkgconfig.Config) (*Config, error) {
	var cfg Config
	if err := raw.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	switch c.Compliance.LockBackend {
	case LockBackendMemory:
	case LockBackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("compliance.lock_backend=redis requires redis.addr")
		}
	default:
		return fmt.Errorf("unknown compliance.lock_backend %q", c.Compliance.LockBackend)
	}
	if c.Compliance.LockTTL <= 0 {
		return fmt.Errorf("compliance.lock_ttl must be positive")
	}
	return nil
}

// Redacted renders the effective config as YAML with secrets masked.
func (c Config) Redacted() ([]byte, error) {
	if c.Database.Password != "" {
		c.Database.Password = "****"
	}
	if c.Redis.Password != "" {
		c.Redis.Password = "****"
	}
	if c.JWT.Secret != "" {
		c.JWT.Secret = "****"
	}
	return yaml.Marshal(c)
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"service.name":                  ServiceName,
		"service.environment":           "dev",
		"server.http.host":              "0.0.0.0",
		"server.http.port":              8080,
		"server.http.allow_origins":     []string{"*"},
		"server.grpc.host":              "0.0.0.0",
		"server.grpc.port":              9090,
		"database.port":                 5432,
		"database.sslmode":              "disable",
		"database.max_open_conns":       25,
		"database.max_idle_conns":       5,
		"database.conn_max_lifetime":    "30m",
		"database.conn_max_idle_time":   "5m",
		"database.slow_query_threshold": "200ms",
		"log.level":                     "info",
		"log.format":                    "json",
		"log.output":                    "stdout",
		"compliance.locale":             "de",
		"compliance.lock_backend":       LockBackendMemory,
		"compliance.lock_ttl":           "30s",
		"compliance.audit_channel":      "fleet.audit",
		"metrics.enabled":               true,
		"metrics.path":                  "/metrics",
	}
}
