// Package config loads kpv configuration from environment variables.
// All variables use the KPV_ prefix; command-line flags override them.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds all application configuration.
type Config struct {
	// Backend selects durable storage: "sqlite", "redis" or "memory".
	Backend string

	// DBPath is the SQLite file. Empty resolves to the default XDG path.
	DBPath string

	// RedisURL is required for the redis backend.
	RedisURL string

	// Namespace prefixes every durable key so independent instances never
	// share progress.
	Namespace string

	// CurriculumPath points at a YAML curriculum. Empty uses the built-in one.
	CurriculumPath string

	// Strict turns curriculum warnings (dangling prerequisites, cycles)
	// into startup errors.
	Strict bool

	Server ServerConfig
	Log    LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string
	Port         int
	AllowOrigins []string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
	Mode  string // "dev" or "prod"
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend:   BackendSQLite,
		Namespace: "kpv",
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8088,
			AllowOrigins: []string{
				"http://localhost:5173",
				"http://127.0.0.1:5173",
				"http://localhost:3000",
				"http://127.0.0.1:3000",
			},
		},
		Log: LogConfig{
			Level: "warn",
			Mode:  "dev",
		},
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values. Values that fail to parse are reported
// together in the returned error; the Config keeps their defaults.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	var errs []error

	if v := os.Getenv("KPV_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("KPV_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("KPV_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("KPV_NAMESPACE"); v != "" {
		cfg.Namespace = v
	}
	if v := os.Getenv("KPV_CURRICULUM"); v != "" {
		cfg.CurriculumPath = v
	}
	if v := os.Getenv("KPV_STRICT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("KPV_STRICT: %q is not a boolean", v))
		} else {
			cfg.Strict = b
		}
	}

	if v := os.Getenv("KPV_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("KPV_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("KPV_PORT: %q is not a number", v))
		} else {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("KPV_ALLOW_ORIGINS"); v != "" {
		cfg.Server.AllowOrigins = splitList(v)
	}

	if v := os.Getenv("KPV_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("KPV_LOG_MODE"); v != "" {
		cfg.Log.Mode = v
	}

	return cfg, errors.Join(errs...)
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("KPV_REDIS_URL is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown storage backend: %q", c.Backend)
	}
	if strings.TrimSpace(c.Namespace) == "" {
		return fmt.Errorf("namespace must not be empty")
	}
	if strings.Contains(c.Namespace, ":") {
		return fmt.Errorf("namespace %q must not contain ':'", c.Namespace)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	for _, origin := range c.Server.AllowOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("allowed origin %q must be \"*\" or start with http:// or https://", origin)
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
