// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

// Package config loads the usercenter configuration.
//
// Values are layered, later sources overriding earlier ones: built-in
// defaults, an optional YAML file, USERCENTER_* environment variables and
// finally explicitly set command-line flags. Nested keys in the environment
// are separated by a double underscore, e.g. USERCENTER_AUTH__SESSION_TTL.
package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/usercenter/usercenter/internal/auth"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "USERCENTER_"

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config is the immutable process configuration.
type Config struct {
	Store    string         `koanf:"store"`
	Auth     AuthConfig     `koanf:"auth"`
	HTTP     HTTPConfig     `koanf:"http"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Log      LogConfig      `koanf:"log"`
}

// AuthConfig configures the auth service.
type AuthConfig struct {
	Salt                    string        `koanf:"salt"`
	SessionKey              string        `koanf:"session_key"`
	SessionTTL              time.Duration `koanf:"session_ttl"`
	FailureMode             string        `koanf:"failure_mode"`
	RequireRegistrationCode bool          `koanf:"require_registration_code"`
}

// HTTPConfig configures the public API server.
type HTTPConfig struct {
	Addr           string        `koanf:"addr"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	CookieName     string        `koanf:"cookie_name"`
	CookieSecure   bool          `koanf:"cookie_secure"`
}

// MetricsConfig configures the observability server. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// DatabaseConfig configures PostgreSQL.
type DatabaseConfig struct {
	URL         string `koanf:"url"`
	MaxConns    int32  `koanf:"max_conns"`
	AutoMigrate bool   `koanf:"auto_migrate"`
}

// RedisConfig configures the session store.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// LogConfig configures logging.
type LogConfig struct {
	Format string `koanf:"format"`
}

// Defaults returns the built-in configuration.
func Defaults() map[string]any {
	return map[string]any{
		"store":                          StorePostgres,
		"auth.session_key":               "user_login_state",
		"auth.session_ttl":               30 * time.Minute,
		"auth.failure_mode":              string(auth.FailureModeError),
		"auth.require_registration_code": true,
		"http.addr":                      "127.0.0.1:8080",
		"http.request_timeout":           10 * time.Second,
		"http.cookie_name":               "USERCENTER_SESSION",
		"metrics.addr":                   "127.0.0.1:9100",
		"database.auto_migrate":          true,
		"redis.addr":                     "127.0.0.1:6379",
		"log.format":                     "json",
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"store":                     "store",
	"salt":                      "auth.salt",
	"session-key":               "auth.session_key",
	"session-ttl":               "auth.session_ttl",
	"failure-mode":              "auth.failure_mode",
	"require-registration-code": "auth.require_registration_code",
	"http-addr":                 "http.addr",
	"request-timeout":           "http.request_timeout",
	"metrics-addr":              "metrics.addr",
	"database-url":              "database.url",
	"auto-migrate":              "database.auto_migrate",
	"redis-addr":                "redis.addr",
	"log-format":                "log.format",
}

// Load builds the configuration. path may be empty; a missing file at path is
// only an error when required is true. flags may be nil.
func Load(path string, required bool, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "defaults").Wrap(err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if required || !errors.Is(err, fs.ErrNotExist) {
				return nil, oops.Code("CONFIG_LOAD_FAILED").
					With("source", "file").
					With("path", path).
					Wrap(err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "env").Wrap(err)
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrap(err)
	}
	return &cfg, nil
}

// envKey turns USERCENTER_AUTH__SESSION_TTL into auth.session_ttl.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.Salt) == "" {
		return oops.Code("CONFIG_INVALID").With("key", "auth.salt").Errorf("auth.salt is required")
	}
	if strings.TrimSpace(c.Auth.SessionKey) == "" {
		return oops.Code("CONFIG_INVALID").With("key", "auth.session_key").Errorf("auth.session_key is required")
	}
	switch auth.FailureMode(c.Auth.FailureMode) {
	case auth.FailureModeError, auth.FailureModeSentinel:
	default:
		return oops.Code("CONFIG_INVALID").
			With("key", "auth.failure_mode").
			Errorf("auth.failure_mode must be 'error' or 'sentinel', got %q", c.Auth.FailureMode)
	}
	if c.Auth.SessionTTL < 0 {
		return oops.Code("CONFIG_INVALID").With("key", "auth.session_ttl").Errorf("auth.session_ttl must not be negative")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").
			With("key", "log.format").
			Errorf("log.format must be 'json' or 'text', got %q", c.Log.Format)
	}
	if c.HTTP.Addr == "" {
		return oops.Code("CONFIG_INVALID").With("key", "http.addr").Errorf("http.addr is required")
	}
	if c.HTTP.RequestTimeout <= 0 {
		return oops.Code("CONFIG_INVALID").With("key", "http.request_timeout").Errorf("http.request_timeout must be positive")
	}
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.Database.URL == "" {
			return oops.Code("CONFIG_INVALID").With("key", "database.url").Errorf("database.url is required for the postgres store")
		}
		if c.Redis.Addr == "" {
			return oops.Code("CONFIG_INVALID").With("key", "redis.addr").Errorf("redis.addr is required for the postgres store")
		}
	default:
		return oops.Code("CONFIG_INVALID").
			With("key", "store").
			Errorf("store must be 'postgres' or 'memory', got %q", c.Store)
	}
	return nil
}

// AuthOptions returns the auth service options.
func (c *Config) AuthOptions() auth.Options {
	return auth.Options{
		FailureMode:             auth.FailureMode(c.Auth.FailureMode),
		RequireRegistrationCode: c.Auth.RequireRegistrationCode,
	}
}
