// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package config loads server configuration from an optional YAML file,
// command-line flags, and environment variables. Later sources win:
// file, then flags, then environment.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/inkpost/inkpost/internal/auth"
)

// Environment variables honored regardless of file or flag settings.
// Secrets come from the environment so they never land in config files.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvJWTSecret   = "INKPOST_JWT_SECRET"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Log      LogConfig      `koanf:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr string `koanf:"addr"`
	// MetricsAddr is the metrics/health listener. Empty disables it.
	MetricsAddr string `koanf:"metrics_addr"`
}

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// AuthConfig holds token and cookie settings.
type AuthConfig struct {
	JWTSecret       string        `koanf:"jwt_secret"`
	AccessTokenTTL  time.Duration `koanf:"access_token_ttl"`
	RefreshTokenTTL time.Duration `koanf:"refresh_token_ttl"`
	// SecureCookies marks session cookies Secure. Disable only for
	// local development over plain HTTP.
	SecureCookies bool `koanf:"secure_cookies"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Format string `koanf:"format"`
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        "127.0.0.1:8080",
			MetricsAddr: "127.0.0.1:9100",
		},
		Auth: AuthConfig{
			AccessTokenTTL:  auth.DefaultAccessTokenTTL,
			RefreshTokenTTL: auth.DefaultRefreshTokenTTL,
			SecureCookies:   true,
		},
		Log: LogConfig{
			Format: "json",
		},
	}
}

// Load builds a Config from the given YAML file (optional, "" skips it)
// and flag set (optional, nil skips it), then applies environment
// overrides.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}
	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_PARSE_FAILED").Wrap(err)
	}

	if v := os.Getenv(EnvDatabaseURL); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv(EnvJWTSecret); v != "" {
		cfg.Auth.JWTSecret = v
	}

	return cfg, nil
}

// Validate checks that the configuration is complete and coherent.
func (cfg *Config) Validate() error {
	if cfg.Server.Addr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("server.addr is required")
	}
	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database.url is required (or set %s)", EnvDatabaseURL)
	}
	if cfg.Auth.JWTSecret == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("auth.jwt_secret is required (or set %s)", EnvJWTSecret)
	}
	if cfg.Auth.AccessTokenTTL <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("auth.access_token_ttl must be positive")
	}
	if cfg.Auth.RefreshTokenTTL <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("auth.refresh_token_ttl must be positive")
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").
			Errorf("log.format must be 'json' or 'text', got %q", cfg.Log.Format)
	}
	return nil
}
