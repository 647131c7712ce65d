// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct. In development a local '.env' file is loaded first with 'joho/godotenv'
so the same variables can be kept out of the shell.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Optional backends:

  - Redis: when REDIS_URL is empty the act name index is read straight from PostgreSQL.
  - S3: when S3_BUCKET is empty uploads are written under UPLOAD_DIR.
  - Auth: when JWT_PUBLIC_KEY_PATH is empty write routes stay open (development only).
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the directory API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Optional.
	RedisURL string `env:"REDIS_URL"`

	// NameIndexTTL bounds how long the cached act name index is trusted.
	NameIndexTTL time.Duration `env:"NAME_INDEX_TTL" envDefault:"10m"`

	// Token verification. Only the public half is needed by this service.
	JWTPubKeyPath string `env:"JWT_PUBLIC_KEY_PATH"`
	JWTIssuer     string `env:"JWT_ISSUER" envDefault:"tcupboard.app"`

	// Uploads
	UploadDir     string `env:"UPLOAD_DIR"      envDefault:"./public/assets/images"`
	UploadBaseURL string `env:"UPLOAD_BASE_URL" envDefault:"/assets/images"`

	// Object Storage (Cloudflare R2 / S3-compatible). Optional.
	S3Bucket   string `env:"S3_BUCKET"`
	S3Region   string `env:"S3_REGION"   envDefault:"auto"`
	S3Endpoint string `env:"S3_ENDPOINT"`

	// Static credentials. When empty the default AWS credential chain applies.
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`

	// ImportSourcesPath points at the JSON list of venue calendars to import.
	ImportSourcesPath string `env:"IMPORT_SOURCES_PATH" envDefault:"./data/import_sources.json"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
//
// A '.env' file in the working directory is applied first when present. Values
// already set in the process environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// RedisEnabled reports whether a Redis URL was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != ""
}

// AuthEnabled reports whether write routes require a verified token.
func (c *Config) AuthEnabled() bool {
	return c.JWTPubKeyPath != ""
}

// Validate rejects combinations that are only acceptable during development.
func (c *Config) Validate() error {
	if c.IsProduction() && !c.AuthEnabled() {
		return fmt.Errorf("config: JWT_PUBLIC_KEY_PATH is required in production")
	}
	if c.NameIndexTTL <= 0 {
		return fmt.Errorf("config: NAME_INDEX_TTL must be positive, got %s", c.NameIndexTTL)
	}
	return nil
}

// AllowedOrigins splits EXTRA_ORIGINS on commas, dropping blanks.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// S3Enabled reports whether uploads go to object storage.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}
