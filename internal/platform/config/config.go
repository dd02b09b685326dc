// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. An optional dotenv
file is loaded first with 'joho/godotenv' so local development does not need
exported variables.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, storage, build client) via constructors.
  - Zero Hidden State: No global variables are used to store config.

The build-service URL and shared secret are deliberately optional at load time.
Their absence is reported per request as a configuration error.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageFirebase = "firebase"
	StorageLocal    = "local"
)

// # Configuration Schema

// Config holds all runtime configuration for the studio API server and CLI.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// LogFile, when set, mirrors JSON logs into a rotated file.
	LogFile string `env:"LOG_FILE"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Cryptographic keys for admin session signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Identity provider and hosted storage (Firebase / Google Cloud Storage)
	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`

	// Blob storage for source media and generated HLS output
	StorageDriver   string `env:"STORAGE_DRIVER"    envDefault:"local"`
	StorageBucket   string `env:"STORAGE_BUCKET"`
	StorageLocalDir string `env:"STORAGE_LOCAL_DIR" envDefault:"./data/storage"`
	MediaBaseURL    string `env:"MEDIA_BASE_URL"    envDefault:"http://localhost:8080/media/"`

	// External HLS build service
	HLSBuilderURL     string        `env:"HLS_BUILDER_URL"`
	BuildSecret       string        `env:"BUILD_SECRET"`
	BuildPollInterval time.Duration `env:"BUILD_POLL_INTERVAL" envDefault:"3s"`
	BuildPollTimeout  time.Duration `env:"BUILD_POLL_TIMEOUT"  envDefault:"30m"`

	// AdminEmails seeds the admin allowlist on startup.
	AdminEmails []string `env:"ADMIN_EMAILS" envSeparator:","`

	// MaxUploadBytes caps a single multipart source upload.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"8589934592"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load reads an optional dotenv file and parses environment variables into a [Config] struct.
//
// The dotenv path comes from ENV_FILE (default ".env"). A missing file is not an error.
// Variables already present in the process environment win over the file.
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to load %s: %w", envFile, err)
	}

	return Parse()
}

// Parse maps the current process environment to a [Config] without touching dotenv files.
func Parse() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks cross-field rules env tags cannot express.
func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageLocal:
	case StorageFirebase:
		if strings.TrimSpace(c.StorageBucket) == "" {
			return fmt.Errorf("config: STORAGE_BUCKET is required when STORAGE_DRIVER=%s", StorageFirebase)
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.BuildPollInterval <= 0 {
		return fmt.Errorf("config: BUILD_POLL_INTERVAL must be positive")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the extra CORS origins as a trimmed list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// UsesFirebase reports whether any Firebase product (auth or storage) is configured.
func (c *Config) UsesFirebase() bool {
	return c.FirebaseProjectID != "" || c.StorageDriver == StorageFirebase
}
