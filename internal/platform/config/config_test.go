// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stonemedia/internal/platform/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/studio")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_PRIVATE_KEY_PATH", "/keys/private.pem")
	t.Setenv("JWT_PUBLIC_KEY_PATH", "/keys/public.pem")
}

/*
TestParse_Defaults verifies defaults for optional settings.
*/
func TestParse_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, config.StorageLocal, cfg.StorageDriver)
	assert.Equal(t, 3*time.Second, cfg.BuildPollInterval)
	assert.Empty(t, cfg.HLSBuilderURL)
	assert.Empty(t, cfg.BuildSecret)
	assert.True(t, cfg.IsDevelopment())
}

/*
TestParse_AdminEmails checks the comma separated allowlist seed.
*/
func TestParse_AdminEmails(t *testing.T) {
	setRequired(t)
	t.Setenv("ADMIN_EMAILS", "ops@studio.example,Producer@Studio.example")

	cfg, err := config.Parse()
	require.NoError(t, err)

	assert.Equal(t, []string{"ops@studio.example", "Producer@Studio.example"}, cfg.AdminEmails)
}

/*
TestParse_FirebaseStorageNeedsBucket rejects a firebase driver without a bucket.
*/
func TestParse_FirebaseStorageNeedsBucket(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_DRIVER", config.StorageFirebase)

	_, err := config.Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_BUCKET")
}

/*
TestParse_UnknownStorageDriver rejects anything outside the known drivers.
*/
func TestParse_UnknownStorageDriver(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_DRIVER", "s3")

	_, err := config.Parse()
	assert.Error(t, err)
}

/*
TestLoad_DotEnv checks that a dotenv file fills variables missing from the environment.
*/
func TestLoad_DotEnv(t *testing.T) {
	setRequired(t)

	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("HLS_BUILDER_URL=https://builder.example\nSERVER_PORT=9000\n"), 0o600))

	t.Setenv("ENV_FILE", envFile)
	t.Setenv("SERVER_PORT", "7000")
	t.Cleanup(func() { _ = os.Unsetenv("HLS_BUILDER_URL") })

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://builder.example", cfg.HLSBuilderURL)
	assert.Equal(t, "7000", cfg.ServerPort)
}

/*
TestLoad_MissingDotEnv ignores an absent dotenv file.
*/
func TestLoad_MissingDotEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))

	_, err := config.Load()
	assert.NoError(t, err)
}

/*
TestAllowedOrigins trims and drops empty entries.
*/
func TestAllowedOrigins(t *testing.T) {
	cfg := &config.Config{ExtraOrigins: " https://a.example , ,https://b.example"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}
