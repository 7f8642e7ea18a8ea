package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(32<<20), cfg.Server.MaxUploadBytes)
	assert.True(t, cfg.Server.RateLimit.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 0, cfg.Clean.Workers)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TIDY_SERVER_PORT", "9000")
	t.Setenv("TIDY_SERVER_RATE_LIMIT_RPS", "2.5")
	t.Setenv("TIDY_LOGGING_FORMAT", "console")
	t.Setenv("TIDY_CLEAN_WORKERS", "4")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 2.5, cfg.Server.RateLimit.RPS)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 4, cfg.Clean.Workers)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TIDY_LOGGING_LEVEL=debug\nTIDY_SERVER_HOST=0.0.0.0\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("TIDY_LOGGING_LEVEL")
		os.Unsetenv("TIDY_SERVER_HOST")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestMissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("TIDY_LOGGING_LEVEL", "verbose")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadRejectsBadNumber(t *testing.T) {
	t.Setenv("TIDY_SERVER_PORT", "eighty")
	_, err := Load("")
	assert.Error(t, err)
}
