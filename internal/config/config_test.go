package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "samvad-rest-facade", cfg.AppName)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, int64(5*1024*1024), cfg.HTTPMaxBodyBytes)
	assert.Equal(t, 60*time.Second, cfg.HTTPIdleConnTimeout)
	assert.True(t, cfg.HTTPCompression)
	assert.Empty(t, cfg.AlertsFile)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("HTTP_COMPRESSION", "false")
	t.Setenv("ALERTS_FILE", "./configs/alerts.yaml")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.HTTPCompression)
	assert.Equal(t, "./configs/alerts.yaml", cfg.AlertsFile)
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("log_level", "info", "")
	require.NoError(t, fs.Parse([]string{"--log_level=error"}))

	cfg, err := Load(fs)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoadRejectsInvalidTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "0")

	_, err := Load(nil)
	assert.Error(t, err)
}
