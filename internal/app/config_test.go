package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/versioning"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/logger"
)

func TestParseRetentionPolicy(t *testing.T) {
	p, err := ParseRetentionPolicy([]byte("default_keep_last_n: 5\nper_type:\n  lesson: 25\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, p.KeepFor(versioning.EntityCourse))
	assert.Equal(t, 25, p.KeepFor(versioning.EntityLesson))

	p, err = ParseRetentionPolicy([]byte("per_type:\n  module: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, versioning.DefaultKeepLastN, p.DefaultKeepLastN)
	assert.Equal(t, 3, p.KeepFor(versioning.EntityModule))
}

func TestParseRetentionPolicyRejects(t *testing.T) {
	for name, raw := range map[string]string{
		"unknown type":  "per_type:\n  quiz: 3\n",
		"zero keep":     "per_type:\n  lesson: 0\n",
		"negative":      "default_keep_last_n: -2\n",
		"unknown field": "keep_forever: true\n",
		"not yaml":      "per_type: [",
	} {
		_, err := ParseRetentionPolicy([]byte(raw))
		assert.Error(t, err, name)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	policyPath := filepath.Join(dir, "retention.yaml")
	require.NoError(t, os.WriteFile(policyPath, []byte("default_keep_last_n: 4\n"), 0o600))

	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("RETENTION_POLICY_FILE", policyPath)
	t.Setenv("RETENTION_SWEEP_INTERVAL", "15m")
	t.Setenv("VERSION_RETRY_MAX_ATTEMPTS", "7")
	t.Setenv("OTEL_ENABLED", "yes")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")

	cfg, err := LoadConfig(logger.Nop())
	require.NoError(t, err)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "collector:4318", cfg.Tracing.Endpoint)
	assert.False(t, cfg.Tracing.Insecure)
	assert.Equal(t, cfg.ServiceName, cfg.Tracing.ServiceName)
	assert.Equal(t, DBDriverSQLite, cfg.DBDriver)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 4, cfg.Retention.DefaultKeepLastN)
	assert.Equal(t, 15*time.Minute, cfg.SweepInterval)
	assert.Equal(t, 7, cfg.Retry.MaxAttempts)

	t.Setenv("RETENTION_KEEP_LAST_N", "12")
	cfg, err = LoadConfig(logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Retention.DefaultKeepLastN)

	t.Setenv("DB_DRIVER", "mysql")
	_, err = LoadConfig(logger.Nop())
	assert.Error(t, err)
}
