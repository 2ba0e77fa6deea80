package app

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/data/aggregates"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/versioning"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/observability"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/envutil"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/logger"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

type Config struct {
	ServiceName string
	HTTPAddr    string

	DBDriver   string
	SQLitePath string

	JWTSecretKey   string
	JWTIssuer      string
	AllowedOrigins []string

	RedisAddr     string
	EventsChannel string
	LockTTL       time.Duration

	Retention        versioning.RetentionPolicy
	SweepInterval    time.Duration
	SweepConcurrency int
	Retry            aggregates.RetryPolicy

	Tracing observability.TracingConfig
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		ServiceName:      envutil.GetEnv("OTEL_SERVICE_NAME", "edu-platforma-versioning", log),
		HTTPAddr:         ":" + envutil.GetEnv("PORT", "8080", log),
		DBDriver:         strings.ToLower(envutil.GetEnv("DB_DRIVER", DBDriverPostgres, log)),
		SQLitePath:       envutil.GetEnv("SQLITE_PATH", "edu_platforma.db", log),
		JWTSecretKey:     envutil.GetEnv("JWT_SECRET_KEY", "", log),
		JWTIssuer:        envutil.GetEnv("JWT_ISSUER", "", log),
		AllowedOrigins:   splitList(envutil.GetEnv("CORS_ALLOWED_ORIGINS", "", log)),
		RedisAddr:        strings.TrimSpace(envutil.GetEnv("REDIS_ADDR", "", log)),
		EventsChannel:    envutil.GetEnv("VERSION_EVENTS_CHANNEL", "content_versions", log),
		LockTTL:          envutil.GetEnvAsDuration("VERSION_LOCK_TTL", 30*time.Second, log),
		SweepInterval:    envutil.GetEnvAsDuration("RETENTION_SWEEP_INTERVAL", 0, log),
		SweepConcurrency: envutil.GetEnvAsInt("RETENTION_SWEEP_CONCURRENCY", 4, log),
		Retry: aggregates.RetryPolicy{
			MaxAttempts: envutil.GetEnvAsInt("VERSION_RETRY_MAX_ATTEMPTS", aggregates.DefaultRetryMaxAttempts, log),
			BaseDelay:   envutil.GetEnvAsDuration("VERSION_RETRY_BASE_DELAY", aggregates.DefaultRetryBaseDelay, log),
			MaxDelay:    envutil.GetEnvAsDuration("VERSION_RETRY_MAX_DELAY", aggregates.DefaultRetryMaxDelay, log),
		},
	}
	cfg.Tracing = observability.TracingConfig{
		Enabled:     envutil.GetEnvAsBool("OTEL_ENABLED", false, log),
		ServiceName: cfg.ServiceName,
		Environment: envutil.GetEnv("APP_ENV", "", log),
		Version:     envutil.GetEnv("APP_VERSION", "", log),
		Endpoint:    envutil.GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
		Insecure:    envutil.GetEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
	}
	switch cfg.DBDriver {
	case DBDriverPostgres, DBDriverSQLite:
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	policy := versioning.RetentionPolicy{DefaultKeepLastN: versioning.DefaultKeepLastN}
	if path := strings.TrimSpace(envutil.GetEnv("RETENTION_POLICY_FILE", "", log)); path != "" {
		p, err := LoadRetentionPolicyFile(path)
		if err != nil {
			return Config{}, err
		}
		policy = p
	}
	if n := envutil.GetEnvAsInt("RETENTION_KEEP_LAST_N", 0, log); n > 0 {
		policy.DefaultKeepLastN = n
	}
	cfg.Retention = policy
	return cfg, nil
}

func LoadRetentionPolicyFile(path string) (versioning.RetentionPolicy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return versioning.RetentionPolicy{}, fmt.Errorf("read retention policy: %w", err)
	}
	return ParseRetentionPolicy(raw)
}

// ParseRetentionPolicy decodes a YAML policy such as:
//
//	default_keep_last_n: 10
//	per_type:
//	  lesson: 25
func ParseRetentionPolicy(raw []byte) (versioning.RetentionPolicy, error) {
	var p versioning.RetentionPolicy
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return versioning.RetentionPolicy{}, fmt.Errorf("parse retention policy: %w", err)
	}
	if p.DefaultKeepLastN < 0 {
		return versioning.RetentionPolicy{}, fmt.Errorf("default_keep_last_n must be >= 1, got %d", p.DefaultKeepLastN)
	}
	for t, n := range p.PerType {
		if !t.Valid() {
			return versioning.RetentionPolicy{}, fmt.Errorf("retention policy: %w: %q", versioning.ErrUnknownEntityType, t)
		}
		if n < 1 {
			return versioning.RetentionPolicy{}, fmt.Errorf("retention policy: keep for %s must be >= 1, got %d", t, n)
		}
	}
	if p.DefaultKeepLastN == 0 {
		p.DefaultKeepLastN = versioning.DefaultKeepLastN
	}
	return p, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
