package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_USER", "user")
	t.Setenv("POSTGRES_PASSWORD", "pass")
	t.Setenv("POSTGRES_DB", "db")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{"PORT", "POSTGRES_HOST", "REDIS_ADDR", "SESSION_IDLE_TIMEOUT", "STATS_SNAPSHOT_SCHEDULE", "CORS_ALLOWED_ORIGINS", "SESSION_COOKIE_SECURE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, "@every 1m", cfg.StatsSnapshotSchedule)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.SessionCookieSecure)
	assert.Equal(t, "host=localhost user=user password=pass dbname=db port=5432 sslmode=disable", cfg.Postgres.DSN())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SESSION_IDLE_TIMEOUT", "5m")
	t.Setenv("SESSION_COOKIE_SECURE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("STATS_SNAPSHOT_SCHEDULE", "*/5 * * * *")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 5*time.Minute, cfg.SessionIdleTimeout)
	assert.True(t, cfg.SessionCookieSecure)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing postgres user": {"POSTGRES_USER": ""},
		"bad redis db":          {"REDIS_DB": "two"},
		"bad duration":          {"SESSION_IDLE_TIMEOUT": "soon"},
		"zero idle timeout":     {"SESSION_IDLE_TIMEOUT": "0s"},
		"bad bool":              {"SESSION_COOKIE_SECURE": "maybe"},
		"bad schedule":          {"STATS_SNAPSHOT_SCHEDULE": "every minute"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("UNIT_TEST_ENV", "value")
	if got := getEnvOrDefault("UNIT_TEST_ENV", "fallback"); got != "value" {
		t.Fatalf("expected env value, got %s", got)
	}

	t.Setenv("UNIT_TEST_ENV", "")
	if got := getEnvOrDefault("UNIT_TEST_ENV", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback value, got %s", got)
	}
}

func TestLoadLevelSeed(t *testing.T) {
	names, err := LoadLevelSeed(filepath.Join("testdata", "levels.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Swamp", "Mangrove", "Tidal Flats"}, names)

	names, err = LoadLevelSeed("")
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = LoadLevelSeed(filepath.Join("testdata", "levels_blank.yaml"))
	assert.Error(t, err)

	_, err = LoadLevelSeed(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("levels: [name: {"), 0o644))
	_, err = LoadLevelSeed(broken)
	assert.Error(t, err)
}
