package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "HTTP_ADDR", "SESSION_STORE", "SHUTDOWN_TIMEOUT_SECONDS", "COOKIE_SECURE",
		"CORS_ALLOW_ORIGINS", "MEDUSA_BACKEND_URL", "MEDUSA_PUBLISHABLE_KEY",
		"NEXT_PUBLIC_MEDUSA_PUBLISHABLE_KEY", "MEDUSA_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	require.Equal(t, ":8000", cfg.HTTPAddr)
	require.Equal(t, SessionStoreMemory, cfg.SessionStore)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, "http://localhost:5050", cfg.BackendURL)
	require.Equal(t, "", cfg.PublishableKey)
	require.Equal(t, 15*time.Second, cfg.BackendTimeout)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	require.False(t, cfg.CookieSecure)
	require.False(t, cfg.Production())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("SESSION_STORE", "Postgres")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("MEDUSA_BACKEND_URL", "https://api.example/")
	t.Setenv("MEDUSA_TIMEOUT_SECONDS", "nope")

	cfg := FromEnv()
	require.True(t, cfg.Production())
	require.Equal(t, ":9999", cfg.HTTPAddr)
	require.Equal(t, SessionStorePostgres, cfg.SessionStore)
	require.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	require.True(t, cfg.CookieSecure)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	require.Equal(t, "https://api.example", cfg.BackendURL)
	require.Equal(t, 15*time.Second, cfg.BackendTimeout)
}

func TestPublishableKeyFallsBackToNextPublicName(t *testing.T) {
	t.Setenv("MEDUSA_PUBLISHABLE_KEY", "")
	t.Setenv("NEXT_PUBLIC_MEDUSA_PUBLISHABLE_KEY", "pk_legacy")
	require.Equal(t, "pk_legacy", FromEnv().PublishableKey)

	t.Setenv("MEDUSA_PUBLISHABLE_KEY", "pk_new")
	require.Equal(t, "pk_new", FromEnv().PublishableKey)
}
