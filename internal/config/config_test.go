package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("PRIORITY_RULES_FILE", "")
	t.Setenv("REDIS_DB", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, "dev-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "authenticated", cfg.Auth.Audience)
	assert.Equal(t, "helpdesk:ticket-events", cfg.Redis.EventStream)
	assert.Empty(t, cfg.Priority.RulesFile)
	assert.True(t, cfg.Postgres.RunMigrations)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	t.Setenv("POSTGRES_MAX_CONNS", "not-a-number")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("PRIORITY_RULES_FILE", "/etc/helpdesk/rules.yaml")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Zero(t, cfg.App.RequestTimeout())
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, "/etc/helpdesk/rules.yaml", cfg.Priority.RulesFile)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "primary")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("REDIS_DB", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestNotificationWebhookTimeout(t *testing.T) {
	t.Setenv("NOTIFY_WEBHOOK_URL", "https://hooks.hotel.example/soporte")
	t.Setenv("NOTIFY_WEBHOOK_TIMEOUT_SECONDS", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://hooks.hotel.example/soporte", cfg.Notify.WebhookURL)
	assert.Equal(t, 2*time.Second, cfg.Notify.WebhookTimeout())
	assert.Equal(t, 5*time.Second, NotificationConfig{}.WebhookTimeout())
}
