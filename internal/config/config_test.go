package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
dbname = "salon"

[salon]
timezone = "Europe/Moscow"
address = "ул. Ленина, 1"
`)
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "salon", cfg.Database.DBName)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, 90, cfg.Salon.MaxBookingDaysAhead)
	assert.Equal(t, 24, cfg.Reminders.DefaultLeadHours)
	assert.True(t, cfg.Reminders.ClaimBeforeSend)
	require.NotNil(t, cfg.Location)
	assert.Equal(t, "Europe/Moscow", cfg.Location.String())
	assert.Contains(t, cfg.Database.DSN(), "password=secret")
}

func TestLoad_InvalidTimezone(t *testing.T) {
	path := writeConfig(t, `
[salon]
timezone = "Mars/Olympus"
`)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_TelegramWithoutToken(t *testing.T) {
	path := writeConfig(t, `
[telegram]
enabled = true
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_TelegramWebhookSecret(t *testing.T) {
	path := writeConfig(t, `
[telegram]
enabled = true
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

	t.Setenv("TELEGRAM_WEBHOOK_SECRET", "")
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	t.Setenv("TELEGRAM_WEBHOOK_SECRET", "bad secret!")
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	t.Setenv("TELEGRAM_WEBHOOK_SECRET", "s3cret-token_1")
	t.Setenv("TELEGRAM_WEBHOOK_URL", "https://salon.example.com/api/v1/telegram/webhook")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret-token_1", cfg.Telegram.WebhookSecret)
	assert.Equal(t, "https://salon.example.com/api/v1/telegram/webhook", cfg.Telegram.WebhookURL)
}
