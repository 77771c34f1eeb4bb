package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_ADMIN_IDS", "1,2")
	t.Setenv("PUBLIC_URL", "https://bot.example.com/")
	t.Setenv("YOOKASSA_MOCK_MODE", "true")

	c, err := parse(&App{Mode: AppModeDevelop, LogLevel: "info"}, &Database{}, &HTTP{})
	require.NoError(t, err)

	assert.Equal(t, "https://bot.example.com", c.HTTP.PublicURL)
	assert.Equal(t, []string{"1", "2"}, c.Telegram.AdminIDs)
	assert.Equal(t, TelegramModeWebhook, c.Telegram.Mode)
	assert.Equal(t, int64(45000), c.Catalog.DetoxPrice)
	assert.Equal(t, int64(35000), c.Catalog.ModelingPrice)
	assert.Equal(t, 4, c.Worker.Count)
	assert.Equal(t, 30*time.Minute, c.AdminBatch.TTL)
	assert.Equal(t, "gpt-4o-mini", c.OpenAI.Model)
	assert.NoError(t, c.Validate())
}

func TestConfig_Validate(t *testing.T) {
	c, err := parse(&App{Mode: AppModeProduction}, &Database{}, &HTTP{})
	require.NoError(t, err)

	err = c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
	assert.Contains(t, err.Error(), "YOOKASSA_SHOP_ID")
	assert.Contains(t, err.Error(), "DATABASE_URI")
}

func TestConfig_ValidatePublicURL(t *testing.T) {
	tests := []struct {
		name      string
		mode      string
		publicURL string
		wantErr   string
	}{
		{name: "webhook with https", mode: TelegramModeWebhook, publicURL: "https://bot.example.com"},
		{name: "webhook without url", mode: TelegramModeWebhook, wantErr: "PUBLIC_URL is required"},
		{name: "plain http", mode: TelegramModeWebhook, publicURL: "http://bot.example.com", wantErr: "absolute https"},
		{name: "relative", mode: TelegramModePolling, publicURL: "/bot", wantErr: "absolute https"},
		{name: "polling without url", mode: TelegramModePolling},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
			t.Setenv("TELEGRAM_MODE", tt.mode)
			t.Setenv("PUBLIC_URL", tt.publicURL)
			t.Setenv("YOOKASSA_MOCK_MODE", "true")

			c, err := parse(&App{Mode: AppModeDevelop}, &Database{}, &HTTP{})
			require.NoError(t, err)

			err = c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
