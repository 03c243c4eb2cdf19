package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "token")
	t.Setenv("DISCORD_CHANNEL_ID", "12345")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	for _, k := range []string{"DATABASE_PATH", "SMS_TIMEZONE", "CATEGORY_RULES_PATH", "LOG_LEVEL", "HEALTH_ADDR"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "token", cfg.DiscordBotToken)
	assert.Equal(t, "12345", cfg.DiscordChannelId)
	assert.Equal(t, "transaction.db", cfg.DatabasePath)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Empty(t, cfg.CategoryRulesPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HealthAddr)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_PATH", "/data/sms.db")
	t.Setenv("SMS_TIMEZONE", "UTC")
	t.Setenv("CATEGORY_RULES_PATH", "rules.yaml")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HEALTH_ADDR", ":9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/data/sms.db", cfg.DatabasePath)
	assert.Equal(t, "rules.yaml", cfg.CategoryRulesPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.HealthAddr)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing token", map[string]string{"DISCORD_BOT_TOKEN": ""}, "bot token is not set"},
		{"missing channel", map[string]string{"DISCORD_CHANNEL_ID": ""}, "channel ID is not set"},
		{"bad timezone", map[string]string{"SMS_TIMEZONE": "Mars/Olympus"}, "invalid SMS_TIMEZONE"},
		{"bad log level", map[string]string{"LOG_LEVEL": "chatty"}, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv("SMS_TIMEZONE", "")
			t.Setenv("LOG_LEVEL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
