package config

import (
	"fmt"
	"os"
	"time"

	"github.com/NgigiN/smswallet/internal/logger"
)

type Config struct {
	DiscordBotToken   string
	DiscordChannelId  string
	DatabasePath      string
	Location          *time.Location
	CategoryRulesPath string
	LogLevel          string
	HealthAddr        string
}

func Load() (*Config, error) {
	botToken := os.Getenv("DISCORD_BOT_TOKEN")
	if botToken == "" {
		return nil, fmt.Errorf("bot token is not set")
	}
	channelID := os.Getenv("DISCORD_CHANNEL_ID")
	if channelID == "" {
		return nil, fmt.Errorf("channel ID is not set")
	}

	loc, err := time.LoadLocation(getenv("SMS_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMS_TIMEZONE: %w", err)
	}

	level := getenv("LOG_LEVEL", "info")
	if _, err := logger.ParseLevel(level); err != nil {
		return nil, err
	}

	return &Config{
		DiscordBotToken:   botToken,
		DiscordChannelId:  channelID,
		DatabasePath:      getenv("DATABASE_PATH", "transaction.db"),
		Location:          loc,
		CategoryRulesPath: os.Getenv("CATEGORY_RULES_PATH"),
		LogLevel:          level,
		HealthAddr:        getenv("HEALTH_ADDR", ":8080"),
	}, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
