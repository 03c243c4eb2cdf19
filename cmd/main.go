package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/NgigiN/smswallet/internal/config"
	"github.com/NgigiN/smswallet/internal/discord"
	"github.com/NgigiN/smswallet/internal/logger"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	bot, err := discord.NewBot(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize the discord bot")
	}
	if err := bot.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start bot")
	}

	log.Info().Str("health_addr", cfg.HealthAddr).Str("timezone", cfg.Location.String()).Msg("bot is running")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	bot.Stop()
	log.Info().Msg("bot stopped")
}
