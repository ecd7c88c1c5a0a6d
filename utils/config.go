package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// LoadConfig reads an optional .env file and then parses the environment into cfg.
func LoadConfig(cfg interface{}, filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("No .env file found, using process environment")
		} else {
			slog.Warn("Error loading .env file", slog.Any("error", err))
		}
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parsing environment variables: %w", err)
	}

	slog.Debug("Config loaded", slog.Any("config", cfg))
	return nil
}
