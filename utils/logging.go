package utils

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ls1intum/dockwatch/fluentd"
	slogfluentd "github.com/samber/slog-fluentd/v2"
	slogmulti "github.com/samber/slog-multi"
)

const fluentdTag = "dockwatch"

type LogConfig struct {
	Debug           bool   `env:"DEBUG" envDefault:"false"`
	Level           string `env:"LOG_LEVEL" envDefault:"info"`
	Format          string `env:"LOG_FORMAT" envDefault:"text"`
	FluentdAddr     string `env:"FLUENTD_ADDR"`
	FluentdMaxRetry uint   `env:"FLUENTD_MAX_RETRY" envDefault:"3"`
}

// ParseLevel maps a level name to a slog.Level. Unknown names yield an error.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}

// SetupLogging installs the process-wide logger and returns a close func that
// flushes the optional fluentd mirror.
func SetupLogging(cfg LogConfig, w io.Writer) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	closer := func() error { return nil }
	if cfg.FluentdAddr != "" {
		client, err := fluentd.GetFluentdClient(fluentd.FluentdOptions{
			Addr:     cfg.FluentdAddr,
			MaxRetry: cfg.FluentdMaxRetry,
			Async:    true,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("creating fluentd client: %w", err)
		}
		fluentHandler := slogfluentd.Option{
			Level:  level,
			Client: client,
			Tag:    fluentdTag,
		}.NewFluentdHandler()
		handler = slogmulti.Fanout(handler, fluentHandler)
		closer = client.Close
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	if cfg.Debug {
		logger.Warn("DEBUG MODE ENABLED")
	}
	return logger, closer, nil
}

// ComponentLogger creates a logger with component attribute
func ComponentLogger(component string) *slog.Logger {
	return slog.Default().With(slog.String("component", component))
}

// RunLogger creates a logger with run_id attribute
func RunLogger(runID string) *slog.Logger {
	return slog.Default().With(slog.String("run_id", runID))
}
