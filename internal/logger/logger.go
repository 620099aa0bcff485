package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/auto-dns/lxc-state-monitor/internal/config"
	"github.com/rs/zerolog"
)

// SetupLogger builds the process logger on stdout and sets the global level from cfg.
func SetupLogger(cfg *config.LoggingConfig) zerolog.Logger {
	return New(cfg, os.Stdout)
}

// New builds a logger writing to out. Unknown levels fall back to info.
func New(cfg *config.LoggingConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if !strings.EqualFold(cfg.Format, config.LogFormatJSON) {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "2006-01-02 15:04:05",
		}
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown-host"
	}

	return zerolog.New(out).
		With().
		Timestamp().
		Caller().
		Str("service", "lxc_state_monitor").
		Str("host", hostname).
		Logger()
}
