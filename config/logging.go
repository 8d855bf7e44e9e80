package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger points the global logger at w, filtered at level.
func SetupLogger(level string, w io.Writer) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return &InvalidConfig{fmt.Sprintf("log level: %v", err)}
	}
	if level == "" {
		lvl = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return nil
}

// OpenLogFile sends logs to the configured log file. The terminal belongs to
// the UI, so nothing is written to stderr. The returned func closes the file.
func (c *Config) OpenLogFile() (func() error, error) {
	path, err := c.LogFile()
	if err != nil {
		return nil, fmt.Errorf("failed to locate log file: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if err := SetupLogger(c.Log.Level, f); err != nil {
		f.Close()
		return nil, err
	}
	return f.Close, nil
}

// ConsoleLogger sends human readable logs to stderr, for server mode.
func (c *Config) ConsoleLogger() error {
	return SetupLogger(c.Log.Level, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}
