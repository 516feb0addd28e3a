// Package logger configures the process-wide zerolog logger and exposes
// event helpers for code that runs before dependency wiring hands out a
// logger instance.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel names a zerolog level in configuration.
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// Config controls the global logger output.
type Config struct {
	// Level below which events are dropped. Unknown values fall back to info.
	Level LogLevel
	// Pretty switches from JSON lines to a human-readable console format.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var defaultLogger zerolog.Logger

// Configure rebuilds the global logger. Safe to call again when the
// configuration is reloaded.
func Configure(config Config) {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(string(config.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	writer := config.Output
	if config.Pretty {
		writer = zerolog.ConsoleWriter{Out: config.Output, TimeFormat: time.RFC3339}
	}

	defaultLogger = zerolog.New(writer).With().Timestamp().Logger()
	log.Logger = defaultLogger
}

// Debug starts a debug-level event on the global logger.
func Debug() *zerolog.Event { return defaultLogger.Debug() }

// Info starts an info-level event on the global logger.
func Info() *zerolog.Event { return defaultLogger.Info() }

// Warn starts a warn-level event on the global logger.
func Warn() *zerolog.Event { return defaultLogger.Warn() }

// Error starts an error-level event on the global logger.
func Error() *zerolog.Event { return defaultLogger.Error() }

func init() {
	// Console output until the configuration is loaded; startup failures
	// should stay readable.
	Configure(Config{Level: InfoLevel, Pretty: true})
}
