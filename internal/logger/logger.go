// Package logger provides structured logging for wifimon using zerolog.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var globalLogger zerolog.Logger

// Config controls the global logger
type Config struct {
	Level      string `json:"level" yaml:"level"`
	Debug      bool   `json:"debug" yaml:"debug"`
	Output     string `json:"output" yaml:"output"`           // stdout, stderr (default) or console
	TimeFormat string `json:"time_format" yaml:"time_format"` // Go layout, RFC3339 by default
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	globalLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// Init replaces the global logger according to config
func Init(config Config) error {
	level := zerolog.InfoLevel
	if config.Debug {
		level = zerolog.DebugLevel
	} else if config.Level != "" {
		parsed, err := zerolog.ParseLevel(config.Level)
		if err != nil {
			return fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	if config.TimeFormat != "" {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	var output io.Writer
	switch config.Output {
	case "stdout":
		output = os.Stdout
	case "console":
		output = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	case "", "stderr":
		output = os.Stderr
	default:
		return fmt.Errorf("unknown log output %q", config.Output)
	}

	globalLogger = zerolog.New(output).Level(level).With().Timestamp().Logger()
	log.Logger = globalLogger

	return nil
}

// SetLevel changes the level of the global logger
func SetLevel(level zerolog.Level) {
	globalLogger = globalLogger.Level(level)
	log.Logger = globalLogger
}

// GetLogger returns the global logger
func GetLogger() zerolog.Logger {
	return globalLogger
}

func Debug() *zerolog.Event { return globalLogger.Debug() }

func Info() *zerolog.Event { return globalLogger.Info() }

func Warn() *zerolog.Event { return globalLogger.Warn() }

func Error() *zerolog.Event { return globalLogger.Error() }

// WithComponent returns a child logger tagged with the component name
func WithComponent(component string) zerolog.Logger {
	return globalLogger.With().Str("component", component).Logger()
}

// NewTestLogger returns a logger that discards everything
func NewTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard).Level(zerolog.Disabled)
}
