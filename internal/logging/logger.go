// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

// Package logging provides the process-wide zerolog logger for Guesthouse.
//
// Every package logs through this package instead of holding its own logger:
//
//	logging.Info().Str("house_id", id).Msg("House created")
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Booking assignment rejected")
//
// Output is JSON by default and human-readable with Format "console".
// Log chains must be terminated with Msg or Send, otherwise nothing is written.
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	Level     string    // trace, debug, info, warn, error, fatal, panic or disabled
	Format    string    // json or console
	Caller    bool      // add file:line
	Timestamp bool      // add the time field
	Output    io.Writer // defaults to os.Stderr
}

// DefaultConfig returns the configuration used before Init is called.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Timestamp: true,
		Output:    os.Stderr,
	}
}

var global atomic.Pointer[zerolog.Logger]

//nolint:gochecknoinits // logging must work before main calls Init
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.MessageFieldName = "message"
	Init(DefaultConfig())
}

// Init replaces the global logger. Safe to call more than once and from
// concurrent goroutines.
func Init(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	out := cfg.Output
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}

	lc := zerolog.New(out).With()
	if cfg.Timestamp {
		lc = lc.Timestamp()
	}
	if cfg.Caller {
		lc = lc.Caller()
	}
	l := lc.Logger()
	global.Store(&l)
}

// parseLevel accepts zerolog level names in any case plus "warning".
// Anything else means info.
func parseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	l, err := zerolog.ParseLevel(level)
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger {
	return *global.Load()
}

// With starts a child logger context.
func With() zerolog.Context {
	return global.Load().With()
}

// Debug starts a debug level entry.
func Debug() *zerolog.Event { return global.Load().Debug() }

// Info starts an info level entry.
func Info() *zerolog.Event { return global.Load().Info() }

// Warn starts a warn level entry.
func Warn() *zerolog.Event { return global.Load().Warn() }

// Error starts an error level entry.
func Error() *zerolog.Event { return global.Load().Error() }

// Fatal starts a fatal level entry; os.Exit(1) follows Msg.
func Fatal() *zerolog.Event { return global.Load().Fatal() }

// NewTestLogger returns a JSON logger writing to w.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
