// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Midnight Wonderer

// Package logger provides a thin wrapper around zerolog.Logger tuned for a
// command-line tool: human-readable output on stderr, with the level
// driven by the CLI's -v/-q verbosity counter.
//
// The Logger type embeds zerolog.Logger so all standard zerolog methods
// (Debug, Info, Warn, Error, Fatal, etc.) are available directly on *Logger.
// Stdout is never written to; it is reserved for derived credentials.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is a thin wrapper around zerolog.Logger.
// Embedding zerolog.Logger exposes the full zerolog API while allowing the
// application to add helper methods without modifying the upstream type.
type Logger struct {
	zerolog.Logger
}

// New constructs a *Logger whose level follows the verbosity counter:
// 0 is the default informational level, each -v step reveals one more
// level (debug, then trace), each -q step hides one (warn, error, fatal).
func New(verbosity int) *Logger {
	level := zerolog.InfoLevel
	switch {
	case verbosity >= 2:
		level = zerolog.TraceLevel
	case verbosity == 1:
		level = zerolog.DebugLevel
	case verbosity == -1:
		level = zerolog.WarnLevel
	case verbosity == -2:
		level = zerolog.ErrorLevel
	case verbosity <= -3:
		level = zerolog.FatalLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	log := zerolog.New(writer).Level(level).With().Timestamp().Logger()

	return &Logger{log}
}

// Nop returns a *Logger that discards all log output.
// It is intended for use in tests and other contexts where logging is
// undesirable or would produce noise.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}
