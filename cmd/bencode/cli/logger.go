// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// LogLevelEnvVar overrides the command logger's level ("debug",
// "info", "warn", "error").
const LogLevelEnvVar = "BENCODE_LOG_LEVEL"

// NewCommandLogger creates a structured logger for CLI command
// operations, writing to stderr. When stderr is a terminal, uses
// slog.TextHandler for human-readable output. When stderr is piped or
// redirected, uses slog.JSONHandler for machine-parseable output.
//
// Stdout carries command output, so nothing is ever logged there.
func NewCommandLogger() *slog.Logger {
	return newLogger(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), os.Getenv(LogLevelEnvVar))
}

func newLogger(w io.Writer, terminal bool, levelName string) *slog.Logger {
	level := slog.LevelInfo
	if levelName != "" {
		// An unparseable level keeps the default rather than failing
		// every command.
		_ = level.UnmarshalText([]byte(levelName))
	}
	options := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if terminal {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
