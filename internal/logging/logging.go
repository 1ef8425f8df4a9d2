// Package logging wires zerolog for the two process modes: scriptable
// commands log human-readable lines to stderr, the TUI logs (only when asked)
// to a file so the terminal it owns stays clean.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewCLI returns a console logger writing to stderr at the given level.
func NewCLI(debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// NewFile returns a debug-level logger appending JSON lines to path,
// plus a closer for the underlying file.
func NewFile(path string) (zerolog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening debug log: %w", err)
	}
	return zerolog.New(f).Level(zerolog.DebugLevel).With().Timestamp().Logger(), f, nil
}

// Nop returns a disabled logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
