package logutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
)

// Rotation limits for file output.
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 14
)

// New returns a new logger that writes JSON to the specified file.
// If file is empty, logs are written to stderr so they never mix with
// command output on stdout.
//
// File output is rotated by lumberjack once it grows past maxSizeMB.
//
// The level parameter can be one of: debug, info, warn, error, fatal.
func New(level string, file string) (zerolog.Logger, func(), error) {
	return newLogger(level, file, os.Stderr)
}

func newLogger(level string, file string, fallback io.Writer) (zerolog.Logger, func(), error) {
	closer := func() {}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, closer, err
	}

	writer := fallback
	if file != "" {
		logsDir := filepath.Dir(file)
		if err := os.MkdirAll(logsDir, 0o755); err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("create logs dir: %w", err)
		}

		sink := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		}
		closer = func() { _ = sink.Close() }
		writer = sink
	}

	l := zerolog.New(writer).
		With().
		Timestamp().
		Logger().
		Level(lvl)

	return l, closer, nil
}
