package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger logs to stderr and, when file is set, to a rotating log file.
func newLogger(verbose bool, file string) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if file != "" {
		file = os.ExpandEnv(file)
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, nil, err
		}
		rotating := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    5,  // Megabytes before it rotates
			MaxBackups: 3,  // Keep only the 3 most recent old log files
			MaxAge:     28, // Days to keep logs
			Compress:   true,
		}
		w = io.MultiWriter(os.Stderr, rotating)
		closer = rotating
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
