package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// logger receives allocator events. It discards everything until
// initLogger enables it.
var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var logCloser io.Closer

// initLogger configures logger from the --log-level and --log-file flags.
// An empty level leaves logging disabled.
func initLogger(level, file string) error {
	if level == "" {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	hopts := &slog.HandlerOptions{Level: lvl}

	if file == "" {
		logger = slog.New(slog.NewTextHandler(os.Stderr, hopts))
		return nil
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logCloser = f
	logger = slog.New(slog.NewJSONHandler(f, hopts))
	return nil
}

// closeLogger flushes and closes the log file, if any.
func closeLogger() error {
	if logCloser == nil {
		return nil
	}
	err := logCloser.Close()
	logCloser = nil
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return err
}
