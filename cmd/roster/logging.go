package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// initLogger installs the default slog logger. stdout belongs to command
// output and the MCP transport, so logs go to w (stderr in practice).
func initLogger(level string, w io.Writer) error {
	lvl, err := parseLogLevel(level)
	if err != nil {
		return fmt.Errorf("error parsing log level: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// parseLogLevel accepts debug, info, warn and error. Empty means info.
func parseLogLevel(level string) (slog.Level, error) {
	var lvl slog.Level
	if strings.TrimSpace(level) == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelError, err
	}
	return lvl, nil
}
