// Package logging builds the charmbracelet/log logger used across the app.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/tasklist/internal/config"
)

const prefix = "tasklist"

// New returns a logger writing to w.
func New(w io.Writer, cfg config.LogConfig) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter(cfg.Format),
		ReportTimestamp: true,
		Prefix:          prefix,
	}), nil
}

// Open is New paired with a closer, so callers can treat every sink alike.
// Closing it leaves w open.
func Open(w io.Writer, cfg config.LogConfig) (*log.Logger, io.Closer, error) {
	logger, err := New(w, cfg)
	if err != nil {
		return nil, nil, err
	}
	return logger, nopCloser{}, nil
}

// OpenFile returns a logger appending to cfg.Path, for use while the terminal
// is taken by the interactive UI. Close the returned closer on exit.
func OpenFile(cfg config.LogConfig) (*log.Logger, io.Closer, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return Open(io.Discard, cfg)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger, err := New(f, cfg)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return logger, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func formatter(name string) log.Formatter {
	switch strings.ToLower(name) {
	case config.LogFormatJSON:
		return log.JSONFormatter
	case config.LogFormatLogfmt:
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
