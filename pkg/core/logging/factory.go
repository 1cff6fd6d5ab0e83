// ============================================================================
// asmfmt - Assembler Source Formatter
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating loggers from configuration
// Author:      msto63
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"

	"github.com/google/uuid"

	asmlog "github.com/msto63/asmfmt/pkg/core/log"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service name, shown as {name} in text output
	ServiceName string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: "text" or "json" (default: text)
	Format string

	// Output defaults to stderr, stdout carries formatted source
	Output io.Writer

	// RunID tags every entry; a fresh one is generated when empty
	RunID string
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "warn",
		Format:      "text",
	}
}

// NewLogger creates a logger from cfg. Unknown level or format names are
// returned as an error together with a usable logger on the defaults.
func NewLogger(cfg LoggerConfig) (*asmlog.Logger, error) {
	var firstErr error

	level, err := asmlog.ParseLevel(orDefault(cfg.Level, "warn"))
	if err != nil {
		level = asmlog.LevelWarn
		firstErr = err
	}

	format, err := asmlog.ParseFormat(cfg.Format)
	if err != nil && firstErr == nil {
		firstErr = err
	}

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}

	runID := cfg.RunID
	if runID == "" {
		runID = NewRunID()
	}

	logger := asmlog.NewWithConfig(asmlog.Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.ServiceName,
	}).WithRequestID(runID)

	return logger, firstErr
}

// NewRunID returns a short random identifier for one CLI invocation
func NewRunID() string {
	return uuid.New().String()[:8]
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
