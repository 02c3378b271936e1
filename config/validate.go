// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"log/slog"
	"strings"
)

// validLogLevels maps accepted log level strings to slog levels.
var validLogLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if cfg.Backend != "file" && cfg.Backend != "bolt" {
		return ErrInvalidBackend
	}

	if _, ok := validLogLevels[strings.ToLower(cfg.LogLevel)]; !ok {
		return ErrInvalidLogLevel
	}

	return nil
}

// SlogLevel converts a config log level to a slog.Level.
// Unknown values map to Info.
func SlogLevel(level string) slog.Level {
	if l, ok := validLogLevels[strings.ToLower(level)]; ok {
		return l
	}
	return slog.LevelInfo
}
