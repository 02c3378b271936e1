// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config holds process settings for encstore: where data lives,
// which blob backend to use, logging, and the encryption key taken from
// the environment.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds the settings read from the config file and environment.
// The encryption key is never part of Config; see LoadKey.
type Config struct {
	DataDir  string // root for blobs and the catalog document
	Backend  string // "file" or "bolt"
	LogLevel string // "debug", "info", "warn", "error"
	LogFile  string // empty logs to stderr

	// StrictCatalog makes an unparseable catalog document fail uploads
	// instead of being logged and replaced with an empty one.
	StrictCatalog bool
}

// DefaultDataDir returns ~/.encstore, or ./.encstore when the home
// directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".encstore"
	}
	return filepath.Join(home, ".encstore")
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() Config {
	return Config{
		DataDir:  DefaultDataDir(),
		Backend:  "file",
		LogLevel: "info",
	}
}

// ConfigPath returns the config file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// LoadConfig reads a "key = value" config file. Blank lines and lines
// starting with '#' are skipped; unknown keys are ignored so older
// binaries can read newer files. Unset keys keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, ErrConfigNotFound
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := parseKeyValue(line)
		if err != nil {
			return cfg, fmt.Errorf("%w: line %d: %q", err, lineNo, line)
		}
		switch key {
		case "datadir":
			cfg.DataDir = value
		case "backend":
			cfg.Backend = value
		case "loglevel":
			cfg.LogLevel = value
		case "logfile":
			cfg.LogFile = value
		case "strictcatalog":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return cfg, fmt.Errorf("%w: line %d: strictcatalog must be true or false", ErrInvalidConfigLine, lineNo)
			}
			cfg.StrictCatalog = b
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# encstore configuration\n")
	b.WriteString("# The encryption key is read from ENCSTORE_KEY_HEX, never from this file.\n\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "backend = %s\n", cfg.Backend)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile = %s\n", cfg.LogFile)
	fmt.Fprintf(&b, "strictcatalog = %t\n", cfg.StrictCatalog)

	return os.WriteFile(path, []byte(b.String()), 0600)
}

// parseKeyValue splits a line on the first '=' and trims both sides.
// Keys are lowercased.
func parseKeyValue(line string) (string, string, error) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", ErrInvalidConfigLine
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", "", ErrInvalidConfigLine
	}
	return key, strings.TrimSpace(value), nil
}
