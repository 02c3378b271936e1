// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/bitfsorg/encstore-go/codec"
)

// Environment variables read by this package.
const (
	EnvKeyHex       = "ENCSTORE_KEY_HEX"
	EnvLegacyKeyHex = "AES_KEY_HEX"
	EnvDataDir      = "ENCSTORE_DATA_DIR"
	EnvBackend      = "ENCSTORE_BACKEND"
	EnvLogLevel     = "ENCSTORE_LOG_LEVEL"
)

// LoadKey reads the AES-128 key from the environment through getenv.
// EnvKeyHex takes precedence over EnvLegacyKeyHex.
func LoadKey(getenv func(string) string) (codec.Key, error) {
	raw := getenv(EnvKeyHex)
	if raw == "" {
		raw = getenv(EnvLegacyKeyHex)
	}
	if strings.TrimSpace(raw) == "" {
		return codec.Key{}, ErrMissingKey
	}
	key, err := codec.ParseKeyHex(raw)
	if err != nil {
		return codec.Key{}, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return key, nil
}

// ApplyEnv overrides cfg fields with any non-empty environment values.
func ApplyEnv(cfg Config, getenv func(string) string) Config {
	if v := getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := getenv(EnvBackend); v != "" {
		cfg.Backend = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}

// LoadEnvFile reads a dotenv file and sets each variable that is not
// already present in the environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: open env file %s: %w", path, err)
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("%w: env file %s: %w", ErrInvalidConfigLine, path, err)
	}
	for k, v := range vars {
		if _, set := os.LookupEnv(k); set {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("config: set %s: %w", k, err)
		}
	}
	return nil
}
