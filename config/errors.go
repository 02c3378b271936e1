// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrConfig is the parent of every error that must stop the process
	// at startup.
	ErrConfig = errors.New("config")

	// ErrMissingKey indicates no encryption key was found in the environment.
	ErrMissingKey = configError("config: encryption key not set (ENCSTORE_KEY_HEX or AES_KEY_HEX)")

	// ErrInvalidKey indicates the encryption key is not 32 hex characters.
	ErrInvalidKey = configError("config: encryption key must be 16 bytes (32 hex chars) for AES-128")

	// ErrInvalidBackend indicates the storage backend name is not recognized.
	ErrInvalidBackend = configError("config: invalid backend (must be \"file\" or \"bolt\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = configError("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = configError("config: data directory must not be empty")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config or env file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")
)

// startupError is a sentinel that also matches ErrConfig.
type startupError struct{ msg string }

func configError(msg string) error { return &startupError{msg: msg} }

func (e *startupError) Error() string { return e.msg }

func (e *startupError) Is(target error) bool { return target == ErrConfig }
