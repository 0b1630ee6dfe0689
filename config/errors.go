// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network (must be \"mainnet\", \"testnet\", or \"regtest\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrZeroReward indicates the per-item reward is zero.
	ErrZeroReward = errors.New("config: reward per item must be positive")

	// ErrInvalidBatchSize indicates the enumeration batch size is not positive.
	ErrInvalidBatchSize = errors.New("config: batch size must be positive")

	// ErrInvalidRetry indicates the retry settings are out of range.
	ErrInvalidRetry = errors.New("config: max attempts must be at least 1 and base delay non-negative")

	// ErrInvalidInterval indicates a duration setting is out of range.
	ErrInvalidInterval = errors.New("config: cooldown must be non-negative and poll interval positive")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")
)
