// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "strings"

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if cfg.Network != "mainnet" && cfg.Network != "testnet" && cfg.Network != "regtest" {
		return ErrInvalidNetwork
	}

	if cfg.RewardPerItem == 0 {
		return ErrZeroReward
	}

	if cfg.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if cfg.MaxAttempts < 1 || cfg.BaseDelay < 0 {
		return ErrInvalidRetry
	}

	if cfg.Cooldown < 0 || cfg.PollInterval <= 0 {
		return ErrInvalidInterval
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	return nil
}
