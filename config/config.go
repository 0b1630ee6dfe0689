// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads and validates campaign configuration from a flat
// key = value file. Unknown keys are ignored so newer files remain
// readable by older binaries.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the distribution campaign settings.
type Config struct {
	// DataDir is the directory for the ledger database and proof store.
	DataDir string

	// Network selects the chain: mainnet, testnet, or regtest.
	Network string

	// RewardPerItem is the satoshi payout per item held.
	RewardPerItem uint64

	// Cooldown is the minimum interval between push rounds.
	Cooldown time.Duration

	// BatchSize is the number of items fetched concurrently during
	// ownership enumeration.
	BatchSize int

	// MaxAttempts bounds retries of a failing enumeration read.
	MaxAttempts int

	// BaseDelay is the initial backoff between enumeration retries.
	BaseDelay time.Duration

	// PollInterval is how often the round poller checks the due predicate.
	PollInterval time.Duration

	// LogLevel sets logging verbosity: debug, info, warn, or error.
	LogLevel string
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataDir:       filepath.Join(home, ".airdrop"),
		Network:       "mainnet",
		RewardPerItem: 1000,
		Cooldown:      24 * time.Hour,
		BatchSize:     100,
		MaxAttempts:   5,
		BaseDelay:     200 * time.Millisecond,
		PollInterval:  time.Minute,
		LogLevel:      "info",
	}
}

// ConfigPath returns the conventional config file path under a data dir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "airdrop.conf")
}

// SaveConfig writes cfg to path, creating parent directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Airdrop campaign configuration\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "network = %s\n", cfg.Network)
	fmt.Fprintf(&b, "reward = %d\n", cfg.RewardPerItem)
	fmt.Fprintf(&b, "cooldown = %s\n", cfg.Cooldown)
	fmt.Fprintf(&b, "batchsize = %d\n", cfg.BatchSize)
	fmt.Fprintf(&b, "maxattempts = %d\n", cfg.MaxAttempts)
	fmt.Fprintf(&b, "basedelay = %s\n", cfg.BaseDelay)
	fmt.Fprintf(&b, "pollinterval = %s\n", cfg.PollInterval)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write file: %w", err)
	}
	return nil
}

// LoadConfig reads a config file, applying defaults for unset keys.
// Lines starting with # and blank lines are skipped.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNum, line)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		if err := applyKey(&cfg, key, value); err != nil {
			return cfg, fmt.Errorf("%w: line %d: %w", ErrInvalidConfigLine, lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read file: %w", err)
	}
	return cfg, nil
}

// applyKey sets one parsed key on cfg. Unknown keys are ignored.
func applyKey(cfg *Config, key, value string) error {
	switch key {
	case "datadir":
		cfg.DataDir = value
	case "network":
		cfg.Network = value
	case "reward":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("reward: %w", err)
		}
		cfg.RewardPerItem = n
	case "cooldown":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("cooldown: %w", err)
		}
		cfg.Cooldown = d
	case "batchsize":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("batchsize: %w", err)
		}
		cfg.BatchSize = n
	case "maxattempts":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxattempts: %w", err)
		}
		cfg.MaxAttempts = n
	case "basedelay":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("basedelay: %w", err)
		}
		cfg.BaseDelay = d
	case "pollinterval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("pollinterval: %w", err)
		}
		cfg.PollInterval = d
	case "loglevel":
		cfg.LogLevel = value
	}
	return nil
}
