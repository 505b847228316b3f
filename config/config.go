// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package config loads the optional YAML configuration of the service.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/rewardpool/staking/tier"
)

// Config is the service configuration. Command line flags override it.
type Config struct {
	// Domain scopes request signatures to one deployment.
	Domain string          `yaml:"domain"`
	Tiers  tier.Thresholds `yaml:"tiers"`
	// Cache is the number of state entries kept in memory.
	Cache   int     `yaml:"cache"`
	API     API     `yaml:"api"`
	LevelDB LevelDB `yaml:"leveldb"`
}

type API struct {
	Timeout      uint64 `yaml:"timeout"` // milliseconds
	TransferPage uint64 `yaml:"transfer-page"`
	CacheSize    int    `yaml:"signer-cache"`
}

type LevelDB struct {
	CacheSize              int `yaml:"cache-size"` // MiB
	OpenFilesCacheCapacity int `yaml:"open-files"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Domain: "rewardpool",
		Tiers:  append(tier.Thresholds(nil), tier.DefaultThresholds...),
		Cache:  4096,
		API: API{
			Timeout:      10000,
			TransferPage: 1000,
			CacheSize:    16384,
		},
		LevelDB: LevelDB{
			CacheSize:              128,
			OpenFilesCacheCapacity: 500,
		},
	}
}

// Load reads the file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.Domain == "" {
		return errors.New("domain is empty")
	}
	if err := c.Tiers.Validate(); err != nil {
		return errors.WithMessage(err, "tiers")
	}
	if c.Cache < 0 {
		return errors.New("cache must not be negative")
	}
	if c.API.TransferPage == 0 {
		return errors.New("api transfer-page must be positive")
	}
	if c.API.CacheSize <= 0 {
		return errors.New("api signer-cache must be positive")
	}
	return nil
}
