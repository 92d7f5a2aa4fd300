// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Midnight Wonderer

package config

import (
	"fmt"

	"dario.cat/mergo"
)

// Get resolves the invocation's configuration: command-line flags merged
// over environment defaults, flags winning.
func Get() (*Config, error) {
	flagCfg, err := ParseFlags()
	if err != nil {
		return nil, err
	}

	return mergeWithEnv(flagCfg)
}

// mergeWithEnv fills the empty fields of cfg from the environment layer.
func mergeWithEnv(cfg *Config) (*Config, error) {
	envCfg := &Config{}
	if err := parseEnv(envCfg); err != nil {
		return nil, err
	}

	if err := mergo.Merge(cfg, envCfg); err != nil {
		return nil, fmt.Errorf("error merging configs: %w", err)
	}

	return cfg, nil
}
