// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Midnight Wonderer

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv populates cfg from environment variables using the caarlos0/env
// library. Fields are mapped via their `env` tags on [Config]; only
// MP_FULLNAME, MP_ALGORITHM and MP_FORMAT are read from the environment.
//
// Returns a wrapped error if env.Parse fails.
func parseEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}
