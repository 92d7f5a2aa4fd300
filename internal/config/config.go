// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Midnight Wonderer

// Package config resolves the tool's inputs from its two configuration
// layers: environment variables and command-line flags. The layers are
// merged with flags winning, mirroring how the profile's own defaults are
// applied later by the adapter.
package config

import "github.com/MidnightWonderer/MasterPassword/models"

// Config carries the raw, merged configuration of one invocation. String
// fields hold the verbatim user input; empty means "not given", so the
// adapter can fall back to profile defaults before parsing.
type Config struct {
	// FullName is the user's full name.
	// Env: MP_FULLNAME, flag: -u / -U.
	FullName string `env:"MP_FULLNAME"`

	// AllowPasswordUpdate permits re-keying the profile to a new master
	// password after confirming the old one. Set by -U.
	AllowPasswordUpdate bool

	// MasterPassword is the master password given inline via -M.
	// Insecure; intended for testing only.
	MasterPassword string

	// SiteName is the positional site name argument.
	SiteName string

	// ResultType is the requested template/type name. Flag: -t.
	ResultType string

	// ResultParam is the value to save for stateful types, or the key
	// size in bits for derived keys. Flag: -P.
	ResultParam string

	// Counter is the requested counter value. Flag: -c.
	Counter string

	// Algorithm is the requested algorithm version.
	// Env: MP_ALGORITHM, flag: -a.
	Algorithm string `env:"MP_ALGORITHM"`

	// Purpose is the requested key purpose. Flag: -p.
	Purpose string

	// Context is the purpose-specific context. Flag: -C.
	Context string

	// Format is the requested profile format.
	// Env: MP_FORMAT, flag: -f / -F.
	Format string `env:"MP_FORMAT"`

	// FormatFixed forbids falling back to another format when the file
	// for the requested one is absent. Set by -F.
	FormatFixed bool

	// Redacted is the requested redaction state, "0" or "1". Flag: -R.
	Redacted string

	// Clipboard asks for the result to be copied to the system clipboard
	// in addition to printing it. Flag: -y.
	Clipboard bool

	// Verbosity is the accumulated -v / -q counter.
	Verbosity int

	// Usage is set when -h was given; the adapter prints the usage
	// screen and exits successfully.
	Usage bool
}

// ParseMarshalFormat resolves the configured format name, defaulting when
// none was given.
func (c *Config) ParseMarshalFormat() (models.MarshalFormat, error) {
	if c.Format == "" {
		return models.MarshalFormatDefault, nil
	}

	return models.ParseMarshalFormat(c.Format)
}
