// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Midnight Wonderer

package marshal

import "errors"

var (
	// ErrMasterPassword reports that the master password does not match
	// the profile's stored key ID. The caller may re-prompt and retry.
	ErrMasterPassword = errors.New("wrong master password")

	// ErrFormat reports malformed or unrecognized profile data.
	ErrFormat = errors.New("invalid profile format")
)
