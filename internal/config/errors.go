// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Midnight Wonderer

package config

import "errors"

// ErrUsage reports command-line input the tool cannot act on. The adapter
// maps it to the sysexits usage error code.
var ErrUsage = errors.New("usage error")
