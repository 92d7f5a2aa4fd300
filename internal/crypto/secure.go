// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Midnight Wonderer

package crypto

import "runtime"

// Zero overwrites buf with zeros so key material does not linger in memory
// after release. runtime.KeepAlive stops the compiler from discarding the
// writes to a buffer it considers dead.
func Zero(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}

// ZeroMultiple zeros every given slice.
func ZeroMultiple(bufs ...[]byte) {
	for _, buf := range bufs {
		Zero(buf)
	}
}

// GrowSecret makes room for n more bytes in buf. When buf's capacity is too
// small, it returns a larger copy and zeros the original; otherwise it
// returns buf unchanged. Appending secrets through this helper keeps
// discarded backing arrays free of residue.
func GrowSecret(buf []byte, n int) []byte {
	if cap(buf)-len(buf) >= n {
		return buf
	}

	grown := make([]byte, len(buf), len(buf)+n)
	copy(grown, buf)
	Zero(buf)

	return grown
}
