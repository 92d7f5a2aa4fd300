// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Midnight Wonderer

package crypto

import "encoding/base64"

// PushU32BE appends n to buf as a big-endian unsigned 32-bit integer. The
// derivation messages frame every variable-length field this way.
func PushU32BE(buf []byte, n uint32) []byte {
	return append(buf, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
}

// PushBytes appends b to buf.
func PushBytes(buf, b []byte) []byte {
	return append(buf, b...)
}

// PushString appends the UTF-8 bytes of s to buf.
func PushString(buf []byte, s string) []byte {
	return append(buf, s...)
}

// EncodeBase64 encodes buf with the standard alphabet, padded, unwrapped.
func EncodeBase64(buf []byte) string {
	return base64.StdEncoding.EncodeToString(buf)
}

// DecodeBase64 decodes a standard-alphabet base64 string.
func DecodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}
