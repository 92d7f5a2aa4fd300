// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Midnight Wonderer

// Package algorithm implements the deterministic credential derivation
// pipeline: master key from (full name, master password), site key from
// (master key, site parameters), and rendered results from the site key.
//
// All four algorithm versions are served from this one surface. The
// versions differ only in message-encoding details:
//
//	V0: site key bytes read as signed values during template rendering.
//	V1: site key bytes read as unsigned values.
//	V2: site name framed by UTF-8 byte length instead of character count.
//	V3: full name framed by UTF-8 byte length instead of character count.
//
// These quirks are load-bearing for profiles created by older releases.
// Do not "fix" them.
package algorithm

import (
	"fmt"
	"unicode/utf8"

	"github.com/MidnightWonderer/MasterPassword/internal/crypto"
	"github.com/MidnightWonderer/MasterPassword/models"
)

// MasterKey stretches the user's identity and master password into the
// 64-byte master key:
//
//	salt = scope ‖ u32be(len(fullName)) ‖ fullName
//	key  = scrypt(masterPassword, salt, N=32768, r=8, p=2, dkLen=64)
//
// The caller owns the returned key and must Zero it when done.
func MasterKey(fullName, masterPassword string, version models.AlgorithmVersion) ([]byte, error) {
	if version > models.AlgorithmVersionLast {
		return nil, fmt.Errorf("unsupported algorithm version: %d", version)
	}

	scope := models.KeyPurposeAuthentication.Scope()
	salt := make([]byte, 0, len(scope)+4+len(fullName))
	salt = crypto.PushString(salt, scope)
	salt = crypto.PushU32BE(salt, frameLength(fullName, version >= models.AlgorithmVersionV3))
	salt = crypto.PushString(salt, fullName)
	defer crypto.Zero(salt)

	masterKey, err := crypto.MasterKeyStretch([]byte(masterPassword), salt)
	if err != nil {
		return nil, fmt.Errorf("derive master key: %w", err)
	}

	return masterKey, nil
}

// KeyID returns the identifier of a master key: the hex SHA-256 of its
// bytes. The identifier is safe to persist; the key is not recoverable
// from it.
func KeyID(masterKey []byte) string {
	return crypto.IDForBytes(masterKey)
}

// SiteKey derives the 32-byte site key:
//
//	msg = scope(purpose) ‖ u32be(len(siteName)) ‖ siteName ‖ u32be(counter)
//	      [ ‖ u32be(len(keyContext)) ‖ keyContext ]
//	key = HMAC-SHA256(masterKey, msg)
//
// The keyContext clause is present only when keyContext is non-empty. The
// caller owns the returned key and must Zero it when done.
func SiteKey(masterKey []byte, siteName string, counter models.CounterValue,
	purpose models.KeyPurpose, keyContext string, version models.AlgorithmVersion) ([]byte, error) {
	if len(masterKey) != crypto.MasterKeySize {
		return nil, fmt.Errorf("master key must be %d bytes, have %d", crypto.MasterKeySize, len(masterKey))
	}
	scope := purpose.Scope()
	if scope == "" {
		return nil, fmt.Errorf("unknown key purpose: %d", purpose)
	}

	msg := make([]byte, 0, len(scope)+4+len(siteName)+4+4+len(keyContext))
	msg = crypto.PushString(msg, scope)
	msg = crypto.PushU32BE(msg, frameLength(siteName, version >= models.AlgorithmVersionV2))
	msg = crypto.PushString(msg, siteName)
	msg = crypto.PushU32BE(msg, uint32(counter))
	if keyContext != "" {
		msg = crypto.PushU32BE(msg, frameLength(keyContext, version >= models.AlgorithmVersionV2))
		msg = crypto.PushString(msg, keyContext)
	}
	defer crypto.Zero(msg)

	return crypto.HMACSHA256(masterKey, msg), nil
}

// frameLength is the u32 framing value for a string field: its UTF-8 byte
// length, or its code-point count under the legacy encoding.
func frameLength(s string, byteWise bool) uint32 {
	if byteWise {
		return uint32(len(s))
	}

	return uint32(utf8.RuneCountInString(s))
}
