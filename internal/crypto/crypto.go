// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Midnight Wonderer

// Package crypto wraps the primitives the derivation engine is built on:
// the scrypt key stretch, HMAC-SHA256, SHA-256, AES-CTR and the supporting
// byte and secret-hygiene utilities.
//
// Every function here is deterministic; nothing in this package reads a
// random source. Reproducibility across runs and platforms is the whole
// point of the scheme.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

const (
	// MasterKeySize is the byte length of a stretched master key.
	MasterKeySize = 64

	// SiteKeySize is the byte length of a derived site key
	// (the HMAC-SHA256 output size).
	SiteKeySize = sha256.Size
)

// Scrypt parameters of the master-key stretch. They are part of the
// algorithm's compatibility surface and must never change.
const (
	scryptN = 32768
	scryptR = 8
	scryptP = 2
)

// MasterKeyStretch derives a MasterKeySize-byte key from the master
// password and salt using the fixed scrypt parameters N=32768, r=8, p=2.
func MasterKeyStretch(masterPassword, salt []byte) ([]byte, error) {
	key, err := scrypt.Key(masterPassword, salt, scryptN, scryptR, scryptP, MasterKeySize)
	if err != nil {
		return nil, fmt.Errorf("scrypt: %w", err)
	}

	return key, nil
}

// HMACSHA256 computes the HMAC-SHA256 of message under key.
func HMACSHA256(key, message []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return mac.Sum(nil)
}

// SHA256 computes the SHA-256 digest of buf.
func SHA256(buf []byte) []byte {
	digest := sha256.Sum256(buf)
	return digest[:]
}

// IDForBytes returns the hex SHA-256 of buf, the form key identifiers take
// in profiles and the test corpus.
func IDForBytes(buf []byte) string {
	return Hex(SHA256(buf))
}

// Hex encodes buf as uppercase hexadecimal.
func Hex(buf []byte) string {
	out := make([]byte, 0, len(buf)*2)
	for _, b := range buf {
		out = append(out, hexUpper[b>>4], hexUpper[b&0xF])
	}

	return string(out)
}

const hexUpper = "0123456789ABCDEF"

// AESCTR runs AES in counter mode over data with an all-zero IV. The
// operation is its own inverse, so it serves for both encryption and
// decryption of stateful site content. The key must be 16, 24 or 32 bytes.
func AESCTR(key, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	// The key is unique per (site, counter, purpose), so a fixed IV never
	// pairs two plaintexts with one keystream.
	iv := make([]byte, aes.BlockSize)
	out := make([]byte, len(data))
	cipher.NewCTR(block, iv).XORKeyStream(out, data)

	return out, nil
}

// ConstantTimeEqual compares two byte slices in time independent of their
// contents.
func ConstantTimeEqual(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
