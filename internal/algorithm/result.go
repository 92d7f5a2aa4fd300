// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Midnight Wonderer

package algorithm

import (
	"fmt"
	"strconv"

	"github.com/MidnightWonderer/MasterPassword/internal/crypto"
	"github.com/MidnightWonderer/MasterPassword/models"
)

// SiteResult renders the credential for a site.
//
// For template types, resultParam is ignored and the credential is shaped
// by the type's template. For stateful types, resultParam is the stored
// base64 ciphertext, which is decrypted back to the saved value. For the
// derive class, resultParam is the requested key size in bits (128, 256 or
// 512), defaulting to 512.
func SiteResult(masterKey []byte, siteName string, counter models.CounterValue,
	purpose models.KeyPurpose, keyContext string, resultType models.ResultType,
	resultParam string, version models.AlgorithmVersion) (string, error) {

	switch resultType.Class() {
	case models.ResultTypeClassTemplate:
		return templateResult(masterKey, siteName, counter, purpose, keyContext, resultType, version)
	case models.ResultTypeClassStateful:
		return statefulResult(masterKey, siteName, counter, purpose, keyContext, resultParam, version)
	case models.ResultTypeClassDerive:
		return derivedResult(masterKey, siteName, counter, purpose, keyContext, resultParam, version)
	default:
		return "", fmt.Errorf("unsupported result type: %d", resultType)
	}
}

// SiteState encrypts a value for persistence in the profile. The returned
// string is the base64 ciphertext of state under the site key; it can be
// turned back into the value by SiteResult with a stateful type.
func SiteState(masterKey []byte, siteName string, counter models.CounterValue,
	purpose models.KeyPurpose, keyContext string, state string,
	version models.AlgorithmVersion) (string, error) {

	siteKey, err := SiteKey(masterKey, siteName, counter, purpose, keyContext, version)
	if err != nil {
		return "", err
	}
	defer crypto.Zero(siteKey)

	cipherText, err := crypto.AESCTR(siteKey, []byte(state))
	if err != nil {
		return "", fmt.Errorf("encrypt site state: %w", err)
	}

	return crypto.EncodeBase64(cipherText), nil
}

// templateResult shapes the site key into a printable credential.
//
// The first site key byte selects a pattern among the type's candidates;
// each following byte selects a character from the class alphabet named by
// the pattern position.
func templateResult(masterKey []byte, siteName string, counter models.CounterValue,
	purpose models.KeyPurpose, keyContext string, resultType models.ResultType,
	version models.AlgorithmVersion) (string, error) {

	templates := models.TemplatesForType(resultType)
	if len(templates) == 0 {
		return "", fmt.Errorf("no templates for type: %d", resultType)
	}

	siteKey, err := SiteKey(masterKey, siteName, counter, purpose, keyContext, version)
	if err != nil {
		return "", err
	}
	defer crypto.Zero(siteKey)

	pattern := templates[seedIndex(siteKey[0], version, len(templates))]
	result := make([]byte, len(pattern))
	for i := 0; i < len(pattern); i++ {
		class := models.CharactersInClass(pattern[i])
		if class == "" {
			return "", fmt.Errorf("unknown character class %q in template %q", pattern[i], pattern)
		}
		result[i] = class[seedIndex(siteKey[i+1], version, len(class))]
	}

	return string(result), nil
}

// seedIndex reduces a site key byte to an index below modulo. V0 read the
// byte as a signed value; the wraparound keeps the result positive.
func seedIndex(seedByte byte, version models.AlgorithmVersion, modulo int) int {
	if version == models.AlgorithmVersionV0 {
		signed := int(int8(seedByte))
		return ((signed % modulo) + modulo) % modulo
	}

	return int(seedByte) % modulo
}

// statefulResult decrypts stored site content back into the saved value.
func statefulResult(masterKey []byte, siteName string, counter models.CounterValue,
	purpose models.KeyPurpose, keyContext string, cipherB64 string,
	version models.AlgorithmVersion) (string, error) {

	cipherText, err := crypto.DecodeBase64(cipherB64)
	if err != nil {
		return "", fmt.Errorf("decode site content: %w", err)
	}

	siteKey, err := SiteKey(masterKey, siteName, counter, purpose, keyContext, version)
	if err != nil {
		return "", err
	}
	defer crypto.Zero(siteKey)

	plainText, err := crypto.AESCTR(siteKey, cipherText)
	if err != nil {
		return "", fmt.Errorf("decrypt site content: %w", err)
	}

	return string(plainText), nil
}

// derivedResult emits raw derived key material as uppercase hex. Sizes up
// to 256 bits truncate the site key; 512 bits concatenates a second site
// key derived at the next counter value.
func derivedResult(masterKey []byte, siteName string, counter models.CounterValue,
	purpose models.KeyPurpose, keyContext string, resultParam string,
	version models.AlgorithmVersion) (string, error) {

	bits := 512
	if resultParam != "" {
		parsed, err := strconv.Atoi(resultParam)
		if err != nil {
			return "", fmt.Errorf("invalid key size %q: %w", resultParam, err)
		}
		bits = parsed
	}
	if bits != 128 && bits != 256 && bits != 512 {
		return "", fmt.Errorf("invalid key size: %d (need 128, 256 or 512)", bits)
	}

	siteKey, err := SiteKey(masterKey, siteName, counter, purpose, keyContext, version)
	if err != nil {
		return "", err
	}
	defer crypto.Zero(siteKey)

	if bits <= 256 {
		return crypto.Hex(siteKey[:bits/8]), nil
	}

	nextKey, err := SiteKey(masterKey, siteName, counter+1, purpose, keyContext, version)
	if err != nil {
		return "", err
	}
	defer crypto.Zero(nextKey)

	keyMaterial := make([]byte, 0, crypto.SiteKeySize*2)
	keyMaterial = crypto.PushBytes(keyMaterial, siteKey)
	keyMaterial = crypto.PushBytes(keyMaterial, nextKey)
	defer crypto.Zero(keyMaterial)

	return crypto.Hex(keyMaterial), nil
}
