// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Midnight Wonderer

// Package marshal reads and writes user profiles in the two on-disk
// formats: the line-oriented flat export and the JSON export.
//
// Reading is split in two stages. ReadInfo peeks at the envelope without
// needing the master password, so callers can learn the format, algorithm
// and key ID up front. Read performs the full parse: it derives the master
// key, verifies it against the stored key ID, and decrypts stateful site
// content into memory.
package marshal

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/MidnightWonderer/MasterPassword/internal/algorithm"
	"github.com/MidnightWonderer/MasterPassword/internal/crypto"
	"github.com/MidnightWonderer/MasterPassword/models"
)

// FlatMagic is the first line of every flat export.
const FlatMagic = "# Master Password site export"

// timeLayout is the timestamp spelling of both formats: ISO-8601 in UTC.
const timeLayout = "2006-01-02T15:04:05Z"

// Info is the unauthenticated envelope of a profile.
type Info struct {
	// Format is the detected on-disk format.
	Format models.MarshalFormat

	// FullName is the profile owner's full name.
	FullName string

	// Algorithm is the profile's default algorithm version.
	Algorithm models.AlgorithmVersion

	// KeyID verifies the master password, hex SHA-256 of the master key.
	KeyID string

	// Date is the export timestamp.
	Date time.Time

	// Redacted indicates whether recoverable state was omitted.
	Redacted bool
}

// DetectFormat recognizes a profile's format from its leading bytes:
// '{' starts a JSON export, '#' a flat export.
func DetectFormat(data []byte) models.MarshalFormat {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	switch {
	case len(trimmed) > 0 && trimmed[0] == '{':
		return models.MarshalFormatJSON
	case len(trimmed) > 0 && trimmed[0] == '#':
		return models.MarshalFormatFlat
	default:
		return models.MarshalFormatNone
	}
}

// ReadInfo parses the envelope of a profile without the master password.
func ReadInfo(data []byte) (*Info, error) {
	switch DetectFormat(data) {
	case models.MarshalFormatJSON:
		return readInfoJSON(data)
	case models.MarshalFormatFlat:
		return readInfoFlat(data)
	default:
		return nil, fmt.Errorf("%w: unrecognized profile data", ErrFormat)
	}
}

// Read fully parses a profile under the given master password.
//
// The master key derived from the envelope's full name is checked against
// the stored key ID; on mismatch Read fails with ErrMasterPassword and the
// profile's secrets stay sealed. On success, stateful site content is
// decrypted and the returned user retains the master password for the
// session.
func Read(data []byte, format models.MarshalFormat, masterPassword string) (*models.User, error) {
	var user *models.User
	var err error

	switch format {
	case models.MarshalFormatJSON:
		user, err = readJSON(data)
	case models.MarshalFormatFlat:
		user, err = readFlat(data)
	default:
		return nil, fmt.Errorf("%w: unsupported format: %s", ErrFormat, format)
	}
	if err != nil {
		return nil, err
	}

	masterKey, err := algorithm.MasterKey(user.FullName, masterPassword, user.Algorithm)
	if err != nil {
		return nil, err
	}
	defer crypto.Zero(masterKey)

	keyID := algorithm.KeyID(masterKey)
	if user.KeyID != "" && !strings.EqualFold(user.KeyID, keyID) {
		return nil, fmt.Errorf("%w: master password doesn't match key ID %s", ErrMasterPassword, user.KeyID)
	}
	user.KeyID = keyID
	user.MasterPassword = masterPassword

	// Open stateful content so the in-memory user carries cleartext. An
	// unredacted file already stores the cleartext itself.
	if user.Redacted {
		for i := range user.Sites {
			site := &user.Sites[i]
			if site.Type.Class() != models.ResultTypeClassStateful || site.Content == "" {
				continue
			}

			siteMasterKey, err := masterKeyForSite(masterKey, user, site)
			if err != nil {
				return nil, err
			}

			content, err := algorithm.SiteResult(siteMasterKey, site.Name, site.Counter,
				models.KeyPurposeAuthentication, "", site.Type, site.Content, site.Algorithm)
			crypto.Zero(siteMasterKey)
			if err != nil {
				return nil, fmt.Errorf("%w: site %q: %v", ErrFormat, site.Name, err)
			}
			site.Content = content
		}
	}

	return user, nil
}

// masterKeyForSite returns the master key valid for the site's algorithm
// version. Sites on the user's version share the user key; older sites get
// a key derived under their own version. The caller owns the returned key.
func masterKeyForSite(userKey []byte, user *models.User, site *models.Site) ([]byte, error) {
	if site.Algorithm == user.Algorithm {
		key := make([]byte, len(userKey))
		copy(key, userKey)
		return key, nil
	}

	return algorithm.MasterKey(user.FullName, user.MasterPassword, site.Algorithm)
}

// Write serializes the user in the given format, honoring user.Redacted.
// The user's master password must be present: redaction needs it to seal
// stateful content, and unredacted exports need it to regenerate
// credentials.
func Write(user *models.User, format models.MarshalFormat) ([]byte, error) {
	if user.MasterPassword == "" {
		return nil, fmt.Errorf("%w: cannot write profile without master password", ErrMasterPassword)
	}

	masterKey, err := algorithm.MasterKey(user.FullName, user.MasterPassword, user.Algorithm)
	if err != nil {
		return nil, err
	}
	defer crypto.Zero(masterKey)
	user.KeyID = algorithm.KeyID(masterKey)

	switch format {
	case models.MarshalFormatJSON:
		return writeJSON(user, masterKey)
	case models.MarshalFormatFlat:
		return writeFlat(user, masterKey)
	default:
		return nil, fmt.Errorf("%w: unsupported format: %s", ErrFormat, format)
	}
}

// exportContent renders the site's content field for an export.
//
// Redacted profiles carry only sealed state: stateful content is encrypted
// under the site key, device-private and template content is omitted.
// Unredacted profiles carry the recomputed template credential and the
// stored stateful content in cleartext; device-private content is omitted.
func exportContent(user *models.User, site *models.Site, masterKey []byte) (string, error) {
	if user.Redacted {
		if site.Content == "" || !site.Type.Has(models.SiteFeatureExportContent) {
			return "", nil
		}

		siteMasterKey, err := masterKeyForSite(masterKey, user, site)
		if err != nil {
			return "", err
		}
		defer crypto.Zero(siteMasterKey)

		return algorithm.SiteState(siteMasterKey, site.Name, site.Counter,
			models.KeyPurposeAuthentication, "", site.Content, site.Algorithm)
	}

	if site.Type.Class() == models.ResultTypeClassStateful {
		if site.Type.Has(models.SiteFeatureDevicePrivate) {
			return "", nil
		}
		return site.Content, nil
	}

	siteMasterKey, err := masterKeyForSite(masterKey, user, site)
	if err != nil {
		return "", err
	}
	defer crypto.Zero(siteMasterKey)

	return algorithm.SiteResult(siteMasterKey, site.Name, site.Counter,
		models.KeyPurposeAuthentication, "", site.Type, "", site.Algorithm)
}

// exportLogin renders the site's login field: the derived login when it is
// generated and the export is unredacted, the stored one otherwise.
func exportLogin(user *models.User, site *models.Site, masterKey []byte) (string, error) {
	if user.Redacted || !site.LoginGenerated {
		return site.LoginName, nil
	}

	siteMasterKey, err := masterKeyForSite(masterKey, user, site)
	if err != nil {
		return "", err
	}
	defer crypto.Zero(siteMasterKey)

	return algorithm.SiteResult(siteMasterKey, site.Name, models.CounterValueInitial,
		models.KeyPurposeIdentification, "", models.ResultTypeTemplateName, "", site.Algorithm)
}

// exportAnswer renders a question's answer for an unredacted export.
func exportAnswer(user *models.User, site *models.Site, question *models.Question, masterKey []byte) (string, error) {
	if user.Redacted {
		return "", nil
	}

	answerType := question.Type
	if answerType == 0 {
		answerType = models.ResultTypeTemplatePhrase
	}

	siteMasterKey, err := masterKeyForSite(masterKey, user, site)
	if err != nil {
		return "", err
	}
	defer crypto.Zero(siteMasterKey)

	return algorithm.SiteResult(siteMasterKey, site.Name, models.CounterValueInitial,
		models.KeyPurposeRecovery, question.Keyword, answerType, "", site.Algorithm)
}

// formatTime spells a timestamp the way both formats expect.
func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Unix(0, 0)
	}

	return t.UTC().Format(timeLayout)
}

// parseTime accepts the canonical timestamp spelling, tolerating a zone
// designator other than Z.
func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(timeLayout, value); err == nil {
		return t, nil
	}

	return time.Parse(time.RFC3339, value)
}
