// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Midnight Wonderer

package marshal

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/MidnightWonderer/MasterPassword/models"
)

// jsonDocument is the root object of a JSON export.
type jsonDocument struct {
	Export jsonExport  `json:"export"`
	User   jsonUser    `json:"user"`
	Sites  orderedJSON `json:"sites"`
}

// jsonExport is the export metadata section.
type jsonExport struct {
	Format   int    `json:"format"`
	Redacted bool   `json:"redacted"`
	Date     string `json:"date"`
}

// jsonUser is the user envelope section.
type jsonUser struct {
	Avatar      uint32 `json:"avatar"`
	FullName    string `json:"full_name"`
	LastUsed    string `json:"last_used"`
	KeyID       string `json:"key_id"`
	Algorithm   uint32 `json:"algorithm"`
	DefaultType uint32 `json:"default_type"`
}

// jsonSite is one site record, keyed by site name in the sites object.
type jsonSite struct {
	Type           uint32       `json:"type"`
	Counter        uint32       `json:"counter"`
	Algorithm      uint32       `json:"algorithm"`
	Password       string       `json:"password,omitempty"`
	LoginName      string       `json:"login_name,omitempty"`
	LoginGenerated bool         `json:"login_generated"`
	Uses           uint32       `json:"uses"`
	LastUsed       string       `json:"last_used"`
	Questions      *orderedJSON `json:"questions,omitempty"`
	Ext            *jsonSiteExt `json:"_ext_mpw,omitempty"`
}

// jsonSiteExt carries non-algorithm site metadata.
type jsonSiteExt struct {
	URL string `json:"url,omitempty"`
}

// jsonQuestion is one security question record, keyed by its keyword.
type jsonQuestion struct {
	Type   uint32 `json:"type,omitempty"`
	Answer string `json:"answer,omitempty"`
}

// orderedJSON is a JSON object that keeps its member order across a
// decode/encode round-trip, which encoding/json's maps do not.
type orderedJSON struct {
	keys   []string
	values map[string]json.RawMessage
}

// set appends or replaces a member.
func (o *orderedJSON) set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if o.values == nil {
		o.values = make(map[string]json.RawMessage)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = raw

	return nil
}

// MarshalJSON implements json.Marshaler, emitting members in order.
func (o orderedJSON) MarshalJSON() ([]byte, error) {
	var out bytes.Buffer
	out.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			out.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		out.Write(name)
		out.WriteByte(':')
		out.Write(o.values[key])
	}
	out.WriteByte('}')

	return out.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, recording member order.
func (o *orderedJSON) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	open, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := open.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, have %v", open)
	}

	o.keys = nil
	o.values = make(map[string]json.RawMessage)
	for dec.More() {
		keyToken, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyToken.(string)
		if !ok {
			return fmt.Errorf("expected object key, have %v", keyToken)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}

		if _, exists := o.values[key]; !exists {
			o.keys = append(o.keys, key)
		}
		o.values[key] = value
	}

	_, err = dec.Token()
	return err
}

// readInfoJSON parses a JSON export's envelope.
func readInfoJSON(data []byte) (*Info, error) {
	var document jsonDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if document.Export.Format != 1 {
		return nil, fmt.Errorf("%w: unsupported JSON export format: %d", ErrFormat, document.Export.Format)
	}

	algorithm, err := models.ParseAlgorithmVersion(fmt.Sprintf("%d", document.User.Algorithm))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	info := &Info{
		Format:    models.MarshalFormatJSON,
		FullName:  document.User.FullName,
		Algorithm: algorithm,
		KeyID:     document.User.KeyID,
		Redacted:  document.Export.Redacted,
	}
	if date, err := parseTime(document.Export.Date); err == nil {
		info.Date = date
	}

	return info, nil
}

// readJSON parses a complete JSON export into a user, leaving stateful
// content in its stored form. Unknown members are dropped.
func readJSON(data []byte) (*models.User, error) {
	var document jsonDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if document.Export.Format != 1 {
		return nil, fmt.Errorf("%w: unsupported JSON export format: %d", ErrFormat, document.Export.Format)
	}
	if document.User.FullName == "" {
		return nil, fmt.Errorf("%w: JSON export carries no full name", ErrFormat)
	}

	userAlgorithm, err := models.ParseAlgorithmVersion(fmt.Sprintf("%d", document.User.Algorithm))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	defaultType := models.ResultTypeDefault
	if document.User.DefaultType != 0 {
		parsed, err := models.ParseResultType(fmt.Sprintf("%d", document.User.DefaultType))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		defaultType = parsed
	}

	user := &models.User{
		FullName:    document.User.FullName,
		KeyID:       document.User.KeyID,
		Algorithm:   userAlgorithm,
		DefaultType: defaultType,
		Redacted:    document.Export.Redacted,
		Avatar:      document.User.Avatar,
	}
	if lastUsed, err := parseTime(document.User.LastUsed); err == nil {
		user.LastUsed = lastUsed
	}

	for _, name := range document.Sites.keys {
		var record jsonSite
		if err := json.Unmarshal(document.Sites.values[name], &record); err != nil {
			return nil, fmt.Errorf("%w: site %q: %v", ErrFormat, name, err)
		}

		site, err := siteFromJSON(name, &record)
		if err != nil {
			return nil, err
		}
		user.Sites = append(user.Sites, *site)
	}

	return user, nil
}

// siteFromJSON converts one site record into the model.
func siteFromJSON(name string, record *jsonSite) (*models.Site, error) {
	siteType, err := models.ParseResultType(fmt.Sprintf("%d", record.Type))
	if err != nil {
		return nil, fmt.Errorf("%w: site %q: %v", ErrFormat, name, err)
	}
	siteAlgorithm, err := models.ParseAlgorithmVersion(fmt.Sprintf("%d", record.Algorithm))
	if err != nil {
		return nil, fmt.Errorf("%w: site %q: %v", ErrFormat, name, err)
	}

	site := &models.Site{
		Name:           name,
		Type:           siteType,
		Counter:        models.CounterValue(record.Counter),
		Algorithm:      siteAlgorithm,
		Content:        record.Password,
		LoginName:      record.LoginName,
		LoginGenerated: record.LoginGenerated,
		Uses:           record.Uses,
	}
	if lastUsed, err := parseTime(record.LastUsed); err == nil {
		site.LastUsed = lastUsed
	}
	if record.Ext != nil {
		site.URL = record.Ext.URL
	}

	if record.Questions != nil {
		for _, keyword := range record.Questions.keys {
			var question jsonQuestion
			if err := json.Unmarshal(record.Questions.values[keyword], &question); err != nil {
				return nil, fmt.Errorf("%w: site %q question %q: %v", ErrFormat, name, keyword, err)
			}

			questionType := models.ResultTypeTemplatePhrase
			if question.Type != 0 {
				parsed, err := models.ParseResultType(fmt.Sprintf("%d", question.Type))
				if err != nil {
					return nil, fmt.Errorf("%w: site %q question %q: %v", ErrFormat, name, keyword, err)
				}
				questionType = parsed
			}
			site.Questions = append(site.Questions, models.Question{
				Keyword: keyword,
				Type:    questionType,
			})
		}
	}

	return site, nil
}

// writeJSON serializes the user as an indented JSON export.
func writeJSON(user *models.User, masterKey []byte) ([]byte, error) {
	document := jsonDocument{
		Export: jsonExport{
			Format:   1,
			Redacted: user.Redacted,
			Date:     formatTime(user.LastUsed),
		},
		User: jsonUser{
			Avatar:      user.Avatar,
			FullName:    user.FullName,
			LastUsed:    formatTime(user.LastUsed),
			KeyID:       user.KeyID,
			Algorithm:   uint32(user.Algorithm),
			DefaultType: uint32(user.DefaultType),
		},
	}

	for i := range user.Sites {
		site := &user.Sites[i]

		content, err := exportContent(user, site, masterKey)
		if err != nil {
			return nil, err
		}
		login, err := exportLogin(user, site, masterKey)
		if err != nil {
			return nil, err
		}

		record := jsonSite{
			Type:           uint32(site.Type),
			Counter:        uint32(site.Counter),
			Algorithm:      uint32(site.Algorithm),
			Password:       content,
			LoginName:      login,
			LoginGenerated: site.LoginGenerated,
			Uses:           site.Uses,
			LastUsed:       formatTime(site.LastUsed),
		}
		if site.URL != "" {
			record.Ext = &jsonSiteExt{URL: site.URL}
		}

		if len(site.Questions) > 0 {
			questions := &orderedJSON{}
			for q := range site.Questions {
				question := &site.Questions[q]

				answer, err := exportAnswer(user, site, question, masterKey)
				if err != nil {
					return nil, err
				}
				entry := jsonQuestion{Answer: answer}
				if question.Type != models.ResultTypeTemplatePhrase && question.Type != 0 {
					entry.Type = uint32(question.Type)
				}
				if err := questions.set(question.Keyword, entry); err != nil {
					return nil, err
				}
			}
			record.Questions = questions
		}

		if err := document.Sites.set(site.Name, record); err != nil {
			return nil, err
		}
	}

	compact, err := json.Marshal(document)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "    "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')

	return out.Bytes(), nil
}
