// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Midnight Wonderer

package marshal

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/MidnightWonderer/MasterPassword/models"
)

// flatHeaders collects the "# key: value" lines of a flat export's header
// block, last occurrence winning.
type flatHeaders map[string]string

// scanFlatHeaders walks the comment lines of a flat export and returns its
// header values. Column-caption comment lines carry no colon and are
// skipped naturally.
func scanFlatHeaders(data []byte) (flatHeaders, error) {
	if !bytes.HasPrefix(data, []byte(FlatMagic)) {
		return nil, fmt.Errorf("%w: missing flat export magic", ErrFormat)
	}

	headers := make(flatHeaders)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(strings.TrimLeft(line, "# "), ": ")
		if !found {
			continue
		}
		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	return headers, nil
}

// headerDialect returns the flat header dialect: 0 for exports from before
// the algorithm was versioned, 1 for current exports.
func (h flatHeaders) headerDialect() int {
	if format, err := strconv.Atoi(h["Format"]); err == nil {
		return format
	}

	return 0
}

// info assembles the envelope carried by the headers.
func (h flatHeaders) info() (*Info, error) {
	info := &Info{
		Format:    models.MarshalFormatFlat,
		Algorithm: models.AlgorithmVersionCurrent,
		Redacted:  true,
	}

	switch h.headerDialect() {
	case 0:
		// The oldest exports predate algorithm versioning entirely.
		info.Algorithm = models.AlgorithmVersionV0
	case 1:
		if value, ok := h["Algorithm"]; ok {
			algorithm, err := models.ParseAlgorithmVersion(value)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrFormat, err)
			}
			info.Algorithm = algorithm
		}
	default:
		return nil, fmt.Errorf("%w: unsupported flat export format: %s", ErrFormat, h["Format"])
	}

	if value, ok := h["Full Name"]; ok {
		info.FullName = value
	} else {
		info.FullName = h["User Name"]
	}
	info.KeyID = h["Key ID"]
	info.Redacted = h["Passwords"] != "VISIBLE"

	if date, err := parseTime(h["Date"]); err == nil {
		info.Date = date
	}

	return info, nil
}

// readInfoFlat parses a flat export's envelope.
func readInfoFlat(data []byte) (*Info, error) {
	headers, err := scanFlatHeaders(data)
	if err != nil {
		return nil, err
	}

	return headers.info()
}

// readFlat parses a complete flat export into a user, leaving stateful
// content in its stored form.
func readFlat(data []byte) (*models.User, error) {
	headers, err := scanFlatHeaders(data)
	if err != nil {
		return nil, err
	}
	info, err := headers.info()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName:    info.FullName,
		KeyID:       info.KeyID,
		Algorithm:   info.Algorithm,
		DefaultType: models.ResultTypeDefault,
		Redacted:    info.Redacted,
		LastUsed:    info.Date,
	}
	if user.FullName == "" {
		return nil, fmt.Errorf("%w: flat export carries no full name", ErrFormat)
	}
	if value, ok := headers["Avatar"]; ok {
		if avatar, err := strconv.ParseUint(value, 10, 32); err == nil {
			user.Avatar = uint32(avatar)
		}
	}
	if value, ok := headers["Default Type"]; ok {
		defaultType, err := models.ParseResultType(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		user.DefaultType = defaultType
	}

	dialect := headers.headerDialect()
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		site, err := parseFlatSite(line, dialect, user.Algorithm)
		if err != nil {
			return nil, err
		}
		user.Sites = append(user.Sites, *site)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	return user, nil
}

// parseFlatSite parses one site record line:
//
//	<lastUsed>  <uses>  <type>:<algorithm>:<counter>  <loginName>\t<name>\t<content>
//
// The dialect-0 type column is <type>:<counter>, with the algorithm implied
// by the export. The content column is last and may contain spaces.
func parseFlatSite(line string, dialect int, userAlgorithm models.AlgorithmVersion) (*models.Site, error) {
	columns := strings.Split(line, "\t")
	if len(columns) < 3 {
		return nil, fmt.Errorf("%w: malformed site record: %q", ErrFormat, line)
	}

	head := strings.Fields(columns[0])
	if len(head) < 3 {
		return nil, fmt.Errorf("%w: malformed site record: %q", ErrFormat, line)
	}

	site := &models.Site{
		Name:      strings.TrimSpace(columns[1]),
		Content:   strings.Join(columns[2:], "\t"),
		LoginName: strings.TrimSpace(strings.Join(head[3:], " ")),
		Algorithm: userAlgorithm,
	}
	if site.Name == "" {
		return nil, fmt.Errorf("%w: site record without a name: %q", ErrFormat, line)
	}

	lastUsed, err := parseTime(head[0])
	if err != nil {
		return nil, fmt.Errorf("%w: bad timestamp in site record: %q", ErrFormat, head[0])
	}
	site.LastUsed = lastUsed

	uses, err := strconv.ParseUint(head[1], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: bad use count in site record: %q", ErrFormat, head[1])
	}
	site.Uses = uint32(uses)

	typeColumn := strings.Split(head[2], ":")
	wantParts := 3
	if dialect == 0 {
		wantParts = 2
	}
	if len(typeColumn) != wantParts {
		return nil, fmt.Errorf("%w: bad type column in site record: %q", ErrFormat, head[2])
	}

	siteType, err := models.ParseResultType(typeColumn[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	site.Type = siteType

	if dialect != 0 {
		algorithm, err := models.ParseAlgorithmVersion(typeColumn[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		site.Algorithm = algorithm
	}

	counter, err := models.ParseCounterValue(typeColumn[len(typeColumn)-1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	site.Counter = counter

	return site, nil
}

// writeFlat serializes the user as a flat export.
func writeFlat(user *models.User, masterKey []byte) ([]byte, error) {
	redactionNote := "Export of site names and passwords in clear-text."
	passwordState := "VISIBLE"
	if user.Redacted {
		redactionNote = "Export of site names and stored passwords (unless device-private) encrypted with the master key."
		passwordState = "PROTECTED"
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "%s\n", FlatMagic)
	fmt.Fprintf(&out, "#     %s\n", redactionNote)
	fmt.Fprintf(&out, "# \n")
	fmt.Fprintf(&out, "##\n")
	fmt.Fprintf(&out, "# Format: 1\n")
	fmt.Fprintf(&out, "# Date: %s\n", formatTime(user.LastUsed))
	fmt.Fprintf(&out, "# User Name: %s\n", user.FullName)
	fmt.Fprintf(&out, "# Full Name: %s\n", user.FullName)
	fmt.Fprintf(&out, "# Avatar: %d\n", user.Avatar)
	fmt.Fprintf(&out, "# Key ID: %s\n", user.KeyID)
	fmt.Fprintf(&out, "# Algorithm: %d\n", user.Algorithm)
	fmt.Fprintf(&out, "# Default Type: %d\n", uint32(user.DefaultType))
	fmt.Fprintf(&out, "# Passwords: %s\n", passwordState)
	fmt.Fprintf(&out, "##\n")
	fmt.Fprintf(&out, "#\n")
	fmt.Fprintf(&out, "#               Last     Times  Password                      Login\t                     Site\tSite\n")
	fmt.Fprintf(&out, "#               used      used      type                       name\t                     name\tpassword\n")

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

		fmt.Fprintf(&out, "%s  %8d  %d:%d:%d  %25s\t%25s\t%s\n",
			formatTime(site.LastUsed), site.Uses,
			uint32(site.Type), uint32(site.Algorithm), uint32(site.Counter),
			login, site.Name, content)
	}

	return out.Bytes(), nil
}
