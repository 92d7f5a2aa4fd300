package models

import (
	"fmt"
	"strconv"
)

// MarshalFormat selects the on-disk representation of a user profile.
type MarshalFormat uint32

const (
	// MarshalFormatNone disables profile persistence.
	MarshalFormatNone MarshalFormat = iota
	// MarshalFormatFlat is the line-oriented ASCII export.
	MarshalFormatFlat
	// MarshalFormatJSON is the structured JSON export.
	MarshalFormatJSON

	// MarshalFormatFirst is the lowest defined format.
	MarshalFormatFirst = MarshalFormatNone
	// MarshalFormatLast is the highest defined format.
	MarshalFormatLast = MarshalFormatJSON
	// MarshalFormatDefault is the format used for new profiles.
	MarshalFormatDefault = MarshalFormatJSON
)

// marshalFormatNames orders the registry used by format lookups.
var marshalFormatNames = []struct {
	format    MarshalFormat
	shortName byte
	name      string
	extension string
}{
	{MarshalFormatNone, 'n', "none", ""},
	{MarshalFormatFlat, 'f', "flat", "mpsites"},
	{MarshalFormatJSON, 'j', "json", "mpsites.json"},
}

// Extension returns the file name extension of the format, without a
// leading dot. Empty for MarshalFormatNone.
func (f MarshalFormat) Extension() string {
	for _, entry := range marshalFormatNames {
		if entry.format == f {
			return entry.extension
		}
	}

	return ""
}

// Name returns the long name of the format.
func (f MarshalFormat) Name() string {
	for _, entry := range marshalFormatNames {
		if entry.format == f {
			return entry.name
		}
	}

	return strconv.FormatUint(uint64(f), 10)
}

// String implements fmt.Stringer.
func (f MarshalFormat) String() string { return f.Name() }

// ParseMarshalFormat resolves a format from its short name (n, f, j) or
// long name.
func ParseMarshalFormat(name string) (MarshalFormat, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: empty format", ErrUnknownName)
	}

	for _, entry := range marshalFormatNames {
		if name == entry.name || (len(name) == 1 && name[0] == entry.shortName) {
			return entry.format, nil
		}
	}

	return 0, fmt.Errorf("%w: format %q", ErrUnknownName, name)
}
