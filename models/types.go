package models

import (
	"fmt"
	"strconv"
)

// ResultTypeClass partitions result types by how their output is produced.
type ResultTypeClass uint32

const (
	// ResultTypeClassTemplate derives the result from the site key using
	// a character template. Stateless and fully reproducible.
	ResultTypeClassTemplate ResultTypeClass = 1 << 4

	// ResultTypeClassStateful encrypts a user-provided value with the site
	// key. The ciphertext is persisted in the profile.
	ResultTypeClassStateful ResultTypeClass = 1 << 5

	// ResultTypeClassDerive emits raw key material derived from the site key.
	ResultTypeClassDerive ResultTypeClass = 1 << 6
)

// SiteFeature flags modify how a result type participates in the profile.
type SiteFeature uint32

const (
	// SiteFeatureExportContent marks types whose stored content is included
	// in redacted exports (as ciphertext).
	SiteFeatureExportContent SiteFeature = 1 << 10

	// SiteFeatureDevicePrivate marks types whose content never leaves the
	// device, not even encrypted.
	SiteFeatureDevicePrivate SiteFeature = 1 << 11

	// SiteFeatureAlternative marks types that do not replace the site's
	// primary credential and are therefore not persisted as its type.
	SiteFeatureAlternative SiteFeature = 1 << 12
)

// ResultType identifies the shape of the credential produced for a site.
// The numeric values are a compatibility surface: they appear in profile
// files and must never change.
type ResultType uint32

const (
	// ResultTypeTemplateMaximum is 20 characters, contains symbols.
	ResultTypeTemplateMaximum = ResultType(0x0) | ResultType(ResultTypeClassTemplate)
	// ResultTypeTemplateLong is copy-friendly, 14 characters, symbols.
	ResultTypeTemplateLong = ResultType(0x1) | ResultType(ResultTypeClassTemplate)
	// ResultTypeTemplateMedium is copy-friendly, 8 characters, symbols.
	ResultTypeTemplateMedium = ResultType(0x2) | ResultType(ResultTypeClassTemplate)
	// ResultTypeTemplateShort is copy-friendly, 4 characters, no symbols.
	ResultTypeTemplateShort = ResultType(0x3) | ResultType(ResultTypeClassTemplate)
	// ResultTypeTemplateBasic is 8 characters, no symbols.
	ResultTypeTemplateBasic = ResultType(0x4) | ResultType(ResultTypeClassTemplate)
	// ResultTypeTemplatePIN is 4 numbers.
	ResultTypeTemplatePIN = ResultType(0x5) | ResultType(ResultTypeClassTemplate)
	// ResultTypeTemplateName is a 9 letter name.
	ResultTypeTemplateName = ResultType(0xE) | ResultType(ResultTypeClassTemplate)
	// ResultTypeTemplatePhrase is a 20 character sentence.
	ResultTypeTemplatePhrase = ResultType(0xF) | ResultType(ResultTypeClassTemplate)

	// ResultTypeStatefulPersonal is a saved personal password.
	ResultTypeStatefulPersonal = ResultType(0x0) | ResultType(ResultTypeClassStateful) | ResultType(SiteFeatureExportContent)
	// ResultTypeStatefulDevice is a saved password private to the device.
	ResultTypeStatefulDevice = ResultType(0x1) | ResultType(ResultTypeClassStateful) | ResultType(SiteFeatureDevicePrivate)

	// ResultTypeDeriveKey is a derived encryption key.
	ResultTypeDeriveKey = ResultType(0x0) | ResultType(ResultTypeClassDerive) | ResultType(SiteFeatureAlternative)

	// ResultTypeDefault is the type used when the user expresses no choice.
	ResultTypeDefault = ResultTypeTemplateLong
)

// resultTypeNames orders the registry used by name and short-name lookups.
var resultTypeNames = []struct {
	resultType ResultType
	shortName  byte
	name       string
}{
	{ResultTypeTemplateMaximum, 'x', "maximum"},
	{ResultTypeTemplateLong, 'l', "long"},
	{ResultTypeTemplateMedium, 'm', "medium"},
	{ResultTypeTemplateBasic, 'b', "basic"},
	{ResultTypeTemplateShort, 's', "short"},
	{ResultTypeTemplatePIN, 'i', "pin"},
	{ResultTypeTemplateName, 'n', "name"},
	{ResultTypeTemplatePhrase, 'p', "phrase"},
	{ResultTypeDeriveKey, 'K', "key"},
	{ResultTypeStatefulPersonal, 'P', "personal"},
	{ResultTypeStatefulDevice, 'D', "device"},
}

// Class reports the result class bits of the type.
func (t ResultType) Class() ResultTypeClass {
	return ResultTypeClass(t) & (ResultTypeClassTemplate | ResultTypeClassStateful | ResultTypeClassDerive)
}

// Has reports whether the type carries the given feature flag.
func (t ResultType) Has(feature SiteFeature) bool {
	return uint32(t)&uint32(feature) == uint32(feature)
}

// Name returns the long name of the type, or its decimal value when the
// type is not in the registry.
func (t ResultType) Name() string {
	for _, entry := range resultTypeNames {
		if entry.resultType == t {
			return entry.name
		}
	}

	return strconv.FormatUint(uint64(t), 10)
}

// String implements fmt.Stringer.
func (t ResultType) String() string { return t.Name() }

// ParseResultType resolves a type from its short name (single letter), long
// name, or decimal value. Returns ErrUnknownName for anything else.
func ParseResultType(name string) (ResultType, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: empty type", ErrUnknownName)
	}

	for _, entry := range resultTypeNames {
		if name == entry.name || (len(name) == 1 && name[0] == entry.shortName) {
			return entry.resultType, nil
		}
	}

	if value, err := strconv.ParseUint(name, 10, 32); err == nil {
		t := ResultType(value)
		for _, entry := range resultTypeNames {
			if entry.resultType == t {
				return t, nil
			}
		}
	}

	return 0, fmt.Errorf("%w: type %q", ErrUnknownName, name)
}

// KeyPurpose is the intent behind a derived site key. It selects the scope
// label mixed into the derivation message and the default result type.
type KeyPurpose uint32

const (
	// KeyPurposeAuthentication derives a password to log in with.
	KeyPurposeAuthentication KeyPurpose = iota
	// KeyPurposeIdentification derives a login name to identify as.
	KeyPurposeIdentification
	// KeyPurposeRecovery derives an answer to a security question.
	KeyPurposeRecovery
)

// keyPurposeNames orders the registry used by purpose lookups.
var keyPurposeNames = []struct {
	purpose KeyPurpose
	name    string
	scope   string
}{
	{KeyPurposeAuthentication, "authentication", "com.lyndir.masterpassword"},
	{KeyPurposeIdentification, "identification", "com.lyndir.masterpassword.login"},
	{KeyPurposeRecovery, "recovery", "com.lyndir.masterpassword.answer"},
}

// Scope returns the derivation scope label for the purpose.
func (p KeyPurpose) Scope() string {
	for _, entry := range keyPurposeNames {
		if entry.purpose == p {
			return entry.scope
		}
	}

	return ""
}

// Name returns the long name of the purpose.
func (p KeyPurpose) Name() string {
	for _, entry := range keyPurposeNames {
		if entry.purpose == p {
			return entry.name
		}
	}

	return strconv.FormatUint(uint64(p), 10)
}

// String implements fmt.Stringer.
func (p KeyPurpose) String() string { return p.Name() }

// DefaultResultType returns the result type used for the purpose when the
// user expresses no choice.
func (p KeyPurpose) DefaultResultType() ResultType {
	switch p {
	case KeyPurposeIdentification:
		return ResultTypeTemplateName
	case KeyPurposeRecovery:
		return ResultTypeTemplatePhrase
	default:
		return ResultTypeDefault
	}
}

// ParseKeyPurpose resolves a purpose from its short or long name. Prefix
// forms such as "auth", "ident" and "rec" are accepted.
func ParseKeyPurpose(name string) (KeyPurpose, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: empty purpose", ErrUnknownName)
	}

	for _, entry := range keyPurposeNames {
		if len(name) <= len(entry.name) && entry.name[:len(name)] == name {
			return entry.purpose, nil
		}
	}

	return 0, fmt.Errorf("%w: purpose %q", ErrUnknownName, name)
}

// CounterValue distinguishes multiple credentials for the same site. The
// full unsigned 32-bit range is valid.
type CounterValue uint32

const (
	// CounterValueFirst is the lowest valid counter. It derives like any
	// other value; no purpose treats it as a sentinel.
	CounterValueFirst CounterValue = 0
	// CounterValueInitial is the counter of a freshly added site.
	CounterValueInitial CounterValue = 1
	// CounterValueLast is the highest valid counter.
	CounterValueLast CounterValue = 1<<32 - 1
	// CounterValueDefault is used when the user expresses no choice.
	CounterValueDefault = CounterValueInitial
)

// ParseCounterValue parses a decimal counter, rejecting values outside
// [CounterValueFirst, CounterValueLast]. Negative input is rejected by the
// unsigned parse.
func ParseCounterValue(value string) (CounterValue, error) {
	counter, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid counter %q: %w", value, err)
	}

	return CounterValue(counter), nil
}

// AlgorithmVersion selects the message-encoding dialect of the derivation
// engine. Every shipped version stays reproducible forever.
type AlgorithmVersion uint32

const (
	// AlgorithmVersionV0 is the first release. Site key bytes were read as
	// signed values during template rendering.
	AlgorithmVersionV0 AlgorithmVersion = iota
	// AlgorithmVersionV1 reads site key bytes as unsigned values.
	AlgorithmVersionV1
	// AlgorithmVersionV2 frames the site name by its UTF-8 byte length
	// rather than its character count.
	AlgorithmVersionV2
	// AlgorithmVersionV3 frames the full name by its UTF-8 byte length
	// rather than its character count.
	AlgorithmVersionV3

	// AlgorithmVersionFirst is the lowest supported version.
	AlgorithmVersionFirst = AlgorithmVersionV0
	// AlgorithmVersionLast is the highest supported version.
	AlgorithmVersionLast = AlgorithmVersionV3
	// AlgorithmVersionCurrent is the version used for new material.
	AlgorithmVersionCurrent = AlgorithmVersionV3
)

// String implements fmt.Stringer.
func (v AlgorithmVersion) String() string {
	return strconv.FormatUint(uint64(v), 10)
}

// ParseAlgorithmVersion parses a decimal algorithm version, rejecting
// versions outside [AlgorithmVersionFirst, AlgorithmVersionLast].
func ParseAlgorithmVersion(value string) (AlgorithmVersion, error) {
	version, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid algorithm version %q: %w", value, err)
	}
	if AlgorithmVersion(version) > AlgorithmVersionLast {
		return 0, fmt.Errorf("%w: algorithm version %q", ErrUnknownName, value)
	}

	return AlgorithmVersion(version), nil
}
