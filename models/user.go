package models

import "time"

// User is a fully unmarshalled user profile. It is the in-memory
// counterpart of a .mpsites / .mpsites.json file.
type User struct {
	// FullName is the user's full name, the public half of the master key.
	FullName string

	// MasterPassword is the user's master secret. It is retained in memory
	// for the duration of the run only and is never persisted.
	MasterPassword string

	// KeyID is the hex SHA-256 of the master key derived from FullName and
	// MasterPassword under Algorithm. It verifies the master password
	// against the profile without storing any secret.
	KeyID string

	// Algorithm is the default algorithm version for the user's sites.
	Algorithm AlgorithmVersion

	// DefaultType is the result type used for sites that don't set one.
	DefaultType ResultType

	// Redacted indicates whether recoverable state is omitted when the
	// profile is written out.
	Redacted bool

	// Avatar is the index of the user's avatar picture.
	Avatar uint32

	// LastUsed is the time the profile was last used, in UTC.
	LastUsed time.Time

	// Sites are the user's sites, in profile order.
	Sites []Site
}

// Site carries the derivation parameters of a single site credential.
type Site struct {
	// Name is the site's name, typically its bare domain.
	Name string

	// Type is the result type of the site's primary credential.
	Type ResultType

	// Counter distinguishes multiple generations of the credential.
	Counter CounterValue

	// Algorithm is the algorithm version the site's credential was made
	// with. Kept per site so old credentials survive algorithm upgrades.
	Algorithm AlgorithmVersion

	// Content is the site's stateful content in cleartext. Empty for
	// template types unless a legacy unredacted profile provided one; a
	// loaded value is never trusted over regeneration.
	Content string

	// LoginName is the user's login at the site, when it isn't derived.
	LoginName string

	// LoginGenerated indicates the login is derived rather than stored.
	LoginGenerated bool

	// URL is the site's landing page, informational only.
	URL string

	// Uses counts how often the site's credential was asked for.
	Uses uint32

	// LastUsed is the time the site was last used, in UTC.
	LastUsed time.Time

	// Questions are the site's security questions, in profile order.
	Questions []Question
}

// Question identifies a security question answered by a derived phrase.
type Question struct {
	// Keyword is the most significant word of the question. Empty selects
	// the site's default question.
	Keyword string

	// Type is the result type of the answer.
	Type ResultType

	// Content is the question's stateful content, if any.
	Content string
}

// FindSite returns the user's site with the given name, or nil.
func (u *User) FindSite(name string) *Site {
	for i := range u.Sites {
		if u.Sites[i].Name == name {
			return &u.Sites[i]
		}
	}

	return nil
}

// AddSite appends a new site to the user and returns it.
func (u *User) AddSite(site Site) *Site {
	u.Sites = append(u.Sites, site)
	return &u.Sites[len(u.Sites)-1]
}

// FindQuestion returns the site's question with the given keyword, or nil.
func (s *Site) FindQuestion(keyword string) *Question {
	for i := range s.Questions {
		if s.Questions[i].Keyword == keyword {
			return &s.Questions[i]
		}
	}

	return nil
}
