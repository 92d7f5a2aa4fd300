// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Midnight Wonderer

// Package identicon renders the deterministic visual fingerprint shown
// next to password prompts. The user learns their identicon over time and
// spots master-password typos before any credential is derived.
package identicon

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/MidnightWonderer/MasterPassword/internal/crypto"
)

// The glyph tables are a compatibility surface shared with every other
// implementation. Do not edit them.
var (
	leftArms  = []string{"╔", "╚", "╰", "═"}
	bodies    = []string{"█", "░", "▒", "▓", "☺", "☻"}
	rightArms = []string{"╗", "╝", "╯", "═"}
	accessories = []string{
		"◈", "◎", "◐", "◑", "◒", "◓", "☀", "☁", "☂", "☃",
		"☄", "★", "☆", "☎", "☏", "⎈", "⌂", "☘", "☢", "☣",
		"☕", "⌚", "⌛", "⏰", "⚡", "⛄", "⛅", "☔", "♔", "♕",
		"♖", "♗", "♘", "♙", "♚", "♛", "♜", "♝", "♞", "♟",
	}
)

// Identicon is a four-glyph fingerprint of (full name, master password)
// with one of seven ANSI colors.
type Identicon struct {
	LeftArm   string
	Body      string
	RightArm  string
	Accessory string

	// Color is an ANSI color index in [1, 7].
	Color uint8
}

// New computes the identicon for the given identity. The seed is the
// HMAC-SHA256 of the full name keyed by the master password; its first
// five bytes select the glyphs and the color.
func New(fullName, masterPassword string) Identicon {
	seed := crypto.HMACSHA256([]byte(masterPassword), []byte(fullName))
	defer crypto.Zero(seed)

	return Identicon{
		LeftArm:   leftArms[int(seed[0])%len(leftArms)],
		Body:      bodies[int(seed[1])%len(bodies)],
		RightArm:  rightArms[int(seed[2])%len(rightArms)],
		Accessory: accessories[int(seed[3])%len(accessories)],
		Color:     uint8(seed[4])%7 + 1,
	}
}

// Text returns the plain glyph string without color.
func (i Identicon) Text() string {
	return i.LeftArm + i.Body + i.RightArm + i.Accessory
}

// Render returns the glyph string styled in the identicon's ANSI color.
func (i Identicon) Render() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorName(i.Color)))
	return style.Render(i.Text())
}

// ansiColorName maps the identicon color index to its ANSI-16 code.
func ansiColorName(color uint8) string {
	switch color {
	case 1:
		return "1" // red
	case 2:
		return "2" // green
	case 3:
		return "3" // yellow
	case 4:
		return "4" // blue
	case 5:
		return "5" // magenta
	case 6:
		return "6" // cyan
	default:
		return "7" // white
	}
}
