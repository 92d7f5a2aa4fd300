// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Midnight Wonderer

package config

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// counterFlag is a repeatable boolean flag that steps a counter on every
// occurrence, so -v -v and -q compose like the getopt original.
type counterFlag struct {
	target *int
	step   int
}

func (c *counterFlag) String() string { return "" }

func (c *counterFlag) Set(string) error {
	*c.target += c.step
	return nil
}

// IsBoolFlag marks the flag as valueless for the flag package.
func (c *counterFlag) IsBoolFlag() bool { return true }

// ParseFlags parses the command line into a Config.
//
// Flags:
//
//	-u/-U full name (-U also allows a master password update)
//	-M master password inline (testing only, insecure)
//	-t result type name
//	-P result parameter (stored value, or key size in bits)
//	-c counter value
//	-a algorithm version
//	-p key purpose
//	-C purpose context
//	-f/-F profile format (-F forbids format fallback)
//	-R redacted, 0 or 1
//	-y copy the result to the clipboard
//	-v/-q verbosity up/down (repeatable)
//	-h usage
//
// The positional argument is the site name.
func ParseFlags() (*Config, error) {
	return parseFlags(os.Args[1:])
}

func parseFlags(args []string) (*Config, error) {
	cfg := &Config{}
	var updateName, fixedFormat string

	flags := flag.NewFlagSet("mpw", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.StringVar(&cfg.FullName, "u", "", "full name of the user")
	flags.StringVar(&updateName, "U", "", "full name of the user, allowing a master password update")
	flags.StringVar(&cfg.MasterPassword, "M", "", "master password (insecure, testing only)")
	flags.StringVar(&cfg.ResultType, "t", "", "result template or type")
	flags.StringVar(&cfg.ResultParam, "P", "", "result parameter")
	flags.StringVar(&cfg.Counter, "c", "", "counter value")
	flags.StringVar(&cfg.Algorithm, "a", "", "algorithm version")
	flags.StringVar(&cfg.Purpose, "p", "", "key purpose")
	flags.StringVar(&cfg.Context, "C", "", "purpose context")
	flags.StringVar(&cfg.Format, "f", "", "profile format, with fallback")
	flags.StringVar(&fixedFormat, "F", "", "profile format, fixed")
	flags.StringVar(&cfg.Redacted, "R", "", "redacted profile, 0 or 1")
	flags.BoolVar(&cfg.Clipboard, "y", false, "copy the result to the clipboard")
	flags.BoolVar(&cfg.Usage, "h", false, "show usage")
	flags.Var(&counterFlag{&cfg.Verbosity, +1}, "v", "increase verbosity")
	flags.Var(&counterFlag{&cfg.Verbosity, -1}, "q", "decrease verbosity")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if updateName != "" {
		cfg.FullName = updateName
		cfg.AllowPasswordUpdate = true
	}
	if fixedFormat != "" {
		cfg.Format = fixedFormat
		cfg.FormatFixed = true
	}
	cfg.SiteName = flags.Arg(0)

	return cfg, nil
}
