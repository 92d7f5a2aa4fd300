package main

import (
	"fmt"
	"io"
)

// printUsage writes the usage screen, kept close to the original tool's.
func printUsage(out io.Writer) {
	fmt.Fprint(out, `
  Master Password
    https://masterpasswordapp.com

Usage:
  mpw [-u|-U full-name] [-t pw-type] [-c counter] [-a algorithm] [-P value]
      [-p purpose] [-C context] [-f|-F format] [-R 0|1] [-y] [-v|-q] [-h] site-name

  -u full-name Specify the full name of the user.
               -u checks the master password against the config,
               -U allows updating to a new master password.
               Defaults to MP_FULLNAME in env or prompts.

  -M master-pw Specify the master password of the user.
               Passing your master password via the command-line is insecure.
               Testing purposes only.

  -t pw-type   Specify the password's template.
               Defaults to 'long' (-p a), 'name' (-p i) or 'phrase' (-p r).
                   x, maximum  | 20 characters, contains symbols.
                   l, long     | Copy-friendly, 14 characters, symbols.
                   m, medium   | Copy-friendly, 8 characters, symbols.
                   b, basic    | 8 characters, no symbols.
                   s, short    | Copy-friendly, 4 characters, no symbols.
                   i, pin      | 4 numbers.
                   n, name     | 9 letter name.
                   p, phrase   | 20 character sentence.
                   K, key      | encryption key (set key size -P bits).
                   P, personal | saved personal password (save with -P pw).

  -c counter   The value of the counter.
               Defaults to 1.

  -a version   The algorithm version to use, 0 - 3.
               Defaults to MP_ALGORITHM in env or 3.

  -P value     The value to save for -t P or -t D.
               The size of they key to generate for -t K, in bits (eg. 256).

  -p purpose   The purpose of the generated token.
               Defaults to 'auth'.
                   a, auth     | An authentication token such as a password.
                   i, ident    | An identification token such as a username.
                   r, rec      | A recovery token such as a security answer.

  -C context   A purpose-specific context.
               Defaults to empty.
                   -p a        | -
                   -p i        | -
                   -p r        | Most significant word in security question.

  -f|F format  The mpsites format to use for reading/writing site parameters.
               -F forces the use of the given format,
               -f allows fallback/migration.
               Defaults to MP_FORMAT in env or json, falls back to flat.
                   n, none     | No file
                   f, flat     | ~/.mpw.d/Full Name.mpsites
                   j, json     | ~/.mpw.d/Full Name.mpsites.json

  -R redacted  Whether to save the mpsites in redacted format or not.
               Defaults to 1, redacted.

  -y           Copy the result to the clipboard as well as printing it.

  -v           Increase output verbosity (can be repeated).
  -q           Decrease output verbosity (can be repeated).

  ENVIRONMENT

      MP_FULLNAME  | The full name of the user (see -u).
      MP_ALGORITHM | The default algorithm version (see -a).
      MP_FORMAT    | The default mpsites format (see -f).
`)
}
