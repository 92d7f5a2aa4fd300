package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// stdin is shared across prompts so buffered read-ahead from one prompt
// is not lost to the next.
var stdin = bufio.NewReader(os.Stdin)

// promptLine asks on stderr and reads one line from stdin. Returns the
// empty string on EOF or an empty answer.
func promptLine(prompt string) string {
	fmt.Fprintf(os.Stderr, "%s ", prompt)

	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}

	return strings.TrimRight(line, "\r\n")
}

// promptPassword asks on stderr and reads a password from stdin without
// echoing it. When stdin is not a terminal, it falls back to a plain line
// read so the tool stays scriptable.
func promptPassword(prompt string) string {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptLine(prompt)
	}

	defer fmt.Fprintln(os.Stderr)
	fmt.Fprint(os.Stderr, prompt)

	password, err := term.ReadPassword(fd)
	if err != nil {
		return ""
	}

	return string(password)
}
