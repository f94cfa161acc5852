// Package stringtest provides helpers for asserting on rendered text in tests.
package stringtest

import (
	"regexp"
	"strings"
)

// csi matches ANSI control sequences such as SGR colors and cursor moves.
var csi = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// JoinLF joins multiple strings with LF line endings.
// Use this to construct expected frame text with explicit line endings.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"@@..",
//		"@...",
//	) // -> "@@..\n@..."
func JoinLF(ss ...string) string {
	return strings.Join(ss, "\n")
}

// StripANSI removes ANSI control sequences from s, leaving only the printable
// text.
//
// Example:
//
//	stringtest.StripANSI("\x1b[38;2;1;2;3m@\x1b[0m") // -> "@"
func StripANSI(s string) string {
	return csi.ReplaceAllString(s, "")
}
