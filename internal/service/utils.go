package service

import (
	"strings"
	"unicode/utf8"
)

// cleanText drops invalid UTF-8 sequences, which PostgreSQL rejects on
// insert, and trims surrounding whitespace.
func cleanText(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	return strings.TrimSpace(s)
}
