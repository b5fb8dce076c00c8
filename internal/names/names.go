// Package names derives display names and owner tokens from GIF filenames.
//
// A filename such as "kroo-cat_dance.gif" is split on every '-' or '_':
// the first segment ("kroo") is the owner token and the capitalized
// segments joined with spaces ("Kroo Cat Dance") form the display name.
package names

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Extension is the file suffix the index recognizes.
const Extension = ".gif"

var splitter = regexp.MustCompile(`-|_`)

// Split breaks s on every separator. Consecutive separators yield empty
// segments, which are kept.
func Split(s string) []string {
	return splitter.Split(s, -1)
}

// StripExtension removes a trailing ".gif" (any case) from filename.
func StripExtension(filename string) string {
	if len(filename) >= len(Extension) && strings.EqualFold(filename[len(filename)-len(Extension):], Extension) {
		return filename[:len(filename)-len(Extension)]
	}
	return filename
}

// NormalizeName maps a filename to its display name.
//
// Empty segments produced by consecutive separators are joined like any
// other segment, so "a--b.gif" becomes "A  B".
func NormalizeName(filename string) string {
	segments := Split(StripExtension(filename))
	for i, s := range segments {
		segments[i] = Capitalize(s)
	}
	return strings.Join(segments, " ")
}

// ExtractOwner returns the part of filename before the first separator.
func ExtractOwner(filename string) string {
	return Split(filename)[0]
}

// Capitalize upper-cases the first rune of s and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
