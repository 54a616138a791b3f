// Package idnorm parses free-form pasted identifier text into clean
// ordered token sequences
//
// Input typically arrives copied out of spreadsheets or emails, so the
// normalizer folds fullwidth punctuation to ASCII and treats any unicode
// space as a separator before splitting
package idnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// fold maps fullwidth forms to ASCII and strips zero-width format chars
var fold = transform.Chain(
	norm.NFKC,
	runes.Remove(runes.In(unicode.Cf)), // ZWJ ZWNJ FEFF etc
	width.Fold,
)

// Normalize splits s on any run of whitespace, comma, semicolon, or pipe
// characters. Empty tokens are discarded, relative order is preserved,
// and duplicates are kept. An empty or separator-only input yields nil
func Normalize(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ToValidUTF8(s, "")
	folded, _, err := transform.String(fold, s)
	if err == nil {
		s = folded
	}

	tokens := strings.FieldsFunc(s, isSep)
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

func isSep(r rune) bool {
	switch r {
	case ',', ';', '|':
		return true
	}
	return unicode.IsSpace(r)
}
