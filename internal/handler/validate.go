package handler

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

// Field checks mirror the registration form rules: they run at the boundary
// and keep malformed input away from the repositories.

var classificationNamePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

func validEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// strongPassword requires at least 12 characters with an upper-case letter,
// a lower-case letter, a digit and a symbol.
func strongPassword(s string) bool {
	if len(s) < 12 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// validClassificationName allows single alphanumeric words only.
func validClassificationName(s string) bool {
	return classificationNamePattern.MatchString(s)
}
