// Package utils provides utility functions for the application.
package utils

import (
	"regexp"
	"strings"
)

func ToPtr[T any](v T) *T {
	return &v
}

func IsTrue(b *bool) bool {
	return b != nil && *b
}

// emailPattern mirrors the import/lookup validation used across the app:
// local@domain.tld with no whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether the address looks deliverable.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NormalizeCCCD strips leading zeros from a national ID string. Excel drops
// leading zeros on numeric cells, so both import and lookup normalize before
// comparing. An all-zero input collapses to a single "0".
func NormalizeCCCD(cccd string) string {
	trimmed := strings.TrimLeft(strings.TrimSpace(cccd), "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}
