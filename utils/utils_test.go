package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCCCD(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "no leading zeros", input: "123456789", expected: "123456789"},
		{name: "leading zeros stripped", input: "00123456789", expected: "123456789"},
		{name: "all zeros collapses", input: "0000", expected: "0"},
		{name: "empty input", input: "", expected: "0"},
		{name: "whitespace trimmed", input: " 0123 ", expected: "123"},
		{name: "interior zeros kept", input: "102030", expected: "102030"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeCCCD(tt.input)
			assert.Equal(t, tt.expected, got)

			// Normalization is idempotent.
			assert.Equal(t, got, NormalizeCCCD(got))
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{name: "plain address", email: "user@example.com", valid: true},
		{name: "subdomain", email: "user@mail.example.com", valid: true},
		{name: "plus tag", email: "user+tag@example.com", valid: true},
		{name: "empty", email: "", valid: false},
		{name: "no at sign", email: "userexample.com", valid: false},
		{name: "no tld", email: "user@example", valid: false},
		{name: "whitespace inside", email: "us er@example.com", valid: false},
		{name: "double at", email: "user@@example.com", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidEmail(tt.email))
		})
	}
}
