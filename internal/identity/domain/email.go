package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxEmailLocalPartLength = 64

var emailRegex = regexp.MustCompile(`^[\p{L}0-9_-]+(\.[\p{L}0-9_-]+)*@[^-][\p{L}0-9-]+(\.[\p{L}0-9-]+)*(\.[\p{L}]{2,})$`)

// Email is a structurally valid email address, stored exactly as given.
type Email struct {
	address string
}

// NewEmail validates raw against the address grammar. The input is neither
// trimmed nor case folded.
func NewEmail(raw string) (Email, error) {
	if raw == "" {
		return Email{}, invalidEmail("value required")
	}

	at := strings.Index(raw, "@")
	if at < 0 {
		return Email{}, invalidEmail("invalid address")
	}
	if n := utf8.RuneCountInString(raw[:at]); n < 1 || n > maxEmailLocalPartLength {
		return Email{}, invalidEmail("invalid address")
	}
	if !emailRegex.MatchString(raw) {
		return Email{}, invalidEmail("invalid address")
	}

	return Email{address: raw}, nil
}

// String returns the address.
func (e Email) String() string {
	return e.address
}

// Domain returns everything after the first "@".
func (e Email) Domain() string {
	_, domain, found := strings.Cut(e.address, "@")
	if !found {
		return ""
	}
	return domain
}

// IsZero reports whether e was never constructed.
func (e Email) IsZero() bool {
	return e.address == ""
}

// Equals checks if two emails are equal.
func (e Email) Equals(other Email) bool {
	return e.address == other.address
}
