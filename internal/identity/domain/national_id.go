package domain

import "strings"

const nationalIDLength = 11

// NationalID is a validated Brazilian CPF held as its 11 canonical digits.
type NationalID struct {
	digits string
}

// NewNationalID parses a CPF. Any non-digit character in raw is discarded
// before the length and check digits are verified.
func NewNationalID(raw string) (NationalID, error) {
	if raw == "" {
		return NationalID{}, invalidNationalID("value required")
	}

	digits := onlyDigits(raw)
	if len(digits) != nationalIDLength || allSameDigit(digits) || !validCheckDigits(digits) {
		return NationalID{}, invalidNationalID("invalid id")
	}

	return NationalID{digits: digits}, nil
}

// String returns the canonical digits.
func (n NationalID) String() string {
	return n.digits
}

// Mask formats the digits as DDD.DDD.DDD-DD.
func (n NationalID) Mask() string {
	if len(n.digits) != nationalIDLength {
		return ""
	}
	return n.digits[0:3] + "." + n.digits[3:6] + "." + n.digits[6:9] + "-" + n.digits[9:11]
}

// IsZero reports whether n was never constructed.
func (n NationalID) IsZero() bool {
	return n.digits == ""
}

// Equals checks if two national ids are equal.
func (n NationalID) Equals(other NationalID) bool {
	return n.digits == other.digits
}

// checkDigit computes the verifier for the first n digits, weighting them
// from n+1 down to 2.
func checkDigit(digits string, n int) byte {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(digits[i]-'0') * (n + 1 - i)
	}
	result := (sum * 10) % 11
	if result == 10 {
		result = 0
	}
	return byte('0' + result)
}

func validCheckDigits(digits string) bool {
	return checkDigit(digits, 9) == digits[9] && checkDigit(digits, 10) == digits[10]
}

func allSameDigit(digits string) bool {
	return strings.Count(digits, digits[:1]) == len(digits)
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
