package domain

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	minPhoneDigits = 12
	maxPhoneDigits = 13
)

var (
	phoneFormatRegex = regexp.MustCompile(`^\+\d{2,3}\s\(\d{2}\)\s\d{4,5}-\d{4}$`)
	phoneDigitsRegex = regexp.MustCompile(`^(\d{2})(\d{2})(\d{4,5})(\d{4})$`)
)

// Phone is an international phone number held as DDI+DDD+subscriber digits.
type Phone struct {
	digits string
}

// NewPhone parses a number written as "+DDI (DDD) 9999-9999" or
// "+DDI (DDD) 99999-9999".
func NewPhone(raw string) (Phone, error) {
	if strings.TrimSpace(raw) == "" {
		return Phone{}, invalidPhone("value required")
	}
	if !phoneFormatRegex.MatchString(raw) {
		return Phone{}, invalidPhone("must match +DDI (DDD) 9999-9999 or +DDI (DDD) 99999-9999")
	}

	digits := onlyDigits(raw)
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return Phone{}, invalidPhone("must have between 12 and 13 digits")
	}

	return Phone{digits: digits}, nil
}

// PhoneFromDigits rebuilds a phone from its canonical digits, running the
// same validation as NewPhone on the masked form.
func PhoneFromDigits(digits string) (Phone, error) {
	masked := maskPhoneDigits(digits)
	if masked == "" {
		if strings.TrimSpace(digits) == "" {
			return Phone{}, invalidPhone("value required")
		}
		return Phone{}, invalidPhone("must have between 12 and 13 digits")
	}
	return NewPhone(masked)
}

// String returns the canonical digits.
func (p Phone) String() string {
	return p.digits
}

// Unmask returns the canonical digits.
func (p Phone) Unmask() string {
	return p.digits
}

// Mask formats the digits as +DD (DD) DDDD[D]-DDDD.
func (p Phone) Mask() string {
	return maskPhoneDigits(p.digits)
}

// DDI returns the international dialing code.
func (p Phone) DDI() string {
	return p.slice(0, 2)
}

// DDD returns the area code.
func (p Phone) DDD() string {
	return p.slice(2, 4)
}

// Number returns the subscriber number.
func (p Phone) Number() string {
	return p.slice(4, len(p.digits))
}

// Country resolves the dialing code through the country directory.
func (p Phone) Country() string {
	code, err := strconv.Atoi(p.DDI())
	if err != nil {
		return UnknownCountry
	}
	return CountryByAreaCode(code)
}

// IsZero reports whether p was never constructed.
func (p Phone) IsZero() bool {
	return p.digits == ""
}

// Equals checks if two phones are equal.
func (p Phone) Equals(other Phone) bool {
	return p.digits == other.digits
}

func (p Phone) slice(from, to int) string {
	if len(p.digits) < to {
		return ""
	}
	return p.digits[from:to]
}

func maskPhoneDigits(digits string) string {
	m := phoneDigitsRegex.FindStringSubmatch(digits)
	if m == nil {
		return ""
	}
	return "+" + m[1] + " (" + m[2] + ") " + m[3] + "-" + m[4]
}
