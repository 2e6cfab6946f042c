// Package domain holds the payment card value object and its brand rules.
package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	sharedDomain "github.com/felixgeelhaar/digibank/internal/shared/domain"
)

// Card fields reported in validation errors.
const (
	FieldNumber     = "number"
	FieldHolderName = "holder_name"
	FieldExpiration = "expiration"
	FieldCVV        = "cvv"
)

const (
	minNumberLength     = 12
	maxNumberLength     = 19
	minHolderNameLength = 3
	maxHolderNameLength = 30
	expirationLength    = 5
)

var (
	expirationRegex = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
	cvvRegex        = regexp.MustCompile(`^\d{3}$`)
	holderNameRegex = regexp.MustCompile(`^[a-zA-Z.\s]+$`)
)

// Card is a validated payment card. The holder name is stored normalized.
type Card struct {
	number     string
	holderName string
	expiration string
	cvv        string
}

// NewCard validates a card against the current date.
func NewCard(number, holderName, expiration, cvv string) (Card, error) {
	return NewCardAt(number, holderName, expiration, cvv, time.Now())
}

// NewCardAt validates a card, judging expiration against now. Checks run in
// the order number, holder name, expiration, cvv and stop at the first failure.
func NewCardAt(number, holderName, expiration, cvv string, now time.Time) (Card, error) {
	if err := validateNumber(number); err != nil {
		return Card{}, err
	}
	name, err := validateHolderName(holderName)
	if err != nil {
		return Card{}, err
	}
	if err := validateExpiration(expiration, now); err != nil {
		return Card{}, err
	}
	if err := validateCVV(cvv); err != nil {
		return Card{}, err
	}

	return Card{
		number:     number,
		holderName: name,
		expiration: expiration,
		cvv:        cvv,
	}, nil
}

func (c Card) Number() string     { return c.number }
func (c Card) HolderName() string { return c.holderName }
func (c Card) Expiration() string { return c.expiration }
func (c Card) CVV() string        { return c.cvv }

// Brand classifies the card number.
func (c Card) Brand() string {
	return BrandOf(c.number)
}

// Last4 returns the final four digits of the number.
func (c Card) Last4() string {
	if len(c.number) < 4 {
		return c.number
	}
	return c.number[len(c.number)-4:]
}

// MaskedNumber hides every digit but the last four.
func (c Card) MaskedNumber() string {
	if len(c.number) <= 4 {
		return c.number
	}
	return strings.Repeat("*", len(c.number)-4) + c.Last4()
}

// IsValid re-runs every check against the current date.
func (c Card) IsValid() bool {
	return c.IsValidAt(time.Now())
}

// IsValidAt re-runs every check, reporting failure as false.
func (c Card) IsValidAt(now time.Time) bool {
	_, err := NewCardAt(c.number, c.holderName, c.expiration, c.cvv, now)
	return err == nil
}

func validateNumber(number string) error {
	if number == "" {
		return invalidCard(FieldNumber, "cannot be null or empty")
	}
	if len(number) < minNumberLength || len(number) > maxNumberLength {
		return invalidCard(FieldNumber, "must have between 12 and 19 characters")
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return invalidCard(FieldNumber, "must contain only digits")
		}
	}
	if !luhnValid(number) {
		return invalidCard(FieldNumber, "is invalid")
	}
	return nil
}

// luhnValid doubles every second digit from the right, folding results
// above nine, and accepts sums divisible by ten.
func luhnValid(number string) bool {
	sum := 0
	alternate := false
	for i := len(number) - 1; i >= 0; i-- {
		n := int(number[i] - '0')
		if alternate {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		alternate = !alternate
	}
	return sum%10 == 0
}

func validateHolderName(holderName string) (string, error) {
	if holderName == "" {
		return "", invalidCard(FieldHolderName, "cannot be null or empty")
	}
	normalized := NormalizeHolderName(holderName)
	if n := utf8.RuneCountInString(normalized); n < minHolderNameLength || n > maxHolderNameLength {
		return "", invalidCard(FieldHolderName, "must have between 3 and 30 characters")
	}
	if !holderNameRegex.MatchString(normalized) {
		return "", invalidCard(FieldHolderName, "must contain only letters, periods and spaces")
	}
	return normalized, nil
}

func validateExpiration(expiration string, now time.Time) error {
	if expiration == "" {
		return invalidCard(FieldExpiration, "cannot be null or empty")
	}
	if len(expiration) != expirationLength {
		return invalidCard(FieldExpiration, "must have exactly 5 characters")
	}
	if !expirationRegex.MatchString(expiration) {
		return invalidCard(FieldExpiration, "must use the MM/YY format")
	}
	year, err := strconv.Atoi(expiration[3:])
	if err != nil {
		return invalidCard(FieldExpiration, "must use the MM/YY format")
	}
	if 2000+year < now.Year() {
		return invalidCard(FieldExpiration, "has already passed")
	}
	return nil
}

func validateCVV(cvv string) error {
	if cvv == "" {
		return invalidCard(FieldCVV, "cannot be null or empty")
	}
	if !cvvRegex.MatchString(cvv) {
		return invalidCard(FieldCVV, "must have exactly 3 digits")
	}
	return nil
}

func invalidCard(field, reason string) error {
	return sharedDomain.NewValidationError(sharedDomain.ErrInvalidCard, field, reason)
}
