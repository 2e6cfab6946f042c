package domain

import (
	"errors"

	sharedDomain "github.com/felixgeelhaar/digibank/internal/shared/domain"
)

var (
	// ErrUserNotFound is returned when no user matches a lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists is returned when an email or national id is already registered.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrCountryNotFound is the kind of NotFoundError raised by reverse country lookups.
	ErrCountryNotFound = errors.New("area code not found for country")
)

func invalidNationalID(reason string) error {
	return sharedDomain.NewValidationError(sharedDomain.ErrInvalidNationalID, "", reason)
}

func invalidEmail(reason string) error {
	return sharedDomain.NewValidationError(sharedDomain.ErrInvalidEmail, "", reason)
}

func invalidPhone(reason string) error {
	return sharedDomain.NewValidationError(sharedDomain.ErrInvalidPhone, "", reason)
}

func invalidField(field, reason string) error {
	return sharedDomain.NewValidationError(sharedDomain.ErrInvalidField, field, reason)
}
