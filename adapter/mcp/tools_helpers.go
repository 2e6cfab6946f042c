package mcp

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/felixgeelhaar/digibank/internal/shared/domain"
)

const dateLayout = "2006-01-02"

func invalidInput(field, reason string) error {
	return sharedDomain.NewValidationError(sharedDomain.ErrInvalidField, field, reason)
}

// parseDate reads a YYYY-MM-DD argument; "" is the zero time.
func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, invalidInput(field, "must use the YYYY-MM-DD format")
	}
	return t, nil
}

// parseTimestamp reads an RFC 3339 argument; "" is the zero time.
func parseTimestamp(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, invalidInput(field, "must be an RFC 3339 timestamp")
	}
	return t, nil
}

func parseUserID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, invalidInput("user_id", "value required")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, invalidInput("user_id", "must be a UUID")
	}
	return id, nil
}

// parseOptionalUserID lets lookups by email, CPF or phone leave user_id blank.
func parseOptionalUserID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, nil
	}
	return parseUserID(value)
}
