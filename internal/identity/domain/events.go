package domain

import (
	"fmt"
	"strings"

	sharedDomain "github.com/felixgeelhaar/digibank/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "User"

	RoutingKeyUserCreated           = "identity.user.created"
	RoutingKeyUserUpdated           = "identity.user.updated"
	RoutingKeyUserEmailChanged      = "identity.user.email_changed"
	RoutingKeyUserPhoneChanged      = "identity.user.phone_changed"
	RoutingKeyUserNationalIDChanged = "identity.user.national_id_changed"
	RoutingKeyUserBirthDateChanged  = "identity.user.birth_date_changed"
	RoutingKeyUserPasswordChanged   = "identity.user.password_changed"
	RoutingKeyUserActivated         = "identity.user.activated"
	RoutingKeyUserDeactivated       = "identity.user.deactivated"
	RoutingKeyUserLoggedIn          = "identity.user.logged_in"
	RoutingKeyUserDeleted           = "identity.user.deleted"
)

// Field names used in events and validation errors.
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldNationalID = "national_id"
	FieldPhone      = "phone"
	FieldBirthDate  = "birth_date"
	FieldPassword   = "password"
	FieldRole       = "role"
	FieldActive     = "active"
	FieldLastLogin  = "last_login"
)

// RoutingKeys lists every routing key emitted by the user aggregate.
func RoutingKeys() []string {
	return []string{
		RoutingKeyUserCreated,
		RoutingKeyUserUpdated,
		RoutingKeyUserEmailChanged,
		RoutingKeyUserPhoneChanged,
		RoutingKeyUserNationalIDChanged,
		RoutingKeyUserBirthDateChanged,
		RoutingKeyUserPasswordChanged,
		RoutingKeyUserActivated,
		RoutingKeyUserDeactivated,
		RoutingKeyUserLoggedIn,
		RoutingKeyUserDeleted,
	}
}

var fieldRoutingKeys = map[string]string{
	FieldEmail:      RoutingKeyUserEmailChanged,
	FieldPhone:      RoutingKeyUserPhoneChanged,
	FieldNationalID: RoutingKeyUserNationalIDChanged,
	FieldBirthDate:  RoutingKeyUserBirthDateChanged,
	FieldPassword:   RoutingKeyUserPasswordChanged,
}

// UserCreated is emitted when a new user is registered.
type UserCreated struct {
	sharedDomain.BaseEvent
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
}

// NewUserCreated creates a UserCreated event.
func NewUserCreated(userID uuid.UUID, email string, role Role) *UserCreated {
	return &UserCreated{
		BaseEvent: sharedDomain.NewBaseEvent(userID, AggregateType, RoutingKeyUserCreated),
		UserID:    userID,
		Email:     email,
		Role:      role.String(),
	}
}

func (e *UserCreated) Description() string {
	return fmt.Sprintf("user %s created with role %s", e.UserID, e.Role)
}

// UserUpdated is emitted when the profile fields are replaced together.
type UserUpdated struct {
	sharedDomain.BaseEvent
	UserID uuid.UUID `json:"user_id"`
	Fields []string  `json:"fields"`
}

// NewUserUpdated creates a UserUpdated event.
func NewUserUpdated(userID uuid.UUID, fields []string) *UserUpdated {
	return &UserUpdated{
		BaseEvent: sharedDomain.NewBaseEvent(userID, AggregateType, RoutingKeyUserUpdated),
		UserID:    userID,
		Fields:    fields,
	}
}

func (e *UserUpdated) Description() string {
	return fmt.Sprintf("user %s updated fields %s", e.UserID, strings.Join(e.Fields, ", "))
}

// UserFieldChanged is emitted when a single identity field is replaced.
type UserFieldChanged struct {
	sharedDomain.BaseEvent
	UserID uuid.UUID `json:"user_id"`
	Field  string    `json:"field"`
}

// NewUserFieldChanged creates a UserFieldChanged event routed by field.
func NewUserFieldChanged(userID uuid.UUID, field string) *UserFieldChanged {
	return &UserFieldChanged{
		BaseEvent: sharedDomain.NewBaseEvent(userID, AggregateType, fieldRoutingKeys[field]),
		UserID:    userID,
		Field:     field,
	}
}

func (e *UserFieldChanged) Description() string {
	return fmt.Sprintf("user %s changed %s", e.UserID, e.Field)
}

// UserStatusChanged is emitted on activation and deactivation.
type UserStatusChanged struct {
	sharedDomain.BaseEvent
	UserID uuid.UUID `json:"user_id"`
	Active bool      `json:"active"`
}

// NewUserStatusChanged creates an activation or deactivation event.
func NewUserStatusChanged(userID uuid.UUID, active bool) *UserStatusChanged {
	key := RoutingKeyUserDeactivated
	if active {
		key = RoutingKeyUserActivated
	}
	return &UserStatusChanged{
		BaseEvent: sharedDomain.NewBaseEvent(userID, AggregateType, key),
		UserID:    userID,
		Active:    active,
	}
}

func (e *UserStatusChanged) Description() string {
	if e.Active {
		return fmt.Sprintf("user %s activated", e.UserID)
	}
	return fmt.Sprintf("user %s deactivated", e.UserID)
}

// UserLoggedIn is emitted when a successful login is recorded.
type UserLoggedIn struct {
	sharedDomain.BaseEvent
	UserID uuid.UUID `json:"user_id"`
}

// NewUserLoggedIn creates a UserLoggedIn event.
func NewUserLoggedIn(userID uuid.UUID) *UserLoggedIn {
	return &UserLoggedIn{
		BaseEvent: sharedDomain.NewBaseEvent(userID, AggregateType, RoutingKeyUserLoggedIn),
		UserID:    userID,
	}
}

func (e *UserLoggedIn) Description() string {
	return fmt.Sprintf("user %s changed %s", e.UserID, FieldLastLogin)
}

// UserDeleted is emitted by the application layer when a user is removed.
type UserDeleted struct {
	sharedDomain.BaseEvent
	UserID uuid.UUID `json:"user_id"`
}

// NewUserDeleted creates a UserDeleted event.
func NewUserDeleted(userID uuid.UUID) *UserDeleted {
	return &UserDeleted{
		BaseEvent: sharedDomain.NewBaseEvent(userID, AggregateType, RoutingKeyUserDeleted),
		UserID:    userID,
	}
}

func (e *UserDeleted) Description() string {
	return fmt.Sprintf("user %s deleted", e.UserID)
}
