package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/digibank/internal/shared/domain"
)

// User is the identity aggregate of a bank customer or operator.
type User struct {
	sharedDomain.BaseAggregateRoot
	name         string
	passwordHash string
	email        Email
	nationalID   NationalID
	phone        Phone
	birthDate    time.Time
	active       bool
	role         Role
	lastLogin    *time.Time
}

// CreateUser registers a new active user. The value objects are built in
// order and the first failure is returned unchanged.
func CreateUser(name, passwordHash, email, nationalID, phone string, birthDate time.Time, role Role) (*User, error) {
	e, err := NewEmail(email)
	if err != nil {
		return nil, err
	}
	n, err := NewNationalID(nationalID)
	if err != nil {
		return nil, err
	}
	p, err := NewPhone(phone)
	if err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, invalidField(FieldRole, "unknown role "+string(role))
	}

	u := &User{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		name:              name,
		passwordHash:      passwordHash,
		email:             e,
		nationalID:        n,
		phone:             p,
		birthDate:         birthDate,
		active:            true,
		role:              role,
	}

	u.AddDomainEvent(NewUserCreated(u.ID(), e.String(), role))

	return u, nil
}

// Getters
func (u *User) Name() string           { return u.name }
func (u *User) PasswordHash() string   { return u.passwordHash }
func (u *User) Email() Email           { return u.email }
func (u *User) NationalID() NationalID { return u.nationalID }
func (u *User) Phone() Phone           { return u.phone }
func (u *User) BirthDate() time.Time   { return u.birthDate }
func (u *User) IsActive() bool         { return u.active }
func (u *User) Role() Role             { return u.role }

// LastLogin returns the last recorded login, or nil if the user never logged in.
func (u *User) LastLogin() *time.Time {
	if u.lastLogin == nil {
		return nil
	}
	at := *u.lastLogin
	return &at
}

// Update replaces the profile fields together. Blank arguments are rejected
// before anything else, and every value object is validated before any
// field is replaced, so a failed Update leaves the user untouched.
func (u *User) Update(name, email, nationalID, phone string, birthDate time.Time) error {
	if isBlank(name) || isBlank(email) || isBlank(nationalID) || isBlank(phone) || birthDate.IsZero() {
		return invalidField("", "cannot update with null or empty values")
	}

	e, err := NewEmail(email)
	if err != nil {
		return err
	}
	n, err := NewNationalID(nationalID)
	if err != nil {
		return err
	}
	p, err := NewPhone(phone)
	if err != nil {
		return err
	}

	var changed []string
	if u.name != name {
		changed = append(changed, FieldName)
	}
	if !u.email.Equals(e) {
		changed = append(changed, FieldEmail)
	}
	if !u.nationalID.Equals(n) {
		changed = append(changed, FieldNationalID)
	}
	if !u.phone.Equals(p) {
		changed = append(changed, FieldPhone)
	}
	if !u.birthDate.Equal(birthDate) {
		changed = append(changed, FieldBirthDate)
	}
	if len(changed) == 0 {
		return nil
	}

	u.name = name
	u.email = e
	u.nationalID = n
	u.phone = p
	u.birthDate = birthDate
	u.Touch()

	u.AddDomainEvent(NewUserUpdated(u.ID(), changed))
	return nil
}

// ChangeEmail replaces the email address.
func (u *User) ChangeEmail(raw string) error {
	if isBlank(raw) {
		return blankField(FieldEmail)
	}
	e, err := NewEmail(raw)
	if err != nil {
		return err
	}
	if u.email.Equals(e) {
		return nil
	}
	u.email = e
	u.fieldChanged(FieldEmail)
	return nil
}

// ChangePhone replaces the phone number.
func (u *User) ChangePhone(raw string) error {
	if isBlank(raw) {
		return blankField(FieldPhone)
	}
	p, err := NewPhone(raw)
	if err != nil {
		return err
	}
	if u.phone.Equals(p) {
		return nil
	}
	u.phone = p
	u.fieldChanged(FieldPhone)
	return nil
}

// ChangeNationalID replaces the CPF.
func (u *User) ChangeNationalID(raw string) error {
	if isBlank(raw) {
		return blankField(FieldNationalID)
	}
	n, err := NewNationalID(raw)
	if err != nil {
		return err
	}
	if u.nationalID.Equals(n) {
		return nil
	}
	u.nationalID = n
	u.fieldChanged(FieldNationalID)
	return nil
}

// ChangeBirthDate replaces the birth date.
func (u *User) ChangeBirthDate(birthDate time.Time) error {
	if birthDate.IsZero() {
		return blankField(FieldBirthDate)
	}
	if u.birthDate.Equal(birthDate) {
		return nil
	}
	u.birthDate = birthDate
	u.fieldChanged(FieldBirthDate)
	return nil
}

// ChangePassword replaces the password hash. Hashing happens before this call.
func (u *User) ChangePassword(passwordHash string) error {
	if isBlank(passwordHash) {
		return blankField(FieldPassword)
	}
	if u.passwordHash == passwordHash {
		return nil
	}
	u.passwordHash = passwordHash
	u.fieldChanged(FieldPassword)
	return nil
}

// Activate enables the user. Activating an active user does nothing.
func (u *User) Activate() {
	u.setActive(true)
}

// Deactivate disables the user. Deactivating an inactive user does nothing.
func (u *User) Deactivate() {
	u.setActive(false)
}

// RecordLogin stores the time of a successful authentication.
func (u *User) RecordLogin(at time.Time) {
	at = at.UTC()
	u.lastLogin = &at
	u.Touch()
	u.AddDomainEvent(NewUserLoggedIn(u.ID()))
}

func (u *User) setActive(active bool) {
	if u.active == active {
		return
	}
	u.active = active
	u.Touch()
	u.AddDomainEvent(NewUserStatusChanged(u.ID(), active))
}

func (u *User) fieldChanged(field string) {
	u.Touch()
	u.AddDomainEvent(NewUserFieldChanged(u.ID(), field))
}

func blankField(field string) error {
	return invalidField(field, "cannot be null or empty")
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
