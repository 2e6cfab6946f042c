package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/digibank/internal/shared/domain"
	"github.com/google/uuid"
)

// UserSnapshot is the flat scalar form of a user used by storage and caches.
type UserSnapshot struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"password_hash"`
	Email        string     `json:"email"`
	NationalID   string     `json:"national_id"`
	Phone        string     `json:"phone"`
	BirthDate    time.Time  `json:"birth_date"`
	Active       bool       `json:"active"`
	Role         string     `json:"role"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CreatedBy    string     `json:"created_by,omitempty"`
	UpdatedBy    string     `json:"updated_by,omitempty"`
	Version      int        `json:"version"`
}

// Snapshot flattens the user into canonical scalars.
func (u *User) Snapshot() UserSnapshot {
	audit := u.Audit()
	return UserSnapshot{
		ID:           u.ID(),
		Name:         u.name,
		PasswordHash: u.passwordHash,
		Email:        u.email.String(),
		NationalID:   u.nationalID.String(),
		Phone:        u.phone.String(),
		BirthDate:    u.birthDate,
		Active:       u.active,
		Role:         u.role.String(),
		LastLogin:    u.LastLogin(),
		CreatedAt:    audit.CreatedAt,
		UpdatedAt:    audit.UpdatedAt,
		CreatedBy:    audit.CreatedBy,
		UpdatedBy:    audit.UpdatedBy,
		Version:      u.Version(),
	}
}

// RehydrateUser rebuilds a user from stored scalars. Every value object is
// validated again, so corrupted rows surface as validation errors.
func RehydrateUser(s UserSnapshot) (*User, error) {
	email, err := NewEmail(s.Email)
	if err != nil {
		return nil, err
	}
	nationalID, err := NewNationalID(s.NationalID)
	if err != nil {
		return nil, err
	}
	phone, err := PhoneFromDigits(s.Phone)
	if err != nil {
		return nil, err
	}
	role, err := ParseRole(s.Role)
	if err != nil {
		return nil, err
	}

	entity := sharedDomain.RehydrateBaseEntity(s.ID, sharedDomain.AuditTrail{
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		CreatedBy: s.CreatedBy,
		UpdatedBy: s.UpdatedBy,
	})

	var lastLogin *time.Time
	if s.LastLogin != nil {
		at := *s.LastLogin
		lastLogin = &at
	}

	return &User{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(entity, s.Version),
		name:              s.Name,
		passwordHash:      s.PasswordHash,
		email:             email,
		nationalID:        nationalID,
		phone:             phone,
		birthDate:         s.BirthDate,
		active:            s.Active,
		role:              role,
		lastLogin:         lastLogin,
	}, nil
}
