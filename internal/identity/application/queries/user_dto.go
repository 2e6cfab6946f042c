package queries

import (
	"time"

	"github.com/felixgeelhaar/digibank/internal/identity/domain"
	"github.com/google/uuid"
)

// UserDTO is the read model of a user. Identifiers are masked and the
// password hash is never exposed.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	EmailDomain string     `json:"email_domain"`
	NationalID  string     `json:"national_id"`
	Phone       string     `json:"phone"`
	Country     string     `json:"country"`
	BirthDate   time.Time  `json:"birth_date"`
	Active      bool       `json:"active"`
	Role        string     `json:"role"`
	Authorities []string   `json:"authorities"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CreatedBy   string     `json:"created_by,omitempty"`
	UpdatedBy   string     `json:"updated_by,omitempty"`
	Version     int        `json:"version"`
}

// ToUserDTO converts a user into its read model.
func ToUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:          u.ID(),
		Name:        u.Name(),
		Email:       u.Email().String(),
		EmailDomain: u.Email().Domain(),
		NationalID:  u.NationalID().Mask(),
		Phone:       u.Phone().Mask(),
		Country:     u.Phone().Country(),
		BirthDate:   u.BirthDate(),
		Active:      u.IsActive(),
		Role:        u.Role().String(),
		Authorities: u.Authorities(),
		LastLogin:   u.LastLogin(),
		CreatedAt:   u.CreatedAt(),
		UpdatedAt:   u.UpdatedAt(),
		CreatedBy:   u.CreatedBy(),
		UpdatedBy:   u.UpdatedBy(),
		Version:     u.Version(),
	}
}
