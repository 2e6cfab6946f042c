package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserFilter narrows a paged user listing.
type UserFilter struct {
	Roles  []Role
	Active *bool
	Limit  int
	Offset int
}

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	// Save inserts a new user or updates an existing one guarded by its version.
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email Email) (*User, error)
	FindByNationalID(ctx context.Context, nationalID NationalID) (*User, error)
	FindByPhone(ctx context.Context, phone Phone) (*User, error)
	// List returns a page of users ordered by creation time and the total count.
	List(ctx context.Context, filter UserFilter) ([]*User, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByEmail(ctx context.Context, email Email) (bool, error)
	ExistsByNationalID(ctx context.Context, nationalID NationalID) (bool, error)
}
