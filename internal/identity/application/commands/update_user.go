package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/digibank/internal/identity/domain"
	sharedApplication "github.com/felixgeelhaar/digibank/internal/shared/application"
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// UpdateUserCommand replaces the profile fields of a user together. Blank
// fields are rejected by the aggregate as a whole.
type UpdateUserCommand struct {
	UserID     uuid.UUID `json:"user_id" validate:"required"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	NationalID string    `json:"national_id"`
	Phone      string    `json:"phone"`
	BirthDate  time.Time `json:"birth_date"`
	Actor      string    `json:"actor,omitempty"`
}

// UpdateUserHandler handles the UpdateUserCommand.
type UpdateUserHandler struct {
	store userStore
}

// NewUpdateUserHandler creates a new UpdateUserHandler.
func NewUpdateUserHandler(userRepo domain.UserRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UpdateUserHandler {
	return &UpdateUserHandler{store: userStore{userRepo: userRepo, outboxRepo: outboxRepo, uow: uow}}
}

// Handle executes the UpdateUserCommand. Either every field is replaced or
// none is.
func (h *UpdateUserHandler) Handle(ctx context.Context, cmd UpdateUserCommand) error {
	if err := validateCommand(cmd); err != nil {
		return err
	}

	return h.store.mutate(ctx, cmd.UserID, cmd.Actor, func(txCtx context.Context, u *domain.User) error {
		email, nationalID := u.Email(), u.NationalID()
		if err := u.Update(cmd.Name, cmd.Email, cmd.NationalID, cmd.Phone, cmd.BirthDate); err != nil {
			return err
		}
		if u.Email().Equals(email) && u.NationalID().Equals(nationalID) {
			return nil
		}
		return h.store.ensureUnique(txCtx, u)
	})
}
