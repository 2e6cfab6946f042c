package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/digibank/internal/identity/domain"
	sharedApplication "github.com/felixgeelhaar/digibank/internal/shared/application"
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// SetUserStatusCommand names the user to activate or deactivate.
type SetUserStatusCommand struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Actor  string    `json:"actor,omitempty"`
}

// ActivateUserHandler enables a user account.
type ActivateUserHandler struct {
	store userStore
}

// NewActivateUserHandler creates a new ActivateUserHandler.
func NewActivateUserHandler(userRepo domain.UserRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ActivateUserHandler {
	return &ActivateUserHandler{store: userStore{userRepo: userRepo, outboxRepo: outboxRepo, uow: uow}}
}

// Handle activates the user. An already active user is left untouched.
func (h *ActivateUserHandler) Handle(ctx context.Context, cmd SetUserStatusCommand) error {
	if err := validateCommand(cmd); err != nil {
		return err
	}
	return h.store.mutate(ctx, cmd.UserID, cmd.Actor, func(_ context.Context, u *domain.User) error {
		u.Activate()
		return nil
	})
}

// DeactivateUserHandler disables a user account.
type DeactivateUserHandler struct {
	store userStore
}

// NewDeactivateUserHandler creates a new DeactivateUserHandler.
func NewDeactivateUserHandler(userRepo domain.UserRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *DeactivateUserHandler {
	return &DeactivateUserHandler{store: userStore{userRepo: userRepo, outboxRepo: outboxRepo, uow: uow}}
}

// Handle deactivates the user. An already inactive user is left untouched.
func (h *DeactivateUserHandler) Handle(ctx context.Context, cmd SetUserStatusCommand) error {
	if err := validateCommand(cmd); err != nil {
		return err
	}
	return h.store.mutate(ctx, cmd.UserID, cmd.Actor, func(_ context.Context, u *domain.User) error {
		u.Deactivate()
		return nil
	})
}

// RecordLoginCommand registers a successful authentication.
type RecordLoginCommand struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	// At defaults to now.
	At time.Time `json:"at"`
}

// RecordLoginHandler handles the RecordLoginCommand.
type RecordLoginHandler struct {
	store userStore
	now   func() time.Time
}

// NewRecordLoginHandler creates a new RecordLoginHandler.
func NewRecordLoginHandler(userRepo domain.UserRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *RecordLoginHandler {
	return &RecordLoginHandler{
		store: userStore{userRepo: userRepo, outboxRepo: outboxRepo, uow: uow},
		now:   time.Now,
	}
}

// Handle records the login. The user is the actor of its own login.
func (h *RecordLoginHandler) Handle(ctx context.Context, cmd RecordLoginCommand) error {
	if err := validateCommand(cmd); err != nil {
		return err
	}
	at := cmd.At
	if at.IsZero() {
		at = h.now()
	}
	return h.store.mutate(ctx, cmd.UserID, cmd.UserID.String(), func(_ context.Context, u *domain.User) error {
		u.RecordLogin(at)
		return nil
	})
}
