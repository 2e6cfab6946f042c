package commands

import (
	"context"

	"github.com/felixgeelhaar/digibank/internal/identity/domain"
	sharedApplication "github.com/felixgeelhaar/digibank/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/digibank/internal/shared/domain"
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// DeleteUserCommand removes a user.
type DeleteUserCommand struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Actor  string    `json:"actor,omitempty"`
}

// DeleteUserHandler handles the DeleteUserCommand.
type DeleteUserHandler struct {
	store userStore
}

// NewDeleteUserHandler creates a new DeleteUserHandler.
func NewDeleteUserHandler(userRepo domain.UserRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *DeleteUserHandler {
	return &DeleteUserHandler{store: userStore{userRepo: userRepo, outboxRepo: outboxRepo, uow: uow}}
}

// Handle executes the DeleteUserCommand. Deleting an unknown user fails with
// ErrUserNotFound.
func (h *DeleteUserHandler) Handle(ctx context.Context, cmd DeleteUserCommand) error {
	if err := validateCommand(cmd); err != nil {
		return err
	}

	return sharedApplication.WithUnitOfWork(ctx, h.store.uow, func(txCtx context.Context) error {
		if _, err := h.store.userRepo.FindByID(txCtx, cmd.UserID); err != nil {
			return err
		}
		if err := h.store.userRepo.Delete(txCtx, cmd.UserID); err != nil {
			return err
		}

		events := []sharedDomain.DomainEvent{domain.NewUserDeleted(cmd.UserID)}
		return h.store.enqueue(txCtx, events, sharedApplication.NewEventMetadata(cmd.Actor))
	})
}
