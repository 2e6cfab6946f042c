package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/digibank/internal/identity/domain"
	sharedApplication "github.com/felixgeelhaar/digibank/internal/shared/application"
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// RegisterUserCommand contains the data needed to register a user.
type RegisterUserCommand struct {
	Name         string    `json:"name" validate:"required"`
	PasswordHash string    `json:"password_hash" validate:"required"`
	Email        string    `json:"email"`
	NationalID   string    `json:"national_id"`
	Phone        string    `json:"phone"`
	BirthDate    time.Time `json:"birth_date" validate:"required"`
	Role         string    `json:"role" validate:"omitempty,oneof=USER ADMIN"`
	Actor        string    `json:"actor,omitempty"`
}

// RegisterUserResult contains the result of registering a user.
type RegisterUserResult struct {
	UserID uuid.UUID
}

// RegisterUserHandler handles the RegisterUserCommand.
type RegisterUserHandler struct {
	store userStore
}

// NewRegisterUserHandler creates a new RegisterUserHandler.
func NewRegisterUserHandler(userRepo domain.UserRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *RegisterUserHandler {
	return &RegisterUserHandler{store: userStore{userRepo: userRepo, outboxRepo: outboxRepo, uow: uow}}
}

// Handle executes the RegisterUserCommand. Users are created active with the
// USER role unless another role is named.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*RegisterUserResult, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}

	role := domain.RoleUser
	if cmd.Role != "" {
		parsed, err := domain.ParseRole(cmd.Role)
		if err != nil {
			return nil, err
		}
		role = parsed
	}

	var result *RegisterUserResult

	err := sharedApplication.WithUnitOfWork(ctx, h.store.uow, func(txCtx context.Context) error {
		u, err := domain.CreateUser(cmd.Name, cmd.PasswordHash, cmd.Email, cmd.NationalID, cmd.Phone, cmd.BirthDate, role)
		if err != nil {
			return err
		}

		taken, err := h.store.userRepo.ExistsByEmail(txCtx, u.Email())
		if err != nil {
			return err
		}
		if !taken {
			taken, err = h.store.userRepo.ExistsByNationalID(txCtx, u.NationalID())
			if err != nil {
				return err
			}
		}
		if taken {
			return domain.ErrUserAlreadyExists
		}

		if err := h.store.persist(txCtx, u, cmd.Actor); err != nil {
			return err
		}

		result = &RegisterUserResult{UserID: u.ID()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
