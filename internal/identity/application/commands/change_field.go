package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/digibank/internal/identity/domain"
	sharedApplication "github.com/felixgeelhaar/digibank/internal/shared/application"
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// ChangeEmailCommand replaces the email of a user.
type ChangeEmailCommand struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Email  string    `json:"email" validate:"required"`
	Actor  string    `json:"actor,omitempty"`
}

// ChangeEmailHandler handles the ChangeEmailCommand.
type ChangeEmailHandler struct {
	store userStore
}

// NewChangeEmailHandler creates a new ChangeEmailHandler.
func NewChangeEmailHandler(userRepo domain.UserRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ChangeEmailHandler {
	return &ChangeEmailHandler{store: userStore{userRepo: userRepo, outboxRepo: outboxRepo, uow: uow}}
}

// Handle executes the ChangeEmailCommand.
func (h *ChangeEmailHandler) Handle(ctx context.Context, cmd ChangeEmailCommand) error {
	if err := validateCommand(cmd); err != nil {
		return err
	}
	return h.store.mutate(ctx, cmd.UserID, cmd.Actor, func(txCtx context.Context, u *domain.User) error {
		before := u.Email()
		if err := u.ChangeEmail(cmd.Email); err != nil {
			return err
		}
		if u.Email().Equals(before) {
			return nil
		}
		return h.store.ensureUnique(txCtx, u)
	})
}

// ChangePhoneCommand replaces the phone number of a user.
type ChangePhoneCommand struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Phone  string    `json:"phone" validate:"required"`
	Actor  string    `json:"actor,omitempty"`
}

// ChangePhoneHandler handles the ChangePhoneCommand.
type ChangePhoneHandler struct {
	store userStore
}

// NewChangePhoneHandler creates a new ChangePhoneHandler.
func NewChangePhoneHandler(userRepo domain.UserRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ChangePhoneHandler {
	return &ChangePhoneHandler{store: userStore{userRepo: userRepo, outboxRepo: outboxRepo, uow: uow}}
}

// Handle executes the ChangePhoneCommand.
func (h *ChangePhoneHandler) Handle(ctx context.Context, cmd ChangePhoneCommand) error {
	if err := validateCommand(cmd); err != nil {
		return err
	}
	return h.store.mutate(ctx, cmd.UserID, cmd.Actor, func(_ context.Context, u *domain.User) error {
		return u.ChangePhone(cmd.Phone)
	})
}

// ChangeNationalIDCommand replaces the CPF of a user.
type ChangeNationalIDCommand struct {
	UserID     uuid.UUID `json:"user_id" validate:"required"`
	NationalID string    `json:"national_id" validate:"required"`
	Actor      string    `json:"actor,omitempty"`
}

// ChangeNationalIDHandler handles the ChangeNationalIDCommand.
type ChangeNationalIDHandler struct {
	store userStore
}

// NewChangeNationalIDHandler creates a new ChangeNationalIDHandler.
func NewChangeNationalIDHandler(userRepo domain.UserRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ChangeNationalIDHandler {
	return &ChangeNationalIDHandler{store: userStore{userRepo: userRepo, outboxRepo: outboxRepo, uow: uow}}
}

// Handle executes the ChangeNationalIDCommand.
func (h *ChangeNationalIDHandler) Handle(ctx context.Context, cmd ChangeNationalIDCommand) error {
	if err := validateCommand(cmd); err != nil {
		return err
	}
	return h.store.mutate(ctx, cmd.UserID, cmd.Actor, func(txCtx context.Context, u *domain.User) error {
		before := u.NationalID()
		if err := u.ChangeNationalID(cmd.NationalID); err != nil {
			return err
		}
		if u.NationalID().Equals(before) {
			return nil
		}
		return h.store.ensureUnique(txCtx, u)
	})
}

// ChangeBirthDateCommand replaces the birth date of a user.
type ChangeBirthDateCommand struct {
	UserID    uuid.UUID `json:"user_id" validate:"required"`
	BirthDate time.Time `json:"birth_date" validate:"required"`
	Actor     string    `json:"actor,omitempty"`
}

// ChangeBirthDateHandler handles the ChangeBirthDateCommand.
type ChangeBirthDateHandler struct {
	store userStore
}

// NewChangeBirthDateHandler creates a new ChangeBirthDateHandler.
func NewChangeBirthDateHandler(userRepo domain.UserRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ChangeBirthDateHandler {
	return &ChangeBirthDateHandler{store: userStore{userRepo: userRepo, outboxRepo: outboxRepo, uow: uow}}
}

// Handle executes the ChangeBirthDateCommand.
func (h *ChangeBirthDateHandler) Handle(ctx context.Context, cmd ChangeBirthDateCommand) error {
	if err := validateCommand(cmd); err != nil {
		return err
	}
	return h.store.mutate(ctx, cmd.UserID, cmd.Actor, func(_ context.Context, u *domain.User) error {
		return u.ChangeBirthDate(cmd.BirthDate)
	})
}

// ChangePasswordCommand replaces the stored password hash. Hashing happens
// before the command is issued.
type ChangePasswordCommand struct {
	UserID       uuid.UUID `json:"user_id" validate:"required"`
	PasswordHash string    `json:"password_hash" validate:"required"`
	Actor        string    `json:"actor,omitempty"`
}

// ChangePasswordHandler handles the ChangePasswordCommand.
type ChangePasswordHandler struct {
	store userStore
}

// NewChangePasswordHandler creates a new ChangePasswordHandler.
func NewChangePasswordHandler(userRepo domain.UserRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ChangePasswordHandler {
	return &ChangePasswordHandler{store: userStore{userRepo: userRepo, outboxRepo: outboxRepo, uow: uow}}
}

// Handle executes the ChangePasswordCommand.
func (h *ChangePasswordHandler) Handle(ctx context.Context, cmd ChangePasswordCommand) error {
	if err := validateCommand(cmd); err != nil {
		return err
	}
	return h.store.mutate(ctx, cmd.UserID, cmd.Actor, func(_ context.Context, u *domain.User) error {
		return u.ChangePassword(cmd.PasswordHash)
	})
}
