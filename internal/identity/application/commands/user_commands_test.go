package commands

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/felixgeelhaar/digibank/internal/identity/domain"
	sharedDomain "github.com/felixgeelhaar/digibank/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdateUserHandler_Handle(t *testing.T) {
	t.Run("replaces every field", func(t *testing.T) {
		f := newFixture()
		handler := NewUpdateUserHandler(f.userRepo, f.outboxRepo, f.uow)
		u := storedUser(t)

		f.expectCommit()
		f.userRepo.On("FindByID", f.txCtx, u.ID()).Return(u, nil)
		f.userRepo.On("FindByEmail", f.txCtx, mock.Anything).Return(nil, domain.ErrUserNotFound)
		f.userRepo.On("FindByNationalID", f.txCtx, mock.Anything).Return(nil, domain.ErrUserNotFound)
		f.userRepo.On("Save", f.txCtx, u).Return(nil)
		f.expectOutbox()

		err := handler.Handle(f.ctx, UpdateUserCommand{
			UserID:     u.ID(),
			Name:       "John Smith",
			Email:      "john.smith@email.com",
			NationalID: "529.982.247-25",
			Phone:      "+55 (11) 9999-8888",
			BirthDate:  birthDate.AddDate(1, 0, 0),
			Actor:      "admin",
		})

		require.NoError(t, err)
		assert.Equal(t, "John Smith", u.Name())
		assert.Equal(t, "admin", u.UpdatedBy())
		assert.Empty(t, u.DomainEvents())
		require.Len(t, f.saved, 1)
		assert.Equal(t, domain.RoutingKeyUserUpdated, f.saved[0].RoutingKey)
		f.assertExpectations(t)
	})

	t.Run("rejects an email held by another user", func(t *testing.T) {
		f := newFixture()
		handler := NewUpdateUserHandler(f.userRepo, f.outboxRepo, f.uow)
		u := storedUser(t)

		f.expectRollback()
		f.userRepo.On("FindByID", f.txCtx, u.ID()).Return(u, nil)
		f.userRepo.On("FindByEmail", f.txCtx, mock.Anything).Return(otherUser(t), nil)

		err := handler.Handle(f.ctx, UpdateUserCommand{
			UserID:     u.ID(),
			Name:       "John Doe",
			Email:      "jane.roe@email.com",
			NationalID: "12345678909",
			Phone:      "+55 (31) 12345-6789",
			BirthDate:  birthDate,
		})

		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
		f.userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("rejects blank values without touching the user", func(t *testing.T) {
		f := newFixture()
		handler := NewUpdateUserHandler(f.userRepo, f.outboxRepo, f.uow)
		u := storedUser(t)

		f.expectRollback()
		f.userRepo.On("FindByID", f.txCtx, u.ID()).Return(u, nil)

		err := handler.Handle(f.ctx, UpdateUserCommand{UserID: u.ID(), Name: "X"})

		assert.ErrorIs(t, err, sharedDomain.ErrInvalidField)
		assert.Equal(t, "John Doe", u.Name())
		f.assertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture()
		handler := NewUpdateUserHandler(f.userRepo, f.outboxRepo, f.uow)
		id := uuid.New()

		f.expectRollback()
		f.userRepo.On("FindByID", f.txCtx, id).Return(nil, domain.ErrUserNotFound)

		err := handler.Handle(f.ctx, UpdateUserCommand{UserID: id})

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		f.assertExpectations(t)
	})
}

func TestChangeHandlers_EmitFieldEvents(t *testing.T) {
	tests := []struct {
		name       string
		routingKey string
		run        func(f *fixture, id uuid.UUID) error
		check      func(t *testing.T, u *domain.User)
	}{
		{
			name:       "phone",
			routingKey: domain.RoutingKeyUserPhoneChanged,
			run: func(f *fixture, id uuid.UUID) error {
				return NewChangePhoneHandler(f.userRepo, f.outboxRepo, f.uow).
					Handle(f.ctx, ChangePhoneCommand{UserID: id, Phone: "+55 (11) 9999-8888"})
			},
			check: func(t *testing.T, u *domain.User) { assert.Equal(t, "551199998888", u.Phone().String()) },
		},
		{
			name:       "birth date",
			routingKey: domain.RoutingKeyUserBirthDateChanged,
			run: func(f *fixture, id uuid.UUID) error {
				return NewChangeBirthDateHandler(f.userRepo, f.outboxRepo, f.uow).
					Handle(f.ctx, ChangeBirthDateCommand{UserID: id, BirthDate: birthDate.AddDate(0, 1, 0)})
			},
			check: func(t *testing.T, u *domain.User) { assert.Equal(t, time.June, u.BirthDate().Month()) },
		},
		{
			name:       "password",
			routingKey: domain.RoutingKeyUserPasswordChanged,
			run: func(f *fixture, id uuid.UUID) error {
				return NewChangePasswordHandler(f.userRepo, f.outboxRepo, f.uow).
					Handle(f.ctx, ChangePasswordCommand{UserID: id, PasswordHash: "new-hash"})
			},
			check: func(t *testing.T, u *domain.User) { assert.Equal(t, "new-hash", u.PasswordHash()) },
		},
		{
			name:       "deactivate",
			routingKey: domain.RoutingKeyUserDeactivated,
			run: func(f *fixture, id uuid.UUID) error {
				return NewDeactivateUserHandler(f.userRepo, f.outboxRepo, f.uow).
					Handle(f.ctx, SetUserStatusCommand{UserID: id})
			},
			check: func(t *testing.T, u *domain.User) { assert.False(t, u.IsActive()) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			u := storedUser(t)

			f.expectCommit()
			f.userRepo.On("FindByID", f.txCtx, u.ID()).Return(u, nil)
			f.userRepo.On("Save", f.txCtx, u).Return(nil)
			f.expectOutbox()

			require.NoError(t, tt.run(f, u.ID()))

			tt.check(t, u)
			assert.Equal(t, "system", u.UpdatedBy())
			require.Len(t, f.saved, 1)
			assert.Equal(t, tt.routingKey, f.saved[0].RoutingKey)
			f.assertExpectations(t)
		})
	}
}

func TestChangeEmailHandler_Handle(t *testing.T) {
	t.Run("checks uniqueness of the new email", func(t *testing.T) {
		f := newFixture()
		handler := NewChangeEmailHandler(f.userRepo, f.outboxRepo, f.uow)
		u := storedUser(t)

		f.expectCommit()
		f.userRepo.On("FindByID", f.txCtx, u.ID()).Return(u, nil)
		f.userRepo.On("FindByEmail", f.txCtx, mock.MatchedBy(func(e domain.Email) bool {
			return e.String() == "john.smith@email.com"
		})).Return(nil, domain.ErrUserNotFound)
		f.userRepo.On("FindByNationalID", f.txCtx, u.NationalID()).Return(u, nil)
		f.userRepo.On("Save", f.txCtx, u).Return(nil)
		f.expectOutbox()

		err := handler.Handle(f.ctx, ChangeEmailCommand{UserID: u.ID(), Email: "john.smith@email.com"})

		require.NoError(t, err)
		require.Len(t, f.saved, 1)
		assert.Equal(t, domain.RoutingKeyUserEmailChanged, f.saved[0].RoutingKey)
		f.assertExpectations(t)
	})

	t.Run("same email writes nothing", func(t *testing.T) {
		f := newFixture()
		handler := NewChangeEmailHandler(f.userRepo, f.outboxRepo, f.uow)
		u := storedUser(t)

		f.expectCommit()
		f.userRepo.On("FindByID", f.txCtx, u.ID()).Return(u, nil)

		err := handler.Handle(f.ctx, ChangeEmailCommand{UserID: u.ID(), Email: "john.doe@email.com"})

		require.NoError(t, err)
		f.userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.outboxRepo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("invalid email", func(t *testing.T) {
		f := newFixture()
		handler := NewChangeEmailHandler(f.userRepo, f.outboxRepo, f.uow)
		u := storedUser(t)

		f.expectRollback()
		f.userRepo.On("FindByID", f.txCtx, u.ID()).Return(u, nil)

		err := handler.Handle(f.ctx, ChangeEmailCommand{UserID: u.ID(), Email: "nope"})

		assert.ErrorIs(t, err, sharedDomain.ErrInvalidEmail)
		f.assertExpectations(t)
	})
}

func TestChangeNationalIDHandler_RejectsTakenNationalID(t *testing.T) {
	f := newFixture()
	handler := NewChangeNationalIDHandler(f.userRepo, f.outboxRepo, f.uow)
	u := storedUser(t)

	f.expectRollback()
	f.userRepo.On("FindByID", f.txCtx, u.ID()).Return(u, nil)
	f.userRepo.On("FindByEmail", f.txCtx, u.Email()).Return(u, nil)
	f.userRepo.On("FindByNationalID", f.txCtx, mock.Anything).Return(otherUser(t), nil)

	err := handler.Handle(f.ctx, ChangeNationalIDCommand{UserID: u.ID(), NationalID: "529.982.247-25"})

	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	f.assertExpectations(t)
}

func TestActivateUserHandler_AlreadyActive(t *testing.T) {
	f := newFixture()
	handler := NewActivateUserHandler(f.userRepo, f.outboxRepo, f.uow)
	u := storedUser(t)

	f.expectCommit()
	f.userRepo.On("FindByID", f.txCtx, u.ID()).Return(u, nil)

	require.NoError(t, handler.Handle(f.ctx, SetUserStatusCommand{UserID: u.ID()}))

	f.userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestRecordLoginHandler_Handle(t *testing.T) {
	f := newFixture()
	handler := NewRecordLoginHandler(f.userRepo, f.outboxRepo, f.uow)
	loginAt := time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC)
	handler.now = func() time.Time { return loginAt }
	u := storedUser(t)

	f.expectCommit()
	f.userRepo.On("FindByID", f.txCtx, u.ID()).Return(u, nil)
	f.userRepo.On("Save", f.txCtx, u).Return(nil)
	f.expectOutbox()

	require.NoError(t, handler.Handle(f.ctx, RecordLoginCommand{UserID: u.ID()}))

	require.NotNil(t, u.LastLogin())
	assert.True(t, loginAt.Equal(*u.LastLogin()))
	require.Len(t, f.saved, 1)
	assert.Equal(t, domain.RoutingKeyUserLoggedIn, f.saved[0].RoutingKey)

	var metadata sharedDomain.EventMetadata
	require.NoError(t, json.Unmarshal(f.saved[0].Metadata, &metadata))
	assert.Equal(t, u.ID().String(), metadata.Actor)
	f.assertExpectations(t)
}

func TestDeleteUserHandler_Handle(t *testing.T) {
	t.Run("deletes and records the event", func(t *testing.T) {
		f := newFixture()
		handler := NewDeleteUserHandler(f.userRepo, f.outboxRepo, f.uow)
		u := storedUser(t)

		f.expectCommit()
		f.userRepo.On("FindByID", f.txCtx, u.ID()).Return(u, nil)
		f.userRepo.On("Delete", f.txCtx, u.ID()).Return(nil)
		f.expectOutbox()

		require.NoError(t, handler.Handle(f.ctx, DeleteUserCommand{UserID: u.ID(), Actor: "admin"}))

		require.Len(t, f.saved, 1)
		assert.Equal(t, domain.RoutingKeyUserDeleted, f.saved[0].RoutingKey)
		assert.Equal(t, u.ID(), f.saved[0].AggregateID)
		f.assertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture()
		handler := NewDeleteUserHandler(f.userRepo, f.outboxRepo, f.uow)
		id := uuid.New()

		f.expectRollback()
		f.userRepo.On("FindByID", f.txCtx, id).Return(nil, domain.ErrUserNotFound)

		err := handler.Handle(f.ctx, DeleteUserCommand{UserID: id})

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		f.userRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("requires a user id", func(t *testing.T) {
		f := newFixture()
		handler := NewDeleteUserHandler(f.userRepo, f.outboxRepo, f.uow)

		err := handler.Handle(f.ctx, DeleteUserCommand{})

		assert.ErrorIs(t, err, sharedDomain.ErrInvalidField)
		f.uow.AssertNotCalled(t, "Begin", mock.Anything)
	})
}
