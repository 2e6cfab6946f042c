package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/digibank/internal/identity/domain"
	sharedDomain "github.com/felixgeelhaar/digibank/internal/shared/domain"
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var birthDate = time.Date(1990, time.May, 17, 0, 0, 0, 0, time.UTC)

func setupUserRepo(t *testing.T) (*UserRepository, database.Connection) {
	t.Helper()
	ctx := context.Background()
	conn, err := sqlite.Open(ctx, database.Config{SQLitePath: database.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.Up(ctx, conn, "", nil))
	return NewUserRepository(conn), conn
}

func newUser(t *testing.T, email, nationalID string, role domain.Role) *domain.User {
	t.Helper()
	u, err := domain.CreateUser("John Doe", "hash", email, nationalID, "+55 (31) 12345-6789", birthDate, role)
	require.NoError(t, err)
	u.StampActor("admin")
	return u
}

func TestUserRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupUserRepo(t)
	user := newUser(t, "john.doe@email.com", "12345678909", domain.RoleUser)

	require.NoError(t, repo.Save(ctx, user))
	assert.Equal(t, 1, user.Version())

	found, err := repo.FindByID(ctx, user.ID())
	require.NoError(t, err)
	assert.Equal(t, user.Snapshot(), found.Snapshot())

	byEmail, err := repo.FindByEmail(ctx, user.Email())
	require.NoError(t, err)
	assert.Equal(t, user.ID(), byEmail.ID())

	byNationalID, err := repo.FindByNationalID(ctx, user.NationalID())
	require.NoError(t, err)
	assert.Equal(t, user.ID(), byNationalID.ID())

	byPhone, err := repo.FindByPhone(ctx, user.Phone())
	require.NoError(t, err)
	assert.Equal(t, user.ID(), byPhone.ID())
}

func TestUserRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupUserRepo(t)

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	email, err := domain.NewEmail("ghost@email.com")
	require.NoError(t, err)
	_, err = repo.FindByEmail(ctx, email)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), domain.ErrUserNotFound)
}

func TestUserRepository_UpdateBumpsVersion(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupUserRepo(t)
	user := newUser(t, "john.doe@email.com", "12345678909", domain.RoleUser)
	require.NoError(t, repo.Save(ctx, user))

	loaded, err := repo.FindByID(ctx, user.ID())
	require.NoError(t, err)
	require.NoError(t, loaded.ChangeEmail("john.smith@email.com"))
	loaded.RecordLogin(time.Date(2026, time.January, 2, 3, 4, 5, 6, time.UTC))
	loaded.Deactivate()
	require.NoError(t, repo.Save(ctx, loaded))
	assert.Equal(t, 2, loaded.Version())

	reloaded, err := repo.FindByID(ctx, user.ID())
	require.NoError(t, err)
	assert.Equal(t, "john.smith@email.com", reloaded.Email().String())
	assert.False(t, reloaded.IsActive())
	require.NotNil(t, reloaded.LastLogin())
	assert.Equal(t, 6, reloaded.LastLogin().Nanosecond())
	assert.Equal(t, 2, reloaded.Version())
}

func TestUserRepository_OptimisticLock(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupUserRepo(t)
	user := newUser(t, "john.doe@email.com", "12345678909", domain.RoleUser)
	require.NoError(t, repo.Save(ctx, user))

	first, err := repo.FindByID(ctx, user.ID())
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, user.ID())
	require.NoError(t, err)

	require.NoError(t, first.ChangePassword("first"))
	require.NoError(t, repo.Save(ctx, first))

	require.NoError(t, second.ChangePassword("second"))
	assert.ErrorIs(t, repo.Save(ctx, second), sharedDomain.ErrOptimisticLock)
}

func TestUserRepository_UniqueConstraints(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupUserRepo(t)
	require.NoError(t, repo.Save(ctx, newUser(t, "john.doe@email.com", "12345678909", domain.RoleUser)))

	err := repo.Save(ctx, newUser(t, "john.doe@email.com", "52998224725", domain.RoleUser))
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	err = repo.Save(ctx, newUser(t, "jane.roe@email.com", "12345678909", domain.RoleUser))
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	exists, err := repo.ExistsByEmail(ctx, mustEmail(t, "john.doe@email.com"))
	require.NoError(t, err)
	assert.True(t, exists)

	nationalID, err := domain.NewNationalID("52998224725")
	require.NoError(t, err)
	exists, err = repo.ExistsByNationalID(ctx, nationalID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_List(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupUserRepo(t)

	admin := newUser(t, "admin@email.com", "12345678909", domain.RoleAdmin)
	first := newUser(t, "first@email.com", "52998224725", domain.RoleUser)
	second := newUser(t, "second@email.com", "32203478004", domain.RoleUser)
	second.Deactivate()
	for _, u := range []*domain.User{admin, first, second} {
		require.NoError(t, repo.Save(ctx, u))
	}

	all, total, err := repo.List(ctx, domain.UserFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, all, 3)

	users, total, err := repo.List(ctx, domain.UserFilter{Roles: []domain.Role{domain.RoleUser}, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, users, 1)

	next, _, err := repo.List(ctx, domain.UserFilter{Roles: []domain.Role{domain.RoleUser}, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.NotEqual(t, users[0].ID(), next[0].ID())

	active := false
	inactive, total, err := repo.List(ctx, domain.UserFilter{Active: &active})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, inactive, 1)
	assert.Equal(t, second.ID(), inactive[0].ID())
}

func TestUserRepository_DeleteInsideUnitOfWork(t *testing.T) {
	ctx := context.Background()
	repo, conn := setupUserRepo(t)
	user := newUser(t, "john.doe@email.com", "12345678909", domain.RoleUser)
	require.NoError(t, repo.Save(ctx, user))

	uow := database.NewUnitOfWork(conn)
	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(txCtx, user.ID()))
	require.NoError(t, uow.Rollback(txCtx))

	_, err = repo.FindByID(ctx, user.ID())
	require.NoError(t, err)

	txCtx, err = uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(txCtx, user.ID()))
	require.NoError(t, uow.Commit(txCtx))

	_, err = repo.FindByID(ctx, user.ID())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func mustEmail(t *testing.T, raw string) domain.Email {
	t.Helper()
	email, err := domain.NewEmail(raw)
	require.NoError(t, err)
	return email
}
