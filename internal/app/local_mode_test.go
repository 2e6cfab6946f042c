package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/digibank/internal/identity/application/commands"
	"github.com/felixgeelhaar/digibank/internal/identity/application/queries"
	"github.com/felixgeelhaar/digibank/internal/identity/domain"
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/digibank/pkg/config"
	"github.com/felixgeelhaar/digibank/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppEnv:           "test",
		LocalMode:        true,
		DatabaseDriver:   "sqlite",
		SQLitePath:       filepath.Join(t.TempDir(), "test.db"),
		UserCacheTTL:     time.Minute,
		OutboxBatchSize:  10,
		OutboxMaxRetries: 3,
	}
}

func setupLocalModeContainer(t *testing.T) (*Container, context.Context) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	container, err := NewContainer(ctx, localConfig(t), logger)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	return container, ctx
}

func registerJohn(t *testing.T, c *Container, ctx context.Context) *commands.RegisterUserResult {
	t.Helper()
	result, err := c.RegisterUserHandler.Handle(ctx, commands.RegisterUserCommand{
		Name:         "John Doe",
		PasswordHash: "$2a$10$hash",
		Email:        "john.doe@email.com",
		NationalID:   "123.456.789-09",
		Phone:        "+55 (31) 12345-6789",
		BirthDate:    time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return result
}

// TestLocalModeContainer tests that a local mode container can be created.
func TestLocalModeContainer(t *testing.T) {
	c, _ := setupLocalModeContainer(t)

	assert.Equal(t, database.DriverSQLite, c.DBConn.Driver())
	assert.Nil(t, c.RedisClient)
	assert.NotNil(t, c.InProcessBus)

	assert.NotNil(t, c.UserRepo)
	assert.NotNil(t, c.OutboxRepo)
	assert.NotNil(t, c.UnitOfWork)
	assert.NotNil(t, c.OutboxProcessor)
	assert.NotNil(t, c.Validation)

	assert.NotNil(t, c.RegisterUserHandler)
	assert.NotNil(t, c.DeleteUserHandler)
	assert.NotNil(t, c.GetUserHandler)
	assert.NotNil(t, c.ListUsersHandler)
}

func TestLocalModeUserWorkflow(t *testing.T) {
	c, ctx := setupLocalModeContainer(t)

	result := registerJohn(t, c, ctx)

	byEmail, err := c.GetUserHandler.Handle(ctx, queries.GetUserQuery{Email: "JOHN.DOE@email.com"})
	require.NoError(t, err)
	assert.Equal(t, result.UserID, byEmail.ID)
	assert.Equal(t, "Brasil", byEmail.Country)
	assert.Equal(t, 1, byEmail.Version)

	_, err = c.RegisterUserHandler.Handle(ctx, commands.RegisterUserCommand{
		Name:         "John Clone",
		PasswordHash: "$2a$10$hash",
		Email:        "john.doe@email.com",
		NationalID:   "529.982.247-25",
		Phone:        "+55 (31) 12345-6789",
		BirthDate:    time.Date(1991, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	err = c.ChangePhoneHandler.Handle(ctx, commands.ChangePhoneCommand{
		UserID: result.UserID,
		Phone:  "+44 (20) 71234-5678",
	})
	require.NoError(t, err)

	updated, err := c.GetUserHandler.Handle(ctx, queries.GetUserQuery{UserID: result.UserID})
	require.NoError(t, err)
	assert.Equal(t, "Reino Unido", updated.Country)
	assert.Equal(t, 2, updated.Version)

	page, err := c.ListUsersHandler.Handle(ctx, queries.ListUsersQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	require.NoError(t, c.DeleteUserHandler.Handle(ctx, commands.DeleteUserCommand{UserID: result.UserID}))
	_, err = c.GetUserHandler.Handle(ctx, queries.GetUserQuery{UserID: result.UserID})
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}

func TestLocalModeOutboxRelay(t *testing.T) {
	c, ctx := setupLocalModeContainer(t)

	registerJohn(t, c, ctx)

	pending, err := c.OutboxRepo.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	require.NoError(t, c.OutboxProcessor.ProcessOnce(ctx))

	pending, err = c.OutboxRepo.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)
	assert.Equal(t, uint64(1), c.OutboxProcessor.Stats().Published)
}

func TestLocalModeHealth(t *testing.T) {
	c, ctx := setupLocalModeContainer(t)

	health := c.Health.GetOverallHealth(ctx)

	assert.Equal(t, observability.HealthStatusHealthy, health.Status)
	assert.Contains(t, health.Checks, "database")
}

func TestNewContainer_RejectsUnknownDriver(t *testing.T) {
	cfg := localConfig(t)
	cfg.LocalMode = false
	cfg.DatabaseDriver = "oracle"
	cfg.DatabaseURL = "oracle://localhost"

	_, err := NewContainer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
