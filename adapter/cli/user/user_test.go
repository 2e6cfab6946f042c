package user

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/digibank/adapter/cli"
	internalApp "github.com/felixgeelhaar/digibank/internal/app"
	"github.com/felixgeelhaar/digibank/internal/identity/application/queries"
	"github.com/felixgeelhaar/digibank/internal/identity/domain"
	"github.com/felixgeelhaar/digibank/pkg/config"
)

func setupApp(t *testing.T) {
	t.Helper()

	cfg := &config.Config{
		AppEnv:           "test",
		LocalMode:        true,
		DatabaseDriver:   "sqlite",
		SQLitePath:       filepath.Join(t.TempDir(), "cli.db"),
		UserCacheTTL:     time.Minute,
		OutboxBatchSize:  10,
		OutboxMaxRetries: 3,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := internalApp.NewContainer(context.Background(), cfg, logger)
	require.NoError(t, err)

	app := cli.NewApp(c.Validation, "cli-tester")
	app.SetUserHandlers(cli.UserHandlers{
		Register:         c.RegisterUserHandler,
		Update:           c.UpdateUserHandler,
		ChangeEmail:      c.ChangeEmailHandler,
		ChangePhone:      c.ChangePhoneHandler,
		ChangeNationalID: c.ChangeNationalIDHandler,
		ChangeBirthDate:  c.ChangeBirthDateHandler,
		ChangePassword:   c.ChangePasswordHandler,
		Activate:         c.ActivateUserHandler,
		Deactivate:       c.DeactivateUserHandler,
		RecordLogin:      c.RecordLoginHandler,
		Delete:           c.DeleteUserHandler,
		Get:              c.GetUserHandler,
		List:             c.ListUsersHandler,
	})
	cli.SetApp(app)
	cli.SetJSONOutput(false)

	t.Cleanup(func() {
		cli.SetApp(nil)
		cli.SetJSONOutput(false)
		resetFlags()
		c.Close()
	})
}

func resetFlags() {
	createName, createEmail, createCPF, createPhone = "", "", "", ""
	createBirthDate, createPasswordHash, createRole = "", "", ""
	showEmail, showCPF, showPhone = "", "", ""
	listPage, listSize, listRole = 0, queries.DefaultPageSize, ""
	listActive, listInactive = false, false
	updateName, updateEmail, updateCPF, updatePhone, updateBirthDate = "", "", "", "", ""
	loginAt = ""
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetContext(context.Background())
	err := cmd.RunE(cmd, args)
	return buf.String(), err
}

func createJohn(t *testing.T) uuid.UUID {
	t.Helper()
	createName = "John Doe"
	createEmail = "john.doe@email.com"
	createCPF = "123.456.789-09"
	createPhone = "+55 (31) 12345-6789"
	createBirthDate = "1990-05-17"
	createPasswordHash = "$2a$10$hash"

	cli.SetJSONOutput(true)
	defer cli.SetJSONOutput(false)

	out, err := run(t, createCmd)
	require.NoError(t, err)

	var created map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	id, err := uuid.Parse(created["id"])
	require.NoError(t, err)
	return id
}

func TestCreateAndShow(t *testing.T) {
	setupApp(t)
	id := createJohn(t)

	t.Run("by id", func(t *testing.T) {
		out, err := run(t, showCmd, id.String())
		require.NoError(t, err)
		assert.Contains(t, out, "John Doe")
		assert.Contains(t, out, "Brasil")
		assert.Contains(t, out, "1990-05-17")
		assert.NotContains(t, out, "12345678909")
	})

	t.Run("by phone digits", func(t *testing.T) {
		showPhone = "5531123456789"
		defer func() { showPhone = "" }()

		cli.SetJSONOutput(true)
		defer cli.SetJSONOutput(false)

		out, err := run(t, showCmd)
		require.NoError(t, err)
		var dto queries.UserDTO
		require.NoError(t, json.Unmarshal([]byte(out), &dto))
		assert.Equal(t, id, dto.ID)
		assert.Equal(t, "email.com", dto.EmailDomain)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := run(t, showCmd, uuid.NewString())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := run(t, showCmd, "not-a-uuid")
		require.Error(t, err)
		assert.Equal(t, cli.ExitInvalidInput, cli.ExitCode(err))
	})
}

func TestCreate_Duplicate(t *testing.T) {
	setupApp(t)
	createJohn(t)

	createEmail = "other@email.com"
	_, err := run(t, createCmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestCreate_InvalidBirthDate(t *testing.T) {
	setupApp(t)
	createBirthDate = "17/05/1990"

	_, err := run(t, createCmd)
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidInput, cli.ExitCode(err))
}

func TestList(t *testing.T) {
	setupApp(t)

	out, err := run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "No users found.")

	createJohn(t)

	out, err = run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "john.doe@email.com")
	assert.Contains(t, out, "Page 1 of 1 (1 users)")

	listInactive = true
	out, err = run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "No users found.")

	listActive = true
	_, err = run(t, listCmd)
	require.Error(t, err)
}

func TestUpdate(t *testing.T) {
	setupApp(t)
	id := createJohn(t)

	t.Run("blank field rejects the whole update", func(t *testing.T) {
		updateName = "John Updated"
		updateEmail = ""
		updateCPF = "123.456.789-09"
		updatePhone = "+55 (31) 12345-6789"
		updateBirthDate = "1990-05-17"

		_, err := run(t, updateCmd, id.String())
		require.Error(t, err)
		assert.Equal(t, cli.ExitInvalidInput, cli.ExitCode(err))

		out, err := run(t, showCmd, id.String())
		require.NoError(t, err)
		assert.Contains(t, out, "John Doe")
	})

	t.Run("all fields", func(t *testing.T) {
		updateEmail = "john@new.com"

		out, err := run(t, updateCmd, id.String())
		require.NoError(t, err)
		assert.Contains(t, out, "User updated")

		out, err = run(t, showCmd, id.String())
		require.NoError(t, err)
		assert.Contains(t, out, "John Updated")
		assert.Contains(t, out, "john@new.com")
	})
}

func TestChangeCommands(t *testing.T) {
	setupApp(t)
	id := createJohn(t)

	_, err := run(t, changeEmailCmd, id.String(), "john@changed.com")
	require.NoError(t, err)

	_, err = run(t, changePhoneCmd, id.String(), "+44 (20) 71234-5678")
	require.NoError(t, err)

	_, err = run(t, changeBirthDateCmd, id.String(), "1985-01-31")
	require.NoError(t, err)

	_, err = run(t, changePasswordCmd, id.String(), "$2a$10$other")
	require.NoError(t, err)

	cli.SetJSONOutput(true)
	out, err := run(t, showCmd, id.String())
	cli.SetJSONOutput(false)
	require.NoError(t, err)

	var dto queries.UserDTO
	require.NoError(t, json.Unmarshal([]byte(out), &dto))
	assert.Equal(t, "john@changed.com", dto.Email)
	assert.Equal(t, "Reino Unido", dto.Country)
	assert.Equal(t, 1985, dto.BirthDate.Year())
	assert.Equal(t, "cli-tester", dto.UpdatedBy)

	_, err = run(t, changeCPFCmd, id.String(), "111.111.111-11")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidInput, cli.ExitCode(err))
}

func TestStatusAndLogin(t *testing.T) {
	setupApp(t)
	id := createJohn(t)

	out, err := run(t, deactivateCmd, id.String())
	require.NoError(t, err)
	assert.Contains(t, out, "User deactivated")

	out, err = run(t, showCmd, id.String())
	require.NoError(t, err)
	assert.Contains(t, out, "active:      false")

	_, err = run(t, activateCmd, id.String())
	require.NoError(t, err)

	loginAt = "2026-01-02T15:04:05Z"
	_, err = run(t, loginCmd, id.String())
	require.NoError(t, err)

	out, err = run(t, showCmd, id.String())
	require.NoError(t, err)
	assert.Contains(t, out, "last login:  2026-01-02T15:04:05Z")

	loginAt = "yesterday"
	_, err = run(t, loginCmd, id.String())
	require.Error(t, err)
}

func TestDelete(t *testing.T) {
	setupApp(t)
	id := createJohn(t)

	_, err := run(t, deleteCmd, id.String())
	require.NoError(t, err)

	_, err = run(t, deleteCmd, id.String())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCommandsWithoutDatabase(t *testing.T) {
	cli.SetApp(cli.NewApp(nil, "cli-tester"))
	t.Cleanup(func() { cli.SetApp(nil) })

	_, err := run(t, listCmd)
	assert.ErrorIs(t, err, cli.ErrNoDatabase)

	_, err = run(t, deleteCmd, uuid.NewString())
	assert.ErrorIs(t, err, cli.ErrNoDatabase)
}
