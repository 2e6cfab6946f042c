package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/google/uuid"

	"github.com/felixgeelhaar/digibank/adapter/cli"
	"github.com/felixgeelhaar/digibank/internal/identity/application/commands"
	"github.com/felixgeelhaar/digibank/internal/identity/application/queries"
)

type userRegisterInput struct {
	Name         string `json:"name" jsonschema:"required"`
	PasswordHash string `json:"password_hash" jsonschema:"required"`
	Email        string `json:"email" jsonschema:"required"`
	CPF          string `json:"cpf" jsonschema:"required"`
	Phone        string `json:"phone" jsonschema:"required"`
	BirthDate    string `json:"birth_date" jsonschema:"required"`
	Role         string `json:"role,omitempty"`
}

type userGetInput struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	CPF    string `json:"cpf,omitempty"`
	Phone  string `json:"phone,omitempty"`
}

type userListInput struct {
	Page   int    `json:"page,omitempty"`
	Size   int    `json:"size,omitempty"`
	Role   string `json:"role,omitempty"`
	Active *bool  `json:"active,omitempty"`
}

type userUpdateInput struct {
	UserID    string `json:"user_id" jsonschema:"required"`
	Name      string `json:"name" jsonschema:"required"`
	Email     string `json:"email" jsonschema:"required"`
	CPF       string `json:"cpf" jsonschema:"required"`
	Phone     string `json:"phone" jsonschema:"required"`
	BirthDate string `json:"birth_date" jsonschema:"required"`
}

type userFieldInput struct {
	UserID string `json:"user_id" jsonschema:"required"`
	Value  string `json:"value" jsonschema:"required"`
}

type userIDInput struct {
	UserID string `json:"user_id" jsonschema:"required"`
}

type userLoginInput struct {
	UserID string `json:"user_id" jsonschema:"required"`
	At     string `json:"at,omitempty"`
}

type userChangeResult struct {
	UserID  uuid.UUID `json:"user_id"`
	Changed string    `json:"changed"`
}

func registerUserTools(srv *mcp.Server, deps ToolDependencies) error {
	srv.Tool("user.register").
		Description("Register a new user. Email and CPF must be unused and birth_date uses YYYY-MM-DD").
		Handler(instrument(deps, "user.register", registerUser(deps)))

	srv.Tool("user.get").
		Description("Find a user by user_id or by exactly one of email, cpf or phone").
		Handler(instrument(deps, "user.get", getUser(deps)))

	srv.Tool("user.list").
		Description("List users one page at a time. Pages start at 0 and hold at most 100 users").
		Handler(instrument(deps, "user.list", listUsers(deps)))

	srv.Tool("user.update").
		Description("Replace name, email, cpf, phone and birth date together. Nothing changes if any value is blank or invalid").
		Handler(instrument(deps, "user.update", updateUser(deps)))

	srv.Tool("user.change_email").
		Description("Change the email of a user").
		Handler(instrument(deps, "user.change_email", changeField(deps, "email",
			func(ctx context.Context, users *cli.UserHandlers, id uuid.UUID, value, actor string) error {
				return users.ChangeEmail.Handle(ctx, commands.ChangeEmailCommand{UserID: id, Email: value, Actor: actor})
			})))

	srv.Tool("user.change_phone").
		Description("Change the phone number of a user").
		Handler(instrument(deps, "user.change_phone", changeField(deps, "phone",
			func(ctx context.Context, users *cli.UserHandlers, id uuid.UUID, value, actor string) error {
				return users.ChangePhone.Handle(ctx, commands.ChangePhoneCommand{UserID: id, Phone: value, Actor: actor})
			})))

	srv.Tool("user.change_cpf").
		Description("Change the CPF of a user").
		Handler(instrument(deps, "user.change_cpf", changeField(deps, "cpf",
			func(ctx context.Context, users *cli.UserHandlers, id uuid.UUID, value, actor string) error {
				return users.ChangeNationalID.Handle(ctx, commands.ChangeNationalIDCommand{UserID: id, NationalID: value, Actor: actor})
			})))

	srv.Tool("user.change_birth_date").
		Description("Change the birth date of a user (YYYY-MM-DD)").
		Handler(instrument(deps, "user.change_birth_date", changeField(deps, "birth_date",
			func(ctx context.Context, users *cli.UserHandlers, id uuid.UUID, value, actor string) error {
				birthDate, err := parseDate("birth_date", value)
				if err != nil {
					return err
				}
				return users.ChangeBirthDate.Handle(ctx, commands.ChangeBirthDateCommand{UserID: id, BirthDate: birthDate, Actor: actor})
			})))

	srv.Tool("user.change_password").
		Description("Replace the password hash of a user").
		Handler(instrument(deps, "user.change_password", changeField(deps, "password",
			func(ctx context.Context, users *cli.UserHandlers, id uuid.UUID, value, actor string) error {
				return users.ChangePassword.Handle(ctx, commands.ChangePasswordCommand{UserID: id, PasswordHash: value, Actor: actor})
			})))

	srv.Tool("user.activate").
		Description("Enable a user account").
		Handler(instrument(deps, "user.activate", setStatus(deps, "active",
			func(ctx context.Context, users *cli.UserHandlers, cmd commands.SetUserStatusCommand) error {
				return users.Activate.Handle(ctx, cmd)
			})))

	srv.Tool("user.deactivate").
		Description("Disable a user account").
		Handler(instrument(deps, "user.deactivate", setStatus(deps, "inactive",
			func(ctx context.Context, users *cli.UserHandlers, cmd commands.SetUserStatusCommand) error {
				return users.Deactivate.Handle(ctx, cmd)
			})))

	srv.Tool("user.record_login").
		Description("Record a successful login. at uses RFC 3339 and defaults to now").
		Handler(instrument(deps, "user.record_login", recordLogin(deps)))

	srv.Tool("user.delete").
		Description("Remove a user").
		Handler(instrument(deps, "user.delete", deleteUser(deps)))

	return nil
}

func registerUser(deps ToolDependencies) func(context.Context, userRegisterInput) (*commands.RegisterUserResult, error) {
	return func(ctx context.Context, input userRegisterInput) (*commands.RegisterUserResult, error) {
		users, err := deps.App.RequireUsers()
		if err != nil {
			return nil, err
		}
		birthDate, err := parseDate("birth_date", input.BirthDate)
		if err != nil {
			return nil, err
		}
		return users.Register.Handle(ctx, commands.RegisterUserCommand{
			Name:         input.Name,
			PasswordHash: input.PasswordHash,
			Email:        input.Email,
			NationalID:   input.CPF,
			Phone:        input.Phone,
			BirthDate:    birthDate,
			Role:         input.Role,
			Actor:        deps.App.Actor,
		})
	}
}

func getUser(deps ToolDependencies) func(context.Context, userGetInput) (*queries.UserDTO, error) {
	return func(ctx context.Context, input userGetInput) (*queries.UserDTO, error) {
		users, err := deps.App.RequireUsers()
		if err != nil {
			return nil, err
		}
		id, err := parseOptionalUserID(input.UserID)
		if err != nil {
			return nil, err
		}
		return users.Get.Handle(ctx, queries.GetUserQuery{
			UserID:     id,
			Email:      input.Email,
			NationalID: input.CPF,
			Phone:      input.Phone,
		})
	}
}

func listUsers(deps ToolDependencies) func(context.Context, userListInput) (*queries.ListUsersResult, error) {
	return func(ctx context.Context, input userListInput) (*queries.ListUsersResult, error) {
		users, err := deps.App.RequireUsers()
		if err != nil {
			return nil, err
		}
		return users.List.Handle(ctx, queries.ListUsersQuery{
			Page:   input.Page,
			Size:   input.Size,
			Role:   input.Role,
			Active: input.Active,
		})
	}
}

func updateUser(deps ToolDependencies) func(context.Context, userUpdateInput) (*userChangeResult, error) {
	return func(ctx context.Context, input userUpdateInput) (*userChangeResult, error) {
		users, err := deps.App.RequireUsers()
		if err != nil {
			return nil, err
		}
		id, err := parseUserID(input.UserID)
		if err != nil {
			return nil, err
		}
		birthDate, err := parseDate("birth_date", input.BirthDate)
		if err != nil {
			return nil, err
		}
		if err := users.Update.Handle(ctx, commands.UpdateUserCommand{
			UserID:     id,
			Name:       input.Name,
			Email:      input.Email,
			NationalID: input.CPF,
			Phone:      input.Phone,
			BirthDate:  birthDate,
			Actor:      deps.App.Actor,
		}); err != nil {
			return nil, err
		}
		return &userChangeResult{UserID: id, Changed: "profile"}, nil
	}
}

type fieldChange func(ctx context.Context, users *cli.UserHandlers, id uuid.UUID, value, actor string) error

func changeField(deps ToolDependencies, field string, apply fieldChange) func(context.Context, userFieldInput) (*userChangeResult, error) {
	return func(ctx context.Context, input userFieldInput) (*userChangeResult, error) {
		users, err := deps.App.RequireUsers()
		if err != nil {
			return nil, err
		}
		id, err := parseUserID(input.UserID)
		if err != nil {
			return nil, err
		}
		if err := apply(ctx, users, id, input.Value, deps.App.Actor); err != nil {
			return nil, err
		}
		return &userChangeResult{UserID: id, Changed: field}, nil
	}
}

type statusChange func(ctx context.Context, users *cli.UserHandlers, cmd commands.SetUserStatusCommand) error

func setStatus(deps ToolDependencies, status string, apply statusChange) func(context.Context, userIDInput) (map[string]any, error) {
	return func(ctx context.Context, input userIDInput) (map[string]any, error) {
		users, err := deps.App.RequireUsers()
		if err != nil {
			return nil, err
		}
		id, err := parseUserID(input.UserID)
		if err != nil {
			return nil, err
		}
		if err := apply(ctx, users, commands.SetUserStatusCommand{UserID: id, Actor: deps.App.Actor}); err != nil {
			return nil, err
		}
		return map[string]any{"user_id": id, "status": status}, nil
	}
}

func recordLogin(deps ToolDependencies) func(context.Context, userLoginInput) (map[string]any, error) {
	return func(ctx context.Context, input userLoginInput) (map[string]any, error) {
		users, err := deps.App.RequireUsers()
		if err != nil {
			return nil, err
		}
		id, err := parseUserID(input.UserID)
		if err != nil {
			return nil, err
		}
		at, err := parseTimestamp("at", input.At)
		if err != nil {
			return nil, err
		}
		if err := users.RecordLogin.Handle(ctx, commands.RecordLoginCommand{UserID: id, At: at}); err != nil {
			return nil, err
		}
		return map[string]any{"user_id": id, "login_recorded": true}, nil
	}
}

func deleteUser(deps ToolDependencies) func(context.Context, userIDInput) (map[string]any, error) {
	return func(ctx context.Context, input userIDInput) (map[string]any, error) {
		users, err := deps.App.RequireUsers()
		if err != nil {
			return nil, err
		}
		id, err := parseUserID(input.UserID)
		if err != nil {
			return nil, err
		}
		if err := users.Delete.Handle(ctx, commands.DeleteUserCommand{UserID: id, Actor: deps.App.Actor}); err != nil {
			return nil, err
		}
		return map[string]any{"user_id": id, "deleted": true}, nil
	}
}
