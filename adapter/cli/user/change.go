package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/digibank/adapter/cli"
	"github.com/felixgeelhaar/digibank/internal/identity/application/commands"
)

// changeFunc applies a single-field change for the given user.
type changeFunc func(ctx context.Context, users *cli.UserHandlers, id uuid.UUID, value, actor string) error

func newChangeCmd(use, field, short, example string, apply changeFunc) *cobra.Command {
	return &cobra.Command{
		Use:     use + " <user-id> <" + field + ">",
		Short:   short,
		Example: example,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := cli.GetApp()
			users, err := app.RequireUsers()
			if err != nil {
				return err
			}

			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			if err := apply(cmd.Context(), users, id, args[1], app.Actor); err != nil {
				return fmt.Errorf("failed to change %s: %w", field, err)
			}

			done(cmd, "User %s: %s changed", id, field)
			return nil
		},
	}
}

var changeEmailCmd = newChangeCmd("change-email", "email", "Change a user's email",
	"  digibank user change-email <user-id> john@new.com",
	func(ctx context.Context, users *cli.UserHandlers, id uuid.UUID, value, actor string) error {
		return users.ChangeEmail.Handle(ctx, commands.ChangeEmailCommand{UserID: id, Email: value, Actor: actor})
	})

var changePhoneCmd = newChangeCmd("change-phone", "phone", "Change a user's phone number",
	`  digibank user change-phone <user-id> "+44 (20) 71234-5678"`,
	func(ctx context.Context, users *cli.UserHandlers, id uuid.UUID, value, actor string) error {
		return users.ChangePhone.Handle(ctx, commands.ChangePhoneCommand{UserID: id, Phone: value, Actor: actor})
	})

var changeCPFCmd = newChangeCmd("change-cpf", "cpf", "Change a user's CPF",
	"  digibank user change-cpf <user-id> 987.654.321-00",
	func(ctx context.Context, users *cli.UserHandlers, id uuid.UUID, value, actor string) error {
		return users.ChangeNationalID.Handle(ctx, commands.ChangeNationalIDCommand{UserID: id, NationalID: value, Actor: actor})
	})

var changeBirthDateCmd = newChangeCmd("change-birth-date", "birth-date", "Change a user's birth date",
	"  digibank user change-birth-date <user-id> 1990-05-17",
	func(ctx context.Context, users *cli.UserHandlers, id uuid.UUID, value, actor string) error {
		birthDate, err := parseDate("birth_date", value)
		if err != nil {
			return err
		}
		return users.ChangeBirthDate.Handle(ctx, commands.ChangeBirthDateCommand{UserID: id, BirthDate: birthDate, Actor: actor})
	})

var changePasswordCmd = newChangeCmd("change-password", "password-hash", "Replace a user's password hash",
	"  digibank user change-password <user-id> '$2a$10$...'",
	func(ctx context.Context, users *cli.UserHandlers, id uuid.UUID, value, actor string) error {
		return users.ChangePassword.Handle(ctx, commands.ChangePasswordCommand{UserID: id, PasswordHash: value, Actor: actor})
	})
