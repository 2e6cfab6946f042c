package user

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/digibank/adapter/cli"
	"github.com/felixgeelhaar/digibank/internal/identity/application/commands"
)

var (
	updateName      string
	updateEmail     string
	updateCPF       string
	updatePhone     string
	updateBirthDate string
)

var updateCmd = &cobra.Command{
	Use:   "update <user-id>",
	Short: "Replace a user's profile",
	Long: `Replace name, email, CPF, phone and birth date in one step.
Every field is required. If any value is blank or invalid nothing changes.

Examples:
  digibank user update 550e8400-e29b-41d4-a716-446655440000 --name "John Doe" \
    --email john@new.com --cpf 123.456.789-09 --phone "+55 (31) 12345-6789" \
    --birth-date 1990-05-17`,
	Args: cobra.ExactArgs(1),
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
		birthDate, err := parseDate("birth_date", updateBirthDate)
		if err != nil {
			return err
		}

		err = users.Update.Handle(cmd.Context(), commands.UpdateUserCommand{
			UserID:     id,
			Name:       updateName,
			Email:      updateEmail,
			NationalID: updateCPF,
			Phone:      updatePhone,
			BirthDate:  birthDate,
			Actor:      app.Actor,
		})
		if err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		done(cmd, "User updated: %s", id)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateName, "name", "", "full name")
	updateCmd.Flags().StringVar(&updateEmail, "email", "", "email address")
	updateCmd.Flags().StringVar(&updateCPF, "cpf", "", "CPF")
	updateCmd.Flags().StringVar(&updatePhone, "phone", "", "phone as +DDI (DDD) 99999-9999")
	updateCmd.Flags().StringVar(&updateBirthDate, "birth-date", "", "birth date (YYYY-MM-DD)")
}
