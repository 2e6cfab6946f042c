package user

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/digibank/adapter/cli"
	"github.com/felixgeelhaar/digibank/internal/identity/application/commands"
)

var (
	createName         string
	createEmail        string
	createCPF          string
	createPhone        string
	createBirthDate    string
	createPasswordHash string
	createRole         string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new user",
	Long: `Register a new user. Email and CPF must not belong to another user.
The password must already be hashed.

Examples:
  digibank user create --name "John Doe" --email john.doe@email.com \
    --cpf 123.456.789-09 --phone "+55 (31) 12345-6789" \
    --birth-date 1990-05-17 --password-hash '$2a$10$...'`,
	Aliases: []string{"register"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		users, err := app.RequireUsers()
		if err != nil {
			return err
		}

		birthDate, err := parseDate("birth_date", createBirthDate)
		if err != nil {
			return err
		}

		result, err := users.Register.Handle(cmd.Context(), commands.RegisterUserCommand{
			Name:         createName,
			PasswordHash: createPasswordHash,
			Email:        createEmail,
			NationalID:   createCPF,
			Phone:        createPhone,
			BirthDate:    birthDate,
			Role:         createRole,
			Actor:        app.Actor,
		})
		if err != nil {
			return fmt.Errorf("failed to register user: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd.OutOrStdout(), map[string]string{"id": result.UserID.String()})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "User registered: %s\n", result.UserID)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createName, "name", "", "full name")
	createCmd.Flags().StringVar(&createEmail, "email", "", "email address")
	createCmd.Flags().StringVar(&createCPF, "cpf", "", "CPF, with or without punctuation")
	createCmd.Flags().StringVar(&createPhone, "phone", "", "phone as +DDI (DDD) 99999-9999")
	createCmd.Flags().StringVar(&createBirthDate, "birth-date", "", "birth date (YYYY-MM-DD)")
	createCmd.Flags().StringVar(&createPasswordHash, "password-hash", "", "hashed password")
	createCmd.Flags().StringVar(&createRole, "role", "", "role (USER or ADMIN, default USER)")
}
