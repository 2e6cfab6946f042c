package user

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/digibank/adapter/cli"
	"github.com/felixgeelhaar/digibank/internal/identity/application/queries"
)

var (
	showEmail string
	showCPF   string
	showPhone string
)

var showCmd = &cobra.Command{
	Use:   "show [user-id]",
	Short: "Show a user",
	Long: `Show one user, looked up by id or by exactly one of --email, --cpf or --phone.

Examples:
  digibank user show 550e8400-e29b-41d4-a716-446655440000
  digibank user show --email john.doe@email.com
  digibank user show --cpf 12345678909
  digibank user show --phone 5531123456789`,
	Aliases: []string{"get"},
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := cli.GetApp().RequireUsers()
		if err != nil {
			return err
		}

		query := queries.GetUserQuery{
			Email:      showEmail,
			NationalID: showCPF,
			Phone:      showPhone,
		}
		if len(args) == 1 {
			if query.UserID, err = parseUserID(args[0]); err != nil {
				return err
			}
		}

		u, err := users.Get.Handle(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("failed to find user: %w", err)
		}
		return printUser(cmd.OutOrStdout(), u)
	},
}

func init() {
	showCmd.Flags().StringVar(&showEmail, "email", "", "look up by email")
	showCmd.Flags().StringVar(&showCPF, "cpf", "", "look up by CPF")
	showCmd.Flags().StringVar(&showPhone, "phone", "", "look up by phone, masked or digits only")
}
