package user

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/digibank/adapter/cli"
	"github.com/felixgeelhaar/digibank/internal/identity/application/commands"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <user-id>",
	Short:   "Remove a user",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
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

		if err := users.Delete.Handle(cmd.Context(), commands.DeleteUserCommand{UserID: id, Actor: app.Actor}); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		done(cmd, "User deleted: %s", id)
		return nil
	},
}
