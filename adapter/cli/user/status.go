package user

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/digibank/adapter/cli"
	"github.com/felixgeelhaar/digibank/internal/identity/application/commands"
)

var activateCmd = &cobra.Command{
	Use:   "activate <user-id>",
	Short: "Enable a user account",
	Args:  cobra.ExactArgs(1),
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

		if err := users.Activate.Handle(cmd.Context(), commands.SetUserStatusCommand{UserID: id, Actor: app.Actor}); err != nil {
			return fmt.Errorf("failed to activate user: %w", err)
		}
		done(cmd, "User activated: %s", id)
		return nil
	},
}

var deactivateCmd = &cobra.Command{
	Use:   "deactivate <user-id>",
	Short: "Disable a user account",
	Args:  cobra.ExactArgs(1),
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

		if err := users.Deactivate.Handle(cmd.Context(), commands.SetUserStatusCommand{UserID: id, Actor: app.Actor}); err != nil {
			return fmt.Errorf("failed to deactivate user: %w", err)
		}
		done(cmd, "User deactivated: %s", id)
		return nil
	},
}

var loginAt string

var loginCmd = &cobra.Command{
	Use:   "login <user-id>",
	Short: "Record a successful login",
	Long: `Record a successful login for a user. The timestamp defaults to now.

Examples:
  digibank user login <user-id>
  digibank user login <user-id> --at 2026-01-02T15:04:05Z`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := cli.GetApp().RequireUsers()
		if err != nil {
			return err
		}
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}

		var at time.Time
		if loginAt != "" {
			if at, err = time.Parse(time.RFC3339, loginAt); err != nil {
				return fmt.Errorf("invalid --at value %q: %w", loginAt, err)
			}
		}

		if err := users.RecordLogin.Handle(cmd.Context(), commands.RecordLoginCommand{UserID: id, At: at}); err != nil {
			return fmt.Errorf("failed to record login: %w", err)
		}
		done(cmd, "Login recorded: %s", id)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginAt, "at", "", "login time (RFC 3339)")
}
