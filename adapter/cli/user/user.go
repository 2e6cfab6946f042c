package user

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/digibank/adapter/cli"
	"github.com/felixgeelhaar/digibank/internal/identity/application/queries"
	sharedDomain "github.com/felixgeelhaar/digibank/internal/shared/domain"
)

const dateLayout = "2006-01-02"

// Cmd is the user command group
var Cmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
	Long:  `Register, inspect, update and remove Digibank users.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(changeEmailCmd)
	Cmd.AddCommand(changePhoneCmd)
	Cmd.AddCommand(changeCPFCmd)
	Cmd.AddCommand(changeBirthDateCmd)
	Cmd.AddCommand(changePasswordCmd)
	Cmd.AddCommand(activateCmd)
	Cmd.AddCommand(deactivateCmd)
	Cmd.AddCommand(loginCmd)
	Cmd.AddCommand(deleteCmd)
}

func parseUserID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, sharedDomain.NewValidationError(sharedDomain.ErrInvalidField, "user_id", "must be a UUID")
	}
	return id, nil
}

// parseDate reads a YYYY-MM-DD flag. An empty value yields the zero time.
func parseDate(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, sharedDomain.NewValidationError(sharedDomain.ErrInvalidField, field, "must use the YYYY-MM-DD format")
	}
	return t, nil
}

func printUser(w io.Writer, u *queries.UserDTO) error {
	if cli.JSONOutput() {
		return cli.PrintJSON(w, u)
	}
	fmt.Fprintf(w, "User %s\n", u.ID)
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "  name:        %s\n", u.Name)
	fmt.Fprintf(w, "  email:       %s\n", u.Email)
	fmt.Fprintf(w, "  cpf:         %s\n", u.NationalID)
	fmt.Fprintf(w, "  phone:       %s (%s)\n", u.Phone, u.Country)
	fmt.Fprintf(w, "  birth date:  %s\n", u.BirthDate.Format(dateLayout))
	fmt.Fprintf(w, "  role:        %s\n", u.Role)
	fmt.Fprintf(w, "  active:      %t\n", u.Active)
	if u.LastLogin != nil {
		fmt.Fprintf(w, "  last login:  %s\n", u.LastLogin.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "  version:     %d\n", u.Version)
	return nil
}

// done prints a one-line confirmation in text mode.
func done(cmd *cobra.Command, format string, args ...any) {
	if cli.JSONOutput() {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}
