package validate

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/digibank/adapter/cli"
)

// Cmd is the validate command group
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate identity and payment data",
	Long: `Check CPF numbers, email addresses, phone numbers and payment cards.

A rejected value prints the reason and exits with status 2.`,
}

func init() {
	Cmd.AddCommand(cpfCmd)
	Cmd.AddCommand(emailCmd)
	Cmd.AddCommand(phoneCmd)
	Cmd.AddCommand(cardCmd)
}

// report prints the report as JSON, or the text lines when the value was
// accepted and the rejection reason otherwise. The validation error is
// returned unchanged so the exit code reflects it.
func report(out io.Writer, v any, verr error, lines func(w io.Writer)) error {
	if cli.JSONOutput() {
		if err := cli.PrintJSON(out, v); err != nil {
			return err
		}
		return verr
	}
	if verr != nil {
		fmt.Fprintf(out, "invalid: %v\n", verr)
		return verr
	}
	fmt.Fprintln(out, "valid")
	lines(out)
	return nil
}
