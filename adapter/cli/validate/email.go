package validate

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/digibank/adapter/cli"
)

var emailCmd = &cobra.Command{
	Use:   "email <address>",
	Short: "Validate an email address",
	Long: `Validate an email address. Accepted addresses are lower-cased.

Examples:
  digibank validate email john.doe@email.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cli.RequireValidation()
		if err != nil {
			return err
		}

		r, verr := svc.Email(cmd.Context(), args[0])
		return report(cmd.OutOrStdout(), r, verr, func(w io.Writer) {
			fmt.Fprintf(w, "  address: %s\n", r.Address)
			fmt.Fprintf(w, "  domain:  %s\n", r.Domain)
		})
	},
}
