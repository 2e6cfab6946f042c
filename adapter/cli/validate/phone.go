package validate

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/digibank/adapter/cli"
)

var phoneCmd = &cobra.Command{
	Use:   "phone <number>",
	Short: "Validate an international phone number",
	Long: `Validate a phone number written as +DDI (DDD) 9999-9999 or
+DDI (DDD) 99999-9999 and resolve its country.

Examples:
  digibank validate phone "+55 (31) 12345-6789"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cli.RequireValidation()
		if err != nil {
			return err
		}

		r, verr := svc.Phone(cmd.Context(), args[0])
		return report(cmd.OutOrStdout(), r, verr, func(w io.Writer) {
			fmt.Fprintf(w, "  digits:  %s\n", r.Canonical)
			fmt.Fprintf(w, "  ddi:     %s\n", r.DDI)
			fmt.Fprintf(w, "  ddd:     %s\n", r.DDD)
			fmt.Fprintf(w, "  number:  %s\n", r.Number)
			fmt.Fprintf(w, "  country: %s\n", r.Country)
		})
	},
}
