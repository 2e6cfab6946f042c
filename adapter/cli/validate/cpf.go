package validate

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/digibank/adapter/cli"
)

var cpfCmd = &cobra.Command{
	Use:   "cpf <value>",
	Short: "Validate a CPF",
	Long: `Validate a CPF written with or without punctuation.

Examples:
  digibank validate cpf 123.456.789-09
  digibank validate cpf 12345678909 --json`,
	Aliases: []string{"national-id"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cli.RequireValidation()
		if err != nil {
			return err
		}

		r, verr := svc.NationalID(cmd.Context(), args[0])
		return report(cmd.OutOrStdout(), r, verr, func(w io.Writer) {
			fmt.Fprintf(w, "  canonical: %s\n", r.Canonical)
			fmt.Fprintf(w, "  masked:    %s\n", r.Masked)
		})
	},
}
