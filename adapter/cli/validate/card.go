package validate

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/digibank/adapter/cli"
	"github.com/felixgeelhaar/digibank/internal/validation"
)

var (
	holderName string
	expiration string
	cvv        string
)

var cardCmd = &cobra.Command{
	Use:   "card <number>",
	Short: "Validate a payment card",
	Long: `Validate a payment card number, holder name, expiration (MM/YY) and CVV.
The brand is reported even when the card is rejected.

Examples:
  digibank validate card 4111111111111111 --holder "JOHN DOE" --expiration 12/30 --cvv 123`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cli.RequireValidation()
		if err != nil {
			return err
		}

		r, verr := svc.Card(cmd.Context(), validation.CardInput{
			Number:     args[0],
			HolderName: holderName,
			Expiration: expiration,
			CVV:        cvv,
		})
		if verr != nil && !cli.JSONOutput() {
			fmt.Fprintf(cmd.OutOrStdout(), "brand: %s\n", r.Brand)
		}
		return report(cmd.OutOrStdout(), r, verr, func(w io.Writer) {
			fmt.Fprintf(w, "  brand:      %s\n", r.Brand)
			fmt.Fprintf(w, "  number:     %s\n", r.MaskedNumber)
			fmt.Fprintf(w, "  holder:     %s\n", r.HolderName)
			fmt.Fprintf(w, "  expiration: %s\n", r.Expiration)
		})
	},
}

func init() {
	cardCmd.Flags().StringVar(&holderName, "holder", "", "cardholder name as printed on the card")
	cardCmd.Flags().StringVar(&expiration, "expiration", "", "expiration date (MM/YY)")
	cardCmd.Flags().StringVar(&cvv, "cvv", "", "card verification value")
}
