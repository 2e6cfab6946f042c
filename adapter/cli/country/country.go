package country

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/digibank/adapter/cli"
)

// Cmd is the country command group
var Cmd = &cobra.Command{
	Use:   "country",
	Short: "Look up international dialing codes",
	Long:  `Resolve dialing codes to country names and back.`,
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <area-code>",
	Short: "Resolve a dialing code to its country",
	Long: `Resolve a dialing code to its country name. Unknown codes print
"País desconhecido".

Examples:
  digibank country lookup 55`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cli.RequireValidation()
		if err != nil {
			return err
		}

		code, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid area code %q: %w", args[0], err)
		}

		r := svc.Country(cmd.Context(), code)
		if cli.JSONOutput() {
			return cli.PrintJSON(cmd.OutOrStdout(), r)
		}
		fmt.Fprintln(cmd.OutOrStdout(), r.Name)
		return nil
	},
}

var codeCmd = &cobra.Command{
	Use:   "code <country-name>",
	Short: "Resolve a country name to its dialing code",
	Long: `Resolve an exact country name to its dialing code. Names are matched
case-sensitively as listed by 'digibank country list'.

Examples:
  digibank country code Brasil
  digibank country code "Estados Unidos"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cli.RequireValidation()
		if err != nil {
			return err
		}

		r, err := svc.AreaCode(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if cli.JSONOutput() {
			return cli.PrintJSON(cmd.OutOrStdout(), r)
		}
		fmt.Fprintln(cmd.OutOrStdout(), r.AreaCode)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List every known dialing code",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cli.RequireValidation()
		if err != nil {
			return err
		}

		countries := svc.Countries()
		if cli.JSONOutput() {
			return cli.PrintJSON(cmd.OutOrStdout(), countries)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tCOUNTRY")
		for _, c := range countries {
			fmt.Fprintf(w, "+%d\t%s\n", c.AreaCode, c.Name)
		}
		return w.Flush()
	},
}

func init() {
	Cmd.AddCommand(lookupCmd)
	Cmd.AddCommand(codeCmd)
	Cmd.AddCommand(listCmd)
}
