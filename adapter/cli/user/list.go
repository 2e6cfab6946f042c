package user

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/digibank/adapter/cli"
	"github.com/felixgeelhaar/digibank/internal/identity/application/queries"
)

var (
	listPage     int
	listSize     int
	listRole     string
	listActive   bool
	listInactive bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Long: `List users one page at a time, oldest first.

Examples:
  digibank user list
  digibank user list --page 1 --size 50
  digibank user list --role ADMIN --active`,
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := cli.GetApp().RequireUsers()
		if err != nil {
			return err
		}

		query := queries.ListUsersQuery{Page: listPage, Size: listSize, Role: listRole}
		switch {
		case listActive && listInactive:
			return fmt.Errorf("--active and --inactive are mutually exclusive")
		case listActive:
			query.Active = &listActive
		case listInactive:
			active := false
			query.Active = &active
		}

		page, err := users.List.Handle(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd.OutOrStdout(), page)
		}

		out := cmd.OutOrStdout()
		if len(page.Items) == 0 {
			fmt.Fprintln(out, "No users found.")
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tACTIVE")
		for _, u := range page.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", u.ID, u.Name, u.Email, u.Role, u.Active)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nPage %d of %d (%d users)\n", page.Page+1, page.TotalPages, page.Total)
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", 0, "zero-based page number")
	listCmd.Flags().IntVar(&listSize, "size", queries.DefaultPageSize, "page size (max 100)")
	listCmd.Flags().StringVar(&listRole, "role", "", "filter by role (USER or ADMIN)")
	listCmd.Flags().BoolVar(&listActive, "active", false, "only active users")
	listCmd.Flags().BoolVar(&listInactive, "inactive", false, "only inactive users")
}
