package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build metadata, overridden through -ldflags.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := buildInfo{Version: Version, Commit: Commit, BuildDate: BuildDate}
		if JSONOutput() {
			return PrintJSON(cmd.OutOrStdout(), info)
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "digibank %s (commit %s, built %s)\n",
			info.Version, info.Commit, info.BuildDate)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
