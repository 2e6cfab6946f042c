// Package mcp exposes the Digibank tools to MCP clients from the CLI.
package mcp

import "github.com/spf13/cobra"

// Cmd groups the MCP subcommands under "digibank mcp".
var Cmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run Digibank as a Model Context Protocol server",
	Long: `Expose value validation, country lookups and user management as MCP
tools so assistants can drive Digibank over HTTP.`,
}

func init() {
	Cmd.AddCommand(serveCmd)
}
