package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yoanbernabeu/dontlookdown/mcp"
)

var mcpServeCmd = &cobra.Command{
	Use:   "mcp-serve",
	Short: "Start dontlookdown as an MCP server",
	Long: `Start dontlookdown as an MCP (Model Context Protocol) server.

The server communicates via stdio and exposes the save store as tools:

  - save_store: Store a JSON value under a key
  - save_load: Load the value stored under a key
  - save_delete: Delete a key
  - save_list: List keys in the namespace

The project is located by walking up from the current directory to the
nearest .dontlookdown/config.yaml; defaults are used if none is found.`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	rootCmd.AddCommand(mcpServeCmd)
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	a, _, _, err := openSaves(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to open save store: %w", err)
	}
	defer a.Close()

	return mcp.NewServer(a.Saves).Serve()
}
