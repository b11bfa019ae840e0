// Package cli implements the dontlookdown command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yoanbernabeu/dontlookdown/app"
	"github.com/yoanbernabeu/dontlookdown/config"
)

// Version is set at build time with -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "dontlookdown",
	Short: "Runtime tools for Don't Look Down",
	Long: `dontlookdown manages the runtime pieces around the game:

- a simulated loading indicator shown while the game boots
- the namespaced save store holding progress, coins and unlocks`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openSaves builds an App without a loading indicator from the project
// configuration, falling back to defaults outside a project.
func openSaves(ctx context.Context) (*app.App, *config.Config, string, error) {
	cfg, root, err := config.LoadOrDefault()
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to load configuration: %w", err)
	}

	a, err := app.New(ctx, cfg, root, nil)
	if err != nil {
		return nil, nil, "", err
	}
	return a, cfg, root, nil
}
