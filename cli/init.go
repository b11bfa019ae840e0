package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yoanbernabeu/dontlookdown/config"
)

var (
	initBackend        string
	initNamespace      string
	initDSN            string
	initNonInteractive bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize dontlookdown in the current directory",
	Long: `Initialize dontlookdown by creating a .dontlookdown directory with configuration.

This command will:
- Create .dontlookdown/config.yaml with default settings
- Prompt for the save backend (file, sqlite, postgres or memory)
- Add .dontlookdown/ to .gitignore if present`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVarP(&initBackend, "backend", "b", "", "Save backend (file, sqlite, postgres, or memory)")
	initCmd.Flags().StringVarP(&initNamespace, "namespace", "n", "", "Key namespace (default: dontlookdown)")
	initCmd.Flags().StringVar(&initDSN, "dsn", "", "PostgreSQL DSN (postgres backend only)")
	initCmd.Flags().BoolVar(&initNonInteractive, "yes", false, "Use defaults without prompting")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	out := cmd.OutOrStdout()

	if config.Exists(cwd) {
		fmt.Fprintln(out, "dontlookdown is already initialized in this directory.")
		fmt.Fprintf(out, "Configuration: %s\n", config.GetConfigPath(cwd))
		return nil
	}

	cfg := config.DefaultConfig()
	if initNamespace != "" {
		cfg.Save.Namespace = initNamespace
	}

	if initBackend == "" && !initNonInteractive {
		if err := promptBackend(cmd.InOrStdin(), out, cfg); err != nil {
			return err
		}
	} else if initBackend != "" {
		cfg.Save.Backend = initBackend
		cfg.Save.DSN = initDSN
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := cfg.Write(cwd); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	fmt.Fprintf(out, "\nCreated configuration at %s\n", config.GetConfigPath(cwd))

	added, err := config.EnsureGitignoreEntry(cwd, config.ConfigDir+"/")
	if err != nil {
		fmt.Fprintf(out, "Warning: could not update .gitignore: %v\n", err)
	} else if added {
		fmt.Fprintf(out, "Added %s/ to .gitignore\n", config.ConfigDir)
	}

	fmt.Fprintln(out, "\ndontlookdown initialized successfully!")
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Store a value:  dontlookdown save set progress '{\"level\": 3, \"hp\": 80}'")
	fmt.Fprintln(out, "  2. Read it back:   dontlookdown save get progress")

	return nil
}

// promptBackend asks for the save backend and its settings.
func promptBackend(in io.Reader, out io.Writer, cfg *config.Config) error {
	reader := bufio.NewReader(in)

	fmt.Fprintln(out, "\nSelect save backend:")
	fmt.Fprintln(out, "  1) file (local gob file, recommended)")
	fmt.Fprintln(out, "  2) sqlite (local database file)")
	fmt.Fprintln(out, "  3) postgres (shared database)")
	fmt.Fprintln(out, "  4) memory (nothing is kept after exit)")
	fmt.Fprint(out, "Choice [1]: ")

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)

	switch input {
	case "2", "sqlite":
		cfg.Save.Backend = "sqlite"
	case "3", "postgres":
		cfg.Save.Backend = "postgres"
		fmt.Fprint(out, "PostgreSQL DSN: ")
		dsn, _ := reader.ReadString('\n')
		cfg.Save.DSN = strings.TrimSpace(dsn)
		if cfg.Save.DSN == "" {
			return fmt.Errorf("a DSN is required for the postgres backend")
		}
	case "4", "memory":
		cfg.Save.Backend = "memory"
	default:
		cfg.Save.Backend = "file"
	}
	return nil
}
