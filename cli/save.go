package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alpkeskin/gotoon"
	"github.com/spf13/cobra"
)

var (
	saveJSON bool
	saveTOON bool
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Read and write game saves",
	Long: `Read and write values in the save store.

Keys are stored under the configured namespace ("dontlookdown" by default),
so "progress" is kept as "dontlookdown_progress". Values are JSON.`,
}

var saveSetCmd = &cobra.Command{
	Use:   "set <key> <json>",
	Short: "Store a JSON value, replacing any previous one",
	Args:  cobra.ExactArgs(2),
	RunE:  runSaveSet,
}

var saveGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the value stored under a key (null if missing)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSaveGet,
}

var saveDeleteCmd = &cobra.Command{
	Use:     "delete <key>",
	Aliases: []string{"rm"},
	Short:   "Delete a key",
	Args:    cobra.ExactArgs(1),
	RunE:    runSaveDelete,
}

var saveListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List keys in the namespace",
	Args:    cobra.NoArgs,
	RunE:    runSaveList,
}

func init() {
	for _, cmd := range []*cobra.Command{saveGetCmd, saveListCmd} {
		cmd.Flags().BoolVarP(&saveJSON, "json", "j", false, "Output compact JSON (for scripts and agents)")
		cmd.Flags().BoolVarP(&saveTOON, "toon", "t", false, "Output TOON format (token-efficient for AI agents)")
		cmd.MarkFlagsMutuallyExclusive("json", "toon")
	}

	saveCmd.AddCommand(saveSetCmd, saveGetCmd, saveDeleteCmd, saveListCmd)
	rootCmd.AddCommand(saveCmd)
}

func outputFormat() string {
	switch {
	case saveJSON:
		return "json"
	case saveTOON:
		return "toon"
	default:
		return "text"
	}
}

func runSaveSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, _, _, err := openSaves(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Saves.SaveRaw(ctx, args[0], []byte(args[1])); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", args[0])
	return nil
}

func runSaveGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, _, _, err := openSaves(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	value, err := a.Saves.Load(ctx, args[0])
	if err != nil {
		return err
	}
	return writeValue(cmd.OutOrStdout(), value, outputFormat())
}

func runSaveDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, _, _, err := openSaves(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Saves.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}

func runSaveList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, _, _, err := openSaves(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	keys, err := a.Saves.Keys(ctx)
	if err != nil {
		return err
	}
	return writeKeys(cmd.OutOrStdout(), keys, outputFormat())
}

// writeValue prints a loaded value. Missing keys print as null.
func writeValue(w io.Writer, value any, format string) error {
	switch format {
	case "toon":
		// TOON has no top-level scalar form, so wrap the value
		out, err := gotoon.Encode(map[string]any{"value": value})
		if err != nil {
			return fmt.Errorf("failed to encode TOON: %w", err)
		}
		_, err = fmt.Fprintln(w, out)
		return err
	case "json":
		return json.NewEncoder(w).Encode(value)
	default:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	}
}

func writeKeys(w io.Writer, keys []string, format string) error {
	if keys == nil {
		keys = []string{}
	}
	switch format {
	case "toon":
		out, err := gotoon.Encode(map[string]any{"keys": keys})
		if err != nil {
			return fmt.Errorf("failed to encode TOON: %w", err)
		}
		_, err = fmt.Fprintln(w, out)
		return err
	case "json":
		return json.NewEncoder(w).Encode(keys)
	default:
		if len(keys) == 0 {
			_, err := fmt.Fprintln(w, "No saved keys.")
			return err
		}
		for _, k := range keys {
			if _, err := fmt.Fprintln(w, k); err != nil {
				return err
			}
		}
		return nil
	}
}
