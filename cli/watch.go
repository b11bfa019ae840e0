package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yoanbernabeu/dontlookdown/save"
	"github.com/yoanbernabeu/dontlookdown/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Report save changes made by other processes",
	Long: `Watch the save file and print every key that another process adds,
updates or removes.

Only the file backend can be watched. Writes from different processes are
last-write-wins per key; watch reports them, it does not merge them.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, cfg, _, err := openSaves(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	backend, ok := a.Saves.Backend().(*save.FileBackend)
	if !ok {
		return fmt.Errorf("watch requires the file backend (configured: %s)", cfg.Save.Backend)
	}

	w, err := watcher.NewWatcher(backend.Path(), cfg.Watch.DebounceMs)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %s (namespace %s). Press Ctrl+C to stop.\n", backend.Path(), a.Saves.Namespace())

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-w.Events():
			before := backend.Snapshot()
			if err := backend.Reload(ctx); err != nil {
				log.Printf("Failed to reload %s after %s: %v", ev.Path, ev.Type, err)
				continue
			}
			printChanges(out, save.Diff(a.Saves.Namespace(), before, backend.Snapshot()))
		}
	}
}

func printChanges(w io.Writer, changes []save.Change) {
	for _, c := range changes {
		fmt.Fprintf(w, "%-8s %s\n", c.Kind, c.Key)
	}
}
