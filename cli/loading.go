package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/yoanbernabeu/dontlookdown/config"
	"github.com/yoanbernabeu/dontlookdown/loading"
	"golang.org/x/sync/errgroup"
)

var (
	loadingCompleteAfter time.Duration
	loadingPlain         bool
)

var loadingCmd = &cobra.Command{
	Use:   "loading",
	Short: "Show the simulated loading indicator",
	Long: `Show the loading indicator the game displays while it boots.

Progress climbs one percent every 100ms and stalls at 90% until loading
is completed, either after --complete-after or when Enter is pressed.
"Ready!" is then shown for half a second before the indicator is hidden.`,
	Args: cobra.NoArgs,
	RunE: runLoading,
}

func init() {
	loadingCmd.Flags().DurationVar(&loadingCompleteAfter, "complete-after", 0, "Complete automatically after this duration (default: wait for Enter)")
	loadingCmd.Flags().BoolVar(&loadingPlain, "plain", false, "Render on a plain terminal line instead of the interactive UI")
	rootCmd.AddCommand(loadingCmd)
}

func runLoading(cmd *cobra.Command, args []string) error {
	cfg, _, err := config.LoadOrDefault()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	var (
		display   loading.Display
		triggered <-chan struct{}
	)
	if loadingPlain || cfg.Loading.Display == "plain" {
		display = loading.NewWriterDisplay(cmd.OutOrStdout())
		triggered = enterPressed(cmd)
	} else {
		hint := "press enter to finish loading"
		if loadingCompleteAfter > 0 {
			hint = fmt.Sprintf("finishing in %s, or press enter", loadingCompleteAfter)
		}
		opts := []tea.ProgramOption{
			tea.WithContext(gctx),
			tea.WithOutput(cmd.OutOrStdout()),
		}
		if in := cmd.InOrStdin(); in != os.Stdin {
			opts = append(opts, tea.WithInput(in))
		}
		tui := loading.NewTeaDisplay(hint, opts...)
		display = tui
		triggered = tui.Triggered()

		g.Go(func() error {
			// the user quitting the UI ends the whole command
			defer cancel()
			if err := tui.Run(); err != nil && gctx.Err() == nil {
				return fmt.Errorf("loading UI failed: %w", err)
			}
			return nil
		})
	}

	manager, err := loading.New(display)
	if err != nil {
		return err
	}

	g.Go(func() error {
		return waitAndComplete(gctx, manager, triggered, loadingCompleteAfter)
	})

	return g.Wait()
}

// waitAndComplete calls Complete on the first trigger and waits for the
// indicator to be hidden. A zero after waits for triggered only.
func waitAndComplete(ctx context.Context, m *loading.Manager, triggered <-chan struct{}, after time.Duration) error {
	var timeout <-chan time.Time
	if after > 0 {
		timer := time.NewTimer(after)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-ctx.Done():
		return nil
	case <-timeout:
	case <-triggered:
	}

	m.Complete()

	select {
	case <-ctx.Done():
	case <-m.Done():
	}
	return nil
}

// enterPressed signals once a line is read from the command's stdin.
func enterPressed(cmd *cobra.Command) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		if _, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n'); err == nil {
			close(ch)
		}
	}()
	return ch
}
