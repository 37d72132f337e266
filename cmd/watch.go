package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"align/internal/events"
	"align/internal/tracker"
	"align/internal/tui"
	"align/internal/util"
)

var watchPlain bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch tracked repositories and realign on change",
	Long: `Brings every tracked repository up to date, then watches them all
and realigns automatically when content changes. Interactive terminals get
a dashboard; --plain (or a non-terminal stdout) logs status lines instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		t, err := newTracker()
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
		defer t.Close()

		if len(t.Tracked()) == 0 {
			util.Default.Println("No repositories tracked yet.")
			util.Default.Println("Run 'align add <path>' to start tracking one.")
			return
		}

		success, total := t.RefreshAll()
		util.Default.Printf("Realigned %d/%d repositories\n", success, total)

		if watchPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
			runHeadless(cmd.Context(), t)
			return
		}
		if err := tui.Run(t); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchPlain, "plain", false, "log status lines instead of the dashboard")
}

// runHeadless logs every status transition until the context is cancelled.
func runHeadless(ctx context.Context, t *tracker.Tracker) {
	onStatus := func(path string, state tracker.Status) {
		util.Default.Printf("%s %s %s\n", statusIcon(state), path, state)
	}
	if err := events.GlobalBus.Subscribe(events.EventRepoStatusChanged, onStatus); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return
	}
	defer events.GlobalBus.Unsubscribe(events.EventRepoStatusChanged, onStatus)

	util.Default.Println("👀 Watching for changes. Ctrl+C to stop.")
	<-ctx.Done()
	util.Default.Println("⏹ Stopping watchers...")
}
