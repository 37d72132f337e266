package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"align/internal/config"
	"align/internal/events"
	"align/internal/store"
	"align/internal/tracker"
	"align/internal/util"
)

var rootCmd = &cobra.Command{
	Use:   "align",
	Short: "Keep Align.md snapshots aligned with repository content",
	Long: `align tracks repositories and keeps a structural snapshot document
(Align.md) at each repository root in sync with the tree underneath it.
Repositories can be realigned on demand or watched for changes.`,
	Run: func(cmd *cobra.Command, args []string) {
		t, err := newTracker()
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
		defer t.Close()
		printOverview(t)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(watchCmd)
}

// newTracker loads settings, opens the sidecar store and registers every
// repository from the registry. Registry entries whose directories vanished
// are reported and skipped, not dropped.
func newTracker() (*tracker.Tracker, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}
	if err := config.EnsureDataDir(); err != nil {
		return nil, err
	}
	st, err := store.Open(config.StorePath())
	if err != nil {
		return nil, err
	}
	t := tracker.New(settings, st, events.GlobalBus)
	repos, err := config.LoadRepos()
	if err != nil {
		return nil, err
	}
	for _, p := range repos {
		if _, err := t.Track(p); err != nil {
			util.Default.Printf("⚠️  %v\n", err)
		}
	}
	return t, nil
}

// printOverview audits every tracked repository and prints one status row
// per repository.
func printOverview(t *tracker.Tracker) {
	paths := t.Tracked()
	if len(paths) == 0 {
		util.Default.Println("No repositories tracked yet.")
		util.Default.Println("Run 'align add <path>' to start tracking one.")
		return
	}
	if err := t.AuditAll(); err != nil {
		util.Default.Printf("⚠️  %v\n", err)
	}
	for _, p := range paths {
		info, err := t.StatusOf(p)
		if err != nil {
			util.Default.Printf("❌ %v\n", err)
			continue
		}
		util.Default.Printf("%s %-50s %-12s last sync %s\n",
			statusIcon(info.State), info.Path, info.State, util.FormatTimeAgo(info.LastSync))
	}
}

func statusIcon(s tracker.Status) string {
	switch s {
	case tracker.StatusUpToDate:
		return "✅"
	case tracker.StatusUpdating:
		return "🔄"
	default:
		return "❌"
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// ExecuteContext allows running the root command with a supplied context for cancellation.
func ExecuteContext(ctx context.Context) error {
	rootCmd.SetContext(ctx)
	if err := rootCmd.Execute(); err != nil {
		return err
	}
	return nil
}
