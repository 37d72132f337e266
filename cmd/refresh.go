package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"align/internal/tracker"
	"align/internal/util"
)

var (
	refreshAll  bool
	refreshShow bool
)

var refreshCmd = &cobra.Command{
	Use:   "refresh [paths...]",
	Short: "Realign snapshot documents now",
	Long: `Recomputes the content fingerprint of the given repositories and
rewrites their Align.md where content drifted. Without arguments (or with
--all) every tracked repository is realigned.`,
	Run: func(cmd *cobra.Command, args []string) {
		t, err := newTracker()
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
		defer t.Close()

		var success, total int
		if refreshAll || len(args) == 0 {
			if len(t.Tracked()) == 0 {
				util.Default.Println("No repositories tracked yet.")
				return
			}
			success, total = t.RefreshAll()
		} else {
			success, total = t.RefreshSelected(args)
		}
		util.Default.Printf("Realigned %d/%d repositories\n", success, total)

		if refreshShow {
			for _, p := range args {
				data, err := os.ReadFile(tracker.DocumentPath(p))
				if err != nil {
					util.Default.Printf("⚠️  could not read snapshot for %s: %v\n", p, err)
					continue
				}
				util.Default.PrintBlock(string(data))
			}
		}

		if success < total {
			os.Exit(1)
		}
	},
}

func init() {
	refreshCmd.Flags().BoolVarP(&refreshAll, "all", "a", false, "realign every tracked repository")
	refreshCmd.Flags().BoolVar(&refreshShow, "show", false, "print each snapshot document after realigning")
}
