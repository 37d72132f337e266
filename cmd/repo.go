package cmd

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"align/internal/history"
	"align/internal/tracker"
	"align/internal/util"
)

var addCmd = &cobra.Command{
	Use:   "add [path]",
	Short: "Track a repository and write its first snapshot",
	Long: `Registers the repository, writes its Align.md snapshot and starts
watching it for changes. Without a path argument, recently used
repositories are offered for selection.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var path string
		if len(args) > 0 {
			path = args[0]
		} else {
			picked, err := pickPath()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Prompt failed %v\n", err)
				os.Exit(1)
			}
			path = picked
		}

		t, err := newTracker()
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
		defer t.Close()

		if err := t.Add(path); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
		util.Default.Printf("✅ Tracking %s\n", tracker.DocumentPath(path))
	},
}

var removeCmd = &cobra.Command{
	Use:     "remove [path]",
	Aliases: []string{"rm"},
	Short:   "Stop tracking a repository",
	Long: `Stops watching the repository and drops its registry entry. The
snapshot document already on disk is left alone.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		t, err := newTracker()
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
		defer t.Close()

		var path string
		if len(args) > 0 {
			path = args[0]
		} else {
			tracked := t.Tracked()
			if len(tracked) == 0 {
				util.Default.Println("No repositories tracked yet.")
				return
			}
			prompt := promptui.Select{
				Label: "Select a repository to remove",
				Items: tracked,
			}
			_, picked, err := prompt.Run()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Prompt failed %v\n", err)
				return
			}
			path = picked
		}

		confirm := promptui.Prompt{
			Label:     fmt.Sprintf("Stop tracking %s", path),
			IsConfirm: true,
		}
		if _, err := confirm.Run(); err != nil {
			util.Default.Println("Cancelled.")
			return
		}

		if err := t.Remove(path); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
		util.Default.Printf("✅ Stopped tracking %s\n", path)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every tracked repository and its alignment state",
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

// pickPath offers recently used repositories and lets the user type a fresh
// path instead.
func pickPath() (string, error) {
	paths := history.GetAllPaths()
	if len(paths) == 0 {
		prompt := promptui.Prompt{Label: "Repository path"}
		return prompt.Run()
	}

	prompt := promptui.SelectWithAdd{
		Label:    "Select a repository (or add a new path)",
		Items:    paths,
		AddLabel: "Other path",
	}
	_, result, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return result, nil
}
