package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"

	"align/internal/tracker"
	"align/internal/util"
)

// statusDelegate renders one repository per line: marker, state icon, path,
// state label and the time since the last sync.
type statusDelegate struct {
	list.DefaultDelegate
	dash *dashboard
}

func (d statusDelegate) Height() int { return 1 }

// remove extra spacing between rows
func (d statusDelegate) Spacing() int { return 0 }

func (d statusDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	it, ok := listItem.(repoItem)
	if !ok {
		return
	}

	mark := " "
	if d.dash.selected[it.path] {
		mark = "*"
	}

	var icon string
	switch it.state {
	case tracker.StatusUpToDate:
		icon = upToDateStyle.Render("✓")
	case tracker.StatusNeedsUpdate:
		icon = outdatedStyle.Render("✗")
	case tracker.StatusUpdating:
		icon = d.dash.spinner.View()
	}

	line := fmt.Sprintf("%s %s %-40s %-12s %s",
		mark, icon, it.path, it.state.String(), util.FormatTimeAgo(it.lastSync))

	prefix := "  "
	if index == m.Index() {
		prefix = "> "
		_, _ = io.WriteString(w, d.Styles.SelectedTitle.Render(prefix+line))
		return
	}
	_, _ = io.WriteString(w, d.Styles.NormalTitle.Render(prefix+line))
}
