package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"align/internal/events"
	"align/internal/tracker"
	"align/internal/util"
)

type repoItem struct {
	path     string
	state    tracker.Status
	lastSync time.Time
}

func (i repoItem) Title() string       { return i.path }
func (i repoItem) Description() string { return i.state.Description() }
func (i repoItem) FilterValue() string { return i.path }

// messages transported into the Bubble Tea update loop
type statusMsg struct {
	path  string
	state tracker.Status
}

type refreshDoneMsg struct {
	success int
	total   int
}

type logMsg string

type dashboard struct {
	tracker *tracker.Tracker
	list    list.Model
	spinner spinner.Model

	selected map[string]bool
	busy     bool
	logLines []string
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8be9fd"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272a4"))
	upToDateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	outdatedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	updatingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func newDashboard(t *tracker.Tracker) *dashboard {
	d := &dashboard{
		tracker:  t,
		selected: make(map[string]bool),
	}

	d.spinner = spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(updatingStyle))

	delegate := statusDelegate{DefaultDelegate: list.NewDefaultDelegate(), dash: d}
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff79c6")).Bold(true)
	delegate.Styles.NormalTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f8f8f2"))

	l := list.New(d.buildItems(), delegate, 80, 14)
	l.Title = "watched repositories"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	d.list = l
	return d
}

// buildItems snapshots the tracker state into list rows.
func (d *dashboard) buildItems() []list.Item {
	var items []list.Item
	for _, p := range d.tracker.Tracked() {
		info, err := d.tracker.StatusOf(p)
		if err != nil {
			continue
		}
		items = append(items, repoItem{path: info.Path, state: info.State, lastSync: info.LastSync})
	}
	return items
}

func (d *dashboard) Init() tea.Cmd {
	return d.spinner.Tick
}

func (d *dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		d.list.SetItems(d.buildItems())
		return d, nil

	case refreshDoneMsg:
		d.busy = false
		d.appendLog(fmt.Sprintf("realigned %d/%d repositories", msg.success, msg.total))
		d.list.SetItems(d.buildItems())
		return d, nil

	case logMsg:
		d.appendLog(string(msg))
		return d, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd

	case tea.WindowSizeMsg:
		d.list.SetSize(msg.Width, msg.Height-7)
		return d, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return d, tea.Quit
		case "up", "k":
			d.list.CursorUp()
			return d, nil
		case "down", "j":
			d.list.CursorDown()
			return d, nil
		case " ":
			if itm, ok := d.list.SelectedItem().(repoItem); ok {
				d.selected[itm.path] = !d.selected[itm.path]
			}
			return d, nil
		case "r":
			if d.busy {
				return d, nil
			}
			paths := d.targets()
			if len(paths) == 0 {
				return d, nil
			}
			d.busy = true
			return d, d.refreshCmd(paths)
		case "R":
			if d.busy {
				return d, nil
			}
			d.busy = true
			return d, d.refreshAllCmd()
		}
	}

	var cmd tea.Cmd
	d.list, cmd = d.list.Update(msg)
	return d, cmd
}

// targets resolves what "r" acts on: the marked set, or the cursor row when
// nothing is marked.
func (d *dashboard) targets() []string {
	var paths []string
	for p, on := range d.selected {
		if on {
			paths = append(paths, p)
		}
	}
	if len(paths) > 0 {
		return paths
	}
	if itm, ok := d.list.SelectedItem().(repoItem); ok {
		return []string{itm.path}
	}
	return nil
}

func (d *dashboard) refreshCmd(paths []string) tea.Cmd {
	t := d.tracker
	return func() tea.Msg {
		success, total := t.RefreshSelected(paths)
		return refreshDoneMsg{success: success, total: total}
	}
}

func (d *dashboard) refreshAllCmd() tea.Cmd {
	t := d.tracker
	return func() tea.Msg {
		success, total := t.RefreshAll()
		return refreshDoneMsg{success: success, total: total}
	}
}

func (d *dashboard) appendLog(line string) {
	d.logLines = append(d.logLines, line)
	if len(d.logLines) > 4 {
		d.logLines = d.logLines[len(d.logLines)-4:]
	}
}

func (d *dashboard) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("align"))
	b.WriteString("\n")
	b.WriteString(d.list.View())
	b.WriteString("\n")
	if len(d.logLines) > 0 {
		b.WriteString("--- recent ---\n")
		for _, l := range d.logLines {
			b.WriteString(l)
			b.WriteString("\n")
		}
	}
	b.WriteString(helpStyle.Render("space mark · r refresh · R refresh all · q quit"))
	b.WriteString("\n")
	return b.String()
}

// Run blocks on the dashboard until the user quits. Status changes published
// by the tracker are forwarded into the program so rows repaint live.
func Run(t *tracker.Tracker) error {
	d := newDashboard(t)
	p := tea.NewProgram(d)

	onStatus := func(path string, state tracker.Status) {
		p.Send(statusMsg{path: path, state: state})
	}
	onStarted := func(path string) {
		p.Send(logMsg("watching " + path))
	}
	onStopped := func(path string) {
		p.Send(logMsg("stopped watching " + path))
	}
	if err := events.GlobalBus.Subscribe(events.EventRepoStatusChanged, onStatus); err != nil {
		return err
	}
	defer events.GlobalBus.Unsubscribe(events.EventRepoStatusChanged, onStatus)
	if err := events.GlobalBus.Subscribe(events.EventWatchStarted, onStarted); err != nil {
		return err
	}
	defer events.GlobalBus.Unsubscribe(events.EventWatchStarted, onStarted)
	if err := events.GlobalBus.Subscribe(events.EventWatchStopped, onStopped); err != nil {
		return err
	}
	defer events.GlobalBus.Unsubscribe(events.EventWatchStopped, onStopped)

	// mute direct terminal prints while Bubble Tea owns the screen
	util.Default.Suspend()
	defer util.Default.Resume()

	_, err := p.Run()
	return err
}
