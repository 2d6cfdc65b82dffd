package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/shapetile/internal/config"
	"github.com/1broseidon/shapetile/internal/preview"
	"github.com/1broseidon/shapetile/internal/tiling"
)

// Preview screen size in pixels. Only the aspect ratio shows on the canvas.
const (
	previewScreenWidth  = 1920
	previewScreenHeight = 1080
	maxPreviewWindows   = 9
)

// layoutItem implements list.Item for the layout picker sidebar.
type layoutItem struct {
	name      string
	isActive  bool
	isDefault bool
}

func (i layoutItem) Title() string {
	prefix := "  "
	if i.isActive {
		prefix = "* "
	}
	suffix := ""
	if i.isDefault {
		suffix = " (default)"
	}
	return prefix + i.name + suffix
}

func (i layoutItem) Description() string { return "" }
func (i layoutItem) FilterValue() string { return i.name }

// statusMsg is sent after a daemon action completes.
type statusMsg struct {
	text string
}

// clearStatusMsg clears the status message after a delay.
type clearStatusMsg struct{}

// layoutAppliedMsg reports that the daemon switched the current desktop.
type layoutAppliedMsg struct {
	layout string
}

// LayoutsTab is the sub-model for the Layouts browser tab.
type LayoutsTab struct {
	list   list.Model
	daemon Daemon
	cfg    *config.Config

	activeLayout string
	windowCount  int

	statusText string

	width  int
	height int
	ready  bool
}

// NewLayoutsTab creates a new LayoutsTab sub-model. daemon may be nil.
func NewLayoutsTab(daemon Daemon, cfg *config.Config, activeLayout string) LayoutsTab {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Layouts"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	lt := LayoutsTab{
		list:         l,
		daemon:       daemon,
		cfg:          cfg,
		activeLayout: activeLayout,
		windowCount:  3,
	}
	lt.rebuildItems()
	return lt
}

func (lt *LayoutsTab) rebuildItems() {
	names := tiling.LayoutNames()
	items := make([]list.Item, 0, len(names))
	for _, name := range names {
		items = append(items, layoutItem{
			name:      name,
			isActive:  name == lt.activeLayout,
			isDefault: name == lt.cfg.DefaultLayout,
		})
	}
	lt.list.SetItems(items)
}

// Init implements tea.Model.
func (lt LayoutsTab) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (lt LayoutsTab) Update(msg tea.Msg) (LayoutsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		lt.width = msg.Width
		lt.height = msg.Height
		lt.updateListSize()
		lt.ready = true
		return lt, nil

	case statusMsg:
		lt.statusText = msg.text
		return lt, clearStatusAfter()

	case clearStatusMsg:
		lt.statusText = ""
		return lt, nil

	case layoutAppliedMsg:
		lt.activeLayout = msg.layout
		lt.rebuildItems()
		return lt, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "a":
			return lt, lt.applySelected()
		case "d":
			return lt.setDefaultSelected()
		case "+", "=":
			if lt.windowCount < maxPreviewWindows {
				lt.windowCount++
			}
			return lt, nil
		case "-":
			if lt.windowCount > 1 {
				lt.windowCount--
			}
			return lt, nil
		}
	}

	var cmd tea.Cmd
	lt.list, cmd = lt.list.Update(msg)
	return lt, cmd
}

func clearStatusAfter() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (lt *LayoutsTab) updateListSize() {
	// Reserve 2 lines for status bar at bottom of the tab content
	listHeight := lt.height - 2
	if listHeight < 1 {
		listHeight = 1
	}
	lt.list.SetSize(lt.sidebarWidth(), listHeight)
}

func (lt LayoutsTab) sidebarWidth() int {
	// Sidebar takes ~35% of width, min 20, max 40
	sw := lt.width * 35 / 100
	if sw < 20 {
		sw = 20
	}
	if sw > 40 {
		sw = 40
	}
	return sw
}

func (lt LayoutsTab) selectedName() string {
	item, ok := lt.list.SelectedItem().(layoutItem)
	if !ok {
		return ""
	}
	return item.name
}

// applySelected switches the daemon's current desktop to the selected
// layout. The result arrives as a layoutAppliedMsg or a statusMsg.
func (lt LayoutsTab) applySelected() tea.Cmd {
	name := lt.selectedName()
	if name == "" {
		return nil
	}
	daemon := lt.daemon
	if daemon == nil {
		return func() tea.Msg { return statusMsg{text: "daemon not connected"} }
	}
	return func() tea.Msg {
		if err := daemon.SetLayout(name); err != nil {
			return statusMsg{text: fmt.Sprintf("error: %v", err)}
		}
		return layoutAppliedMsg{layout: name}
	}
}

// setDefaultSelected changes default_layout in the edited config. It takes
// effect in the daemon after a save.
func (lt LayoutsTab) setDefaultSelected() (LayoutsTab, tea.Cmd) {
	name := lt.selectedName()
	if name == "" {
		return lt, nil
	}
	lt.cfg.DefaultLayout = name
	lt.statusText = fmt.Sprintf("default set: %s (ctrl+s to save)", name)
	lt.rebuildItems()
	return lt, clearStatusAfter()
}

// View implements tea.Model.
func (lt LayoutsTab) View() string {
	if !lt.ready || lt.width == 0 || lt.height == 0 {
		return ""
	}

	sidebarWidth := lt.sidebarWidth()
	previewWidth := lt.width - sidebarWidth - 3 // 3 for separator + padding
	if previewWidth < 10 {
		previewWidth = 10
	}

	sidebar := lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(lt.height - 2).
		Render(lt.list.View())

	pane := lt.renderPreview(previewWidth)

	sepHeight := lt.height - 2
	if sepHeight < 1 {
		sepHeight = 1
	}
	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Render(strings.TrimSuffix(strings.Repeat("│\n", sepHeight), "\n"))

	columns := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " "+sep, pane)
	return lipgloss.JoinVertical(lipgloss.Left, columns, lt.renderTabStatus())
}

func (lt LayoutsTab) renderPreview(previewWidth int) string {
	name := lt.selectedName()
	if name == "" {
		return ""
	}

	params := preview.FromConfig(lt.cfg, 0, lt.windowCount, previewScreenWidth, previewScreenHeight)
	params.Layout = name
	windows, _, err := preview.Simulate(params)
	if err != nil {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Render(" " + err.Error())
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Render(fmt.Sprintf(" %s  [%d windows]", name, lt.windowCount))

	summary := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Render(" " + preview.Summary(windows))

	rows := lt.height - 6 // title + summary + status + padding
	if rows < 5 {
		rows = 5
	}
	cols := previewWidth - 2
	if cols < 5 {
		cols = 5
	}
	canvas := preview.Render(windows, previewScreenWidth, previewScreenHeight, cols, rows)

	return lipgloss.JoinVertical(lipgloss.Left, title, summary, "", canvas)
}

func (lt LayoutsTab) renderTabStatus() string {
	left := ""
	if lt.statusText != "" {
		left = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Render(lt.statusText)
	}

	right := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render(fmt.Sprintf("windows:%d  enter/a:apply  d:default  +/-:windows", lt.windowCount))

	gap := lt.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Width(lt.width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}
