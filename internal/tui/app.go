package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/shapetile/internal/config"
	"github.com/1broseidon/shapetile/internal/ipc"
)

// Daemon is the part of the IPC client the TUI uses.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	SetLayout(layout string) error
	Reload() error
}

// Run opens the configuration editor for configPath (the default location
// when empty). A running daemon is used for live layout changes and is
// reloaded after a save.
func Run(configPath string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	if configPath == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		configPath = path
	}

	m, err := newModel(configPath, ipc.NewClient())
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// model is the root bubbletea model for the TUI.
type model struct {
	configPath string
	result     *config.LoadResult
	daemon     Daemon

	// Tab navigation
	activeTab Tab

	// Sub-models
	generalTab GeneralTab
	layoutsTab LayoutsTab
	keysTab    KeysTab

	// Save overlay
	originalConfig *config.Config
	saveOverlay    SaveOverlay

	// Daemon state
	daemonConnected bool
	currentLayout   string
	currentDesktop  int

	// Terminal dimensions
	width  int
	height int
}

func newModel(configPath string, daemon Daemon) (model, error) {
	res, err := config.LoadFromPath(configPath)
	if err != nil {
		return model{}, err
	}

	m := model{
		configPath:     configPath,
		result:         res,
		daemon:         daemon,
		activeTab:      TabGeneral,
		originalConfig: res.Config.Clone(),
	}
	m.refreshDaemonStatus()

	cfg := res.Config
	m.generalTab = NewGeneralTab(cfg)
	m.layoutsTab = NewLayoutsTab(daemon, cfg, m.currentLayout)
	m.keysTab = NewKeysTab(cfg)
	return m, nil
}

func (m *model) refreshDaemonStatus() {
	if m.daemon == nil {
		return
	}
	status, err := m.daemon.GetStatus()
	if err != nil {
		m.daemonConnected = false
		m.currentLayout = ""
		return
	}
	m.daemonConnected = true
	m.currentLayout = status.CurrentLayout
	m.currentDesktop = status.CurrentDesktop
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// Approximate: status bar (1) + tab bar (2 with margin) + help bar (1) = 4 lines
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// capturing reports whether the active tab is consuming keystrokes.
func (m model) capturing() bool {
	return (m.activeTab == TabGeneral && m.generalTab.editing) ||
		(m.activeTab == TabKeys && m.keysTab.editing)
}

func (m model) resize(msg tea.WindowSizeMsg) model {
	m.width = msg.Width
	m.height = msg.Height
	subMsg := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
	m.generalTab, _ = m.generalTab.Update(subMsg)
	m.layoutsTab, _ = m.layoutsTab.Update(subMsg)
	m.keysTab, _ = m.keysTab.Update(subMsg)
	return m
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Save overlay captures all input when active
	if m.saveOverlay.Active() {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			prevPhase := m.saveOverlay.phase
			m.saveOverlay = m.saveOverlay.Update(msg, m.result.Config, m.configPath, m.daemon, m.daemonConnected)
			if prevPhase == savePreview && m.saveOverlay.SaveSucceeded() {
				m.originalConfig = m.result.Config.Clone()
				m.refreshDaemonStatus()
			}
		case tea.WindowSizeMsg:
			m = m.resize(msg)
		}
		return m, nil
	}

	// ctrl+s triggers save overlay from any context (including form editing)
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+s" {
		m.saveOverlay.Show(m.originalConfig, m.result.Config)
		return m, nil
	}

	if m.capturing() {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		case tea.WindowSizeMsg:
			return m.resize(msg), nil
		}
		var cmd tea.Cmd
		switch m.activeTab {
		case TabGeneral:
			m.generalTab, cmd = m.generalTab.Update(msg)
		case TabKeys:
			m.keysTab, cmd = m.keysTab.Update(msg)
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabGeneral
			return m, nil
		case "2":
			m.activeTab = TabLayouts
			return m, nil
		case "3":
			m.activeTab = TabKeys
			return m, nil
		}

	case tea.WindowSizeMsg:
		return m.resize(msg), nil

	case layoutAppliedMsg:
		m.currentLayout = msg.layout
		m.layoutsTab, _ = m.layoutsTab.Update(msg)
		return m, nil
	}

	// Delegate to active tab's sub-model
	var cmd tea.Cmd
	switch m.activeTab {
	case TabGeneral:
		m.generalTab, cmd = m.generalTab.Update(msg)
	case TabLayouts:
		m.layoutsTab, cmd = m.layoutsTab.Update(msg)
	case TabKeys:
		m.keysTab, cmd = m.keysTab.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.daemonConnected, m.currentDesktop, m.currentLayout, m.result.Config.DefaultLayout, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.width)

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := m.height - usedHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	if m.saveOverlay.Active() {
		content = m.saveOverlay.View(m.width, contentHeight)
	} else {
		switch m.activeTab {
		case TabGeneral:
			content = m.generalTab.View()
		case TabLayouts:
			content = m.layoutsTab.View()
		case TabKeys:
			content = m.keysTab.View()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
