package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/shapetile/internal/config"
	"github.com/1broseidon/shapetile/internal/tiling"
)

// GeneralTab is the sub-model for the General settings tab.
type GeneralTab struct {
	cfg *config.Config

	// Display dimensions
	width  int
	height int

	// Edit mode
	editing bool
	form    *huh.Form

	// Form-bound values (strings for huh, converted on submit)
	fDefaultLayout   string
	fAutoTile        bool
	fLogLevel        string
	fPadding         string
	fMainWindowCount string
	fPartitionCount  string
	fDragSwapBorder  string
	fResizeInc       string
	fWindowResizeInc string
	fScaleInc        string
	fEnforceDelay    string
	fSettleDelay     string
	fReconcile       string
	fPaddingTop      string
	fPaddingBottom   string
	fPaddingLeft     string
	fPaddingRight    string
}

// NewGeneralTab creates a GeneralTab editing cfg in place.
func NewGeneralTab(cfg *config.Config) GeneralTab {
	return GeneralTab{cfg: cfg}
}

// Init implements tea.Model.
func (g GeneralTab) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (g GeneralTab) Update(msg tea.Msg) (GeneralTab, tea.Cmd) {
	if g.editing {
		return g.updateEditing(msg)
	}
	return g.updateDisplay(msg)
}

func (g GeneralTab) updateDisplay(msg tea.Msg) (GeneralTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" {
			g.startEditing()
			return g, g.form.Init()
		}
	case tea.WindowSizeMsg:
		g.width = msg.Width
		g.height = msg.Height
	}
	return g, nil
}

func (g GeneralTab) updateEditing(msg tea.Msg) (GeneralTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			g.editing = false
			g.form = nil
			return g, nil
		}
	case tea.WindowSizeMsg:
		g.width = msg.Width
		g.height = msg.Height
	}

	form, cmd := g.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		g.form = f
	}

	if g.form.State == huh.StateCompleted {
		g.applyForm()
		g.editing = false
		g.form = nil
		return g, nil
	}

	return g, cmd
}

func (g *GeneralTab) loadForm() {
	cfg := g.cfg
	g.fDefaultLayout = cfg.DefaultLayout
	g.fAutoTile = cfg.AutoTile
	g.fLogLevel = cfg.LogLevel
	g.fPadding = strconv.Itoa(cfg.Padding)
	g.fMainWindowCount = strconv.Itoa(cfg.MainWindowCount)
	g.fPartitionCount = strconv.Itoa(cfg.PartitionCount)
	g.fDragSwapBorder = strconv.Itoa(cfg.DragSwapBorder)
	g.fResizeInc = formatFloat(cfg.ResizeIncrement)
	g.fWindowResizeInc = formatFloat(cfg.WindowResizeIncrement)
	g.fScaleInc = formatFloat(cfg.ScaleIncrement)
	g.fEnforceDelay = strconv.Itoa(cfg.EnforceDelayMS)
	g.fSettleDelay = strconv.Itoa(cfg.SettleDelayMS)
	g.fReconcile = strconv.Itoa(cfg.ReconcileInterval)
	g.fPaddingTop = strconv.Itoa(cfg.ScreenPadding.Top)
	g.fPaddingBottom = strconv.Itoa(cfg.ScreenPadding.Bottom)
	g.fPaddingLeft = strconv.Itoa(cfg.ScreenPadding.Left)
	g.fPaddingRight = strconv.Itoa(cfg.ScreenPadding.Right)
}

func (g *GeneralTab) startEditing() {
	g.loadForm()

	layoutOpts := huh.NewOptions(tiling.LayoutNames()...)
	levelOpts := huh.NewOptions("debug", "info", "warn", "error")

	w := g.width - 4
	if w < 40 {
		w = 40
	}

	count := func(key, title, desc string, lo int, v *string) *huh.Input {
		return huh.NewInput().Key(key).Title(title).Description(desc).Validate(intAtLeast(lo)).Value(v)
	}
	fraction := func(key, title, desc string, v *string) *huh.Input {
		return huh.NewInput().Key(key).Title(title).Description(desc).Validate(openFraction).Value(v)
	}

	g.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("default_layout").
				Title("Default Layout").
				Description("Layout of desktops without a workspace_layouts entry").
				Options(layoutOpts...).
				Value(&g.fDefaultLayout),
			huh.NewConfirm().
				Key("auto_tile").
				Title("Auto Tile").
				Description("Tile new windows that have no stored preference").
				Value(&g.fAutoTile),
			count("padding", "Padding", "Pixels between tiled windows", 0, &g.fPadding),
			count("main_window_count", "Main Window Count", "Windows in the main partition", 0, &g.fMainWindowCount),
			count("partition_count", "Partition Count", "Partitions along the main axis", 1, &g.fPartitionCount),
			count("drag_swap_border", "Drag Swap Border", "Pixels a drop target is shrunk by", 0, &g.fDragSwapBorder),
			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(levelOpts...).
				Value(&g.fLogLevel),
		),
		huh.NewGroup(
			fraction("resize_increment", "Resize Increment", "Main split step, between 0 and 1", &g.fResizeInc),
			fraction("window_resize_increment", "Window Resize Increment", "Single window step, between 0 and 1", &g.fWindowResizeInc),
			fraction("scale_increment", "Scale Increment", "Floating scale step, between 0 and 1", &g.fScaleInc),
			count("enforce_delay_ms", "Enforce Delay (ms)", "Wait before undoing an external resize", 0, &g.fEnforceDelay),
			count("settle_delay_ms", "Settle Delay (ms)", "Quiet time before a drag counts as finished", 0, &g.fSettleDelay),
			count("reconcile_interval", "Reconcile Interval (s)", "0 disables periodic reconciliation", 0, &g.fReconcile),
		),
		huh.NewGroup(
			count("padding_top", "Screen Padding: Top", "", 0, &g.fPaddingTop),
			count("padding_bottom", "Screen Padding: Bottom", "", 0, &g.fPaddingBottom),
			count("padding_left", "Screen Padding: Left", "", 0, &g.fPaddingLeft),
			count("padding_right", "Screen Padding: Right", "", 0, &g.fPaddingRight),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	g.editing = true
}

// applyForm copies the form values into the config. Inputs were validated
// by the form, so parse failures only leave a field unchanged.
func (g *GeneralTab) applyForm() {
	cfg := g.cfg
	if g.fDefaultLayout != "" {
		cfg.DefaultLayout = g.fDefaultLayout
	}
	if g.fLogLevel != "" {
		cfg.LogLevel = g.fLogLevel
	}
	cfg.AutoTile = g.fAutoTile

	ints := []struct {
		in  string
		out *int
	}{
		{g.fPadding, &cfg.Padding},
		{g.fMainWindowCount, &cfg.MainWindowCount},
		{g.fPartitionCount, &cfg.PartitionCount},
		{g.fDragSwapBorder, &cfg.DragSwapBorder},
		{g.fEnforceDelay, &cfg.EnforceDelayMS},
		{g.fSettleDelay, &cfg.SettleDelayMS},
		{g.fReconcile, &cfg.ReconcileInterval},
		{g.fPaddingTop, &cfg.ScreenPadding.Top},
		{g.fPaddingBottom, &cfg.ScreenPadding.Bottom},
		{g.fPaddingLeft, &cfg.ScreenPadding.Left},
		{g.fPaddingRight, &cfg.ScreenPadding.Right},
	}
	for _, f := range ints {
		if v, err := strconv.Atoi(strings.TrimSpace(f.in)); err == nil {
			*f.out = v
		}
	}

	floats := []struct {
		in  string
		out *float64
	}{
		{g.fResizeInc, &cfg.ResizeIncrement},
		{g.fWindowResizeInc, &cfg.WindowResizeIncrement},
		{g.fScaleInc, &cfg.ScaleIncrement},
	}
	for _, f := range floats {
		if v, err := strconv.ParseFloat(strings.TrimSpace(f.in), 64); err == nil {
			*f.out = v
		}
	}
}

func intAtLeast(lo int) func(string) error {
	return func(s string) error {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("must be a whole number")
		}
		if v < lo {
			return fmt.Errorf("must be >= %d", lo)
		}
		return nil
	}
}

func openFraction(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if v <= 0 || v >= 1 {
		return fmt.Errorf("must be between 0 and 1 (exclusive)")
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// View implements tea.Model.
func (g GeneralTab) View() string {
	if g.editing && g.form != nil {
		return g.viewEditing()
	}
	return g.viewDisplay()
}

func (g GeneralTab) viewDisplay() string {
	cfg := g.cfg

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Width(22).
		Align(lipgloss.Right).
		PaddingRight(2)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)

	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	padding := fmt.Sprintf("top:%d bottom:%d left:%d right:%d",
		cfg.ScreenPadding.Top, cfg.ScreenPadding.Bottom,
		cfg.ScreenPadding.Left, cfg.ScreenPadding.Right)

	onOff := "off"
	if cfg.AutoTile {
		onOff = "on"
	}
	reconcile := "off"
	if cfg.ReconcileInterval > 0 {
		reconcile = fmt.Sprintf("every %ds", cfg.ReconcileInterval)
	}

	lines := []string{
		"",
		row("Default Layout", cfg.DefaultLayout),
		row("Auto Tile", onOff),
		row("Padding", strconv.Itoa(cfg.Padding)),
		row("Screen Padding", padding),
		"",
		row("Main Windows", strconv.Itoa(cfg.MainWindowCount)),
		row("Partitions", strconv.Itoa(cfg.PartitionCount)),
		row("Drag Swap Border", strconv.Itoa(cfg.DragSwapBorder)),
		row("Increments", fmt.Sprintf("split %s  window %s  scale %s",
			formatFloat(cfg.ResizeIncrement), formatFloat(cfg.WindowResizeIncrement), formatFloat(cfg.ScaleIncrement))),
		"",
		row("Enforce Delay", fmt.Sprintf("%dms", cfg.EnforceDelayMS)),
		row("Settle Delay", fmt.Sprintf("%dms", cfg.SettleDelayMS)),
		row("Reconcile", reconcile),
		row("Log Level", cfg.LogLevel),
		"",
		dimStyle.Render("  Press 'e' to edit settings"),
	}

	content := strings.Join(lines, "\n")

	contentStyle := lipgloss.NewStyle().
		Width(g.width).
		Height(g.height).
		Padding(1, 2)

	return contentStyle.Render(content)
}

func (g GeneralTab) viewEditing() string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Render("Editing General Settings") +
		lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("  (esc to cancel)")

	formView := g.form.View()

	content := header + "\n\n" + formView

	style := lipgloss.NewStyle().
		Width(g.width).
		Height(g.height).
		Padding(1, 2)

	return style.Render(content)
}
