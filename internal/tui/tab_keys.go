package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/shapetile/internal/config"
)

// KeysTab lists every action with its key sequence and edits them in place.
type KeysTab struct {
	cfg    *config.Config
	cursor int
	offset int

	editing bool
	form    *huh.Form
	fKeys   string

	width  int
	height int
}

// NewKeysTab creates a KeysTab editing cfg.Keybindings.
func NewKeysTab(cfg *config.Config) KeysTab {
	if cfg.Keybindings == nil {
		cfg.Keybindings = make(map[string]string)
	}
	return KeysTab{cfg: cfg}
}

func (k KeysTab) selected() string {
	return config.Actions[k.cursor]
}

// Update implements tea.Model.
func (k KeysTab) Update(msg tea.Msg) (KeysTab, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		k.width = ws.Width
		k.height = ws.Height
		k.clampOffset()
		return k, nil
	}
	if k.editing {
		return k.updateEditing(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return k, nil
	}
	switch km.String() {
	case "up", "k":
		if k.cursor > 0 {
			k.cursor--
		}
	case "down", "j":
		if k.cursor < len(config.Actions)-1 {
			k.cursor++
		}
	case "home", "g":
		k.cursor = 0
	case "end", "G":
		k.cursor = len(config.Actions) - 1
	case "x", "delete":
		k.cfg.Keybindings[k.selected()] = ""
	case "e", "enter":
		k.startEditing()
		return k, k.form.Init()
	}
	k.clampOffset()
	return k, nil
}

func (k KeysTab) updateEditing(msg tea.Msg) (KeysTab, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		k.editing = false
		k.form = nil
		return k, nil
	}

	form, cmd := k.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		k.form = f
	}
	if k.form.State == huh.StateCompleted {
		k.cfg.Keybindings[k.selected()] = strings.TrimSpace(k.fKeys)
		k.editing = false
		k.form = nil
		return k, nil
	}
	return k, cmd
}

func (k *KeysTab) startEditing() {
	action := k.selected()
	k.fKeys = k.cfg.Keybindings[action]
	k.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("keys").
				Title(action).
				Description("xgbutil key sequence, e.g. Mod4-Shift-j. Empty unbinds.").
				Validate(k.unusedKeys(action)).
				Value(&k.fKeys),
		),
	).WithShowHelp(true).WithShowErrors(true)
	k.editing = true
}

// unusedKeys rejects a sequence already bound to another action.
func (k KeysTab) unusedKeys(action string) func(string) error {
	bindings := k.cfg.Keybindings
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if strings.ContainsAny(s, " \t") {
			return fmt.Errorf("key sequences cannot contain spaces")
		}
		for other, keys := range bindings {
			if other != action && strings.TrimSpace(keys) == s {
				return fmt.Errorf("already bound to %s", other)
			}
		}
		return nil
	}
}

// visibleRows is the number of action rows that fit below the header.
func (k KeysTab) visibleRows() int {
	rows := k.height - 4
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (k *KeysTab) clampOffset() {
	rows := k.visibleRows()
	if k.cursor < k.offset {
		k.offset = k.cursor
	}
	if k.cursor >= k.offset+rows {
		k.offset = k.cursor - rows + 1
	}
}

// View implements tea.Model.
func (k KeysTab) View() string {
	style := lipgloss.NewStyle().
		Width(k.width).
		Height(k.height).
		Padding(1, 2)

	if k.editing {
		header := lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Render("Editing Keybinding") +
			lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				Render("  (esc to cancel)")
		return style.Render(header + "\n\n" + k.form.View())
	}

	actionStyle := lipgloss.NewStyle().Width(32)
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	unboundStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)

	lines := []string{
		unboundStyle.Render("  e/enter:edit  x:unbind  j/k:move"),
		"",
	}
	end := k.offset + k.visibleRows()
	if end > len(config.Actions) {
		end = len(config.Actions)
	}
	for i := k.offset; i < end; i++ {
		action := config.Actions[i]
		prefix := "  "
		if i == k.cursor {
			prefix = cursorStyle.Render("> ")
		}
		keys := strings.TrimSpace(k.cfg.Keybindings[action])
		value := keyStyle.Render(keys)
		if keys == "" {
			value = unboundStyle.Render("unbound")
		}
		lines = append(lines, prefix+actionStyle.Render(action)+value)
	}
	return style.Render(strings.Join(lines, "\n"))
}
