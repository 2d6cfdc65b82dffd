package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/1broseidon/shapetile/internal/config"
	"github.com/1broseidon/shapetile/internal/ipc"
	"github.com/1broseidon/shapetile/internal/manager"
	"github.com/1broseidon/shapetile/internal/tiling"
)

type daemonClient interface {
	GetStatus() (*ipc.StatusData, error)
	GetLayout() (*manager.Snapshot, error)
	RunAction(action string) error
	SetLayout(layout string) error
	Reload() error
}

// newClient is replaced in tests.
var newClient = func() daemonClient { return ipc.NewClient() }

func newStatusCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := newClient().GetStatus()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, status)
			}
			fmt.Fprintf(out, "daemon_running:  %v\n", status.DaemonRunning)
			fmt.Fprintf(out, "current_desktop: %d\n", status.CurrentDesktop)
			fmt.Fprintf(out, "current_layout:  %s\n", status.CurrentLayout)
			fmt.Fprintf(out, "windows:         %d (%d tiled)\n", status.WindowCount, status.TiledCount)
			fmt.Fprintf(out, "uptime_seconds:  %d\n", status.UptimeSeconds)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print status as JSON")
	return cmd
}

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect or change desktop layouts",
	}

	var asJSON, all bool
	get := &cobra.Command{
		Use:   "get",
		Short: "Show the current desktop's layout and windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := newClient().GetLayout()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, snap)
			}
			if all {
				for i, ws := range snap.Workspaces {
					if i > 0 {
						fmt.Fprintln(out)
					}
					printWorkspace(out, ws)
				}
				return nil
			}
			ws, ok := snap.Current()
			if !ok {
				return fmt.Errorf("desktop %d has no windows yet", snap.CurrentDesktop)
			}
			printWorkspace(out, ws)
			return nil
		},
	}
	get.Flags().BoolVar(&asJSON, "json", false, "Print the full snapshot as JSON")
	get.Flags().BoolVar(&all, "all", false, "Show every desktop seen so far")

	set := &cobra.Command{
		Use:       "set <layout>",
		Short:     "Switch the current desktop to a layout",
		Args:      cobra.ExactArgs(1),
		ValidArgs: tiling.LayoutNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.ToLower(strings.TrimSpace(args[0]))
			if !isLayout(name) {
				return fmt.Errorf("unknown layout %q (want one of: %s)", name, strings.Join(tiling.LayoutNames(), ", "))
			}
			if err := newClient().SetLayout(name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "layout: %s\n", name)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List available layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := ""
			if status, err := newClient().GetStatus(); err == nil {
				current = status.CurrentLayout
			}
			for _, name := range tiling.LayoutNames() {
				marker := " "
				if name == current {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
			}
			return nil
		},
	}

	cmd.AddCommand(get, set, list)
	return cmd
}

func newActionCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "action <name>",
		Short: "Run a tiling action on the current desktop",
		Long: `Run one of the actions that can be bound to keys, e.g.

  shapetile action next_window
  shapetile action increase_main_split

Use --list to print every action.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				for _, a := range config.Actions {
					fmt.Fprintln(out, a)
				}
				return nil
			}
			action := strings.TrimSpace(args[0])
			if !config.IsAction(action) {
				return fmt.Errorf("unknown action %q (see 'shapetile action --list')", action)
			}
			return newClient().RunAction(action)
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "List action names")
	return cmd
}

func newReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Ask the daemon to re-read its config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().Reload(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "config reloaded")
			return nil
		},
	}
}

func isLayout(name string) bool {
	for _, n := range tiling.LayoutNames() {
		if n == name {
			return true
		}
	}
	return false
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printWorkspace(w io.Writer, ws manager.WorkspaceSnapshot) {
	fmt.Fprintf(w, "desktop %d: %s", ws.Desktop, ws.Layout)
	if ws.PartitionCount > 0 {
		fmt.Fprintf(w, " (main %d, partitions %d, ratio %.2f)", ws.MainWindowCount, ws.PartitionCount, ws.MainRatio)
	}
	fmt.Fprintln(w)
	if len(ws.Tiles) == 0 {
		fmt.Fprintln(w, "  no windows")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "STATE", "X", "Y", "WIDTH", "HEIGHT")
	for _, tile := range ws.Tiles {
		t.Row(
			fmt.Sprintf("0x%x", tile.ID),
			truncate(tile.Title, 32),
			tileState(tile),
			strconv.Itoa(tile.Rect.X),
			strconv.Itoa(tile.Rect.Y),
			strconv.Itoa(tile.Rect.Width),
			strconv.Itoa(tile.Rect.Height),
		)
	}
	fmt.Fprintln(w, t.String())
}

func tileState(t manager.TileSnapshot) string {
	var parts []string
	if t.Managed {
		parts = append(parts, "tiled")
	} else {
		parts = append(parts, "floating")
	}
	if t.Active {
		parts = append(parts, "active")
	}
	if t.Minimized {
		parts = append(parts, "minimized")
	}
	if t.Maximized {
		parts = append(parts, "maximized")
	}
	return strings.Join(parts, ",")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
