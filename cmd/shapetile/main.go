package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/1broseidon/shapetile/internal/config"
	"github.com/1broseidon/shapetile/internal/daemon"
	"github.com/1broseidon/shapetile/internal/ipc"
	"github.com/1broseidon/shapetile/internal/logging"
	"github.com/1broseidon/shapetile/internal/mcp"
	"github.com/1broseidon/shapetile/internal/tui"
)

var version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string
}

func main() {
	// A .env in the working directory may carry DISPLAY,
	// XAUTHORITY or SHAPETILE_SOCKET for setups started outside a session.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: failed to read .env: %v\n", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "shapetile",
		Short: "Automatic window tiling for X11 desktops",
		Long: `shapetile keeps the windows of each desktop arranged in a floating,
vertical, horizontal or fullscreen layout, and lets you drive it with
global hotkeys, the command line, a TUI or MCP tools.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Init(opts.logLevel)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file path (default: ~/.config/shapetile/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	root.AddCommand(
		newDaemonCmd(opts),
		newStatusCmd(),
		newLayoutCmd(),
		newActionCmd(),
		newReloadCmd(),
		newConfigCmd(opts),
		newPreviewCmd(opts),
		newMCPCmd(),
		newTUICmd(opts),
	)
	return root
}

func newDaemonCmd(opts *rootOptions) *cobra.Command {
	var display string

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Start the tiling daemon (foreground)",
		Long: `Start the tiling daemon in the foreground. It tiles windows, grabs the
configured hotkeys, serves the IPC socket and reloads the config file when
it changes or on SIGHUP. On exit every tiled window is moved back to where
it was first seen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return daemon.Run(ctx, daemon.Options{
				ConfigPath: opts.configPath,
				Display:    display,
				LogLevel:   opts.logLevel,
				Logger:     slog.Default(),
			})
		},
	}
	cmd.Flags().StringVar(&display, "display", "", "X display to manage (default: config display, then $DISPLAY)")
	return cmd
}

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Long: `Start the MCP server on stdio. Tool calls are forwarded to the running
daemon over its IPC socket.

Example:
  claude mcp add shapetile -- shapetile mcp serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err := mcp.NewServer(ipc.NewClient()).Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	})
	return cmd
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive configuration editor",
		Long: `Edit the configuration file interactively. When the daemon is running,
layouts can be applied to the current desktop live and the daemon reloads
the file after each save.

Keys:
  1-3, tab   Switch tabs
  e          Edit the selected settings
  ctrl+s     Review and save changes
  q          Quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(opts.configPath)
		},
	}
}

// loadConfig loads path, or the default location when path is empty.
func loadConfig(path string) (*config.LoadResult, string, error) {
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return nil, "", err
		}
	}
	res, err := config.LoadFromPath(path)
	return res, path, err
}
