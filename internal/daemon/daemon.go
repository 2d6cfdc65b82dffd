//go:build linux

package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/shapetile/internal/config"
	"github.com/1broseidon/shapetile/internal/hotkeys"
	"github.com/1broseidon/shapetile/internal/ipc"
	"github.com/1broseidon/shapetile/internal/logging"
	"github.com/1broseidon/shapetile/internal/manager"
	"github.com/1broseidon/shapetile/internal/platform"
	"github.com/1broseidon/shapetile/internal/runtimepath"
	"github.com/thejerf/suture/v4"
)

// ErrDisplayLost is returned when the X event loop exits on its own.
var ErrDisplayLost = errors.New("X event loop exited")

// Options configures Run.
type Options struct {
	// ConfigPath is loaded at startup and watched. Empty means the default
	// location.
	ConfigPath string
	// Display overrides the configured X display.
	Display string
	// LogLevel overrides the configured log_level until the next reload.
	LogLevel string
	Logger   *slog.Logger
}

// Run tiles windows until ctx is cancelled, then moves every tiled window
// back to where it was first seen.
func Run(ctx context.Context, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	path := opts.ConfigPath
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return err
		}
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := res.Config
	level := opts.LogLevel
	if level == "" {
		level = cfg.LogLevel
	}
	if err := logging.SetLevel(level); err != nil {
		return err
	}
	log.Info("configuration loaded", "path", path, "files", len(res.Files), "layout", cfg.DefaultLayout)

	socket, err := runtimepath.SocketPath()
	if err != nil {
		return err
	}
	if ipc.NewClientWithSocket(socket).Ping() == nil {
		return fmt.Errorf("%w: %s", ipc.ErrAlreadyRunning, socket)
	}

	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}
	display := opts.Display
	if display == "" {
		display = cfg.Display
	}
	backend, err := platform.NewLinuxBackendFromDisplay(display)
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	defer backend.Disconnect()

	mgr, err := manager.New(manager.Options{Backend: backend, Config: cfg, Logger: log})
	if err != nil {
		return err
	}
	if err := backend.Subscribe(mgr, cfg.SettleDelay()); err != nil {
		return fmt.Errorf("failed to watch windows: %w", err)
	}
	if err := mgr.Start(); err != nil {
		return err
	}
	defer mgr.RestoreOriginalPositions()

	d := &Daemon{
		path:    path,
		manager: mgr,
		keys:    hotkeys.NewHandler(backend.XUtil(), mgr),
		log:     log.With("component", "daemon"),
	}
	d.bind(cfg)

	srv, err := ipc.NewServer(socket, mgr, d.Reload)
	if err != nil {
		return err
	}

	watcher := config.NewWatcher(path)
	watcher.OnChange(func(c *config.Config) {
		if err := d.Apply(c); err != nil {
			d.log.Warn("failed to apply reloaded config", "error", err)
		}
	})

	super := NewSupervisor("shapetile", log)
	Add(super, eventLoop(backend))
	Add(super, srv)
	Add(super, watcher)
	Add(super, NewServiceFunc("sighup", d.serveHangup))
	if every := cfg.ReconcileEvery(); every > 0 {
		r := NewReconciler(every, mgr, log)
		r.ReconcileNow()
		Add(super, r)
	}

	log.Info("shapetile daemon started", "desktop_layout", mgr.CurrentLayout())
	err = super.Serve(ctx)
	log.Info("shutting down shapetile daemon")
	switch {
	case errors.Is(err, ErrDisplayLost):
		return ErrDisplayLost
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil
	}
	return err
}

func eventLoop(backend *platform.LinuxBackend) ServiceFunc {
	return NewServiceFunc("x-events", func(ctx context.Context) error {
		done := make(chan struct{})
		go func() {
			backend.EventLoop()
			close(done)
		}()

		select {
		case <-ctx.Done():
			backend.Quit()
			return ctx.Err()
		case <-done:
			return errors.Join(suture.ErrTerminateSupervisorTree, ErrDisplayLost)
		}
	})
}

// serveHangup reloads the config on SIGHUP.
func (d *Daemon) serveHangup(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sigCh:
			d.log.Info("received SIGHUP, reloading config")
			if err := d.Reload(); err != nil {
				d.log.Warn("config reload failed", "error", err)
			}
		}
	}
}
