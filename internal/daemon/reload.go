package daemon

import (
	"log/slog"

	"github.com/1broseidon/shapetile/internal/config"
	"github.com/1broseidon/shapetile/internal/logging"
)

// ConfigApplier takes a validated config.
type ConfigApplier interface {
	ApplyConfig(cfg *config.Config) error
}

// KeyBinder replaces the active key grabs.
type KeyBinder interface {
	Bind(bindings map[string]string) (int, error)
}

// Daemon pushes reloaded configuration into the running components.
type Daemon struct {
	path    string
	manager ConfigApplier
	keys    KeyBinder
	log     *slog.Logger
}

// Reload re-reads the config file and applies it.
func (d *Daemon) Reload() error {
	res, err := config.LoadFromPath(d.path)
	if err != nil {
		return err
	}
	return d.Apply(res.Config)
}

// Apply hands cfg to the manager and rebinds keys. Keys are left alone if
// the manager rejects cfg.
func (d *Daemon) Apply(cfg *config.Config) error {
	if err := d.manager.ApplyConfig(cfg); err != nil {
		return err
	}
	d.bind(cfg)
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		d.log.Warn("ignoring log level", "error", err)
	}
	return nil
}

func (d *Daemon) bind(cfg *config.Config) {
	n, err := d.keys.Bind(cfg.Keybindings)
	if err != nil {
		d.log.Warn("some keybindings could not be registered", "error", err)
	}
	d.log.Info("keybindings registered", "count", n)
}
