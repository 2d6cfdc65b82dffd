//go:build !linux

package daemon

import (
	"context"
	"errors"
	"log/slog"
)

// ErrDisplayLost is returned when the X event loop exits on its own.
var ErrDisplayLost = errors.New("X event loop exited")

// Options configures Run.
type Options struct {
	ConfigPath string
	Display    string
	LogLevel   string
	Logger     *slog.Logger
}

// Run is only supported on Linux/X11.
func Run(ctx context.Context, opts Options) error {
	return errors.New("the daemon requires Linux with an X11 display")
}
