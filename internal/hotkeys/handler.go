package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Runner performs named actions.
type Runner interface {
	Run(action string) error
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	runner Runner
	log    *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler. Lock modifiers (CapsLock, NumLock,
// ScrollLock) never prevent a binding from firing.
func NewHandler(xu *xgbutil.XUtil, runner Runner) *Handler {
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:     xu,
		root:   xu.RootWin(),
		runner: runner,
		log:    slog.Default().With("component", "hotkeys"),
	}
}

// Bind replaces every grab with bindings, a map of action name to key
// sequence such as "Mod4-Shift-j". Empty sequences are skipped. A sequence
// that cannot be parsed does not stop the others from being bound.
func (h *Handler) Bind(bindings map[string]string) (int, error) {
	keybind.Detach(h.xu, h.root)

	var errs []error
	bound := 0
	for _, b := range plan(bindings) {
		if err := h.RegisterFunc(b.Keys, h.runAction(b.Action)); err != nil {
			errs = append(errs, fmt.Errorf("%s (%s): %w", b.Action, b.Keys, err))
			continue
		}
		h.log.Debug("bound key", "action", b.Action, "key", b.Keys)
		bound++
	}
	return bound, errors.Join(errs...)
}

// Binding is one key sequence and the action it triggers.
type Binding struct {
	Action string
	Keys   string
}

// plan orders bindings by action and drops unbound ones.
func plan(bindings map[string]string) []Binding {
	out := make([]Binding, 0, len(bindings))
	for action, keys := range bindings {
		keys = strings.TrimSpace(keys)
		if keys == "" {
			continue
		}
		out = append(out, Binding{Action: action, Keys: keys})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Action < out[j].Action })
	return out
}

func (h *Handler) runAction(action string) func() {
	return func() {
		h.log.Debug("hotkey triggered", "action", action)
		if err := h.runner.Run(action); err != nil {
			h.log.Warn("hotkey action failed", "action", action, "error", err)
		}
	}
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
