package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/1broseidon/shapetile/internal/tiling"
	"gopkg.in/yaml.v3"
)

// Margins is the space kept free at each screen edge.
type Margins struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// Includes lists extra files or directories merged before the file that
// names them. YAML accepts a single path or a list.
type Includes []string

func (i *Includes) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*i = Includes{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*i = list
		return nil
	default:
		return fmt.Errorf("include must be a path or a list of paths")
	}
}

type Config struct {
	Include Includes `yaml:"include,omitempty"`

	LogLevel   string `yaml:"log_level"`
	Display    string `yaml:"display,omitempty"`
	XAuthority string `yaml:"xauthority,omitempty"`

	DefaultLayout    string         `yaml:"default_layout"`
	WorkspaceLayouts map[int]string `yaml:"workspace_layouts,omitempty"`
	// AutoTile tiles new windows that have no stored tile preference.
	AutoTile bool `yaml:"auto_tile"`

	Padding               int     `yaml:"padding"`
	ScreenPadding         Margins `yaml:"screen_padding"`
	MainWindowCount       int     `yaml:"main_window_count"`
	PartitionCount        int     `yaml:"partition_count"`
	DragSwapBorder        int     `yaml:"drag_swap_border"`
	ResizeIncrement       float64 `yaml:"resize_increment"`
	WindowResizeIncrement float64 `yaml:"window_resize_increment"`
	ScaleIncrement        float64 `yaml:"scale_increment"`

	EnforceDelayMS    int `yaml:"enforce_delay_ms"`
	SettleDelayMS     int `yaml:"settle_delay_ms"`
	ReconcileInterval int `yaml:"reconcile_interval"` // seconds, 0 disables

	// Keybindings maps action names to xgbutil key sequences. An empty
	// sequence unbinds the action.
	Keybindings map[string]string `yaml:"keybindings"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:              "info",
		DefaultLayout:         tiling.LayoutVertical,
		WorkspaceLayouts:      map[int]string{},
		AutoTile:              true,
		Padding:               0,
		MainWindowCount:       1,
		PartitionCount:        2,
		DragSwapBorder:        tiling.DefaultDragBorder,
		ResizeIncrement:       0.05,
		WindowResizeIncrement: 0.1,
		ScaleIncrement:        0.1,
		EnforceDelayMS:        int(tiling.DefaultEnforceDelay / time.Millisecond),
		SettleDelayMS:         150,
		ReconcileInterval:     10,
		Keybindings:           DefaultKeybindings(),
	}
}

// LayoutFor returns the layout a desktop starts with.
func (c *Config) LayoutFor(desktop int) string {
	if name, ok := c.WorkspaceLayouts[desktop]; ok {
		return name
	}
	return c.DefaultLayout
}

func (c *Config) EnforceDelay() time.Duration {
	return time.Duration(c.EnforceDelayMS) * time.Millisecond
}

func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMS) * time.Millisecond
}

func (c *Config) ReconcileEvery() time.Duration {
	return time.Duration(c.ReconcileInterval) * time.Second
}

// Clone returns a deep copy safe to edit without touching c.
func (c *Config) Clone() *Config {
	out := *c
	out.Include = append(Includes(nil), c.Include...)
	out.WorkspaceLayouts = make(map[int]string, len(c.WorkspaceLayouts))
	for k, v := range c.WorkspaceLayouts {
		out.WorkspaceLayouts[k] = v
	}
	out.Keybindings = make(map[string]string, len(c.Keybindings))
	for k, v := range c.Keybindings {
		out.Keybindings[k] = v
	}
	return &out
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	save := c.Clone()
	save.Include = nil
	data, err := yaml.Marshal(save)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates and writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}

	if err := validateLayoutName(c.DefaultLayout); err != nil {
		return &ValidationError{Path: "default_layout", Err: err}
	}
	for desktop, name := range c.WorkspaceLayouts {
		path := fmt.Sprintf("workspace_layouts.%d", desktop)
		if desktop < 0 {
			return &ValidationError{Path: path, Err: fmt.Errorf("desktop index must be >= 0")}
		}
		if err := validateLayoutName(name); err != nil {
			return &ValidationError{Path: path, Err: err}
		}
	}

	if c.Padding < 0 {
		return &ValidationError{Path: "padding", Err: fmt.Errorf("padding must be >= 0")}
	}
	if c.ScreenPadding.Top < 0 || c.ScreenPadding.Bottom < 0 || c.ScreenPadding.Left < 0 || c.ScreenPadding.Right < 0 {
		return &ValidationError{Path: "screen_padding", Err: fmt.Errorf("screen_padding values must be >= 0")}
	}
	if c.MainWindowCount < 0 {
		return &ValidationError{Path: "main_window_count", Err: fmt.Errorf("main_window_count must be >= 0")}
	}
	if c.PartitionCount < 1 {
		return &ValidationError{Path: "partition_count", Err: fmt.Errorf("partition_count must be >= 1")}
	}
	if c.DragSwapBorder < 0 {
		return &ValidationError{Path: "drag_swap_border", Err: fmt.Errorf("drag_swap_border must be >= 0")}
	}

	increments := []struct {
		path string
		val  float64
	}{
		{"resize_increment", c.ResizeIncrement},
		{"window_resize_increment", c.WindowResizeIncrement},
		{"scale_increment", c.ScaleIncrement},
	}
	for _, inc := range increments {
		if inc.val <= 0 || inc.val >= 1 {
			return &ValidationError{Path: inc.path, Err: fmt.Errorf("%s must be between 0 and 1 (exclusive)", inc.path)}
		}
	}

	if c.EnforceDelayMS < 0 {
		return &ValidationError{Path: "enforce_delay_ms", Err: fmt.Errorf("enforce_delay_ms must be >= 0")}
	}
	if c.SettleDelayMS < 0 {
		return &ValidationError{Path: "settle_delay_ms", Err: fmt.Errorf("settle_delay_ms must be >= 0")}
	}
	if c.ReconcileInterval < 0 {
		return &ValidationError{Path: "reconcile_interval", Err: fmt.Errorf("reconcile_interval must be >= 0")}
	}

	if err := c.validateKeybindings(); err != nil {
		return err
	}

	return nil
}

func (c *Config) validateKeybindings() error {
	actions := make([]string, 0, len(c.Keybindings))
	for action := range c.Keybindings {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	seen := make(map[string]string, len(actions))
	for _, action := range actions {
		path := "keybindings." + action
		if !IsAction(action) {
			return &ValidationError{Path: path, Err: fmt.Errorf("unknown action %q", action)}
		}
		key := strings.TrimSpace(c.Keybindings[action])
		if key == "" {
			continue
		}
		if other, dup := seen[key]; dup {
			return &ValidationError{Path: path, Err: fmt.Errorf("key %q is already bound to %s", key, other)}
		}
		seen[key] = action
	}
	return nil
}

func validateLayoutName(name string) error {
	for _, known := range tiling.LayoutNames() {
		if name == known {
			return nil
		}
	}
	return fmt.Errorf("unknown layout %q (want one of: %s)", name, strings.Join(tiling.LayoutNames(), ", "))
}
