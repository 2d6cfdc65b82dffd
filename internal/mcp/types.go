package mcp

import (
	"github.com/1broseidon/shapetile/internal/manager"
)

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	CurrentLayout  string   `json:"current_layout"`
	CurrentDesktop int      `json:"current_desktop"`
	WindowCount    int      `json:"window_count"`
	TiledCount     int      `json:"tiled_count"`
	Layouts        []string `json:"layouts"`
	UptimeSeconds  int64    `json:"uptime_seconds"`
}

// GetLayoutInput is the input for the get_layout tool.
type GetLayoutInput struct {
	Desktop *int `json:"desktop,omitempty" jsonschema:"Desktop index to describe (default: every desktop the daemon has seen)"`
}

// GetLayoutOutput is the output for the get_layout tool.
type GetLayoutOutput struct {
	CurrentDesktop int                         `json:"current_desktop"`
	Workspaces     []manager.WorkspaceSnapshot `json:"workspaces"`
}

// RunActionInput is the input for the run_action tool.
type RunActionInput struct {
	Action string `json:"action" jsonschema:"Action name, see list_actions"`
}

// RunActionOutput is the output for the run_action tool.
type RunActionOutput struct {
	Action    string                     `json:"action"`
	Workspace *manager.WorkspaceSnapshot `json:"workspace,omitempty"`
}

// SetLayoutInput is the input for the set_layout tool.
type SetLayoutInput struct {
	Layout string `json:"layout" jsonschema:"Layout name: floating, vertical, horizontal or fullscreen"`
}

// SetLayoutOutput is the output for the set_layout tool.
type SetLayoutOutput struct {
	Layout    string                     `json:"layout"`
	Workspace *manager.WorkspaceSnapshot `json:"workspace,omitempty"`
}

// ListActionsInput is the input for the list_actions tool.
type ListActionsInput struct{}

// ListActionsOutput is the output for the list_actions tool.
type ListActionsOutput struct {
	Actions []string `json:"actions"`
}
