package mcp

import (
	"context"
	"fmt"
	"slices"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/shapetile/internal/config"
	"github.com/1broseidon/shapetile/internal/manager"
	"github.com/1broseidon/shapetile/internal/tiling"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, GetStatusOutput{
		CurrentLayout:  status.CurrentLayout,
		CurrentDesktop: status.CurrentDesktop,
		WindowCount:    status.WindowCount,
		TiledCount:     status.TiledCount,
		Layouts:        status.Layouts,
		UptimeSeconds:  status.UptimeSeconds,
	}, nil
}

func (s *Server) handleGetLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args GetLayoutInput) (*mcpsdk.CallToolResult, GetLayoutOutput, error) {
	snap, err := s.daemon.GetLayout()
	if err != nil {
		return nil, GetLayoutOutput{}, err
	}

	out := GetLayoutOutput{CurrentDesktop: snap.CurrentDesktop, Workspaces: snap.Workspaces}
	if args.Desktop != nil {
		out.Workspaces = nil
		for _, ws := range snap.Workspaces {
			if ws.Desktop == *args.Desktop {
				out.Workspaces = append(out.Workspaces, ws)
			}
		}
		if len(out.Workspaces) == 0 {
			return nil, GetLayoutOutput{}, fmt.Errorf("desktop %d has no workspace yet", *args.Desktop)
		}
	}
	if out.Workspaces == nil {
		out.Workspaces = []manager.WorkspaceSnapshot{}
	}
	return nil, out, nil
}

func (s *Server) handleListActions(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListActionsInput) (*mcpsdk.CallToolResult, ListActionsOutput, error) {
	return nil, ListActionsOutput{Actions: slices.Clone(config.Actions)}, nil
}

func (s *Server) handleRunAction(_ context.Context, _ *mcpsdk.CallToolRequest, args RunActionInput) (*mcpsdk.CallToolResult, RunActionOutput, error) {
	action := strings.TrimSpace(args.Action)
	if !config.IsAction(action) {
		return nil, RunActionOutput{}, fmt.Errorf("unknown action %q; call list_actions for valid names", args.Action)
	}
	if err := s.daemon.RunAction(action); err != nil {
		return nil, RunActionOutput{}, err
	}
	s.log.Debug("ran action", "action", action)
	return nil, RunActionOutput{Action: action, Workspace: s.currentWorkspace()}, nil
}

func (s *Server) handleSetLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args SetLayoutInput) (*mcpsdk.CallToolResult, SetLayoutOutput, error) {
	layout := strings.ToLower(strings.TrimSpace(args.Layout))
	if !slices.Contains(tiling.LayoutNames(), layout) {
		return nil, SetLayoutOutput{}, fmt.Errorf("unknown layout %q; available: %v", args.Layout, tiling.LayoutNames())
	}
	if err := s.daemon.SetLayout(layout); err != nil {
		return nil, SetLayoutOutput{}, err
	}
	return nil, SetLayoutOutput{Layout: layout, Workspace: s.currentWorkspace()}, nil
}

// currentWorkspace returns the current desktop's snapshot, or nil if the
// daemon cannot be asked.
func (s *Server) currentWorkspace() *manager.WorkspaceSnapshot {
	snap, err := s.daemon.GetLayout()
	if err != nil {
		s.log.Warn("failed to read layout after change", "error", err)
		return nil
	}
	ws, ok := snap.Current()
	if !ok {
		return nil
	}
	return &ws
}
