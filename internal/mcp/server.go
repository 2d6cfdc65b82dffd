package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/shapetile/internal/ipc"
	"github.com/1broseidon/shapetile/internal/manager"
)

const (
	ServerName    = "shapetile"
	ServerVersion = "0.1.0"
)

// Daemon is the part of the IPC client the tools call.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	GetLayout() (*manager.Snapshot, error)
	RunAction(action string) error
	SetLayout(layout string) error
}

var _ Daemon = (*ipc.Client)(nil)

// Server exposes the running daemon to MCP clients.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	log       *slog.Logger
}

// NewServer creates an MCP server that forwards tool calls to daemon.
func NewServer(daemon Daemon) *Server {
	s := &Server{
		daemon: daemon,
		log:    slog.Default().With("component", "mcp"),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report whether the shapetile daemon is running, the current desktop and its layout, and how many windows are tiled.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_layout",
		Description: "Describe each desktop's layout: split counts, main ratio and every window with its tiled state and geometry in pixels.",
	}, s.handleGetLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_actions",
		Description: "List the action names accepted by run_action.",
	}, s.handleListActions)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_action",
		Description: "Run a tiling action (the same ones bound to keys) against the active window on the current desktop. Returns the resulting layout of that desktop.",
	}, s.handleRunAction)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_layout",
		Description: "Switch the current desktop to another layout. Split ratios and window order are kept.",
	}, s.handleSetLayout)
}
