package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/shapetile/internal/manager"
	"github.com/1broseidon/shapetile/internal/runtimepath"
	"github.com/1broseidon/shapetile/internal/tiling"
)

// Manager is the part of the window manager the server drives.
type Manager interface {
	Snapshot() manager.Snapshot
	Run(action string) error
	SetLayout(name string) error
}

// ErrAlreadyRunning is returned when another daemon answers on the socket.
var ErrAlreadyRunning = errors.New("a daemon is already listening on the socket")

// Server handles IPC requests from clients
type Server struct {
	socketPath string
	mgr        Manager
	reload     func() error
	startTime  time.Time
	log        *slog.Logger

	listener     net.Listener
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server. An empty socketPath uses the runtime
// directory default. reload is called for RELOAD and may be nil.
func NewServer(socketPath string, mgr Manager, reload func() error) (*Server, error) {
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}

	return &Server{
		socketPath: socketPath,
		mgr:        mgr,
		reload:     reload,
		startTime:  time.Now(),
		log:        slog.Default().With("component", "ipc.Server"),
	}, nil
}

func (s *Server) String() string { return "ipc-server" }

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Serve listens until ctx is cancelled, then removes the socket.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return ctx.Err()
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	if conn, err := net.DialTimeout("unix", s.socketPath, time.Second); err == nil {
		conn.Close()
		return fmt.Errorf("%w: %s", ErrAlreadyRunning, s.socketPath)
	}
	// Remove a stale socket left by a crashed daemon.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.shutdownMu.Lock()
	s.listener = listener
	s.shuttingDown = false
	s.shutdownMu.Unlock()

	s.log.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop(listener)
	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop(listener net.Listener) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			done := s.shuttingDown
			s.shutdownMu.Unlock()
			if done || errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(30 * time.Second))

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.log.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.writeResponse(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	s.writeResponse(conn, s.handleCommand(req))
}

func (s *Server) writeResponse(conn net.Conn, resp *Response) {
	respData, err := resp.Marshal()
	if err != nil {
		s.log.Error("failed to marshal response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.log.Warn("failed to send response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.log.Debug("IPC request", "command", req.Command)
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetLayout:
		return okResponse(s.mgr.Snapshot())
	case CommandRunAction:
		return s.handleRunAction(req.Payload)
	case CommandSetLayout:
		return s.handleSetLayout(req.Payload)
	case CommandReload:
		return s.handleReload()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	snap := s.mgr.Snapshot()
	status := StatusData{
		CurrentDesktop: snap.CurrentDesktop,
		Layouts:        tiling.LayoutNames(),
		UptimeSeconds:  int64(time.Since(s.startTime).Seconds()),
		DaemonRunning:  true,
	}
	if ws, ok := snap.Current(); ok {
		status.CurrentLayout = ws.Layout
		status.WindowCount = len(ws.Tiles)
		for _, t := range ws.Tiles {
			if t.Managed && !t.Minimized {
				status.TiledCount++
			}
		}
	}
	return okResponse(status)
}

func (s *Server) handleRunAction(payload json.RawMessage) *Response {
	var req RunActionPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid action payload: %v", err))
	}
	if req.Action == "" {
		return NewErrorResponse("action is required")
	}
	if err := s.mgr.Run(req.Action); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to run %s: %v", req.Action, err))
	}
	return okResponse(nil)
}

func (s *Server) handleSetLayout(payload json.RawMessage) *Response {
	var req SetLayoutPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid layout payload: %v", err))
	}
	if req.Layout == "" {
		return NewErrorResponse("layout is required")
	}
	if err := s.mgr.SetLayout(req.Layout); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to set layout: %v", err))
	}
	return okResponse(nil)
}

func (s *Server) handleReload() *Response {
	if s.reload == nil {
		return NewErrorResponse("reload is not supported")
	}
	s.log.Info("IPC: received RELOAD")
	if err := s.reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	return okResponse(nil)
}

func okResponse(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	listener := s.listener
	s.listener = nil
	s.shutdownMu.Unlock()

	if listener != nil {
		listener.Close()
		os.Remove(s.socketPath)
	}
}
