package ipc

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/1broseidon/shapetile/internal/manager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeManager struct {
	mu      sync.Mutex
	layout  string
	actions []string
}

func (f *fakeManager) Snapshot() manager.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return manager.Snapshot{
		CurrentDesktop: 1,
		Workspaces: []manager.WorkspaceSnapshot{{
			Desktop:         1,
			Layout:          f.layout,
			MainWindowCount: 1,
			PartitionCount:  2,
			MainRatio:       0.5,
			Tiles: []manager.TileSnapshot{
				{ID: 7, Title: "term", Managed: true, Rect: manager.Rect{Width: 500, Height: 800}},
				{ID: 8, Title: "float"},
			},
		}},
	}
}

func (f *fakeManager) Run(action string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if action == "explode" {
		return errors.New("unknown action")
	}
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeManager) SetLayout(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.layout = name
	return nil
}

// shortSocketPath keeps the path under the unix socket length limit.
func shortSocketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "st")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "s.sock")
}

func startServer(t *testing.T, mgr Manager, reload func() error) (*Server, *Client) {
	t.Helper()
	socket := shortSocketPath(t)
	srv, err := NewServer(socket, mgr, reload)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	client := NewClientWithSocket(socket)
	require.Eventually(t, func() bool { return client.Ping() == nil }, 2*time.Second, 10*time.Millisecond)
	return srv, client
}

func TestRoundTrip(t *testing.T) {
	mgr := &fakeManager{layout: "vertical"}
	var reloads atomic.Int32
	_, client := startServer(t, mgr, func() error {
		reloads.Add(1)
		return nil
	})

	status, err := client.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.DaemonRunning)
	assert.Equal(t, "vertical", status.CurrentLayout)
	assert.Equal(t, 1, status.CurrentDesktop)
	assert.Equal(t, 2, status.WindowCount)
	assert.Equal(t, 1, status.TiledCount)
	assert.Contains(t, status.Layouts, "floating")

	require.NoError(t, client.SetLayout("horizontal"))
	snap, err := client.GetLayout()
	require.NoError(t, err)
	ws, ok := snap.Current()
	require.True(t, ok)
	assert.Equal(t, "horizontal", ws.Layout)
	require.Len(t, ws.Tiles, 2)
	assert.Equal(t, manager.Rect{Width: 500, Height: 800}, ws.Tiles[0].Rect)

	require.NoError(t, client.RunAction("next_window"))
	mgr.mu.Lock()
	assert.Equal(t, []string{"next_window"}, mgr.actions)
	mgr.mu.Unlock()

	require.NoError(t, client.Reload())
	assert.Equal(t, int32(1), reloads.Load())
}

func TestErrorsAreReported(t *testing.T) {
	_, client := startServer(t, &fakeManager{}, func() error { return errors.New("bad yaml") })

	err := client.RunAction("explode")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daemon error")

	assert.ErrorContains(t, client.RunAction(""), "action is required")
	assert.ErrorContains(t, client.SetLayout(""), "layout is required")
	assert.ErrorContains(t, client.Reload(), "bad yaml")

	_, err = client.sendRequest("NOPE", nil)
	assert.ErrorContains(t, err, "Unknown command")
}

func TestReloadUnsupportedWithoutCallback(t *testing.T) {
	_, client := startServer(t, &fakeManager{}, nil)
	assert.ErrorContains(t, client.Reload(), "not supported")
}

func TestSecondServerRefusesLiveSocket(t *testing.T) {
	srv, _ := startServer(t, &fakeManager{}, nil)

	other, err := NewServer(srv.SocketPath(), &fakeManager{}, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, other.Start(), ErrAlreadyRunning)
}

func TestStaleSocketIsReplaced(t *testing.T) {
	socket := shortSocketPath(t)
	require.NoError(t, os.WriteFile(socket, nil, 0600))

	srv, err := NewServer(socket, &fakeManager{}, nil)
	require.NoError(t, err)
	require.NoError(t, srv.Start())
	defer srv.Stop()

	conn, err := net.Dial("unix", socket)
	require.NoError(t, err)
	conn.Close()
}

func TestClientWithoutDaemon(t *testing.T) {
	client := NewClientWithSocket(shortSocketPath(t))
	err := client.Ping()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is the daemon running?")
}

func TestSocketRemovedOnShutdown(t *testing.T) {
	socket := shortSocketPath(t)
	srv, err := NewServer(socket, &fakeManager{}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	require.Eventually(t, func() bool {
		_, err := os.Stat(socket)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	_, err = os.Stat(socket)
	assert.True(t, os.IsNotExist(err))
}

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]byte(`{"command":"RUN_ACTION","payload":{"action":"relayout"}}`))
	require.NoError(t, err)
	assert.Equal(t, CommandRunAction, req.Command)
	assert.JSONEq(t, `{"action":"relayout"}`, string(req.Payload))

	_, err = ParseRequest([]byte(`{not json`))
	assert.Error(t, err)
}
