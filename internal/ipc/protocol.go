package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus CommandType = "GET_STATUS"
	CommandGetLayout CommandType = "GET_LAYOUT"
	CommandRunAction CommandType = "RUN_ACTION"
	CommandSetLayout CommandType = "SET_LAYOUT"
	CommandReload    CommandType = "RELOAD"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	CurrentLayout  string   `json:"current_layout"`
	CurrentDesktop int      `json:"current_desktop"`
	WindowCount    int      `json:"window_count"`
	TiledCount     int      `json:"tiled_count"`
	Layouts        []string `json:"layouts"`
	UptimeSeconds  int64    `json:"uptime_seconds"`
	DaemonRunning  bool     `json:"daemon_running"`
}

// RunActionPayload is the payload of RUN_ACTION.
type RunActionPayload struct {
	Action string `json:"action"`
}

// SetLayoutPayload is the payload of SET_LAYOUT.
type SetLayoutPayload struct {
	Layout string `json:"layout"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
