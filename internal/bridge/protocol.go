package bridge

import (
	"encoding/json"
	"time"
)

// MessageType tags a websocket frame.
type MessageType string

const (
	MessageTypeRequest  MessageType = "request"
	MessageTypeResponse MessageType = "response"
	MessageTypeEvent    MessageType = "event"
)

// Bridge methods understood by the backend.
const (
	MethodListMods         = "listMods"
	MethodAddMod           = "addMod"
	MethodRemoveMod        = "removeMod"
	MethodGetGameDirectory = "getGameDirectory"
	MethodSetGameDirectory = "setGameDirectory"
	MethodOpenFileDialog   = "openFileDialog"
	MethodOpenFolderDialog = "openFolderDialog"
)

// Frame is the single JSON envelope used in both directions.
type Frame struct {
	Type      MessageType     `json:"type"`
	RequestID string          `json:"request_id,omitempty"` // correlates responses
	Method    string          `json:"method,omitempty"`
	Params    json.RawMessage `json:"params,omitempty"`
	Event     string          `json:"event,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type addModParams struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type nameParams struct {
	Name string `json:"name"`
}

type pathParams struct {
	Path string `json:"path"`
}

// RemoteError is a failure reported by the backend for one call.
type RemoteError struct {
	Method  string
	Message string
}

func (e *RemoteError) Error() string {
	return e.Method + ": " + e.Message
}

// eventPayload decodes the data of an event frame. Backends send a JSON
// string or nothing; anything else is passed through as raw JSON text.
func eventPayload(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
