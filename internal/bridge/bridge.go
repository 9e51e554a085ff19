// Package bridge defines the contract between the mod manager shell and the
// backend process that owns mod storage, the game directory setting and the
// OS dialogs. Requests go out through Backend; notifications come back on a Bus.
package bridge

import "context"

// Event names emitted by the backend.
const (
	EventLog     = "log:new"
	EventError   = "error:new"
	EventSuccess = "success:new"
	EventRefresh = "mods:refresh"
)

// Mod is an installed mod as seen by the shell. Only the name is tracked.
type Mod struct {
	Name string `json:"name"`
}

// Event is a named backend notification. Payload is empty for mods:refresh.
type Event struct {
	Name    string `json:"event"`
	Payload string `json:"data,omitempty"`
}

// Backend is the request/response half of the bridge. Every call may fail;
// callers decide what to show, nothing is retried.
//
// OpenFileDialog and OpenFolderDialog return "" when the user cancels.
type Backend interface {
	ListMods(ctx context.Context) ([]Mod, error)
	AddMod(ctx context.Context, name, path string) error
	RemoveMod(ctx context.Context, name string) error
	GetGameDirectory(ctx context.Context) (string, error)
	SetGameDirectory(ctx context.Context, path string) error
	OpenFileDialog(ctx context.Context) (string, error)
	OpenFolderDialog(ctx context.Context) (string, error)
}

// Names returns the mod names in backend order.
func Names(mods []Mod) []string {
	out := make([]string, 0, len(mods))
	for _, m := range mods {
		out = append(out, m.Name)
	}
	return out
}

// KnownEvent reports whether name is one of the events the shell handles.
func KnownEvent(name string) bool {
	switch name {
	case EventLog, EventError, EventSuccess, EventRefresh:
		return true
	}
	return false
}
