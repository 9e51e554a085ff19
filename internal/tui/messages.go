package tui

import (
	"time"

	"github.com/jxwalker/modman/internal/bridge"
)

type tickMsg time.Time

// eventMsg carries one bus event into the update loop.
type eventMsg struct{ ev bridge.Event }

// busDoneMsg ends event delivery; err is nil when the bus was closed normally.
type busDoneMsg struct{ err error }

type modsLoadedMsg struct {
	seq   uint64
	names []string
}

// callFailedMsg reports a backend call that returned an error. action reads
// as a verb phrase ("list mods").
type callFailedMsg struct {
	action string
	err    error
}

type filePickedMsg struct{ path string }

type folderPickedMsg struct{ path string }

type gameDirMsg struct{ dir string }

type gameDirSavedMsg struct{}

type modAddedMsg struct{ name string }

type modRemovedMsg struct{ name string }

type copiedMsg struct {
	name string
	err  error
}
