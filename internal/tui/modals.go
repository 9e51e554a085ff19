package tui

import tea "github.com/charmbracelet/bubbletea"

// Modal ids. Each kind is a singleton.
const (
	noticeID   = "popup-modal-error"
	settingsID = "popup-modal-settings"
	formID     = "popup-modal-form"
)

// Modal is an overlay in the view tree. Press triggers one of its named
// controls; dismiss reports whether the modal should be removed now.
type Modal interface {
	ID() string
	Press(control string) (cmd tea.Cmd, dismiss bool)
	HandleKey(msg tea.KeyMsg) (cmd tea.Cmd, dismiss bool)
	View(th Theme, width int) string
}

// overlays is the stack of visible modals. The last one shown has focus.
type overlays struct {
	stack []Modal
}

// Show inserts m unless a modal with the same id is already visible.
func (o *overlays) Show(m Modal) bool {
	if o.Get(m.ID()) != nil {
		return false
	}
	o.stack = append(o.stack, m)
	return true
}

func (o *overlays) Get(id string) Modal {
	for _, m := range o.stack {
		if m.ID() == id {
			return m
		}
	}
	return nil
}

func (o *overlays) Dismiss(id string) {
	for i, m := range o.stack {
		if m.ID() == id {
			o.stack = append(o.stack[:i], o.stack[i+1:]...)
			return
		}
	}
}

func (o *overlays) Top() Modal {
	if len(o.stack) == 0 {
		return nil
	}
	return o.stack[len(o.stack)-1]
}

func (o *overlays) Len() int { return len(o.stack) }
