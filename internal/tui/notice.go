package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Notice controls.
const (
	noticeClose   = noticeID + "-close"
	noticeConfirm = noticeID + "-confirm"
)

// notice is the error modal. Both of its controls only dismiss it.
type notice struct {
	message string
}

func newNotice(message string) *notice {
	return &notice{message: message}
}

func (n *notice) ID() string { return noticeID }

func (n *notice) Message() string { return n.message }

func (n *notice) Press(control string) (tea.Cmd, bool) {
	switch control {
	case noticeClose, noticeConfirm:
		return nil, true
	}
	return nil, false
}

func (n *notice) HandleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "esc", "x":
		return n.Press(noticeClose)
	case "enter":
		return n.Press(noticeConfirm)
	}
	return nil, false
}

func (n *notice) View(th Theme, width int) string {
	var b strings.Builder
	b.WriteString(th.bad.Bold(true).Render("Error"))
	b.WriteString("\n\n")
	b.WriteString(wrap(n.message, width))
	b.WriteString("\n\n")
	b.WriteString(th.footer.Render("enter ok • esc close"))
	return th.modal.Render(b.String())
}
