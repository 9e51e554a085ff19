package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Form controls.
const (
	formClose  = formID + "-close"
	formSubmit = "submit-add"
)

// addForm asks for the name to install a picked archive under. The path is
// fixed; only the name can be edited.
type addForm struct {
	name    textinput.Model
	path    string
	pending bool

	add func(name, path string) tea.Cmd
}

func newAddForm(defaultName, path string, add func(name, path string) tea.Cmd) *addForm {
	in := textinput.New()
	in.Placeholder = "mod name"
	in.Prompt = ""
	in.SetValue(defaultName)
	in.CursorEnd()
	in.Focus()
	return &addForm{name: in, path: path, add: add}
}

func (f *addForm) ID() string { return formID }

func (f *addForm) Name() string { return f.name.Value() }

func (f *addForm) Path() string { return f.path }

func (f *addForm) Done() { f.pending = false }

func (f *addForm) Press(control string) (tea.Cmd, bool) {
	switch control {
	case formClose:
		return nil, true
	case formSubmit:
		if f.pending {
			return nil, false
		}
		f.pending = true
		return f.add(strings.TrimSpace(f.name.Value()), f.path), false
	}
	return nil, false
}

func (f *addForm) HandleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		return f.Press(formClose)
	case "enter":
		return f.Press(formSubmit)
	}
	var cmd tea.Cmd
	f.name, cmd = f.name.Update(msg)
	return cmd, false
}

func (f *addForm) View(th Theme, width int) string {
	var b strings.Builder
	b.WriteString(th.title.Render("Add mod"))
	b.WriteString("\n\n")
	b.WriteString(th.label.Render("Name"))
	b.WriteString("\n")
	f.name.Width = max(width-4, 10)
	b.WriteString(f.name.View())
	b.WriteString("\n\n")
	b.WriteString(th.label.Render("File"))
	b.WriteString("\n")
	b.WriteString(truncateMiddle(f.path, max(width-4, 10)))
	b.WriteString("\n\n")
	if f.pending {
		b.WriteString(th.label.Render("Installing..."))
	} else {
		b.WriteString(th.footer.Render("enter add • esc close"))
	}
	return th.modal.Render(b.String())
}
