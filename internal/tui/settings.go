package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Settings controls.
const (
	settingsClose  = settingsID + "-close"
	settingsSelect = "submit-select"
	settingsSave   = "submit-save"
)

// settings edits the game directory. The folder input is the only state;
// no path validation happens here.
type settings struct {
	folder textinput.Model
	saving bool

	pickFolder func() tea.Cmd
	save       func(dir string) tea.Cmd
}

func newSettings(current string, pickFolder func() tea.Cmd, save func(string) tea.Cmd) *settings {
	in := textinput.New()
	in.Placeholder = "/path/to/game"
	in.Prompt = ""
	in.CharLimit = 0
	in.SetValue(current)
	in.CursorEnd()
	in.Focus()
	return &settings{folder: in, pickFolder: pickFolder, save: save}
}

func (s *settings) ID() string { return settingsID }

// Folder is the current value of the folder input.
func (s *settings) Folder() string { return s.folder.Value() }

// SetFolder overwrites the input with a picked path. Empty paths are ignored.
func (s *settings) SetFolder(path string) {
	if path == "" {
		return
	}
	s.folder.SetValue(path)
	s.folder.CursorEnd()
}

// Saved is called once SetGameDirectory returns, successfully or not.
func (s *settings) Saved() { s.saving = false }

func (s *settings) Press(control string) (tea.Cmd, bool) {
	switch control {
	case settingsClose:
		return nil, true
	case settingsSelect:
		return s.pickFolder(), false
	case settingsSave:
		if s.saving {
			return nil, false
		}
		s.saving = true
		return s.save(s.folder.Value()), false
	}
	return nil, false
}

func (s *settings) HandleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		return s.Press(settingsClose)
	case "ctrl+o":
		return s.Press(settingsSelect)
	case "enter":
		return s.Press(settingsSave)
	}
	var cmd tea.Cmd
	s.folder, cmd = s.folder.Update(msg)
	return cmd, false
}

func (s *settings) View(th Theme, width int) string {
	var b strings.Builder
	b.WriteString(th.title.Render("Settings"))
	b.WriteString("\n\n")
	b.WriteString(th.label.Render("Game directory"))
	b.WriteString("\n")
	s.folder.Width = max(width-4, 10)
	b.WriteString(s.folder.View())
	b.WriteString("\n\n")
	if s.saving {
		b.WriteString(th.label.Render("Saving..."))
	} else {
		b.WriteString(th.footer.Render("ctrl+o select folder • enter save • esc close"))
	}
	return th.modal.Render(b.String())
}
