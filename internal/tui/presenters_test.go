package tui

import (
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNoticeControlsDismiss(t *testing.T) {
	for _, control := range []string{noticeClose, noticeConfirm} {
		t.Run(control, func(t *testing.T) {
			var o overlays
			o.Show(newNotice("Disk full"))
			cmd, dismiss := o.Top().Press(control)
			if cmd != nil {
				t.Error("notice controls should not issue commands")
			}
			if !dismiss {
				t.Fatal("control did not dismiss")
			}
			o.Dismiss(noticeID)
			if o.Get(noticeID) != nil || o.Len() != 0 {
				t.Fatalf("modals left: %d", o.Len())
			}
		})
	}
}

func TestNoticeKeys(t *testing.T) {
	tests := []struct {
		key     tea.KeyMsg
		dismiss bool
	}{
		{tea.KeyMsg{Type: tea.KeyEsc}, true},
		{tea.KeyMsg{Type: tea.KeyEnter}, true},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, true},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, false},
	}
	for _, tt := range tests {
		n := newNotice("boom")
		if _, dismiss := n.HandleKey(tt.key); dismiss != tt.dismiss {
			t.Errorf("%s: dismiss = %v, want %v", tt.key.String(), dismiss, tt.dismiss)
		}
	}
}

func TestOverlaysSingletonPerID(t *testing.T) {
	var o overlays
	if !o.Show(newNotice("a")) {
		t.Fatal("first show refused")
	}
	if o.Show(newNotice("b")) {
		t.Fatal("second notice accepted")
	}
	o.Show(newAddForm("n", "/p", nil))
	if o.Top().ID() != formID {
		t.Errorf("top = %s", o.Top().ID())
	}
	o.Dismiss(formID)
	if o.Top().ID() != noticeID {
		t.Errorf("top = %s after dismiss", o.Top().ID())
	}
	if got := o.Get(noticeID).(*notice).Message(); got != "a" {
		t.Errorf("message = %q", got)
	}
}

func TestSettingsSetFolderIgnoresEmpty(t *testing.T) {
	s := newSettings("/games/skyrim", nil, nil)
	s.SetFolder("")
	if s.Folder() != "/games/skyrim" {
		t.Fatalf("folder = %q", s.Folder())
	}
	s.SetFolder("/games/other")
	if s.Folder() != "/games/other" {
		t.Fatalf("folder = %q", s.Folder())
	}
}

func TestSettingsSaveUsesInputValue(t *testing.T) {
	var saved []string
	save := func(dir string) tea.Cmd {
		saved = append(saved, dir)
		return func() tea.Msg { return gameDirSavedMsg{} }
	}
	s := newSettings("/old", func() tea.Cmd { return nil }, save)
	s.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/x")})

	cmd, dismiss := s.Press(settingsSave)
	if dismiss {
		t.Error("save must wait for the backend before dismissing")
	}
	if cmd == nil {
		t.Fatal("no save command")
	}
	if _, again := s.Press(settingsSave); again {
		t.Error("unexpected dismiss")
	}
	if !reflect.DeepEqual(saved, []string{"/old/x"}) {
		t.Fatalf("saved = %v", saved)
	}
	s.Saved()
	s.Press(settingsSave)
	if len(saved) != 2 {
		t.Errorf("save after completion not issued: %v", saved)
	}
}

func TestSettingsSelectCallsPicker(t *testing.T) {
	called := 0
	s := newSettings("", func() tea.Cmd { called++; return nil }, nil)
	if _, dismiss := s.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlO}); dismiss {
		t.Error("select dismissed the modal")
	}
	if called != 1 {
		t.Errorf("picker called %d times", called)
	}
	if _, dismiss := s.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}); !dismiss {
		t.Error("esc did not dismiss")
	}
}

func TestFormSubmitsEditedName(t *testing.T) {
	type call struct{ name, path string }
	var calls []call
	add := func(name, path string) tea.Cmd {
		calls = append(calls, call{name, path})
		return nil
	}
	f := newAddForm("Awesome", `C:\Games\Mods\Awesome.zip`, add)
	f.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" Mod ")})
	f.Press(formSubmit)

	want := []call{{"Awesome Mod", `C:\Games\Mods\Awesome.zip`}}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("calls = %+v, want %+v", calls, want)
	}
}

func TestRenderRowBindsName(t *testing.T) {
	var removed []string
	remove := func(name string) tea.Cmd {
		removed = append(removed, name)
		return nil
	}
	list := &modList{}
	for _, n := range []string{"a", "b", "c"} {
		renderRow(list, n, remove)
	}
	for i := len(list.rows) - 1; i >= 0; i-- {
		list.rows[i].remove()
	}
	if !reflect.DeepEqual(removed, []string{"c", "b", "a"}) {
		t.Fatalf("removed = %v", removed)
	}
}

func TestModListSelectionClamps(t *testing.T) {
	list := &modList{}
	for _, n := range []string{"a", "b", "c"} {
		renderRow(list, n, func(string) tea.Cmd { return nil })
	}
	list.Move(5)
	if row, _ := list.Selected(); row.name != "c" {
		t.Fatalf("selected %q", row.name)
	}
	list.Reset()
	renderRow(list, "only", func(string) tea.Cmd { return nil })
	list.clamp()
	if row, ok := list.Selected(); !ok || row.name != "only" {
		t.Fatalf("selected %q ok=%v", row.name, ok)
	}
	list.Reset()
	list.clamp()
	if _, ok := list.Selected(); ok {
		t.Fatal("selection on empty list")
	}
}

func TestLogViewLimitAndStyles(t *testing.T) {
	lv := newLogView(3, defaultTheme())
	lv.SetSize(40, 5)
	for _, s := range []string{"1", "2", "3", "4"} {
		lv.Append(linePlain, s)
	}
	lv.Append(lineError, "\x1b[31mDisk full\x1b[0m")

	lines := lv.Lines()
	if len(lines) != 3 {
		t.Fatalf("kept %d lines", len(lines))
	}
	if lines[0].text != "3" || lines[2].text != "Disk full" || lines[2].kind != lineError {
		t.Fatalf("lines = %+v", lines)
	}
	if !strings.Contains(lv.View(), "Disk full") {
		t.Error("newest line not visible after append")
	}
}

func TestPlainText(t *testing.T) {
	tests := map[string]string{
		"plain":                     "plain",
		"<span class='x'>a</span>b": "ab",
		"a<br>b":                    "a\nb",
		"&lt;tag&gt;":               "<tag>",
		"\x1b[1mbold\x1b[0m":        "bold",
		"free 5 < 10 and 10 > 5":    "free 5 < 10 and 10 > 5",
		"line1<br/>line2":           "line1\nline2",
		"line1<BR>line2":            "line1\nline2",
		"a <br /> b":                "a \n b",
		"Mod <i>x</i> &amp; y":      "Mod x & y",
	}
	for in, want := range tests {
		if got := plainText(in); got != want {
			t.Errorf("plainText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStatusLine(t *testing.T) {
	if got := statusLine(0, time.Time{}); got != "0 mods • loading" {
		t.Errorf("got %q", got)
	}
	if got := statusLine(1, time.Time{}); !strings.HasPrefix(got, "1 mod ") {
		t.Errorf("got %q", got)
	}
}
