package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/net/html"
)

type lineKind int

const (
	linePlain lineKind = iota
	lineError
	lineSuccess
)

type logLine struct {
	kind lineKind
	text string
}

// logView is the scrollable log panel. It keeps at most limit lines (all of
// them when limit is 0) and sticks to the bottom after every append.
type logView struct {
	vp    viewport.Model
	lines []logLine
	limit int
	th    Theme
}

func newLogView(limit int, th Theme) *logView {
	return &logView{vp: viewport.New(80, 10), limit: limit, th: th}
}

// plainText turns a backend payload into one display string. Payloads may
// carry HTML markup or terminal escapes; neither reaches the screen. Text
// is kept the way a browser renders it: entities decoded, stray '<' and '>'
// left alone, and every br tag a line break.
func plainText(payload string) string {
	z := html.NewTokenizer(strings.NewReader(ansi.Strip(payload)))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				b.WriteByte('\n')
			}
		}
	}
}

func (l *logView) Append(kind lineKind, payload string) {
	l.lines = append(l.lines, logLine{kind: kind, text: plainText(payload)})
	if over := len(l.lines) - l.limit; l.limit > 0 && over > 0 {
		l.lines = append(l.lines[:0:0], l.lines[over:]...)
	}
	l.vp.SetContent(l.render())
	l.vp.GotoBottom()
}

func (l *logView) Lines() []logLine {
	out := make([]logLine, len(l.lines))
	copy(out, l.lines)
	return out
}

func (l *logView) SetSize(width, height int) {
	l.vp.Width = max(width, 1)
	l.vp.Height = max(height, 1)
	atBottom := l.vp.AtBottom()
	l.vp.SetContent(l.render())
	if atBottom {
		l.vp.GotoBottom()
	}
}

func (l *logView) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.vp, cmd = l.vp.Update(msg)
	return cmd
}

func (l *logView) render() string {
	var b strings.Builder
	for i, ln := range l.lines {
		if i > 0 {
			b.WriteString("\n")
		}
		text := ansi.Wordwrap(ln.text, max(l.vp.Width, 1), " ")
		switch ln.kind {
		case lineError:
			b.WriteString(l.th.bad.Render(text))
		case lineSuccess:
			b.WriteString(l.th.ok.Render(text))
		default:
			b.WriteString(l.th.logLine.Render(text))
		}
	}
	return b.String()
}

func (l *logView) View() string { return l.vp.View() }
