package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const modListID = "modList"

// modRow is one rendered mod. remove is bound to the row's own name.
type modRow struct {
	name   string
	remove func() tea.Cmd
}

// modList is the container of visible rows. It is always rebuilt in full.
type modList struct {
	rows     []modRow
	selected int
	offset   int
}

// renderRow appends a row for name to the container.
func renderRow(list *modList, name string, remove func(string) tea.Cmd) {
	list.rows = append(list.rows, modRow{
		name:   name,
		remove: func() tea.Cmd { return remove(name) },
	})
}

// Reset clears the rows. The selection is kept in range by clamp.
func (l *modList) Reset() {
	l.rows = nil
}

func (l *modList) Names() []string {
	out := make([]string, len(l.rows))
	for i, r := range l.rows {
		out[i] = r.name
	}
	return out
}

func (l *modList) Len() int { return len(l.rows) }

func (l *modList) Selected() (modRow, bool) {
	if l.selected < 0 || l.selected >= len(l.rows) {
		return modRow{}, false
	}
	return l.rows[l.selected], true
}

func (l *modList) Move(delta int) {
	l.selected += delta
	l.clamp()
}

func (l *modList) clamp() {
	if l.selected >= len(l.rows) {
		l.selected = len(l.rows) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

func (l *modList) View(th Theme, width, height int, total int) string {
	var b strings.Builder
	b.WriteString(th.head.Render(fmt.Sprintf("Mods (%d/%d)", len(l.rows), total)))
	b.WriteString("\n")
	if len(l.rows) == 0 {
		if total == 0 {
			b.WriteString(th.label.Render("No mods installed. Press a to add one."))
		} else {
			b.WriteString(th.label.Render("No mods match the search."))
		}
		return b.String()
	}
	visible := max(height-1, 1)
	if l.selected < l.offset {
		l.offset = l.selected
	}
	if l.selected >= l.offset+visible {
		l.offset = l.selected - visible + 1
	}
	end := min(l.offset+visible, len(l.rows))
	for i := l.offset; i < end; i++ {
		name := truncate(l.rows[i].name, max(width-4, 4))
		if i == l.selected {
			b.WriteString(th.rowSelected.Render("> " + name))
		} else {
			b.WriteString(th.row.Render("  " + name))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
