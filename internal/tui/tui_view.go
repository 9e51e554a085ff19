package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

type TUIView struct {
	th     Theme
	width  int
	height int
}

func NewTUIView(theme string) *TUIView {
	return &TUIView{th: themeByName(theme), width: 100, height: 30}
}

func (v *TUIView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// listWidth splits the body between the mod list and the log panel.
func (v *TUIView) listWidth() int {
	return max(v.width*2/5, 20)
}

// bodyHeight is what remains after header, search line and footer.
func (v *TUIView) bodyHeight() int {
	return max(v.height-6, 3)
}

// logSize is the inner size of the log viewport.
func (v *TUIView) logSize() (int, int) {
	w := v.width - v.listWidth() - 4
	return max(w, 10), max(v.bodyHeight()-3, 1)
}

func (v *TUIView) View(model *TUIModel, c *TUIController) string {
	if c.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(v.renderHeader(model))
	b.WriteString("\n")
	b.WriteString(v.renderSearch(c))
	b.WriteString("\n")

	if top := c.overlays.Top(); top != nil {
		box := top.View(v.th, min(v.width-8, 72))
		b.WriteString(lipgloss.Place(v.width, v.bodyHeight(), lipgloss.Center, lipgloss.Center, box))
	} else if c.showHelp {
		b.WriteString(v.th.border.Render(c.help.FullHelpView(c.keys.FullHelp())))
	} else {
		b.WriteString(v.renderBody(model, c))
	}
	b.WriteString("\n")
	b.WriteString(v.renderFooter(c))
	return b.String()
}

func (v *TUIView) renderHeader(model *TUIModel) string {
	title := v.th.title.Render("modman")
	endpoint := ""
	if model.endpoint != "" {
		endpoint = v.th.label.Render(" • " + model.endpoint)
	}
	return title + endpoint + "  " + v.th.label.Render(statusLine(model.state.Len(), model.state.RefreshedAt()))
}

func (v *TUIView) renderSearch(c *TUIController) string {
	if !c.searching && c.search.Value() == "" {
		return v.th.label.Render("press / to search")
	}
	return c.search.View()
}

func (v *TUIView) renderBody(model *TUIModel, c *TUIController) string {
	h := v.bodyHeight()
	lw := v.listWidth()
	list := v.th.border.
		Width(lw - 2).
		Height(h - 2).
		Render(c.list.View(v.th, lw-2, h-2, model.state.Len()))

	logW, _ := v.logSize()
	logs := v.th.border.
		Width(logW).
		Height(h - 2).
		Render(v.th.head.Render("Log") + "\n" + c.logs.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, list, logs)
}

func (v *TUIView) renderFooter(c *TUIController) string {
	if t := c.lastToast(); t != "" {
		return v.th.label.Render(t)
	}
	if c.busDone {
		return v.th.bad.Render("backend disconnected • ") + v.th.footer.Render(c.help.ShortHelpView(c.keys.ShortHelp()))
	}
	return v.th.footer.Render(c.help.ShortHelpView(c.keys.ShortHelp()))
}

func statusLine(count int, refreshed time.Time) string {
	mods := fmt.Sprintf("%d mods", count)
	if count == 1 {
		mods = "1 mod"
	}
	if refreshed.IsZero() {
		return mods + " • loading"
	}
	return mods + " • refreshed " + humanize.Time(refreshed)
}
