package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jxwalker/modman/internal/bridge"
	friendlyerrors "github.com/jxwalker/modman/internal/errors"
	"github.com/jxwalker/modman/internal/shell"
)

const searchModsID = "searchMods"

type toast struct {
	msg  string
	when time.Time
	ttl  time.Duration
}

type TUIController struct {
	model *TUIModel
	view  *TUIView

	router    *bridge.Router[tea.Cmd]
	overlays  overlays
	list      *modList
	logs      *logView
	search    textinput.Model
	searching bool
	keys      keyMap
	help      help.Model
	showHelp  bool
	toasts    []toast
	busDone   bool
	quitting  bool
}

func NewTUIController(model *TUIModel, view *TUIView, logLines int) *TUIController {
	search := textinput.New()
	search.Placeholder = "Search mods..."
	search.Prompt = "/ "

	c := &TUIController{
		model:  model,
		view:   view,
		router: bridge.NewRouter[tea.Cmd](),
		list:   &modList{},
		logs:   newLogView(logLines, view.th),
		search: search,
		keys:   defaultKeys(),
		help:   help.New(),
	}
	c.subscribe()
	return c
}

// subscribe wires the four backend events. It runs once per controller.
func (c *TUIController) subscribe() {
	handlers := []struct {
		name string
		h    func(bridge.Event) tea.Cmd
	}{
		{bridge.EventLog, c.onLog},
		{bridge.EventError, c.onError},
		{bridge.EventSuccess, c.onSuccess},
		{bridge.EventRefresh, c.onRefresh},
	}
	for _, s := range handlers {
		if err := c.router.On(s.name, s.h); err != nil {
			c.model.log.Errorf("subscribe %s: %v", s.name, err)
		}
	}
}

func (c *TUIController) onLog(ev bridge.Event) tea.Cmd {
	c.logs.Append(linePlain, ev.Payload)
	return nil
}

func (c *TUIController) onError(ev bridge.Event) tea.Cmd {
	c.logs.Append(lineError, ev.Payload)
	c.showNotice(ev.Payload)
	return nil
}

func (c *TUIController) onSuccess(ev bridge.Event) tea.Cmd {
	c.logs.Append(lineSuccess, ev.Payload)
	return nil
}

func (c *TUIController) onRefresh(bridge.Event) tea.Cmd {
	return c.refresh()
}

// showNotice opens the error modal. While one is visible further messages
// only reach the log.
func (c *TUIController) showNotice(message string) {
	if !c.overlays.Show(newNotice(plainText(message))) {
		c.model.log.Debugf("notice already shown, dropping: %s", message)
	}
}

func (c *TUIController) refresh() tea.Cmd {
	return c.model.refreshCmd()
}

// render replaces every visible row with one row per name, in order.
func (c *TUIController) render(names []string) {
	c.list.Reset()
	for _, name := range names {
		renderRow(c.list, name, c.model.removeModCmd)
	}
	c.list.clamp()
}

// applySearch filters the snapshot by term and renders the result.
func (c *TUIController) applySearch(term string) {
	c.render(c.model.state.Search(term))
}

func (c *TUIController) Init() tea.Cmd {
	return tea.Batch(c.refresh(), c.model.waitForEvent(), tickCmd())
}

func (c *TUIController) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.view.SetSize(msg.Width, msg.Height)
		c.help.Width = msg.Width
		c.layout()
		return c.wrapModel(), nil
	case tickMsg:
		c.gcToasts()
		return c.wrapModel(), tickCmd()
	case eventMsg:
		c.model.metrics.IncEvent(msg.ev.Name)
		cmd, ok := c.router.Dispatch(msg.ev)
		if !ok {
			c.model.log.Warnf("unhandled event %q", msg.ev.Name)
		}
		return c.wrapModel(), tea.Batch(cmd, c.model.waitForEvent())
	case busDoneMsg:
		c.busDone = true
		if msg.err != nil {
			c.model.log.Debugf("event loop stopped: %v", msg.err)
		}
		return c.wrapModel(), nil
	case modsLoadedMsg:
		if _, ok := c.model.state.ApplyRefresh(msg.seq, msg.names); !ok {
			c.model.log.Debugf("dropping stale refresh %d", msg.seq)
			return c.wrapModel(), nil
		}
		c.render(c.model.state.Snapshot())
		return c.wrapModel(), nil
	case callFailedMsg:
		c.callFailed(msg)
		return c.wrapModel(), nil
	case filePickedMsg:
		if msg.path == "" {
			return c.wrapModel(), nil
		}
		c.overlays.Dismiss(formID)
		c.overlays.Show(newAddForm(shell.DefaultModName(msg.path), msg.path, c.model.addModCmd))
		return c.wrapModel(), nil
	case modAddedMsg:
		c.overlays.Dismiss(formID)
		return c.wrapModel(), nil
	case modRemovedMsg:
		return c.wrapModel(), nil
	case gameDirMsg:
		// An open settings modal keeps whatever the user has typed.
		c.overlays.Show(newSettings(msg.dir, c.model.openFolderCmd, c.model.saveGameDirCmd))
		return c.wrapModel(), nil
	case folderPickedMsg:
		if s, ok := c.overlays.Get(settingsID).(*settings); ok {
			s.SetFolder(msg.path)
		}
		return c.wrapModel(), nil
	case gameDirSavedMsg:
		c.overlays.Dismiss(settingsID)
		return c.wrapModel(), nil
	case copiedMsg:
		if msg.err != nil {
			c.addToast("clipboard: " + msg.err.Error())
		} else {
			c.addToast("copied " + msg.name)
		}
		return c.wrapModel(), nil
	case tea.KeyMsg:
		return c.handleKeyMsg(msg)
	case tea.MouseMsg:
		return c.wrapModel(), c.logs.Update(msg)
	}
	if c.searching {
		var cmd tea.Cmd
		c.search, cmd = c.search.Update(msg)
		return c.wrapModel(), cmd
	}
	return c.wrapModel(), nil
}

// callFailed shows a backend call failure to the user and releases any
// modal that was waiting on it.
func (c *TUIController) callFailed(msg callFailedMsg) {
	if s, ok := c.overlays.Get(settingsID).(*settings); ok {
		s.Saved()
	}
	if f, ok := c.overlays.Get(formID).(*addForm); ok {
		f.Done()
	}
	fe := friendlyerrors.BridgeError(msg.action, msg.err)
	text := fe.Message
	if fe.Suggestion != "" {
		text += "\n" + fe.Suggestion
	}
	c.logs.Append(lineError, text)
	c.showNotice(text)
}

func (c *TUIController) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		c.quitting = true
		return c.wrapModel(), tea.Quit
	}
	if top := c.overlays.Top(); top != nil {
		cmd, dismiss := top.HandleKey(msg)
		if dismiss {
			c.overlays.Dismiss(top.ID())
		}
		return c.wrapModel(), cmd
	}
	if c.searching {
		return c.handleSearchKeys(msg)
	}
	if c.showHelp {
		if key.Matches(msg, c.keys.Help, c.keys.Quit) || msg.String() == "esc" {
			c.showHelp = false
		}
		return c.wrapModel(), nil
	}
	return c.handleNormalKeys(msg)
}

func (c *TUIController) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, c.keys.Quit):
		c.quitting = true
		return c.wrapModel(), tea.Quit
	case key.Matches(msg, c.keys.Up):
		c.list.Move(-1)
	case key.Matches(msg, c.keys.Down):
		c.list.Move(1)
	case key.Matches(msg, c.keys.Add):
		return c.wrapModel(), c.model.openFileCmd()
	case key.Matches(msg, c.keys.Remove):
		if row, ok := c.list.Selected(); ok {
			return c.wrapModel(), row.remove()
		}
	case key.Matches(msg, c.keys.Settings):
		return c.wrapModel(), c.model.gameDirCmd()
	case key.Matches(msg, c.keys.Search):
		c.searching = true
		return c.wrapModel(), c.search.Focus()
	case key.Matches(msg, c.keys.Refresh):
		return c.wrapModel(), c.refresh()
	case key.Matches(msg, c.keys.Copy):
		if row, ok := c.list.Selected(); ok {
			return c.wrapModel(), c.model.copyCmd(row.name)
		}
	case key.Matches(msg, c.keys.LogUp, c.keys.LogDown):
		return c.wrapModel(), c.logs.Update(msg)
	case key.Matches(msg, c.keys.Help):
		c.showHelp = true
	}
	return c.wrapModel(), nil
}

// handleSearchKeys edits the search box. Every change re-filters; esc and
// enter leave the box with the filter still applied.
func (c *TUIController) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		c.searching = false
		c.search.Blur()
		return c.wrapModel(), nil
	}
	before := c.search.Value()
	var cmd tea.Cmd
	c.search, cmd = c.search.Update(msg)
	if c.search.Value() != before {
		c.applySearch(c.search.Value())
	}
	return c.wrapModel(), cmd
}

// Focused is the id of the element receiving keys.
func (c *TUIController) Focused() string {
	if top := c.overlays.Top(); top != nil {
		return top.ID()
	}
	if c.searching {
		return searchModsID
	}
	return modListID
}

func (c *TUIController) layout() {
	w, h := c.view.logSize()
	c.logs.SetSize(w, h)
	c.search.Width = max(c.view.width/3, 10)
}

func (c *TUIController) addToast(s string) {
	c.toasts = append(c.toasts, toast{msg: s, when: time.Now(), ttl: 4 * time.Second})
}

func (c *TUIController) gcToasts() {
	now := time.Now()
	fresh := c.toasts[:0]
	for _, t := range c.toasts {
		if now.Sub(t.when) < t.ttl {
			fresh = append(fresh, t)
		}
	}
	c.toasts = fresh
}

func (c *TUIController) lastToast() string {
	if len(c.toasts) == 0 {
		return ""
	}
	return c.toasts[len(c.toasts)-1].msg
}

func (c *TUIController) wrapModel() tea.Model {
	return &Model{tuiModel: c.model, tuiView: c.view, tuiController: c}
}
