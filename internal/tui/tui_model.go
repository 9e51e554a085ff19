package tui

import (
	"context"
	"errors"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jxwalker/modman/internal/bridge"
	"github.com/jxwalker/modman/internal/logging"
	"github.com/jxwalker/modman/internal/metrics"
	"github.com/jxwalker/modman/internal/shell"
)

// Options configures the terminal UI.
type Options struct {
	Backend bridge.Backend
	Bus     *bridge.Bus
	Log     *logging.Logger
	// Context bounds every backend call. Defaults to context.Background.
	Context context.Context
	// Endpoint is shown in the header, e.g. "demo" or a redacted bridge URL.
	Endpoint string
	Theme    string
	LogLines int
	// Copy writes to the system clipboard. Defaults to clipboard.WriteAll.
	Copy func(string) error
	// Metrics may be nil.
	Metrics *metrics.Manager
}

// TUIModel owns the backend side of the UI: the mod snapshot and the
// commands that talk to the bridge. Commands capture their inputs when
// built so they never touch controller state from their goroutine.
type TUIModel struct {
	ctx      context.Context
	backend  bridge.Backend
	bus      *bridge.Bus
	state    *shell.State
	log      *logging.Logger
	copy     func(string) error
	metrics  *metrics.Manager
	endpoint string
}

func NewTUIModel(opts Options) *TUIModel {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	cp := opts.Copy
	if cp == nil {
		cp = clipboard.WriteAll
	}
	return &TUIModel{
		ctx:      ctx,
		backend:  opts.Backend,
		bus:      opts.Bus,
		state:    shell.New(),
		log:      log,
		copy:     cp,
		metrics:  opts.Metrics,
		endpoint: opts.Endpoint,
	}
}

// waitForEvent pulls the next event off the bus. Exactly one of these is
// outstanding at a time; the controller re-arms it after handling each event.
func (m *TUIModel) waitForEvent() tea.Cmd {
	if m.bus == nil {
		return nil
	}
	bus, ctx := m.bus, m.ctx
	return func() tea.Msg {
		ev, err := bus.Next(ctx)
		if err != nil {
			if errors.Is(err, bridge.ErrBusClosed) {
				err = nil
			}
			return busDoneMsg{err: err}
		}
		return eventMsg{ev: ev}
	}
}

func (m *TUIModel) refreshCmd() tea.Cmd {
	seq := m.state.BeginRefresh()
	backend, ctx, log, met := m.backend, m.ctx, m.log, m.metrics
	return func() tea.Msg {
		start := time.Now()
		names, err := shell.Fetch(ctx, backend)
		met.ObserveCall(bridge.MethodListMods, time.Since(start), err)
		if err != nil {
			log.Errorf("list mods: %v", err)
			return callFailedMsg{action: "list mods", err: err}
		}
		log.Debugf("list mods: %d names (refresh %d)", len(names), seq)
		return modsLoadedMsg{seq: seq, names: names}
	}
}

func (m *TUIModel) addModCmd(name, path string) tea.Cmd {
	backend, ctx, log, met := m.backend, m.ctx, m.log, m.metrics
	return func() tea.Msg {
		start := time.Now()
		err := backend.AddMod(ctx, name, path)
		met.ObserveCall(bridge.MethodAddMod, time.Since(start), err)
		if err != nil {
			log.Errorf("add mod %s: %v", name, err)
			return callFailedMsg{action: "add mod " + name, err: err}
		}
		return modAddedMsg{name: name}
	}
}

func (m *TUIModel) removeModCmd(name string) tea.Cmd {
	backend, ctx, log, met := m.backend, m.ctx, m.log, m.metrics
	return func() tea.Msg {
		start := time.Now()
		err := backend.RemoveMod(ctx, name)
		met.ObserveCall(bridge.MethodRemoveMod, time.Since(start), err)
		if err != nil {
			log.Errorf("remove mod %s: %v", name, err)
			return callFailedMsg{action: "remove mod " + name, err: err}
		}
		return modRemovedMsg{name: name}
	}
}

func (m *TUIModel) gameDirCmd() tea.Cmd {
	backend, ctx, met := m.backend, m.ctx, m.metrics
	return func() tea.Msg {
		start := time.Now()
		dir, err := backend.GetGameDirectory(ctx)
		met.ObserveCall(bridge.MethodGetGameDirectory, time.Since(start), err)
		if err != nil {
			return callFailedMsg{action: "read the game directory", err: err}
		}
		return gameDirMsg{dir: dir}
	}
}

func (m *TUIModel) saveGameDirCmd(dir string) tea.Cmd {
	backend, ctx, log, met := m.backend, m.ctx, m.log, m.metrics
	return func() tea.Msg {
		start := time.Now()
		err := backend.SetGameDirectory(ctx, dir)
		met.ObserveCall(bridge.MethodSetGameDirectory, time.Since(start), err)
		if err != nil {
			log.Errorf("set game directory: %v", err)
			return callFailedMsg{action: "save the game directory", err: err}
		}
		return gameDirSavedMsg{}
	}
}

func (m *TUIModel) openFileCmd() tea.Cmd {
	backend, ctx, met := m.backend, m.ctx, m.metrics
	return func() tea.Msg {
		start := time.Now()
		p, err := backend.OpenFileDialog(ctx)
		met.ObserveCall(bridge.MethodOpenFileDialog, time.Since(start), err)
		if err != nil {
			return callFailedMsg{action: "open the file dialog", err: err}
		}
		return filePickedMsg{path: p}
	}
}

func (m *TUIModel) openFolderCmd() tea.Cmd {
	backend, ctx, met := m.backend, m.ctx, m.metrics
	return func() tea.Msg {
		start := time.Now()
		p, err := backend.OpenFolderDialog(ctx)
		met.ObserveCall(bridge.MethodOpenFolderDialog, time.Since(start), err)
		if err != nil {
			return callFailedMsg{action: "open the folder dialog", err: err}
		}
		return folderPickedMsg{path: p}
	}
}

func (m *TUIModel) copyCmd(name string) tea.Cmd {
	cp := m.copy
	return func() tea.Msg {
		return copiedMsg{name: name, err: cp(name)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}
