package bridge

import (
	"context"
	"fmt"
	"sync"
)

// Picker opens native file and folder choosers. An empty path means the user
// cancelled.
type Picker interface {
	PickFile(ctx context.Context) (string, error)
	PickFolder(ctx context.Context) (string, error)
}

// Memory is an in-process backend. It keeps the mod registry and the game
// directory in memory and reports outcomes through the bus the same way a
// remote backend does: application errors become error:new events, not
// returned errors.
type Memory struct {
	bus    *Bus
	picker Picker

	mu      sync.Mutex
	mods    []string
	sources map[string]string
	gameDir string
}

type MemoryOption func(*Memory)

// WithMods seeds the registry.
func WithMods(names ...string) MemoryOption {
	return func(m *Memory) {
		for _, n := range names {
			m.mods = append(m.mods, n)
			m.sources[n] = ""
		}
	}
}

// WithGameDirectory sets the initial game directory.
func WithGameDirectory(dir string) MemoryOption {
	return func(m *Memory) { m.gameDir = dir }
}

// WithPicker sets the dialog implementation. Without one both dialogs
// behave as if cancelled.
func WithPicker(p Picker) MemoryOption {
	return func(m *Memory) { m.picker = p }
}

func NewMemory(bus *Bus, opts ...MemoryOption) *Memory {
	m := &Memory{bus: bus, sources: make(map[string]string)}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Memory) ListMods(ctx context.Context) ([]Mod, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Mod, 0, len(m.mods))
	for _, n := range m.mods {
		out = append(out, Mod{Name: n})
	}
	return out, nil
}

func (m *Memory) AddMod(ctx context.Context, name, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	if m.gameDir == "" {
		m.mu.Unlock()
		m.emit(EventError, "Game dir is not set")
		return nil
	}
	if name == "" {
		m.mu.Unlock()
		m.emit(EventError, "Mod is already installed: mod name cannot be empty")
		return nil
	}
	if _, ok := m.sources[name]; ok {
		m.mu.Unlock()
		m.emit(EventError, fmt.Sprintf("Mod is already installed: mod with the name %s already exists", name))
		return nil
	}
	m.mods = append(m.mods, name)
	m.sources[name] = path
	m.mu.Unlock()

	m.emit(EventLog, fmt.Sprintf("Registered %s from %s", name, path))
	m.emit(EventSuccess, fmt.Sprintf("Successfully installed mod %s", name))
	m.emit(EventRefresh, "")
	return nil
}

func (m *Memory) RemoveMod(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	idx := -1
	for i, n := range m.mods {
		if n == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.mu.Unlock()
		m.emit(EventError, fmt.Sprintf("Could not load mod: mod with the name %s does not exist", name))
		return nil
	}
	m.mods = append(m.mods[:idx], m.mods[idx+1:]...)
	delete(m.sources, name)
	m.mu.Unlock()

	m.emit(EventLog, fmt.Sprintf("Removed mod: %s", name))
	m.emit(EventSuccess, fmt.Sprintf("Successfully removed mod %s", name))
	m.emit(EventRefresh, "")
	return nil
}

func (m *Memory) GetGameDirectory(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gameDir, nil
}

func (m *Memory) SetGameDirectory(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if path == "" {
		m.emit(EventError, "Game dir cannot be empty")
		return nil
	}
	m.mu.Lock()
	m.gameDir = path
	m.mu.Unlock()
	m.emit(EventRefresh, "")
	return nil
}

func (m *Memory) OpenFileDialog(ctx context.Context) (string, error) {
	if m.picker == nil {
		return "", nil
	}
	return m.picker.PickFile(ctx)
}

func (m *Memory) OpenFolderDialog(ctx context.Context) (string, error) {
	if m.picker == nil {
		return "", nil
	}
	return m.picker.PickFolder(ctx)
}

func (m *Memory) emit(name, payload string) {
	if m.bus == nil {
		return
	}
	m.bus.Emit(Event{Name: name, Payload: payload})
}

var _ Backend = (*Memory)(nil)
