// Package tui is the terminal front end of the mod manager: a filterable
// mod list, a log panel fed by backend events, and the modal dialogs for
// adding mods, editing settings and showing errors.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the root bubbletea model. It ties the MVC parts together.
type Model struct {
	tuiModel      *TUIModel
	tuiView       *TUIView
	tuiController *TUIController
}

// New builds the UI over a backend and its event bus.
func New(opts Options) tea.Model {
	tuiModel := NewTUIModel(opts)
	tuiView := NewTUIView(opts.Theme)
	tuiController := NewTUIController(tuiModel, tuiView, opts.LogLines)
	return &Model{
		tuiModel:      tuiModel,
		tuiView:       tuiView,
		tuiController: tuiController,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.tuiController.Init()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.tuiController.Update(msg)
}

func (m *Model) View() string {
	return m.tuiView.View(m.tuiModel, m.tuiController)
}
