package tui

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/evanschultz/kanboard/internal/app"
)

// Model adapts an app.App to the bubbletea loop. It owns no board state of its own.
type Model struct {
	app     *app.App
	journal *app.Journal
	ctx     context.Context
	now     func() time.Time

	keys keyMap
	help help.Model
	ui   UIConfig
	md   *markdownRenderer

	watch *watchState

	ready  bool
	width  int
	height int
}

// watchState is shared by Model copies so Init and Update see the same watcher.
type watchState struct {
	factory WatchFactory
	watcher FileWatcher
	path    string
}

// fileChangedMsg reports an on-disk change of the watched board file.
type fileChangedMsg struct {
	path string
	at   time.Time
}

// watchFailedMsg reports a watcher that could not start.
type watchFailedMsg struct {
	path string
	err  error
}

// NewModel constructs the board model.
func NewModel(a *app.App, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		app:   a,
		ctx:   context.Background(),
		now:   time.Now,
		keys:  newKeyMap(),
		help:  h,
		ui:    DefaultUIConfig(),
		md:    &markdownRenderer{},
		watch: &watchState{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init starts watching the bound board file, if any.
func (m Model) Init() tea.Cmd {
	return m.syncWatcher()
}

// Update handles terminal and watcher messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case fileChangedMsg:
		if msg.path != m.watch.path || m.watch.watcher == nil {
			return m, nil
		}
		m.app.NoteExternalChange(msg.path, msg.at)
		return m, waitForChange(m.watch.watcher, m.watch.path)

	case watchFailedMsg:
		m.logf(app.SeverityWarn, "not watching %s: %v", msg.path, msg.err)
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// handleKey translates a key press for the current mode and dispatches it.
func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	ev, ok := m.translate(msg)
	if !ok {
		return m, nil
	}
	out := m.app.Dispatch(m.ctx, ev)
	if out.To == app.ModeQuit {
		m.stopWatcher()
		return m, tea.Quit
	}
	return m, m.syncWatcher()
}

// translate maps a key press to a semantic event for the current mode.
func (m Model) translate(msg tea.KeyPressMsg) (app.Event, bool) {
	switch m.app.Mode() {
	case app.ModeNormal:
		kind, ok := m.keys.normalEvent(func(b key.Binding) bool { return key.Matches(msg, b) })
		if !ok {
			if msg.String() == "esc" {
				return app.Key(app.EventCancel), true
			}
			return app.Event{}, false
		}
		return app.Key(kind), true
	case app.ModeEdit:
		return editEvent(msg)
	case app.ModeSave:
		return saveEvent(msg)
	case app.ModeHelp:
		return app.Key(app.EventCancel), true
	default:
		return app.Event{}, false
	}
}

// editEvent maps a key press inside the card or column editor.
func editEvent(msg tea.KeyPressMsg) (app.Event, bool) {
	switch msg.String() {
	case "esc", "ctrl+c":
		return app.Key(app.EventCancel), true
	case "ctrl+s":
		return app.Key(app.EventConfirm), true
	case "enter":
		return app.Key(app.EventNewline), true
	case "tab", "down":
		return app.Key(app.EventNextField), true
	case "shift+tab", "up":
		return app.Key(app.EventPrevField), true
	case "ctrl+k":
		return app.Key(app.EventRaisePriority), true
	case "ctrl+j":
		return app.Key(app.EventLowerPriority), true
	}
	return textEvent(msg)
}

// saveEvent maps a key press inside the save prompt.
func saveEvent(msg tea.KeyPressMsg) (app.Event, bool) {
	switch msg.String() {
	case "esc", "ctrl+c":
		return app.Key(app.EventCancel), true
	case "enter", "ctrl+s":
		return app.Key(app.EventConfirm), true
	}
	return textEvent(msg)
}

// textEvent maps cursor, deletion, and printable keys shared by text prompts.
func textEvent(msg tea.KeyPressMsg) (app.Event, bool) {
	switch msg.String() {
	case "backspace", "ctrl+h":
		return app.Key(app.EventBackspace), true
	case "delete", "ctrl+d":
		return app.Key(app.EventDeleteForward), true
	case "left", "ctrl+b":
		return app.Key(app.EventCursorLeft), true
	case "right", "ctrl+f":
		return app.Key(app.EventCursorRight), true
	case "home", "ctrl+a":
		return app.Key(app.EventCursorHome), true
	case "end", "ctrl+e":
		return app.Key(app.EventCursorEnd), true
	}
	if msg.Text != "" {
		return app.Input(msg.Text), true
	}
	return app.Event{}, false
}

// syncWatcher restarts the file watcher when the bound path changed.
func (m Model) syncWatcher() tea.Cmd {
	ws := m.watch
	if ws == nil || ws.factory == nil {
		return nil
	}
	path := m.app.Path()
	if path == ws.path {
		return nil
	}
	m.stopWatcher()
	ws.path = path
	if path == "" {
		return nil
	}
	w, err := ws.factory(path)
	if err != nil {
		return func() tea.Msg {
			return watchFailedMsg{path: path, err: err}
		}
	}
	ws.watcher = w
	return waitForChange(w, path)
}

// stopWatcher releases the current watcher.
func (m Model) stopWatcher() {
	if m.watch == nil || m.watch.watcher == nil {
		return
	}
	_ = m.watch.watcher.Stop()
	m.watch.watcher = nil
}

// waitForChange blocks until w reports a change.
func waitForChange(w FileWatcher, path string) tea.Cmd {
	return func() tea.Msg {
		at, ok := <-w.Changes()
		if !ok {
			return nil
		}
		return fileChangedMsg{path: path, at: at}
	}
}

// logf writes a formatted status event through the journal.
func (m Model) logf(sev app.Severity, format string, args ...any) {
	if m.journal == nil {
		return
	}
	m.journal.Log(sev, fmt.Sprintf(format, args...))
}
