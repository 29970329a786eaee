package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/evanschultz/kanboard/internal/domain"
)

// IDGenerator returns unique identifiers for new cards.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Config holds board defaults and optional collaborators.
type Config struct {
	DefaultColumns  []string
	DefaultPriority domain.Priority
	NewCardTitle    string
	CopyText        CopyFunc
	// SaveGrace is how long after an own save file-change notices are ignored.
	SaveGrace time.Duration
}

// App owns the board, its selection, and the mode state machine.
type App struct {
	store  BoardStore
	logger Logger
	idGen  IDGenerator
	clock  Clock
	cfg    Config

	board     domain.Board
	selection domain.Selection
	mode      Mode
	editor    *EditorState
	save      *SaveState

	path          string
	suggestedPath string
	dirty         bool
	revision      uint64
	lastSavedAt   time.Time
}

// New constructs an App holding a fresh board.
func New(store BoardStore, logger Logger, idGen IDGenerator, clock Clock, cfg Config) *App {
	if logger == nil {
		logger = LoggerFunc(nil)
	}
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	if cfg.DefaultPriority == "" || !cfg.DefaultPriority.Valid() {
		cfg.DefaultPriority = domain.PriorityMedium
	}
	if cfg.SaveGrace <= 0 {
		cfg.SaveGrace = 2 * time.Second
	}
	a := &App{
		store:  store,
		logger: logger,
		idGen:  idGen,
		clock:  clock,
		cfg:    cfg,
	}
	a.reset(domain.NewBoard(cfg.DefaultColumns...))
	return a
}

// Open replaces the board with the one stored at path.
// An empty path keeps a new board. A missing file binds path to a new board.
// Any other load failure is reported, the board stays new, and path stays unbound.
func (a *App) Open(ctx context.Context, path string) error {
	a.reset(domain.NewBoard(a.cfg.DefaultColumns...))
	a.path = ""
	a.suggestedPath = ""
	path = strings.TrimSpace(path)
	if path == "" {
		a.logger.Log(SeverityInfo, "new board")
		return nil
	}
	if a.store == nil {
		err := fmt.Errorf("%w: no board store configured", ErrPersistence)
		a.suggestedPath = path
		a.report(err)
		return err
	}

	board, err := a.store.LoadBoard(ctx, path)
	switch {
	case err == nil:
		assigned := board.EnsureIDs(a.idGen)
		a.reset(board)
		a.path = path
		a.dirty = assigned > 0
		a.logger.Log(SeverityInfo, "opened "+path)
		return nil
	case errors.Is(err, fs.ErrNotExist):
		a.path = path
		a.logger.Log(SeverityInfo, "new board, w writes "+path)
		return nil
	default:
		wrapped := fmt.Errorf("%w: load %q: %w", ErrPersistence, path, err)
		a.suggestedPath = path
		a.report(wrapped)
		return wrapped
	}
}

// Mode returns the current interaction mode.
func (a *App) Mode() Mode {
	return a.mode
}

// Board returns a copy of the board for rendering.
func (a *App) Board() domain.Board {
	return a.board.Clone()
}

// Selection returns the current selection.
func (a *App) Selection() domain.Selection {
	return a.selection
}

// SelectedCard returns the selected card, if any.
func (a *App) SelectedCard() (domain.Card, bool) {
	cur, ok := a.selection.Current()
	if !ok {
		return domain.Card{}, false
	}
	card, err := a.board.Card(cur.Column, cur.Card)
	if err != nil {
		return domain.Card{}, false
	}
	return card, true
}

// Editor returns a copy of the live editor draft.
func (a *App) Editor() (EditorState, bool) {
	if a.editor == nil {
		return EditorState{}, false
	}
	return a.editor.Clone(), true
}

// SaveDraft returns a copy of the live save draft.
func (a *App) SaveDraft() (SaveState, bool) {
	if a.save == nil {
		return SaveState{}, false
	}
	return a.save.Clone(), true
}

// Path returns the file the board is bound to, or "".
func (a *App) Path() string {
	return a.path
}

// Dirty reports unsaved changes.
func (a *App) Dirty() bool {
	return a.dirty
}

// NoteExternalChange reports an on-disk change to the bound file, ignoring echoes of own saves.
func (a *App) NoteExternalChange(path string, at time.Time) {
	if a.path == "" || strings.TrimSpace(path) != a.path {
		return
	}
	if !a.lastSavedAt.IsZero() && at.Sub(a.lastSavedAt) < a.cfg.SaveGrace {
		a.logger.Log(SeverityDebug, "ignored own write of "+path)
		return
	}
	a.logger.Log(SeverityWarn, "board file changed on disk; saving will overwrite it")
}

// reset installs board and returns to Normal with a fresh selection.
func (a *App) reset(board domain.Board) {
	a.board = board
	a.selection = domain.NewSelection(a.board)
	a.dirty = false
	a.enter(ModeNormal)
}

// enter switches to a mode without transient state.
func (a *App) enter(mode Mode) {
	a.editor = nil
	a.save = nil
	a.mode = mode
}

// enterEdit switches to Edit mode with a fresh draft.
func (a *App) enterEdit(state EditorState) {
	a.save = nil
	a.editor = &state
	a.mode = ModeEdit
}

// enterSave switches to Save mode prefilled with path.
func (a *App) enterSave(path string) {
	a.editor = nil
	a.save = &SaveState{Path: NewTextBuffer(path, false)}
	a.mode = ModeSave
}

// mutate applies fn to a copy of the board and installs it only on success,
// then re-clamps the selection.
func (a *App) mutate(fn func(*domain.Board) error) error {
	next := a.board.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	a.board = next
	a.selection = a.selection.Clamp(a.board)
	a.dirty = true
	a.revision++
	return nil
}

// saveTo writes the board through the store.
func (a *App) saveTo(ctx context.Context, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("%w: no file path given", ErrPersistence)
	}
	if a.store == nil {
		return fmt.Errorf("%w: no board store configured", ErrPersistence)
	}
	if err := a.store.SaveBoard(ctx, path, a.board.Clone()); err != nil {
		return fmt.Errorf("%w: save %q: %w", ErrPersistence, path, err)
	}
	a.path = path
	a.suggestedPath = ""
	a.dirty = false
	a.lastSavedAt = a.clock()
	a.logger.Log(SeverityInfo, "saved "+path)
	return nil
}

// report forwards err to the logger at a severity matching its class.
func (a *App) report(err error) {
	if err == nil {
		return
	}
	sev := SeverityError
	switch {
	case errors.Is(err, domain.ErrInvalidTitle),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvariantViolation),
		errors.Is(err, ErrNoCardSelected):
		sev = SeverityWarn
	}
	a.logger.Log(sev, err.Error())
}
