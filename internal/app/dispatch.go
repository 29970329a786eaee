package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/evanschultz/kanboard/internal/domain"
)

// Outcome describes what one dispatched event did.
type Outcome struct {
	From    Mode
	To      Mode
	Mutated bool
	Err     error
}

// Dispatch routes ev to the handler for the current mode. Unrecognized events are no-ops.
// A failed step leaves board and selection untouched and forwards the error to the logger.
func (a *App) Dispatch(ctx context.Context, ev Event) Outcome {
	from := a.mode
	before := a.revision

	var err error
	switch a.mode {
	case ModeNormal:
		err = a.handleNormal(ctx, ev)
	case ModeEdit:
		err = a.handleEdit(ev)
	case ModeSave:
		err = a.handleSave(ctx, ev)
	case ModeHelp:
		a.enter(ModeNormal)
	case ModeQuit:
	}

	a.selection = a.selection.Clamp(a.board)
	if err != nil {
		a.report(err)
	}
	return Outcome{
		From:    from,
		To:      a.mode,
		Mutated: a.revision != before,
		Err:     err,
	}
}

// handleNormal applies Normal-mode commands.
func (a *App) handleNormal(ctx context.Context, ev Event) error {
	switch ev.Kind {
	case EventLeft:
		a.selection = a.selection.MoveLeft(a.board)
	case EventRight:
		a.selection = a.selection.MoveRight(a.board)
	case EventUp:
		a.selection = a.selection.MoveUp(a.board)
	case EventDown:
		a.selection = a.selection.MoveDown(a.board)

	case EventAddCardHere, EventAddCardBelow, EventAddCardTop, EventAddCardBottom:
		col := a.selection.Column()
		a.enterEdit(newCardEditor(col, a.insertSlot(ev.Kind), a.cfg.NewCardTitle, a.cfg.DefaultPriority))
	case EventEditCard:
		cur, card, err := a.currentCard()
		if err != nil {
			return err
		}
		a.enterEdit(cardEditor(cur.Column, cur.Card, card))
	case EventDeleteCard:
		cur, _, err := a.currentCard()
		if err != nil {
			return err
		}
		var removed domain.Card
		if err := a.mutate(func(b *domain.Board) error {
			var rmErr error
			removed, rmErr = b.RemoveCard(cur.Column, cur.Card)
			return rmErr
		}); err != nil {
			return err
		}
		a.logger.Log(SeverityInfo, fmt.Sprintf("removed %q", removed.Title))
	case EventCardUp:
		return a.reorder(-1)
	case EventCardDown:
		return a.reorder(1)
	case EventCardPrevColumn:
		return a.shiftCard(-1)
	case EventCardNextColumn:
		return a.shiftCard(1)
	case EventToggleDone:
		cur, _, err := a.currentCard()
		if err != nil {
			return err
		}
		now := a.clock()
		return a.mutate(func(b *domain.Board) error {
			return b.ToggleDone(cur.Column, cur.Card, now)
		})
	case EventRaisePriority, EventLowerPriority:
		cur, card, err := a.currentCard()
		if err != nil {
			return err
		}
		next := card.Priority.Raise()
		if ev.Kind == EventLowerPriority {
			next = card.Priority.Lower()
		}
		if next == card.Priority {
			return nil
		}
		now := a.clock()
		return a.mutate(func(b *domain.Board) error {
			return b.SetPriority(cur.Column, cur.Card, next, now)
		})
	case EventCopyTitle:
		_, card, err := a.currentCard()
		if err != nil {
			return err
		}
		if a.cfg.CopyText == nil {
			return ErrClipboardMissing
		}
		if err := a.cfg.CopyText(card.Title); err != nil {
			return fmt.Errorf("copy title: %w", err)
		}
		a.logger.Log(SeverityInfo, fmt.Sprintf("copied %q", card.Title))

	case EventAddColumn:
		a.enterEdit(columnEditor(EditNewColumn, a.selection.Column()+1, ""))
	case EventRenameColumn:
		col, err := a.board.Column(a.selection.Column())
		if err != nil {
			return err
		}
		a.enterEdit(columnEditor(EditColumn, a.selection.Column(), col.Name))
	case EventRemoveColumn:
		idx := a.selection.Column()
		var removed domain.Column
		if err := a.mutate(func(b *domain.Board) error {
			var rmErr error
			removed, rmErr = b.RemoveColumn(idx)
			return rmErr
		}); err != nil {
			return err
		}
		a.logger.Log(SeverityInfo, fmt.Sprintf("removed column %q with %d cards", removed.Name, removed.Len()))

	case EventWrite:
		if a.path == "" {
			a.enterSave(a.suggestedPath)
			return nil
		}
		return a.saveTo(ctx, a.path)
	case EventSave:
		path := a.path
		if path == "" {
			path = a.suggestedPath
		}
		a.enterSave(path)
	case EventHelp:
		a.enter(ModeHelp)
	case EventQuit:
		a.enter(ModeQuit)
	}
	return nil
}

// handleEdit applies Edit-mode events to the draft.
func (a *App) handleEdit(ev Event) error {
	e := a.editor
	if e == nil {
		a.enter(ModeNormal)
		return nil
	}
	buf := e.focused()
	switch ev.Kind {
	case EventInput:
		if buf != nil {
			buf.Insert(ev.Text)
		}
	case EventBackspace:
		if buf != nil {
			buf.Backspace()
		}
	case EventDeleteForward:
		if buf != nil {
			buf.DeleteForward()
		}
	case EventCursorLeft:
		if buf != nil {
			buf.Left()
		} else {
			e.Priority = e.Priority.Lower()
		}
	case EventCursorRight:
		if buf != nil {
			buf.Right()
		} else {
			e.Priority = e.Priority.Raise()
		}
	case EventCursorHome:
		if buf != nil {
			buf.Home()
		}
	case EventCursorEnd:
		if buf != nil {
			buf.End()
		}
	case EventRaisePriority:
		if !e.IsColumn() {
			e.Priority = e.Priority.Raise()
		}
	case EventLowerPriority:
		if !e.IsColumn() {
			e.Priority = e.Priority.Lower()
		}
	case EventNextField:
		e.cycleFocus(1)
	case EventPrevField:
		e.cycleFocus(-1)
	case EventNewline:
		if buf != nil && buf.Multiline() {
			buf.Insert("\n")
			return nil
		}
		return a.commitEdit()
	case EventConfirm:
		return a.commitEdit()
	case EventCancel:
		a.enter(ModeNormal)
	}
	return nil
}

// commitEdit copies the draft into the board. Validation failures keep Edit mode open.
func (a *App) commitEdit() error {
	e := *a.editor
	now := a.clock()

	var err error
	switch e.Target {
	case EditNewCard:
		var card domain.Card
		card, err = domain.NewCard(domain.CardInput{
			ID:          a.idGen(),
			Title:       e.Title.Value(),
			Description: e.Description.Value(),
			Priority:    e.Priority,
		}, now)
		if err != nil {
			return err
		}
		err = a.mutate(func(b *domain.Board) error {
			return b.InsertCard(e.Column, e.Index, card)
		})
		if err == nil {
			a.selection = a.selection.Set(a.board, e.Column, e.Index)
		}
	case EditCard:
		var revised domain.Card
		revised, err = e.Original.Revise(domain.CardInput{
			Title:       e.Title.Value(),
			Description: e.Description.Value(),
			Priority:    e.Priority,
		}, now)
		if err != nil {
			return err
		}
		err = a.mutate(func(b *domain.Board) error {
			return b.ReplaceCard(e.Column, e.Index, revised)
		})
	case EditNewColumn:
		err = a.mutate(func(b *domain.Board) error {
			return b.InsertColumn(e.Column, e.Title.Value())
		})
		if errors.Is(err, domain.ErrInvalidName) {
			return err
		}
		if err == nil {
			a.selection = a.selection.Set(a.board, e.Column, 0)
		}
	case EditColumn:
		err = a.mutate(func(b *domain.Board) error {
			return b.RenameColumn(e.Column, e.Title.Value())
		})
		if errors.Is(err, domain.ErrInvalidName) {
			return err
		}
	}
	a.enter(ModeNormal)
	return err
}

// handleSave applies Save-mode events to the path draft.
func (a *App) handleSave(ctx context.Context, ev Event) error {
	s := a.save
	if s == nil {
		a.enter(ModeNormal)
		return nil
	}
	switch ev.Kind {
	case EventInput:
		s.Path.Insert(ev.Text)
	case EventBackspace:
		s.Path.Backspace()
	case EventDeleteForward:
		s.Path.DeleteForward()
	case EventCursorLeft:
		s.Path.Left()
	case EventCursorRight:
		s.Path.Right()
	case EventCursorHome:
		s.Path.Home()
	case EventCursorEnd:
		s.Path.End()
	case EventConfirm, EventNewline:
		path := s.Path.Value()
		a.enter(ModeNormal)
		return a.saveTo(ctx, path)
	case EventCancel:
		a.enter(ModeNormal)
	}
	return nil
}

// currentCard resolves the selected card.
func (a *App) currentCard() (domain.Cursor, domain.Card, error) {
	cur, ok := a.selection.Current()
	if !ok {
		return domain.Cursor{}, domain.Card{}, ErrNoCardSelected
	}
	card, err := a.board.Card(cur.Column, cur.Card)
	if err != nil {
		return domain.Cursor{}, domain.Card{}, err
	}
	return cur, card, nil
}

// insertSlot returns the insertion index an add-card command targets.
func (a *App) insertSlot(kind EventKind) int {
	col := a.selection.Column()
	cur, ok := a.selection.Current()
	switch kind {
	case EventAddCardTop:
		return 0
	case EventAddCardBottom:
		return a.board.CardCount(col)
	case EventAddCardBelow:
		if ok {
			return cur.Card + 1
		}
		return 0
	default:
		if ok {
			return cur.Card
		}
		return 0
	}
}

// reorder swaps the selected card with its neighbour in the same column.
func (a *App) reorder(delta int) error {
	cur, _, err := a.currentCard()
	if err != nil {
		return err
	}
	target := cur.Card + delta
	if target < 0 || target >= a.board.CardCount(cur.Column) {
		return nil
	}
	if err := a.mutate(func(b *domain.Board) error {
		return b.MoveCard(cur.Column, cur.Card, cur.Column, target)
	}); err != nil {
		return err
	}
	a.selection = a.selection.Set(a.board, cur.Column, target)
	return nil
}

// shiftCard moves the selected card to the top of the adjacent column and follows it.
func (a *App) shiftCard(delta int) error {
	cur, _, err := a.currentCard()
	if err != nil {
		return err
	}
	target := cur.Column + delta
	if target < 0 || target >= a.board.Len() {
		return nil
	}
	if err := a.mutate(func(b *domain.Board) error {
		return b.MoveCard(cur.Column, cur.Card, target, 0)
	}); err != nil {
		return err
	}
	a.selection = a.selection.Set(a.board, target, 0)
	return nil
}
