package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pgregory.net/rapid"
)

var propertyEvents = []Event{
	Key(EventLeft), Key(EventRight), Key(EventUp), Key(EventDown),
	Key(EventAddCardHere), Key(EventAddCardBelow), Key(EventAddCardTop), Key(EventAddCardBottom),
	Key(EventEditCard), Key(EventDeleteCard),
	Key(EventCardUp), Key(EventCardDown), Key(EventCardPrevColumn), Key(EventCardNextColumn),
	Key(EventToggleDone), Key(EventRaisePriority), Key(EventLowerPriority),
	Key(EventAddColumn), Key(EventRenameColumn), Key(EventRemoveColumn),
	Key(EventWrite), Key(EventSave), Key(EventHelp),
	Input("a"), Input("Z"), Key(EventBackspace), Key(EventDeleteForward),
	Key(EventCursorLeft), Key(EventCursorRight), Key(EventCursorHome), Key(EventCursorEnd),
	Key(EventNextField), Key(EventPrevField), Key(EventNewline), Key(EventConfirm), Key(EventCancel),
}

func propertyApp() *App {
	seq := 0
	now := time.Date(2026, 2, 21, 0, 0, 0, 0, time.UTC)
	return New(newFakeStore(), nil, func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}, func() time.Time {
		now = now.Add(time.Minute)
		return now
	}, Config{DefaultColumns: []string{"TODO", "Doing", "Done"}})
}

func checkAppInvariants(rt *rapid.T, a *App) {
	b := a.Board()
	if b.Len() < 1 {
		rt.Fatalf("board has no columns")
	}
	if !a.Selection().Valid(b) {
		rt.Fatalf("selection %#v invalid for board", a.Selection())
	}
	_, hasEditor := a.Editor()
	_, hasSave := a.SaveDraft()
	if hasEditor && hasSave {
		rt.Fatalf("two drafts live at once")
	}
	if hasEditor != (a.Mode() == ModeEdit) || hasSave != (a.Mode() == ModeSave) {
		rt.Fatalf("draft presence does not match mode %s", a.Mode())
	}
	seen := map[string]bool{}
	for _, col := range b.Columns() {
		for _, card := range col.Cards {
			if err := card.Validate(); err != nil {
				rt.Fatalf("invalid card %#v: %v", card, err)
			}
			if card.ID == "" || seen[card.ID] {
				rt.Fatalf("card id %q missing or duplicated", card.ID)
			}
			seen[card.ID] = true
		}
	}
}

func TestDispatchKeepsInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := propertyApp()
		steps := rapid.IntRange(1, 120).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			ev := propertyEvents[rapid.IntRange(0, len(propertyEvents)-1).Draw(rt, fmt.Sprintf("event%d", i))]
			out := a.Dispatch(context.Background(), ev)
			if out.To != a.Mode() {
				rt.Fatalf("outcome mode %s disagrees with app mode %s", out.To, a.Mode())
			}
			checkAppInvariants(rt, a)
		}
	})
}

func TestDispatchIsDeterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		first, second := propertyApp(), propertyApp()
		steps := rapid.IntRange(1, 80).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			ev := propertyEvents[rapid.IntRange(0, len(propertyEvents)-1).Draw(rt, fmt.Sprintf("event%d", i))]
			a := first.Dispatch(context.Background(), ev)
			b := second.Dispatch(context.Background(), ev)
			if a.To != b.To || a.Mutated != b.Mutated || (a.Err == nil) != (b.Err == nil) {
				rt.Fatalf("outcomes diverged at step %d: %#v vs %#v", i, a, b)
			}
		}
		if !first.Board().Equal(second.Board()) || first.Selection() != second.Selection() {
			rt.Fatalf("final state diverged")
		}
	})
}

func TestCancelRestoresBoardAndSelection(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := propertyApp()
		setup := rapid.IntRange(0, 40).Draw(rt, "setup")
		for i := 0; i < setup; i++ {
			ev := propertyEvents[rapid.IntRange(0, len(propertyEvents)-1).Draw(rt, fmt.Sprintf("setup%d", i))]
			a.Dispatch(context.Background(), ev)
		}
		// Cancel returns every mode reachable here to Normal.
		a.Dispatch(context.Background(), Key(EventCancel))
		if a.Mode() != ModeNormal {
			rt.Fatalf("expected normal before opening a draft, got %s", a.Mode())
		}
		board, sel := a.Board(), a.Selection()

		open := rapid.SampledFrom([]EventKind{EventAddCardHere, EventEditCard, EventAddColumn, EventRenameColumn, EventSave}).Draw(rt, "open")
		a.Dispatch(context.Background(), Key(open))
		edits := rapid.IntRange(0, 10).Draw(rt, "edits")
		for i := 0; i < edits; i++ {
			ev := rapid.SampledFrom([]Event{
				Input("q"), Key(EventBackspace), Key(EventCursorLeft), Key(EventCursorRight),
				Key(EventNextField), Key(EventPrevField), Key(EventCursorHome),
			}).Draw(rt, fmt.Sprintf("edit%d", i))
			a.Dispatch(context.Background(), ev)
		}
		a.Dispatch(context.Background(), Key(EventCancel))

		if a.Mode() != ModeNormal {
			rt.Fatalf("expected normal after cancel, got %s", a.Mode())
		}
		if !a.Board().Equal(board) || a.Selection() != sel {
			rt.Fatalf("cancel changed board or selection")
		}
	})
}
