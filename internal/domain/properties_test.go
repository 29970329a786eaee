package domain

import (
	"fmt"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// TestBoardSelectionInvariantsHold drives random operation sequences and checks that the board
// never loses its last column and the clamped selection always addresses live data.
func TestBoardSelectionInvariantsHold(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b := NewBoard()
		sel := NewSelection(b)
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		steps := rapid.IntRange(1, 80).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			now = now.Add(time.Second)
			col := rapid.IntRange(-1, b.Len()).Draw(rt, "col")
			idx := rapid.IntRange(-1, b.CardCount(max(col, 0))+1).Draw(rt, "idx")
			before := b.Clone()
			var err error
			switch op := rapid.IntRange(0, 10).Draw(rt, "op"); op {
			case 0:
				card, _ := NewCard(CardInput{ID: fmt.Sprintf("c%d", i), Title: fmt.Sprintf("card %d", i)}, now)
				err = b.InsertCard(col, idx, card)
			case 1:
				_, err = b.RemoveCard(col, idx)
			case 2:
				toCol := rapid.IntRange(-1, b.Len()).Draw(rt, "toCol")
				toIdx := rapid.IntRange(-1, b.CardCount(max(toCol, 0))+1).Draw(rt, "toIdx")
				err = b.MoveCard(col, idx, toCol, toIdx)
			case 3:
				err = b.AddColumn(fmt.Sprintf("col %d", i))
			case 4:
				_, err = b.RemoveColumn(col)
			case 5:
				err = b.ToggleDone(col, idx, now)
			case 6:
				sel = sel.MoveLeft(b)
			case 7:
				sel = sel.MoveRight(b)
			case 8:
				sel = sel.MoveUp(b)
			case 9:
				sel = sel.MoveDown(b)
			case 10:
				sel = sel.Set(b, col, idx)
			}
			if err != nil && !b.Equal(before) {
				rt.Fatalf("failed operation mutated board: %v", err)
			}
			sel = sel.Clamp(b)
			if b.Len() < 1 {
				rt.Fatalf("board lost its last column")
			}
			if !sel.Valid(b) {
				rt.Fatalf("selection %#v invalid for board with %d columns", sel, b.Len())
			}
		}
	})
}

// TestMoveCardPreservesCardCount verifies moves never duplicate or drop cards.
func TestMoveCardPreservesCardCount(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cols := rapid.IntRange(1, 4).Draw(rt, "cols")
		b := NewBoard()
		for i := 1; i < cols; i++ {
			_ = b.AddColumn(fmt.Sprintf("c%d", i))
		}
		total := 0
		for col := 0; col < cols; col++ {
			n := rapid.IntRange(0, 4).Draw(rt, "n")
			for i := 0; i < n; i++ {
				card, _ := NewCard(CardInput{Title: fmt.Sprintf("%d-%d", col, i)}, time.Unix(0, 0))
				_ = b.InsertCard(col, i, card)
				total++
			}
		}
		fromCol := rapid.IntRange(0, cols-1).Draw(rt, "fromCol")
		toCol := rapid.IntRange(0, cols-1).Draw(rt, "toCol")
		fromIdx := rapid.IntRange(0, 4).Draw(rt, "fromIdx")
		toIdx := rapid.IntRange(0, 5).Draw(rt, "toIdx")
		_ = b.MoveCard(fromCol, fromIdx, toCol, toIdx)

		count := 0
		for col := 0; col < b.Len(); col++ {
			count += b.CardCount(col)
		}
		if count != total {
			rt.Fatalf("card count changed from %d to %d", total, count)
		}
	})
}
