package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// DefaultColumnName names the single column of a fresh board.
const DefaultColumnName = "TODO"

// Board owns an ordered, never-empty list of columns.
type Board struct {
	columns []Column
}

// NewBoard returns a board with one empty column per name, or a single default column.
func NewBoard(names ...string) Board {
	cols := make([]Column, 0, max(1, len(names)))
	for _, name := range names {
		col, err := NewColumn(name)
		if err != nil {
			continue
		}
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		cols = append(cols, Column{Name: DefaultColumnName, Cards: []Card{}})
	}
	return Board{columns: cols}
}

// RestoreBoard rebuilds a board from deserialized columns, rejecting malformed structure.
func RestoreBoard(columns []Column) (Board, error) {
	if len(columns) == 0 {
		return Board{}, fmt.Errorf("board has no columns: %w", ErrInvariantViolation)
	}
	out := make([]Column, 0, len(columns))
	for colIdx, col := range columns {
		name := strings.TrimSpace(col.Name)
		if name == "" {
			return Board{}, fmt.Errorf("column %d: %w", colIdx, ErrInvalidName)
		}
		cards := make([]Card, 0, len(col.Cards))
		for cardIdx, card := range col.Cards {
			if err := card.Validate(); err != nil {
				return Board{}, fmt.Errorf("column %q card %d: %w", name, cardIdx, err)
			}
			cards = append(cards, card)
		}
		out = append(out, Column{Name: name, Cards: cards})
	}
	return Board{columns: out}, nil
}

// Len returns the number of columns.
func (b Board) Len() int {
	return len(b.columns)
}

// Columns returns a deep copy of the board's columns for read-only use.
func (b Board) Columns() []Column {
	out := make([]Column, len(b.columns))
	for i, col := range b.columns {
		out[i] = col.clone()
	}
	return out
}

// Column returns a copy of the column at idx.
func (b Board) Column(idx int) (Column, error) {
	if !b.validColumn(idx) {
		return Column{}, fmt.Errorf("column %d: %w", idx, ErrIndexOutOfRange)
	}
	return b.columns[idx].clone(), nil
}

// CardCount returns the number of cards in column idx, or 0 when idx is invalid.
func (b Board) CardCount(idx int) int {
	if !b.validColumn(idx) {
		return 0
	}
	return len(b.columns[idx].Cards)
}

// Card returns a copy of the card at (col, idx).
func (b Board) Card(col, idx int) (Card, error) {
	if err := b.checkCard(col, idx); err != nil {
		return Card{}, err
	}
	return b.columns[col].Cards[idx], nil
}

// Clone deep-copies the board.
func (b Board) Clone() Board {
	return Board{columns: b.Columns()}
}

// Equal reports whether two boards hold the same columns and cards.
func (b Board) Equal(other Board) bool {
	return slices.EqualFunc(b.columns, other.columns, func(x, y Column) bool {
		return x.Name == y.Name && slices.EqualFunc(x.Cards, y.Cards, cardsEqual)
	})
}

// InsertCard inserts card into column col, clamping pos to [0, len].
func (b *Board) InsertCard(col, pos int, card Card) error {
	if !b.validColumn(col) {
		return fmt.Errorf("insert into column %d: %w", col, ErrIndexOutOfRange)
	}
	if err := card.Validate(); err != nil {
		return err
	}
	cards := b.columns[col].Cards
	pos = clampInt(pos, 0, len(cards))
	b.columns[col].Cards = slices.Insert(cards, pos, card)
	return nil
}

// RemoveCard removes and returns the card at (col, idx).
func (b *Board) RemoveCard(col, idx int) (Card, error) {
	if err := b.checkCard(col, idx); err != nil {
		return Card{}, err
	}
	card := b.columns[col].Cards[idx]
	b.columns[col].Cards = slices.Delete(b.columns[col].Cards, idx, idx+1)
	return card, nil
}

// MoveCard moves one card so it ends at slot toIdx of column toCol.
// toIdx addresses the destination as it looks once the card has been lifted out.
func (b *Board) MoveCard(fromCol, fromIdx, toCol, toIdx int) error {
	if err := b.checkCard(fromCol, fromIdx); err != nil {
		return err
	}
	if !b.validColumn(toCol) {
		return fmt.Errorf("move to column %d: %w", toCol, ErrIndexOutOfRange)
	}
	destLen := len(b.columns[toCol].Cards)
	if toCol == fromCol {
		destLen--
	}
	if toIdx < 0 || toIdx > destLen {
		return fmt.Errorf("move to slot %d of column %d: %w", toIdx, toCol, ErrIndexOutOfRange)
	}
	if fromCol == toCol && fromIdx == toIdx {
		return nil
	}

	card := b.columns[fromCol].Cards[fromIdx]
	b.columns[fromCol].Cards = slices.Delete(b.columns[fromCol].Cards, fromIdx, fromIdx+1)
	b.columns[toCol].Cards = slices.Insert(b.columns[toCol].Cards, toIdx, card)
	return nil
}

// ReplaceCard swaps the card at (col, idx) for a validated revision of it.
func (b *Board) ReplaceCard(col, idx int, card Card) error {
	if err := b.checkCard(col, idx); err != nil {
		return err
	}
	if err := card.Validate(); err != nil {
		return err
	}
	b.columns[col].Cards[idx] = card
	return nil
}

// ToggleDone flips the completion flag of the card at (col, idx).
func (b *Board) ToggleDone(col, idx int, now time.Time) error {
	if err := b.checkCard(col, idx); err != nil {
		return err
	}
	card := &b.columns[col].Cards[idx]
	card.Done = !card.Done
	card.touch(now)
	return nil
}

// SetPriority sets the priority of the card at (col, idx).
func (b *Board) SetPriority(col, idx int, priority Priority, now time.Time) error {
	if err := b.checkCard(col, idx); err != nil {
		return err
	}
	if !priority.Valid() {
		return ErrInvalidPriority
	}
	card := &b.columns[col].Cards[idx]
	card.Priority = priority
	card.touch(now)
	return nil
}

// AddColumn appends an empty column.
func (b *Board) AddColumn(name string) error {
	return b.InsertColumn(len(b.columns), name)
}

// InsertColumn inserts an empty column at pos, clamped to [0, len].
func (b *Board) InsertColumn(pos int, name string) error {
	col, err := NewColumn(name)
	if err != nil {
		return err
	}
	pos = clampInt(pos, 0, len(b.columns))
	b.columns = slices.Insert(b.columns, pos, col)
	return nil
}

// RenameColumn renames the column at idx.
func (b *Board) RenameColumn(idx int, name string) error {
	if !b.validColumn(idx) {
		return fmt.Errorf("rename column %d: %w", idx, ErrIndexOutOfRange)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	b.columns[idx].Name = name
	return nil
}

// RemoveColumn removes the column at idx with its cards. The last column cannot be removed.
func (b *Board) RemoveColumn(idx int) (Column, error) {
	if !b.validColumn(idx) {
		return Column{}, fmt.Errorf("remove column %d: %w", idx, ErrIndexOutOfRange)
	}
	if len(b.columns) == 1 {
		return Column{}, fmt.Errorf("remove only column: %w", ErrInvariantViolation)
	}
	col := b.columns[idx]
	b.columns = slices.Delete(b.columns, idx, idx+1)
	return col, nil
}

// validColumn reports whether idx addresses an existing column.
func (b Board) validColumn(idx int) bool {
	return idx >= 0 && idx < len(b.columns)
}

// checkCard validates a (column, card) address.
func (b Board) checkCard(col, idx int) error {
	if !b.validColumn(col) {
		return fmt.Errorf("column %d: %w", col, ErrIndexOutOfRange)
	}
	if !b.columns[col].validIndex(idx) {
		return fmt.Errorf("card %d of column %d: %w", idx, col, ErrIndexOutOfRange)
	}
	return nil
}

func cardsEqual(x, y Card) bool {
	return x.ID == y.ID &&
		x.Title == y.Title &&
		x.Description == y.Description &&
		x.Priority == y.Priority &&
		x.Done == y.Done &&
		x.CreatedAt.Equal(y.CreatedAt) &&
		x.UpdatedAt.Equal(y.UpdatedAt)
}

// clampInt clamps v into [lo, hi]; hi < lo yields lo.
func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EnsureIDs assigns identifiers from next to cards that have none and reports how many changed.
func (b *Board) EnsureIDs(next func() string) int {
	if next == nil {
		return 0
	}
	assigned := 0
	for colIdx := range b.columns {
		for cardIdx := range b.columns[colIdx].Cards {
			card := &b.columns[colIdx].Cards[cardIdx]
			if strings.TrimSpace(card.ID) != "" {
				continue
			}
			card.ID = next()
			assigned++
		}
	}
	return assigned
}
