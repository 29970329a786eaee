package domain

import "strings"

// Column is a named, ordered run of cards.
type Column struct {
	Name  string
	Cards []Card
}

// NewColumn constructs an empty column.
func NewColumn(name string) (Column, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Column{}, ErrInvalidName
	}
	return Column{Name: name, Cards: []Card{}}, nil
}

// Len returns the number of cards in the column.
func (c Column) Len() int {
	return len(c.Cards)
}

// clone deep-copies the card slice so callers never alias board storage.
func (c Column) clone() Column {
	cards := make([]Card, len(c.Cards))
	copy(cards, c.Cards)
	return Column{Name: c.Name, Cards: cards}
}

func (c Column) validIndex(idx int) bool {
	return idx >= 0 && idx < len(c.Cards)
}
