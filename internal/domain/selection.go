package domain

// Cursor addresses one card on the board.
type Cursor struct {
	Column int
	Card   int
}

// Selection is the board cursor. The zero value selects column 0 with no card.
type Selection struct {
	column  int
	card    int
	hasCard bool
}

// NewSelection returns a selection resolved against b.
func NewSelection(b Board) Selection {
	return Selection{}.Clamp(b)
}

// Column returns the selected column index.
func (s Selection) Column() int {
	return s.column
}

// Current returns the selected card address, if the selected column has cards.
func (s Selection) Current() (Cursor, bool) {
	if !s.hasCard {
		return Cursor{Column: s.column}, false
	}
	return Cursor{Column: s.column, Card: s.card}, true
}

// Clamp re-validates the selection against b. It runs after every structural board change.
func (s Selection) Clamp(b Board) Selection {
	s.column = clampInt(s.column, 0, b.Len()-1)
	n := b.CardCount(s.column)
	if n == 0 {
		s.card = 0
		s.hasCard = false
		return s
	}
	if !s.hasCard {
		s.card = 0
		s.hasCard = true
		return s
	}
	s.card = clampInt(s.card, 0, n-1)
	return s
}

// Set points the selection at (col, card), clamping both indexes.
func (s Selection) Set(b Board, col, card int) Selection {
	s.column = col
	s.card = card
	s.hasCard = true
	return s.Clamp(b)
}

// MoveLeft selects the previous column, keeping the card index where possible.
func (s Selection) MoveLeft(b Board) Selection {
	if s.column <= 0 {
		return s.Clamp(b)
	}
	return s.shiftColumn(b, -1)
}

// MoveRight selects the next column, keeping the card index where possible.
func (s Selection) MoveRight(b Board) Selection {
	if s.column >= b.Len()-1 {
		return s.Clamp(b)
	}
	return s.shiftColumn(b, 1)
}

// MoveUp selects the previous card in the column; it does not wrap.
func (s Selection) MoveUp(b Board) Selection {
	s = s.Clamp(b)
	if s.hasCard && s.card > 0 {
		s.card--
	}
	return s
}

// MoveDown selects the next card in the column; it does not wrap.
func (s Selection) MoveDown(b Board) Selection {
	s = s.Clamp(b)
	if s.hasCard && s.card < b.CardCount(s.column)-1 {
		s.card++
	}
	return s
}

// Valid reports whether the selection satisfies its invariants for b.
func (s Selection) Valid(b Board) bool {
	if s.column < 0 || s.column >= b.Len() {
		return false
	}
	n := b.CardCount(s.column)
	if n == 0 {
		return !s.hasCard
	}
	return s.hasCard && s.card >= 0 && s.card < n
}

func (s Selection) shiftColumn(b Board, delta int) Selection {
	keep := s.card
	s.column += delta
	s.card = keep
	s.hasCard = true
	return s.Clamp(b)
}
