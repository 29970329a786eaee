package domain

import (
	"strings"
	"time"
)

// Card represents one unit of work on the board.
type Card struct {
	ID          string
	Title       string
	Description string
	Priority    Priority
	Done        bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CardInput holds the editable fields of a card.
type CardInput struct {
	ID          string
	Title       string
	Description string
	Priority    Priority
	Done        bool
}

// NewCard constructs a validated card stamped with now.
func NewCard(in CardInput, now time.Time) (Card, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return Card{}, ErrInvalidTitle
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if !in.Priority.Valid() {
		return Card{}, ErrInvalidPriority
	}

	ts := Stamp(now)
	return Card{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Done:        in.Done,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}, nil
}

// Revise returns a copy of c carrying the edited fields, keeping identity and creation time.
func (c Card) Revise(in CardInput, now time.Time) (Card, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Card{}, ErrInvalidTitle
	}
	priority := in.Priority
	if priority == "" {
		priority = c.Priority
	}
	if !priority.Valid() {
		return Card{}, ErrInvalidPriority
	}
	out := c
	out.Title = title
	out.Description = in.Description
	out.Priority = priority
	out.touch(now)
	return out, nil
}

// Validate checks the invariants a committed card must hold.
func (c Card) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrInvalidTitle
	}
	if !c.Priority.Valid() {
		return ErrInvalidPriority
	}
	if c.UpdatedAt.Before(c.CreatedAt) {
		return ErrInvalidTimestamps
	}
	return nil
}

// touch stamps UpdatedAt, never moving it before CreatedAt.
func (c *Card) touch(now time.Time) {
	ts := Stamp(now)
	if ts.Before(c.CreatedAt) {
		ts = c.CreatedAt
	}
	c.UpdatedAt = ts
}
