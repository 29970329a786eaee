package filestore

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/evanschultz/kanboard/internal/domain"
	"gopkg.in/yaml.v3"
)

// boardDocument is the persisted board shape shared by every text format.
type boardDocument struct {
	Columns []columnDocument `json:"columns" yaml:"columns"`
}

// columnDocument is one persisted column.
type columnDocument struct {
	Name  string         `json:"name" yaml:"name"`
	Cards []cardDocument `json:"cards" yaml:"cards"`
}

// cardDocument is one persisted card. Timestamps use domain.TimestampLayout.
type cardDocument struct {
	ID          string `json:"id" yaml:"id"`
	Title       text   `json:"title" yaml:"title"`
	Description text   `json:"description" yaml:"description"`
	Priority    string `json:"priority" yaml:"priority"`
	Done        bool   `json:"done" yaml:"done"`
	CreatedAt   string `json:"created_at" yaml:"created_at"`
	UpdatedAt   string `json:"updated_at" yaml:"updated_at"`
}

// text is free-form card text. YAML block scalars drop leading blank lines
// and reject leading tabs, so such text is written double-quoted instead.
type text string

// MarshalYAML emits t as a double-quoted scalar when a plain or block scalar
// would not read back byte for byte.
func (t text) MarshalYAML() (any, error) {
	if !needsQuoting(string(t)) {
		return string(t), nil
	}
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!str",
		Style: yaml.DoubleQuotedStyle,
		Value: string(t),
	}, nil
}

// needsQuoting reports control characters or surrounding whitespace.
func needsQuoting(s string) bool {
	if s == "" {
		return false
	}
	if strings.TrimSpace(s) != s {
		return true
	}
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}

// fromBoard converts a board into its document form.
func fromBoard(b domain.Board) boardDocument {
	cols := b.Columns()
	doc := boardDocument{Columns: make([]columnDocument, 0, len(cols))}
	for _, col := range cols {
		cd := columnDocument{Name: col.Name, Cards: make([]cardDocument, 0, len(col.Cards))}
		for _, card := range col.Cards {
			cd.Cards = append(cd.Cards, cardDocument{
				ID:          card.ID,
				Title:       text(card.Title),
				Description: text(card.Description),
				Priority:    string(card.Priority),
				Done:        card.Done,
				CreatedAt:   formatStamp(card.CreatedAt),
				UpdatedAt:   formatStamp(card.UpdatedAt),
			})
		}
		doc.Columns = append(doc.Columns, cd)
	}
	return doc
}

// toBoard validates a decoded document and rebuilds the board.
func (d boardDocument) toBoard() (domain.Board, error) {
	cols := make([]domain.Column, 0, len(d.Columns))
	for colIdx, cd := range d.Columns {
		col := domain.Column{Name: cd.Name, Cards: make([]domain.Card, 0, len(cd.Cards))}
		for cardIdx, raw := range cd.Cards {
			card, err := raw.toCard()
			if err != nil {
				return domain.Board{}, fmt.Errorf("column %d card %d: %w", colIdx, cardIdx, err)
			}
			col.Cards = append(col.Cards, card)
		}
		cols = append(cols, col)
	}
	return domain.RestoreBoard(cols)
}

// toCard converts one card document. A blank priority reads as medium.
func (c cardDocument) toCard() (domain.Card, error) {
	priority := domain.PriorityMedium
	if strings.TrimSpace(c.Priority) != "" {
		parsed, err := domain.ParsePriority(c.Priority)
		if err != nil {
			return domain.Card{}, err
		}
		priority = parsed
	}
	created, err := parseStamp(c.CreatedAt)
	if err != nil {
		return domain.Card{}, fmt.Errorf("created_at: %w", err)
	}
	updated, err := parseStamp(c.UpdatedAt)
	if err != nil {
		return domain.Card{}, fmt.Errorf("updated_at: %w", err)
	}
	if updated.IsZero() {
		updated = created
	}
	return domain.Card{
		ID:          strings.TrimSpace(c.ID),
		Title:       string(c.Title),
		Description: string(c.Description),
		Priority:    priority,
		Done:        c.Done,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, nil
}

// formatStamp renders a timestamp in the persisted layout, or "" when unset.
func formatStamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return domain.Stamp(t).Format(domain.TimestampLayout)
}

// parseStamp reads the persisted layout, also accepting RFC 3339 offsets from hand edits.
func parseStamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	ts, err := time.Parse(domain.TimestampLayout, raw)
	if err != nil {
		ts, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidTimestamps, raw)
		}
	}
	return domain.Stamp(ts), nil
}
