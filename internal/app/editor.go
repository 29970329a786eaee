package app

import "github.com/evanschultz/kanboard/internal/domain"

// EditTarget says what an EditorState commits into.
type EditTarget int

// EditNewCard and related constants enumerate editor targets.
const (
	EditNewCard EditTarget = iota
	EditCard
	EditNewColumn
	EditColumn
)

// EditorField identifies one focusable editor field.
type EditorField int

// FieldTitle and related constants enumerate editor fields in focus order.
const (
	FieldTitle EditorField = iota
	FieldDescription
	FieldPriority
)

// String returns the field label.
func (f EditorField) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldDescription:
		return "description"
	case FieldPriority:
		return "priority"
	default:
		return "unknown"
	}
}

// EditorState is the draft owned by Edit mode. It never aliases a live card.
type EditorState struct {
	Target EditTarget
	// Column and Index address the slot: the insertion slot for new cards and columns,
	// the live card or column for edits.
	Column int
	Index  int
	// Original is the card as it was when editing began.
	Original    domain.Card
	Title       TextBuffer
	Description TextBuffer
	Priority    domain.Priority
	Focus       EditorField
}

// Fields returns the focusable fields for the target.
func (e EditorState) Fields() []EditorField {
	switch e.Target {
	case EditNewColumn, EditColumn:
		return []EditorField{FieldTitle}
	default:
		return []EditorField{FieldTitle, FieldDescription, FieldPriority}
	}
}

// IsColumn reports whether the draft edits a column name.
func (e EditorState) IsColumn() bool {
	return e.Target == EditNewColumn || e.Target == EditColumn
}

// Clone deep-copies the draft.
func (e EditorState) Clone() EditorState {
	e.Title = e.Title.Clone()
	e.Description = e.Description.Clone()
	return e
}

// focused returns the text buffer under focus, or nil for the priority field.
func (e *EditorState) focused() *TextBuffer {
	switch e.Focus {
	case FieldTitle:
		return &e.Title
	case FieldDescription:
		return &e.Description
	default:
		return nil
	}
}

// cycleFocus moves focus by delta, wrapping within Fields().
func (e *EditorState) cycleFocus(delta int) {
	fields := e.Fields()
	idx := 0
	for i, f := range fields {
		if f == e.Focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(fields)) % len(fields)
	e.Focus = fields[idx]
}

// SaveState is the draft owned by Save mode.
type SaveState struct {
	Path TextBuffer
}

// Clone deep-copies the draft.
func (s SaveState) Clone() SaveState {
	s.Path = s.Path.Clone()
	return s
}

// newCardEditor builds a blank draft for a card inserted at (col, pos).
func newCardEditor(col, pos int, title string, priority domain.Priority) EditorState {
	return EditorState{
		Target:      EditNewCard,
		Column:      col,
		Index:       pos,
		Title:       NewTextBuffer(title, false),
		Description: NewTextBuffer("", true),
		Priority:    priority,
		Focus:       FieldTitle,
	}
}

// cardEditor builds a draft copied from the live card at (col, idx).
func cardEditor(col, idx int, card domain.Card) EditorState {
	return EditorState{
		Target:      EditCard,
		Column:      col,
		Index:       idx,
		Original:    card,
		Title:       NewTextBuffer(card.Title, false),
		Description: NewTextBuffer(card.Description, true),
		Priority:    card.Priority,
		Focus:       FieldTitle,
	}
}

// columnEditor builds a draft for a column name.
func columnEditor(target EditTarget, col int, name string) EditorState {
	return EditorState{
		Target: target,
		Column: col,
		Title:  NewTextBuffer(name, false),
		Focus:  FieldTitle,
	}
}
