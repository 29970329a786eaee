package app

// EventKind identifies a semantic input event.
type EventKind int

// EventNone and related constants enumerate dispatchable events.
const (
	EventNone EventKind = iota

	// Navigation.
	EventLeft
	EventRight
	EventUp
	EventDown

	// Card commands.
	EventAddCardHere
	EventAddCardBelow
	EventAddCardTop
	EventAddCardBottom
	EventEditCard
	EventDeleteCard
	EventCardUp
	EventCardDown
	EventCardPrevColumn
	EventCardNextColumn
	EventToggleDone
	EventRaisePriority
	EventLowerPriority
	EventCopyTitle

	// Column commands.
	EventAddColumn
	EventRenameColumn
	EventRemoveColumn

	// Board commands.
	EventWrite
	EventSave
	EventHelp
	EventQuit

	// Text editing.
	EventInput
	EventBackspace
	EventDeleteForward
	EventCursorLeft
	EventCursorRight
	EventCursorHome
	EventCursorEnd
	EventNextField
	EventPrevField
	EventNewline
	EventConfirm
	EventCancel
)

var eventKindNames = map[EventKind]string{
	EventNone:           "none",
	EventLeft:           "left",
	EventRight:          "right",
	EventUp:             "up",
	EventDown:           "down",
	EventAddCardHere:    "add-card-here",
	EventAddCardBelow:   "add-card-below",
	EventAddCardTop:     "add-card-top",
	EventAddCardBottom:  "add-card-bottom",
	EventEditCard:       "edit-card",
	EventDeleteCard:     "delete-card",
	EventCardUp:         "card-up",
	EventCardDown:       "card-down",
	EventCardPrevColumn: "card-prev-column",
	EventCardNextColumn: "card-next-column",
	EventToggleDone:     "toggle-done",
	EventRaisePriority:  "raise-priority",
	EventLowerPriority:  "lower-priority",
	EventCopyTitle:      "copy-title",
	EventAddColumn:      "add-column",
	EventRenameColumn:   "rename-column",
	EventRemoveColumn:   "remove-column",
	EventWrite:          "write",
	EventSave:           "save",
	EventHelp:           "help",
	EventQuit:           "quit",
	EventInput:          "input",
	EventBackspace:      "backspace",
	EventDeleteForward:  "delete-forward",
	EventCursorLeft:     "cursor-left",
	EventCursorRight:    "cursor-right",
	EventCursorHome:     "cursor-home",
	EventCursorEnd:      "cursor-end",
	EventNextField:      "next-field",
	EventPrevField:      "prev-field",
	EventNewline:        "newline",
	EventConfirm:        "confirm",
	EventCancel:         "cancel",
}

// String returns the stable name of k.
func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is one input event after key translation.
type Event struct {
	Kind EventKind
	Text string
}

// Key builds a text-less event.
func Key(kind EventKind) Event {
	return Event{Kind: kind}
}

// Input builds a text insertion event.
func Input(text string) Event {
	return Event{Kind: EventInput, Text: text}
}
