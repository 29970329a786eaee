package app

// Mode is one state of the interaction state machine.
type Mode int

// ModeNormal and related constants enumerate the interaction modes.
const (
	ModeNormal Mode = iota
	ModeEdit
	ModeSave
	ModeHelp
	ModeQuit
)

// String returns the display label for m.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeEdit:
		return "edit"
	case ModeSave:
		return "save"
	case ModeHelp:
		return "help"
	case ModeQuit:
		return "quit"
	default:
		return "unknown"
	}
}
