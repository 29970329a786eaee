package app

import (
	"context"

	"github.com/evanschultz/kanboard/internal/domain"
)

// BoardStore reads and writes whole boards at a file path.
// A missing file must be reported with an error wrapping fs.ErrNotExist.
type BoardStore interface {
	LoadBoard(context.Context, string) (domain.Board, error)
	SaveBoard(context.Context, string, domain.Board) error
}

// Logger receives status events from the dispatcher.
type Logger interface {
	Log(Severity, string)
}

// LoggerFunc adapts a plain function to Logger.
type LoggerFunc func(Severity, string)

// Log calls f.
func (f LoggerFunc) Log(sev Severity, msg string) {
	if f != nil {
		f(sev, msg)
	}
}

// CopyFunc places text on the system clipboard.
type CopyFunc func(string) error
