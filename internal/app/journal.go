package app

import (
	"fmt"
	"sync"
	"time"
)

// Severity ranks status events.
type Severity int

// SeverityDebug and related constants enumerate severities in increasing order.
const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Entry is one numbered journal message.
type Entry struct {
	Seq      int
	Severity Severity
	Message  string
	At       time.Time
}

// String renders the entry as "[n] message".
func (e Entry) String() string {
	return fmt.Sprintf("[%d] %s", e.Seq, e.Message)
}

// Journal keeps the most recent status messages for display and forwards every event.
type Journal struct {
	mu       sync.Mutex
	limit    int
	minLevel Severity
	clock    Clock
	forward  Logger
	seq      int
	entries  []Entry
}

// NewJournal constructs a journal keeping at most limit entries at info level or above.
func NewJournal(limit int, clock Clock, forward Logger) *Journal {
	if limit <= 0 {
		limit = 50
	}
	if clock == nil {
		clock = time.Now
	}
	return &Journal{
		limit:    limit,
		minLevel: SeverityInfo,
		clock:    clock,
		forward:  forward,
	}
}

// Log records msg and forwards it.
func (j *Journal) Log(sev Severity, msg string) {
	if j == nil {
		return
	}
	if j.forward != nil {
		j.forward.Log(sev, msg)
	}
	if sev < j.minLevel {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.seq++
	j.entries = append(j.entries, Entry{Seq: j.seq, Severity: sev, Message: msg, At: j.clock()})
	if over := len(j.entries) - j.limit; over > 0 {
		j.entries = append([]Entry(nil), j.entries[over:]...)
	}
}

// Entries returns retained entries, oldest first.
func (j *Journal) Entries() []Entry {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]Entry(nil), j.entries...)
}

// Last returns the newest entry.
func (j *Journal) Last() (Entry, bool) {
	if j == nil {
		return Entry{}, false
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.entries) == 0 {
		return Entry{}, false
	}
	return j.entries[len(j.entries)-1], true
}
