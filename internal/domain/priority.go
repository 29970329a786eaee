package domain

import (
	"slices"
	"strings"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// validPriorities is ordered from lowest to highest.
var validPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Priorities returns every priority level from lowest to highest.
func Priorities() []Priority {
	return slices.Clone(validPriorities)
}

// ParsePriority normalizes raw input into a known priority level.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

// Valid reports whether p is one of the known levels.
func (p Priority) Valid() bool {
	return slices.Contains(validPriorities, p)
}

// Raise returns the next higher level, saturating at high.
func (p Priority) Raise() Priority {
	idx := slices.Index(validPriorities, p)
	if idx < 0 {
		return PriorityMedium
	}
	return validPriorities[min(idx+1, len(validPriorities)-1)]
}

// Lower returns the next lower level, saturating at low.
func (p Priority) Lower() Priority {
	idx := slices.Index(validPriorities, p)
	if idx < 0 {
		return PriorityMedium
	}
	return validPriorities[max(idx-1, 0)]
}
