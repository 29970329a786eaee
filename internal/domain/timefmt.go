package domain

import (
	"time"

	"github.com/dustin/go-humanize"
)

// TimestampLayout is the persisted, fixed-width form of card timestamps.
const TimestampLayout = "2006-01-02T15:04:05Z"

// displayLayout is the short form shown next to cards.
const displayLayout = "2006-01-02 15:04"

// Stamp normalizes a wall-clock reading to the persisted precision.
func Stamp(now time.Time) time.Time {
	return now.UTC().Truncate(time.Second)
}

// FormatTimestamp renders t for display in local time.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(displayLayout)
}

// Age describes how long ago from was, relative to to.
func Age(from, to time.Time) string {
	if from.IsZero() {
		return ""
	}
	if to.Before(from) {
		to = from
	}
	return humanize.RelTime(from, to, "ago", "from now")
}
