package app

import "errors"

// ErrPersistence and related errors describe application-level failures.
var (
	ErrPersistence      = errors.New("persistence error")
	ErrNoCardSelected   = errors.New("no card selected")
	ErrClipboardMissing = errors.New("clipboard unavailable")
)
