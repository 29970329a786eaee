package domain

import "errors"

var (
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidTitle       = errors.New("invalid title")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrInvalidTimestamps  = errors.New("invalid timestamps")
)
