package repository

import "errors"

// Sentinel kinds for profile store errors.
var (
	ErrNotFound    = errors.New("profile not found")
	ErrConflict    = errors.New("profile already exists")
	ErrUnavailable = errors.New("profile store unavailable")
)
