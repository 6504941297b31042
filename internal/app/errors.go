package service

import "errors"

// Errors returned by Service operations. Callers match them with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("already exists")
	ErrUnavailable  = errors.New("unavailable")
)
