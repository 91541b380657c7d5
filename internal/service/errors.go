package service

import "errors"

// Shared failure categories, mapped to HTTP statuses at the handler edge.
var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrValidation     = errors.New("validation failed")
	ErrCreateRejected = errors.New("create rejected")
	ErrUpdateRejected = errors.New("update rejected")
)
