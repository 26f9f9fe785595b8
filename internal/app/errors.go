package app

import "errors"

// Sentinel errors surfaced to HTTP handlers. Attendance messages are
// part of the punch API contract.
var (
	ErrUnsupportedFile    = errors.New("unsupported file type")
	ErrFileRequired       = errors.New("file is required")
	ErrLocationRequired   = errors.New("Location required")
	ErrInvalidState       = errors.New("Invalid state")
	ErrInvalidAction      = errors.New("invalid action")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
)
