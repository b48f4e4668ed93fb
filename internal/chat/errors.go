package chat

import "errors"

var (
	// ErrEmptyUsername rejects a blank candidate name at join time.
	ErrEmptyUsername = errors.New("empty username")
	// ErrUsernameTaken rejects a candidate name already held by a live session.
	ErrUsernameTaken = errors.New("username already taken")
)
