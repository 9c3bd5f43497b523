package chathub

import "errors"

// Precondition violations surfaced to the offending client as an "error"
// event. None of these mutate hub state.
var (
	ErrAlreadyPaired     = errors.New("you are already in a chat")
	ErrNotPaired         = errors.New("you are not in a chat")
	ErrAlreadyInRoom     = errors.New("you are already in this room")
	ErrNotInRoom         = errors.New("you are not in this room")
	ErrEmptyMessage      = errors.New("message content is required")
	ErrTargetUnavailable = errors.New("target user not found")
)
