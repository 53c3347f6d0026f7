package chat

import "errors"

// Terminal, caller-visible failures. Handlers map these to HTTP statuses;
// none of them is retryable.
var (
	ErrSelfChat       = errors.New("cannot start a chat with yourself")
	ErrBlocked        = errors.New("blocked")
	ErrDeactivated    = errors.New("member is deactivated")
	ErrNotFound       = errors.New("not found")
	ErrNotParticipant = errors.New("not a participant of this room")
)
