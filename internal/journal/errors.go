package journal

import "errors"

var (
	// ErrUnknownActionType indicates an action type that was not registered with the codec.
	ErrUnknownActionType = errors.New("unknown action type")
	// ErrSessionRequired indicates an operation that needs a session ID got none.
	ErrSessionRequired = errors.New("session ID is required")
)
