package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	ErrNotFound       = fmt.Errorf("not found")
	ErrAccessDenied   = fmt.Errorf("access denied")
	ErrMuted          = fmt.Errorf("user is muted in this room")
	ErrInvalidPayload = fmt.Errorf("invalid payload")
	ErrInvalidToken   = fmt.Errorf("invalid or expired token")
	ErrSessionClosing = fmt.Errorf("session is closing")
	ErrUnknownEvent   = fmt.Errorf("unknown event")
	ErrEmptyMessage   = fmt.Errorf("message content is required")
	ErrSinkFull       = fmt.Errorf("sink buffer full")
	ErrSinkClosed     = fmt.Errorf("sink closed")
)
