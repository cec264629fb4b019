package errors

import "fmt"

var (
	// Surfaced synchronously to the caller. None are retried by the engine.
	ErrInvalidArgument   = fmt.Errorf("invalid argument")
	ErrDuplicateRoom     = fmt.Errorf("room already exists")
	ErrRoomNotFound      = fmt.Errorf("room does not exist")
	ErrDuplicateUser     = fmt.Errorf("user already exists in this room")
	ErrRoomFull          = fmt.Errorf("room is full")
	ErrRoomMismatch      = fmt.Errorf("message does not belong to this room")
	ErrNotAMember        = fmt.Errorf("sender is not a member of this room")
	ErrRecipientNotFound = fmt.Errorf("recipient not found or inactive")
	ErrSessionNotFound   = fmt.Errorf("no session found for this user")

	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")
)
