package chat

import "errors"

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrNoCurrentSession = errors.New("no current session")
	ErrEmptyInput       = errors.New("empty input")
	ErrImageProcessing  = errors.New("image processing failed")
	ErrTimeout          = errors.New("webhook request timed out")
	ErrNetwork          = errors.New("webhook unreachable")
	ErrAuth             = errors.New("webhook authentication failed")
	ErrServer           = errors.New("webhook returned an error")
)
