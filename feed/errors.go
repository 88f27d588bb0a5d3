package feed

import (
	"errors"
	"time"
)

// Reason classifies a SessionError.
type Reason string

const (
	ConnectionFailed Reason = "connection-failed"
	SubscribeFailed  Reason = "subscribe-failed"
	DecodeFailed     Reason = "decode-failed"
)

// errStreamClosed is recorded when the broker ends a subscription without an error frame.
var errStreamClosed = errors.New("subscription stream closed")

// SessionError is the latest failure observed by a Session. It stays published
// until a newer failure replaces it or it is cleared.
type SessionError struct {
	Reason Reason
	Detail string
	At     time.Time
	Err    error
}

func (e *SessionError) Error() string {
	return string(e.Reason) + ": " + e.Detail
}

func (e *SessionError) Unwrap() error { return e.Err }

func newSessionError(reason Reason, prefix string, err error, at time.Time) *SessionError {
	return &SessionError{
		Reason: reason,
		Detail: prefix + ": " + err.Error(),
		At:     at,
		Err:    err,
	}
}
