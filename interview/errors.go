package interview

import "errors"

var (
	// ErrNoActiveSession is returned when the rapid-fire turn handler is
	// invoked without an active session. This is a caller ordering bug.
	ErrNoActiveSession = errors.New("rapid-fire: no active session")

	ErrConcluded = errors.New("interview already concluded")
)

type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

func ErrInvalidState(msg string) error { return InvalidStateError(msg) }
