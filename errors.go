package readuntil

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when the deadline elapses before the predicate
	// accepts the accumulated bytes. The stream stays usable.
	ErrTimeout = errors.New("readuntil: timeout")

	// ErrDisconnected reports that the pump has stopped and no further bytes
	// will ever arrive. It is terminal for the Reader.
	ErrDisconnected = errors.New("readuntil: disconnected")

	// ErrClosed is the disconnect cause when the Reader or Port was closed by the caller.
	ErrClosed = errors.New("readuntil: closed")

	// ErrNilPredicate is returned by Until when called with a nil predicate.
	ErrNilPredicate = errors.New("readuntil: nil predicate")
)

// DisconnectedError is returned once the pump has terminated. Cause holds
// the error that stopped it: io.EOF, the stream's read error, or ErrClosed.
type DisconnectedError struct {
	Cause error
}

func (e *DisconnectedError) Error() string {
	if e.Cause == nil {
		return ErrDisconnected.Error()
	}
	return fmt.Sprintf("%s: %v", ErrDisconnected.Error(), e.Cause)
}

// Unwrap matches both ErrDisconnected and the cause.
func (e *DisconnectedError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrDisconnected}
	}
	return []error{ErrDisconnected, e.Cause}
}
