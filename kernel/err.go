package kernel

import (
	"errors"

	"chronos/internal/translate"
)

var f = translate.From

var (
	// ErrRegistrationFull is returned when the thread table is at capacity.
	ErrRegistrationFull = errors.New(f("registration full"))
	// ErrInvalidArgument reports a nil entry or an out-of-range handle.
	ErrInvalidArgument = errors.New(f("invalid argument"))
	// ErrInvalidState reports an unbalanced resume, or a kernel operation
	// issued in the wrong lifecycle state (before Initialize, while running).
	ErrInvalidState = errors.New(f("invalid state"))
)

// ThreadError records the operation and handle that failed.
type ThreadError struct {
	Op     string
	Handle Handle
	Err    error
}

func (err *ThreadError) Error() string {
	if err.Handle == InvalidHandle {
		return f("%v: %v", err.Op, err.Err)
	}
	return f("%v thread %d: %v", err.Op, int(err.Handle), err.Err)
}

func (err *ThreadError) Unwrap() error {
	return err.Err
}
