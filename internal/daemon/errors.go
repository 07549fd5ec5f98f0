package daemon

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned by outbound calls made before the channel
// has been resolved.
var ErrNotConnected = errors.New("not connected to a channel")

// FatalError stops the daemon. It is raised for failures retrying cannot
// fix, such as rejected credentials or an unknown channel.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return fmt.Sprintf("fatal: %v", e.Err) }
func (e *FatalError) Unwrap() error { return e.Err }

// RecoverableError makes the daemon wait and reconnect with its cursor kept.
type RecoverableError struct {
	Err error
}

func (e *RecoverableError) Error() string { return fmt.Sprintf("recoverable: %v", e.Err) }
func (e *RecoverableError) Unwrap() error { return e.Err }

func fatal(err error) error       { return &FatalError{Err: err} }
func recoverable(err error) error { return &RecoverableError{Err: err} }

// IsFatal reports whether err (or anything it wraps) is a FatalError.
func IsFatal(err error) bool {
	var f *FatalError
	return errors.As(err, &f)
}
