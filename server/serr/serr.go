// Package serr holds common error objects used across the cmdtree server.
// Notably, it contains the Error type, which can be created with one or more
// 'cause' errors. Calling errors.Is() on an Error with any of its causes as the
// target returns true.
package serr

import "errors"

var (
	ErrBadCredentials = errors.New("the supplied operator password is incorrect")
	ErrPermissions    = errors.New("you don't have permission to do that")
	ErrNotFound       = errors.New("the requested entity could not be found")
	ErrDB             = errors.New("an error occured with the DB")
	ErrBadArgument    = errors.New("one or more of the arguments is invalid")
	ErrBodyUnmarshal  = errors.New("malformed data in request")
)

// Error is returned by the server's service layer. It has a message and any
// number of causes, and errors.Is matches it against each cause.
//
// If Error has at least one cause, Error() gives its message followed by the
// Error() of its first cause.
//
// Error should not be used directly; call New to create one.
type Error struct {
	msg   string
	cause []error
}

// Error returns the message of the Error joined with that of its first cause.
// If no message was set, only the first cause's message is returned.
func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}

	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}

	return e.msg
}

// Unwrap returns the causes of Error, or nil if there are none.
//
// This is only used by errors.Is in Go 1.20 and later; on 1.19, Error.Is is
// used instead.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is returns whether target is equal to e or to one of its causes.
func (e Error) Is(target error) bool {
	if errTarget, ok := target.(Error); ok {
		if e.msg == errTarget.msg && len(e.cause) == len(errTarget.cause) {
			allCausesEqual := true
			for i := range e.cause {
				if e.cause[i] != errTarget.cause[i] {
					allCausesEqual = false
					break
				}
			}
			if allCausesEqual {
				return true
			}
		}
	}

	for i := range e.cause {
		if e.cause[i] == target || errors.Is(e.cause[i], target) {
			return true
		}
	}
	return false
}

// WrapDB creates a new Error that has err as its cause, along with ErrDB. msg
// may be left as "".
func WrapDB(msg string, err error) Error {
	return Error{
		msg:   msg,
		cause: []error{err, ErrDB},
	}
}

// New creates a new Error with the given message and causes.
func New(msg string, causes ...error) Error {
	err := Error{msg: msg}
	if len(causes) > 0 {
		err.cause = make([]error, len(causes))
		copy(err.cause, causes)
	}
	return err
}
