// Package cmderrors holds errors that carry a message meant for the person who
// typed a command in addition to the usual technical description, and converts
// errors from command dispatch into such messages.
package cmderrors

import (
	"errors"
	"fmt"

	"github.com/dekarrin/cmdtree/tree"
)

var (
	// ErrPermission is wrapped by errors returned when the caller is not in
	// the permission group a command requires.
	ErrPermission = errors.New("permission denied")
)

// interpreterError is an error caused by attempting to run input. Either the
// input could not be understood or it specifies doing something that is
// impossible or not allowed at the current time.
//
// interpreterError includes a human-readable message to show to an operator as
// well as a typical more technical "error message" style message.
type interpreterError struct {
	msg   string
	human string
	wrap  error
}

func (e *interpreterError) Error() string {
	return e.msg
}

// GameMessage shows the message that should be displayed in-game to describe
// the error.
func (e *interpreterError) GameMessage() string {
	return e.human
}

// Unwrap gives the error that the interpreterError wraps, if it wraps one.
func (e *interpreterError) Unwrap() error {
	return e.wrap
}

// Interpreter returns a new error that has both the message to show the player
// and the technical description of the error.
func Interpreter(game, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got InterpreterError(%q)", game)
	}
	return &interpreterError{
		msg:   technical,
		human: game,
	}
}

// Interpreterf returns a new error that has a message to show to the player and
// an automatically generated Error() description. The arguments given are the
// format string and the arguments to the format string.
func Interpreterf(gameFormat string, a ...interface{}) error {
	gameMessage := fmt.Sprintf(gameFormat, a...)
	return Interpreter(gameMessage, "")
}

// WrapInterpreter returns a new error that has both the message to show the
// player and the technical description of the error, and that wraps the given
// error.
func WrapInterpreter(e error, game, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got InterpreterError(%q)", game)
	}
	return &interpreterError{
		msg:   technical,
		human: game,
		wrap:  e,
	}
}

// WrapInterpreterf returns a new error that has both the message to show the
// player and an automatically generated Error() description, and that wraps
// the given error. The arguments given are the error to wrap, then the format
// followed by its arguments.
func WrapInterpreterf(e error, gameFormat string, a ...interface{}) error {
	gameMessage := fmt.Sprintf(gameFormat, a...)
	return WrapInterpreter(e, gameMessage, "")
}

// Permission returns an error for a caller who is not in the given group.
func Permission(group string) error {
	return WrapInterpreter(ErrPermission, "You don't have permission to do that", fmt.Sprintf("caller is not in group %q", group))
}

// GameMessage gets the message to display to the console for the given error.
//
// Errors created in this package give their game message. Errors from
// dispatching a command tree are described in terms of what was typed. Anything
// else gives err.Error().
func GameMessage(err error) string {
	var intErr *interpreterError
	if errors.As(err, &intErr) {
		return intErr.GameMessage()
	}

	var dErr *tree.DispatchError
	if errors.As(err, &dErr) {
		return dispatchMessage(dErr)
	}

	var lErr *tree.LookupError
	if errors.As(err, &lErr) {
		return "Something went wrong running that command"
	}

	return err.Error()
}

func dispatchMessage(e *tree.DispatchError) string {
	switch e.Kind {
	case tree.ErrNoMatchingChild:
		if e.Usage == "" {
			return fmt.Sprintf("I don't know what you mean by %q", e.Token)
		}
		return fmt.Sprintf("I don't know what %q means after %q", e.Token, e.Usage)
	case tree.ErrNoHandlerAtPath:
		if e.Usage == "" {
			return "Enter a command"
		}
		return fmt.Sprintf("%q needs more to go with it", e.Usage)
	case tree.ErrDepthExceeded:
		return "That command is nested too deeply to run"
	default:
		return e.Error()
	}
}
