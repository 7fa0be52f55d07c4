package command

import (
	"bufio"
	"fmt"
)

// Reader is a type that can be used for getting command input.
type Reader interface {
	// ReadCommand reads a single user command. It will block until one is
	// ready. If there is an error or output is at end (EOF), the returned
	// string will be empty, otherwise it will always be non-empty.
	//
	// When error is io.EOF, string will always be empty. If EOF was encountered
	// on a call but some input was received, the input will be returned and
	// error will be nil, and the next call to ReadCommand will return "",
	// io.EOF.
	ReadCommand() (string, error)

	// Close performs any operations required to clean the resources created by
	// the Reader. It should be called at least once when the Reader is no
	// longer needed.
	Close() error
}

// Get obtains a single command line from input by reading from the provided
// Reader. Lines are read until one with non-space characters is found, and
// that line is returned with aliases expanded. If aliases is nil, the line is
// returned as-is.
//
// Note that this function does not check if the command is executable; that
// is up to dispatch.
func Get(cmdStream Reader, ostream *bufio.Writer, aliases *Aliases) (string, error) {
	if _, err := ostream.WriteString("Enter command\n"); err != nil {
		return "", fmt.Errorf("could not write output: %w", err)
	}
	if err := ostream.Flush(); err != nil {
		return "", fmt.Errorf("could not flush output: %w", err)
	}

	for {
		input, err := cmdStream.ReadCommand()
		if err != nil {
			return "", fmt.Errorf("could not get input: %w", err)
		}

		if aliases != nil {
			input = aliases.Expand(input)
		}

		if input != "" {
			return input, nil
		}
	}
}
