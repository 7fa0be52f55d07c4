// Package input contains identifiers used in getting command input from CLI or
// other sources of input.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// DefaultPrompt is shown before each command read by an
// InteractiveCommandReader.
const DefaultPrompt = "> "

// lineReader is what both readers pull raw lines from. At end of input it
// gives io.EOF, possibly along with a final unterminated line.
type lineReader func() (string, error)

// nextCommand reads lines from next until one has non-space text in it, and
// gives it trimmed. If blanks is set, an all-space line is given back as "".
func nextCommand(next lineReader, blanks bool) (string, error) {
	for {
		line, err := next()
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)
		if line != "" || blanks {
			return line, nil
		}
	}
}

// DirectCommandReader implements command.Reader over any io.Reader. It does
// not handle terminal editing sequences, so it suits piped input and tests.
// Create one with [NewDirectReader].
type DirectCommandReader struct {
	r             *bufio.Reader
	blanksAllowed bool
}

// NewDirectReader creates a DirectCommandReader that buffers r.
func NewDirectReader(r io.Reader) *DirectCommandReader {
	return &DirectCommandReader{
		r: bufio.NewReader(r),
	}
}

// ReadCommand blocks until a line with non-space text is read and gives it
// with surrounding space removed. At end of input it gives "" and io.EOF.
func (dcr *DirectCommandReader) ReadCommand() (string, error) {
	return nextCommand(func() (string, error) {
		return dcr.r.ReadString('\n')
	}, dcr.blanksAllowed)
}

// AllowBlank sets whether ReadCommand gives back blank lines. By default it
// skips them.
func (dcr *DirectCommandReader) AllowBlank(allow bool) {
	dcr.blanksAllowed = allow
}

// Close does nothing. It is here so that callers can treat both readers the
// same.
func (dcr *DirectCommandReader) Close() error {
	return nil
}

// InteractiveCommandReader implements command.Reader on a terminal using
// readline, giving line editing, history, and tab completion of command
// names. Create one with [NewInteractiveReader] and Close it when done.
type InteractiveCommandReader struct {
	rl            *readline.Instance
	blanksAllowed bool
}

// NewInteractiveReader starts readline on the terminal. If completer is
// non-nil it is used for tab completion. If historyFile is not empty, command
// history is saved to and loaded from it.
func NewInteractiveReader(completer readline.AutoCompleter, historyFile string) (*InteractiveCommandReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            DefaultPrompt,
		AutoComplete:      completer,
		HistoryFile:       historyFile,
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveCommandReader{rl: rl}, nil
}

// ReadCommand blocks until a line with non-space text is entered and gives it
// with surrounding space removed. At end of input it gives "" and io.EOF.
func (icr *InteractiveCommandReader) ReadCommand() (string, error) {
	return nextCommand(icr.rl.Readline, icr.blanksAllowed)
}

// AllowBlank sets whether ReadCommand gives back blank lines. By default it
// skips them.
func (icr *InteractiveCommandReader) AllowBlank(allow bool) {
	icr.blanksAllowed = allow
}

// SetPrompt changes the prompt shown before each read.
func (icr *InteractiveCommandReader) SetPrompt(p string) {
	icr.rl.SetPrompt(p)
}

// Close tears down readline and restores the terminal.
func (icr *InteractiveCommandReader) Close() error {
	return icr.rl.Close()
}
