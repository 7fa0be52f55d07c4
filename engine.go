// Package cmdtree contains a CLI-driven engine for reading commands and
// dispatching them against a command tree continuously until the user quits.
package cmdtree

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dekarrin/cmdtree/internal/cdf"
	"github.com/dekarrin/cmdtree/internal/cmderrors"
	"github.com/dekarrin/cmdtree/internal/command"
	"github.com/dekarrin/cmdtree/internal/input"
	"github.com/dekarrin/cmdtree/internal/world"
	"github.com/dekarrin/cmdtree/tree"
	"github.com/dekarrin/rosed"
)

// Engine contains the things needed to run commands from an interactive shell
// attached to an input stream and an output stream.
type Engine struct {
	cmds        *tree.Tree[*world.Caller]
	aliases     *command.Aliases
	session     *world.Session
	in          command.Reader
	out         *bufio.Writer
	forceDirect bool
	running     bool
}

const consoleOutputWidth = 80

// New creates a new engine ready to operate on the given input and output
// streams. It will immediately open a buffered reader on the input stream and a
// buffered writer on the output stream.
//
// If nil is given for the input stream, a bufio.Reader is opened on stdin. If
// nil is given for the output stream, a bufio.Writer is opened on stdout.
//
// Commands are loaded from the CDF file at cdfPath, or the built-in commands
// are used if it is empty. Commands run against session.
func New(inputStream io.Reader, outputStream io.Writer, cdfPath string, session *world.Session, forceDirectInput bool) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	def := cdf.Default()
	if cdfPath != "" {
		var err error
		def, err = cdf.Load(cdfPath)
		if err != nil {
			return nil, err
		}
	}

	cmds, err := world.Commands(def)
	if err != nil {
		return nil, fmt.Errorf("building command tree: %w", err)
	}
	aliases, err := def.AliasTable()
	if err != nil {
		return nil, fmt.Errorf("building alias table: %w", err)
	}

	eng := &Engine{
		cmds:        cmds,
		aliases:     aliases,
		session:     session,
		out:         bufio.NewWriter(outputStream),
		running:     false,
		forceDirect: forceDirectInput,
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout

	if useReadline {
		eng.in, err = input.NewInteractiveReader(input.Completer(tree.Serialize(cmds)), "")
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}

	err := eng.in.Close()
	if err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}

	return nil
}

// Session returns the session that commands are run against.
func (eng *Engine) Session() *world.Session {
	return eng.session
}

// RunUntilQuit begins reading commands from the streams and dispatching them
// until QUIT or EXIT is entered or input ends.
func (eng *Engine) RunUntilQuit() error {
	introMsg := "Welcome to the cmdtree shell\n"
	if eng.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "============================\n"
	introMsg += "\n"
	introMsg += fmt.Sprintf("You are %s, at %s\n", eng.session.Player, eng.session.Location)

	if err := eng.write(introMsg); err != nil {
		return err
	}

	eng.running = true
	// so we dont have to remember to do this on every returned error condition
	defer func() {
		eng.running = false
	}()

	for eng.running {
		line, err := command.Get(eng.in, eng.out, eng.aliases)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}

		// the tree never sees QUIT; only a runner can do that
		if isQuit(line) {
			eng.running = false
			break
		}

		msgs, err := world.Run(eng.cmds, eng.session, line)
		for _, m := range msgs {
			if err := eng.write(m + "\n"); err != nil {
				return err
			}
		}
		if err != nil {
			consoleMessage := cmderrors.GameMessage(err)
			consoleMessage = rosed.Edit(consoleMessage).Wrap(consoleOutputWidth).String()
			if err := eng.write(consoleMessage + "\n"); err != nil {
				return err
			}
		}
	}

	return eng.write("Goodbye\n")
}

func (eng *Engine) write(s string) error {
	if _, err := eng.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}

func isQuit(line string) bool {
	tokens := tree.Tokenize(line)
	if len(tokens) != 1 {
		return false
	}
	return strings.EqualFold(tokens[0], "quit") || strings.EqualFold(tokens[0], "exit")
}
