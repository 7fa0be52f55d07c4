/*
Cmdi starts an interactive cmdtree shell.

It builds a command tree from a command definition file (or the built-in one)
and starts a player session in the demo world. It then reads commands from
stdin, dispatches them against the tree, and prints their feedback to stdout
until input ends or the "QUIT" command is input.

Usage:

	cmdi [flags]

The flags are:

	-v, --version
		Give the current version of cmdtree and then exit.

	-c, --commands FILE
		Use the provided CDF file for the command tree. If not given, will
		default to the value of environment variable CMDTREE_COMMANDS, and if
		that is not given, the built-in commands are used.

	-p, --player NAME
		Play as the given player name. Defaults to "steve".

	-g, --group GROUP
		Start the session in the given permission group. Defaults to "normal".
		Give "moderator" to be able to run every command.

	-d, --direct
		Force reading directly from the console as opposed to using GNU readline
		based routines for reading command input even if launched in a tty with
		stdin and stdout.

Once a session has started, type "HELP" to list the commands and "TREE" to see
the whole command tree. To exit the shell, type "QUIT".
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dekarrin/cmdtree"
	"github.com/dekarrin/cmdtree/internal/version"
	"github.com/dekarrin/cmdtree/internal/world"
	"github.com/spf13/pflag"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitShellError indicates an unsuccessful program execution due to a
	// problem while the shell was running.
	ExitShellError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// initializing the engine.
	ExitInitError
)

const EnvCommands = "CMDTREE_COMMANDS"

var (
	returnCode   int = ExitSuccess
	flagVersion      = pflag.BoolP("version", "v", false, "Give the current version of cmdtree and then exit.")
	flagCommands     = pflag.StringP("commands", "c", "", "Use the given CDF file for the command tree.")
	flagPlayer       = pflag.StringP("player", "p", "steve", "Play as the given player name.")
	flagGroup        = pflag.StringP("group", "g", world.GroupNormal, "Start the session in the given permission group.")
	flagDirect       = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic(panicErr)
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		returnCode = ExitInitError
		return
	}

	if len(strings.Fields(*flagPlayer)) != 1 {
		fmt.Fprintf(os.Stderr, "ERROR: player name must be a single word\n")
		returnCode = ExitInitError
		return
	}

	cdfPath := os.Getenv(EnvCommands)
	if pflag.Lookup("commands").Changed {
		cdfPath = *flagCommands
	}

	sess := world.NewSession(*flagPlayer, strings.ToLower(*flagGroup))

	eng, initErr := cmdtree.New(os.Stdin, os.Stdout, cdfPath, sess, *flagDirect)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer eng.Close()

	err := eng.RunUntilQuit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitShellError
		return
	}
}
