package world

import (
	"github.com/dekarrin/cmdtree/internal/cdf"
	"github.com/dekarrin/cmdtree/tree"
)

// Commands builds the command tree declared by def, bound to this package's
// handlers. Permission groups in def are enforced with RequireGroup.
func Commands(def cdf.Definition) (*tree.Tree[*Caller], error) {
	return cdf.Build(def, Handlers(), RequireGroup)
}

// Run dispatches a line of input against cmds on behalf of s and returns the
// feedback messages the command produced. Messages said before a handler
// failed are still returned.
//
// Run does not lock s; callers that share a session between goroutines must
// serialize calls themselves.
func Run(cmds *tree.Tree[*Caller], s *Session, line string) ([]string, error) {
	c := &Caller{Session: s, Commands: cmds}
	err := tree.Dispatch(cmds, c, line)
	return c.Messages, err
}
