package tree

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
)

var (
	// ErrNoMatchingChild is matched by a DispatchError for a token that
	// neither a literal nor an argument under the current node accepts.
	ErrNoMatchingChild = errors.New("no command matches the input")

	// ErrNoHandlerAtPath is matched by a DispatchError for input that ran out
	// on a node that has no handler.
	ErrNoHandlerAtPath = errors.New("command is incomplete")

	// ErrDepthExceeded is matched by a DispatchError for a walk that went
	// deeper than MaxDepth. It means the tree itself is malformed.
	ErrDepthExceeded = errors.New("command tree depth exceeded")
)

// DispatchError is returned by Dispatch when the input does not lead to a
// handler. It carries where in the tree the walk stopped so the caller can
// produce feedback for the person who typed the input.
type DispatchError struct {
	// Kind is one of ErrNoMatchingChild, ErrNoHandlerAtPath, or
	// ErrDepthExceeded.
	Kind error

	// At is the node the walk was on when it stopped.
	At NodeID

	// Usage is the typed form of the path to At, such as "time set <value>".
	Usage string

	// Token is the token that could not be matched. It is only set for
	// ErrNoMatchingChild.
	Token string

	// Depth is how many nodes below the root the walk had descended.
	Depth int
}

func (e *DispatchError) Error() string {
	at := e.Usage
	if at == "" {
		at = "root"
	}
	switch e.Kind {
	case ErrNoMatchingChild:
		return fmt.Sprintf("%s: at %s: %q", e.Kind, at, e.Token)
	case ErrDepthExceeded:
		return fmt.Sprintf("%s: at %s: depth %d", e.Kind, at, e.Depth)
	default:
		return fmt.Sprintf("%s: at %s", e.Kind, at)
	}
}

func (e *DispatchError) Unwrap() error {
	return e.Kind
}

var argsPool = sync.Pool{
	New: func() interface{} { return new(Args) },
}

// Dispatch tokenizes input, walks t from the root to the node the tokens lead
// to, and calls that node's handler with caller and the arguments bound along
// the way. The handler's error is returned as-is. If the tokens do not lead to
// a node with a handler, a *DispatchError is returned and no handler is
// called.
//
// Bindings are held in an Args taken from an internal pool; it is reset and
// returned to the pool as soon as the handler returns.
func Dispatch[C any](t *Tree[C], caller C, input string) error {
	args := argsPool.Get().(*Args)
	defer func() {
		args.Reset()
		argsPool.Put(args)
	}()
	return DispatchWith(t, caller, input, args)
}

// DispatchWith is Dispatch using a caller-provided Args to hold bindings. args
// is reset before the walk starts. It is not reset afterwards, so it still
// holds the bindings of the last walk once DispatchWith returns.
func DispatchWith[C any](t *Tree[C], caller C, input string, args *Args) error {
	args.Reset()

	id, err := t.resolve(Tokenize(input), args)
	if err != nil {
		return err
	}

	h := t.nodes[id].handler
	if h == nil {
		return &DispatchError{Kind: ErrNoHandlerAtPath, At: id, Usage: t.Usage(id), Depth: len(t.Path(id)) - 1}
	}
	return h(caller, args)
}

// Match walks t with input the same way Dispatch does, without calling any
// handler. It returns the node the input leads to and fills args with the
// bindings made on the way. The returned node may not have a handler.
func Match[C any](t *Tree[C], input string, args *Args) (NodeID, error) {
	args.Reset()
	return t.resolve(Tokenize(input), args)
}

func (t *Tree[C]) resolve(tokens []string, args *Args) (NodeID, error) {
	cur := RootID
	depth := 0

	for _, tok := range tokens {
		var v Value
		bind := false
		next, ok := t.matchLiteral(cur, tok)
		if !ok {
			next, v, ok = t.matchArgument(cur, tok)
			bind = ok
		}
		if !ok {
			return cur, &DispatchError{Kind: ErrNoMatchingChild, At: cur, Usage: t.Usage(cur), Token: tok, Depth: depth}
		}

		// checked before binding so a deep argument chain reports its depth
		// rather than a full store
		depth++
		if depth > MaxDepth {
			err := &DispatchError{Kind: ErrDepthExceeded, At: next, Depth: depth}
			log.Printf("WARN  %s; circular reference in command tree?", err)
			return next, err
		}

		if bind {
			if err := args.Push(t.nodes[next].node.Name, v); err != nil {
				return cur, err
			}
		}
		cur = next
	}

	return cur, nil
}

// matchLiteral finds the first literal child of id whose name matches tok.
// Literals always win over arguments at the same level.
func (t *Tree[C]) matchLiteral(id NodeID, tok string) (NodeID, bool) {
	for _, child := range t.nodes[id].children {
		n := t.nodes[child].node
		if n.Kind == KindLiteral && equalFoldASCII(n.Name, tok) {
			return child, true
		}
	}
	return 0, false
}

// matchArgument finds the first argument child of id whose parser accepts tok.
func (t *Tree[C]) matchArgument(id NodeID, tok string) (NodeID, Value, bool) {
	for _, child := range t.nodes[id].children {
		n := t.nodes[child].node
		if n.Kind != KindArgument {
			continue
		}
		if v, ok := n.Parser.Parse(tok); ok {
			return child, v, true
		}
	}
	return 0, Value{}, false
}

// Tokenize splits input on ASCII whitespace. Empty or all-whitespace input
// gives no tokens.
func Tokenize(input string) []string {
	return strings.FieldsFunc(input, isASCIISpace)
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	default:
		return false
	}
}
