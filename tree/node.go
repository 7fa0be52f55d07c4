// Package tree contains a declarative command-tree engine. Commands are
// registered as a hierarchy of literal keywords and typed arguments, a line of
// input is matched against that hierarchy to bind argument values and invoke a
// handler, and the same hierarchy can be serialized into an index-based
// description for a client that wants to show the command grammar.
//
// A Tree is built once during a single-threaded setup phase, either by calling
// AddLiteral/AddArgument directly or with the Scope builder returned by Begin.
// After setup the tree must not be modified; any number of goroutines may then
// call Dispatch or Serialize on it at the same time. The engine takes no locks
// of its own to make this safe; it relies on the tree being read-only.
package tree

import (
	"errors"
	"fmt"
)

const (
	// MaxChildren is the maximum number of children a single node may have.
	MaxChildren = 64

	// MaxArguments is the maximum number of argument bindings a single
	// dispatch can hold.
	MaxArguments = 64

	// MaxDepth is the deepest a dispatch or serialization will walk before it
	// assumes the tree is malformed.
	MaxDepth = 64
)

var (
	// ErrTooManyChildren is returned when a node already has MaxChildren
	// children and another is added to it.
	ErrTooManyChildren = errors.New("node already has the maximum number of children")

	// ErrEmptyName is returned when a literal or argument is given a blank
	// name.
	ErrEmptyName = errors.New("name must not be empty")

	// ErrUnknownNode is returned when a NodeID does not refer to a node in the
	// tree.
	ErrUnknownNode = errors.New("no node with that ID exists in the tree")
)

// NodeID is the index of a node within a Tree. The root of every tree has ID 0.
type NodeID int

// RootID is the NodeID of the root node of every Tree.
const RootID NodeID = 0

// NodeKind is the type of grammar point a Node represents.
type NodeKind int

const (
	KindRoot NodeKind = iota
	KindLiteral
	KindArgument
)

func (k NodeKind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindLiteral:
		return "literal"
	case KindArgument:
		return "argument"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Handler is a function bound to a node that is called when a dispatch ends
// exactly on that node. caller is the invocation context given to Dispatch and
// args holds every argument bound on the way to the node.
//
// args is only valid for the duration of the call. It is reset and reused for
// later dispatches as soon as the Handler returns, so a Handler must copy out
// any values it wants to keep rather than holding on to args itself.
type Handler[C any] func(caller C, args *Args) error

// Node is one point in the command grammar.
type Node struct {
	// Kind is what sort of grammar point this is.
	Kind NodeKind

	// Name is the keyword for a literal or the binding name for an argument.
	// It is empty for the root.
	Name string

	// Parser is how tokens are converted for an argument. It is the zero value
	// for roots and literals.
	Parser Parser
}

// String gives the node the way it is shown in printed trees.
func (n Node) String() string {
	switch n.Kind {
	case KindRoot:
		return "ROOT"
	case KindArgument:
		return fmt.Sprintf("<%s: %s>", n.Name, n.Parser)
	default:
		return n.Name
	}
}

type entry[C any] struct {
	node     Node
	parent   NodeID
	children []NodeID
	handler  Handler[C]
}

// Tree is a table of command nodes addressed by NodeID. Each node other than
// the root has exactly one parent and may have up to MaxChildren children,
// which are kept in the order they were added.
//
// The zero value is not ready for use; call New to get a Tree.
type Tree[C any] struct {
	nodes []entry[C]
}

// New creates a Tree that contains only a root node.
func New[C any]() *Tree[C] {
	return &Tree[C]{
		nodes: []entry[C]{{node: Node{Kind: KindRoot}, parent: -1}},
	}
}

// Root returns the ID of the tree's root node.
func (t *Tree[C]) Root() NodeID {
	return RootID
}

// Len returns the number of nodes in the tree, including the root.
func (t *Tree[C]) Len() int {
	return len(t.nodes)
}

// Has returns whether id refers to a node in the tree.
func (t *Tree[C]) Has(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Node returns the node with the given ID. It panics if id is not in the tree.
func (t *Tree[C]) Node(id NodeID) Node {
	return t.nodes[id].node
}

// Children returns the IDs of the children of the given node in insertion
// order. The returned slice must not be modified.
func (t *Tree[C]) Children(id NodeID) []NodeID {
	return t.nodes[id].children
}

// Parent returns the parent of the given node. The bool is false for the root.
func (t *Tree[C]) Parent(id NodeID) (NodeID, bool) {
	p := t.nodes[id].parent
	if p < 0 {
		return 0, false
	}
	return p, true
}

// Handler returns the handler bound to the node, or nil if it has none.
func (t *Tree[C]) Handler(id NodeID) Handler[C] {
	return t.nodes[id].handler
}

// Executable returns whether the node has a handler bound to it.
func (t *Tree[C]) Executable(id NodeID) bool {
	return t.nodes[id].handler != nil
}

// AddLiteral adds a new literal keyword as the last child of parent and
// returns its ID.
func (t *Tree[C]) AddLiteral(parent NodeID, name string) (NodeID, error) {
	return t.add(parent, Node{Kind: KindLiteral, Name: name})
}

// AddArgument adds a new typed argument as the last child of parent and
// returns its ID. Tokens matched against it are converted with p and bound
// under name.
func (t *Tree[C]) AddArgument(parent NodeID, name string, p Parser) (NodeID, error) {
	return t.add(parent, Node{Kind: KindArgument, Name: name, Parser: p})
}

// SetHandler binds h to the node with the given ID. A node holds at most one
// handler; binding a second one replaces the first. Passing a nil h removes the
// handler.
func (t *Tree[C]) SetHandler(id NodeID, h Handler[C]) error {
	if !t.Has(id) {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	t.nodes[id].handler = h
	return nil
}

func (t *Tree[C]) add(parent NodeID, n Node) (NodeID, error) {
	if !t.Has(parent) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownNode, parent)
	}
	if n.Name == "" {
		return 0, fmt.Errorf("%s under %s: %w", n.Kind, t.nodes[parent].node, ErrEmptyName)
	}
	if len(t.nodes[parent].children) >= MaxChildren {
		return 0, fmt.Errorf("add %q under %s: %w", n.Name, t.nodes[parent].node, ErrTooManyChildren)
	}

	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, entry[C]{node: n, parent: parent})
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id, nil
}

// Path returns the IDs from the root down to and including id.
func (t *Tree[C]) Path(id NodeID) []NodeID {
	var path []NodeID
	for cur := id; cur >= 0 && len(path) <= MaxDepth; cur = t.nodes[cur].parent {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Usage gives the command path that leads to id as it would be typed, with
// arguments in angle brackets. The root gives the empty string.
func (t *Tree[C]) Usage(id NodeID) string {
	var s string
	for _, p := range t.Path(id) {
		n := t.nodes[p].node
		switch n.Kind {
		case KindLiteral:
			s += " " + n.Name
		case KindArgument:
			s += " <" + n.Name + ">"
		}
	}
	if len(s) > 0 {
		s = s[1:]
	}
	return s
}
