// Package cdf has functions for loading command trees using the CDF (Command
// Definition File) format, a TOML-based format that declares commands, the
// handlers they run, the permission groups allowed to run them, and aliases for
// typing them.
package cdf

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/cmdtree/internal/command"
	"github.com/dekarrin/cmdtree/tree"
)

//go:embed default.toml
var defaultDefinition []byte

var (
	// ErrUnknownHandler is returned by Build when a node names a handler that
	// was not provided.
	ErrUnknownHandler = errors.New("no handler with that name")
)

// Definition is a parsed and checked CDF file.
type Definition struct {
	Aliases  []Alias
	Commands []Node
}

// Alias is a shorthand for the leading words of a command.
type Alias struct {
	Alias     string
	Expansion string
}

// Node is a literal or argument declared in a CDF file, along with everything
// below it.
type Node struct {
	// Literal is whether the node is matched by its name. If false, it is an
	// argument converted by Parser.
	Literal bool
	Name    string
	Parser  tree.Parser

	// Handler is the name of the handler run when input ends on this node. It
	// is empty for nodes that cannot be run.
	Handler string

	// Permission is the group required to run this node and every node below
	// it. It is empty for nodes anyone can run.
	Permission string

	Children []Node
}

// Guard wraps h so that it is only run for callers in the given permission
// group.
type Guard[C any] func(group string, h tree.Handler[C]) tree.Handler[C]

// Load reads the CDF file at the given path.
func Load(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("%q: reading from disk: %w", path, err)
	}

	def, err := Parse(data)
	if err != nil {
		return def, fmt.Errorf("%q: %w", path, err)
	}
	return def, nil
}

// Default returns the built-in definition of the demo commands.
func Default() Definition {
	def, err := Parse(defaultDefinition)
	if err != nil {
		panic(fmt.Sprintf("built-in command definition is invalid: %v", err))
	}
	return def
}

// Parse parses CDF data. Keys that are not part of the format are an error.
func Parse(data []byte) (Definition, error) {
	var top topLevel
	md, err := toml.Decode(string(data), &top)
	if err != nil {
		return Definition{}, err
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Definition{}, fmt.Errorf("unknown key %q", undec[0].String())
	}

	if strings.ToUpper(top.Format) != "CMDTREE" {
		return Definition{}, fmt.Errorf("in header: 'format' key must exist and be set to 'CMDTREE'")
	}
	if strings.ToUpper(top.Type) != "COMMANDS" {
		return Definition{}, fmt.Errorf("in header: 'type' must exist and be set to 'COMMANDS'")
	}

	var def Definition
	for i, a := range top.Aliases {
		if strings.TrimSpace(a.Alias) == "" {
			return Definition{}, fmt.Errorf("alias #%d: 'alias' must be set", i+1)
		}
		if strings.TrimSpace(a.Expansion) == "" {
			return Definition{}, fmt.Errorf("alias %q: 'expansion' must be set", a.Alias)
		}
		def.Aliases = append(def.Aliases, Alias{Alias: a.Alias, Expansion: a.Expansion})
	}

	for i, c := range top.Commands {
		if c.Argument != "" {
			return Definition{}, fmt.Errorf("command #%d: top-level commands must be literals", i+1)
		}
		n, err := c.toNode()
		if err != nil {
			return Definition{}, fmt.Errorf("command #%d: %w", i+1, err)
		}
		def.Commands = append(def.Commands, n)
	}

	return def, nil
}

// AliasTable creates the alias table declared by the definition.
func (def Definition) AliasTable() (*command.Aliases, error) {
	a := command.NewAliases()
	for _, al := range def.Aliases {
		if err := a.Add(al.Alias, al.Expansion); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// HandlerNames returns the names of every handler the definition refers to, in
// the order they are first seen.
func (def Definition) HandlerNames() []string {
	var names []string
	seen := map[string]bool{}

	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			if n.Handler != "" && !seen[n.Handler] {
				seen[n.Handler] = true
				names = append(names, n.Handler)
			}
			walk(n.Children)
		}
	}
	walk(def.Commands)

	return names
}

// Build creates a command tree from the definition. Every handler name the
// definition uses must be in handlers. If guard is not nil, it is used to wrap
// every handler of a node that has a permission group.
func Build[C any](def Definition, handlers map[string]tree.Handler[C], guard Guard[C]) (*tree.Tree[C], error) {
	for _, name := range def.HandlerNames() {
		if _, ok := handlers[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownHandler, name)
		}
	}

	t := tree.New[C]()
	for _, c := range def.Commands {
		c := c
		err := t.Command(c.Name, func(s *tree.Scope[C]) {
			bindNode(s, c, "", handlers, guard)
		})
		if err != nil {
			return nil, fmt.Errorf("command %q: %w", c.Name, err)
		}
	}

	return t, nil
}

// bindNode sets up the handler of the scope's current node from n and adds the
// children of n beneath it.
func bindNode[C any](s *tree.Scope[C], n Node, group string, handlers map[string]tree.Handler[C], guard Guard[C]) {
	if n.Permission != "" {
		group = n.Permission
	}

	if n.Handler != "" {
		h := handlers[n.Handler]
		if group != "" && guard != nil {
			h = guard(group, h)
		}
		s.Handler(h)
	}

	for _, child := range n.Children {
		child := child
		f := func(s *tree.Scope[C]) {
			bindNode(s, child, group, handlers, guard)
		}
		if child.Literal {
			s.LiteralWith(child.Name, f)
		} else {
			s.ArgumentWith(child.Name, child.Parser, f)
		}
	}
}
