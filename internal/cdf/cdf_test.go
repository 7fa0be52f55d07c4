package cdf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/cmdtree/tree"
	"github.com/stretchr/testify/assert"
)

const header = "format = \"CMDTREE\"\ntype = \"COMMANDS\"\n"

func Test_Parse(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Definition
		expectErr bool
	}{
		{
			name:   "empty definition",
			input:  header,
			expect: Definition{},
		},
		{
			name:      "wrong format",
			input:     "format = \"TUNA\"\ntype = \"COMMANDS\"\n",
			expectErr: true,
		},
		{
			name:      "wrong type",
			input:     "format = \"CMDTREE\"\ntype = \"DATA\"\n",
			expectErr: true,
		},
		{
			name:      "unknown key",
			input:     header + "[[command]]\nliteral = \"a\"\ncolour = \"blue\"\n",
			expectErr: true,
		},
		{
			name:  "alias",
			input: header + "[[alias]]\nalias = \"gmc\"\nexpansion = \"gamemode creative\"\n",
			expect: Definition{
				Aliases: []Alias{{Alias: "gmc", Expansion: "gamemode creative"}},
			},
		},
		{
			name:      "alias without expansion",
			input:     header + "[[alias]]\nalias = \"gmc\"\n",
			expectErr: true,
		},
		{
			name: "nested nodes",
			input: header + `
[[command]]
literal = "time"
permission = "Moderator"

  [[command.node]]
  literal = "set"

    [[command.node.node]]
    argument = "value"
    parser = "int"
    min = 0
    max = 24000
    handler = "time-set"
`,
			expect: Definition{
				Commands: []Node{{
					Literal:    true,
					Name:       "time",
					Permission: "moderator",
					Children: []Node{{
						Literal: true,
						Name:    "set",
						Children: []Node{{
							Name:    "value",
							Parser:  tree.IntegerRange(0, 24000),
							Handler: "time-set",
						}},
					}},
				}},
			},
		},
		{
			name:  "argument defaults to string",
			input: header + "[[command]]\nliteral = \"say\"\n[[command.node]]\nargument = \"msg\"\nhandler = \"say\"\n",
			expect: Definition{
				Commands: []Node{{
					Literal:  true,
					Name:     "say",
					Children: []Node{{Name: "msg", Parser: tree.String(), Handler: "say"}},
				}},
			},
		},
		{
			name:  "float bound from integer",
			input: header + "[[command]]\nliteral = \"speed\"\n[[command.node]]\nargument = \"amount\"\nparser = \"double\"\nmin = 0\nmax = 2.5\n",
			expect: Definition{
				Commands: []Node{{
					Literal:  true,
					Name:     "speed",
					Children: []Node{{Name: "amount", Parser: tree.DoubleRange(0, 2.5)}},
				}},
			},
		},
		{
			name:  "unsupported with tag",
			input: header + "[[command]]\nliteral = \"tp\"\n[[command.node]]\nargument = \"pos\"\nparser = \"unsupported\"\ntag = \"minecraft:vec3\"\n",
			expect: Definition{
				Commands: []Node{{
					Literal:  true,
					Name:     "tp",
					Children: []Node{{Name: "pos", Parser: tree.Unsupported("minecraft:vec3")}},
				}},
			},
		},
		{
			name:      "unsupported without tag",
			input:     header + "[[command]]\nliteral = \"tp\"\n[[command.node]]\nargument = \"pos\"\nparser = \"unsupported\"\n",
			expectErr: true,
		},
		{
			name:      "top-level argument",
			input:     header + "[[command]]\nargument = \"x\"\n",
			expectErr: true,
		},
		{
			name:      "literal and argument both set",
			input:     header + "[[command]]\nliteral = \"a\"\n[[command.node]]\nliteral = \"b\"\nargument = \"c\"\n",
			expectErr: true,
		},
		{
			name:      "neither literal nor argument",
			input:     header + "[[command]]\nhandler = \"a\"\n",
			expectErr: true,
		},
		{
			name:      "name with space",
			input:     header + "[[command]]\nliteral = \"two words\"\n",
			expectErr: true,
		},
		{
			name:      "literal with parser",
			input:     header + "[[command]]\nliteral = \"a\"\nparser = \"int\"\n",
			expectErr: true,
		},
		{
			name:      "bounds on string",
			input:     header + "[[command]]\nliteral = \"a\"\n[[command.node]]\nargument = \"s\"\nmin = 1\n",
			expectErr: true,
		},
		{
			name:      "float bound on integer",
			input:     header + "[[command]]\nliteral = \"a\"\n[[command.node]]\nargument = \"n\"\nparser = \"integer\"\nmin = 1.5\n",
			expectErr: true,
		},
		{
			name:      "integer bound out of range",
			input:     header + "[[command]]\nliteral = \"a\"\n[[command.node]]\nargument = \"n\"\nparser = \"integer\"\nmax = 3000000000\n",
			expectErr: true,
		},
		{
			name:      "min over max",
			input:     header + "[[command]]\nliteral = \"a\"\n[[command.node]]\nargument = \"n\"\nparser = \"long\"\nmin = 10\nmax = 1\n",
			expectErr: true,
		},
		{
			name:      "unknown parser",
			input:     header + "[[command]]\nliteral = \"a\"\n[[command.node]]\nargument = \"n\"\nparser = \"vec3\"\n",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Parse([]byte(tc.input))

			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Load(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "commands.toml")
	err := os.WriteFile(path, []byte(header+"[[command]]\nliteral = \"ping\"\nhandler = \"ping\"\n"), 0644)
	if !assert.NoError(err) {
		return
	}

	def, err := Load(path)

	assert.NoError(err)
	assert.Equal([]string{"ping"}, def.HandlerNames())

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(err)
}

func Test_Default(t *testing.T) {
	assert := assert.New(t)

	def := Default()

	assert.Equal([]string{
		"help", "tree", "gamemode", "tp", "time-set", "time-add", "time-query",
		"speed", "fly", "xp-add", "xp-set", "class",
	}, def.HandlerNames())

	aliases, err := def.AliasTable()
	assert.NoError(err)
	assert.Equal("gamemode creative Bob", aliases.Expand("GMC Bob"))
}

func Test_Build(t *testing.T) {
	def, err := Parse([]byte(header + `
[[command]]
literal = "time"

  [[command.node]]
  literal = "set"

    [[command.node.node]]
    argument = "value"
    parser = "integer"
    min = 0
    handler = "set"

  [[command.node]]
  literal = "query"
  handler = "query"

[[command]]
literal = "fly"
permission = "moderator"
handler = "fly"
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	type caller struct {
		group string
		ran   []string
	}
	handlers := map[string]tree.Handler[*caller]{
		"set": func(c *caller, args *tree.Args) error {
			v, err := tree.Get[int32](args, "value")
			if err != nil {
				return err
			}
			c.ran = append(c.ran, "set "+tree.Int32Value(v).String())
			return nil
		},
		"query": func(c *caller, _ *tree.Args) error {
			c.ran = append(c.ran, "query")
			return nil
		},
		"fly": func(c *caller, _ *tree.Args) error {
			c.ran = append(c.ran, "fly")
			return nil
		},
	}
	errDenied := errors.New("denied")
	guard := func(group string, h tree.Handler[*caller]) tree.Handler[*caller] {
		return func(c *caller, args *tree.Args) error {
			if c.group != group {
				return errDenied
			}
			return h(c, args)
		}
	}

	t.Run("builds dispatchable tree", func(t *testing.T) {
		assert := assert.New(t)
		cmds, err := Build(def, handlers, guard)
		if !assert.NoError(err) {
			return
		}
		c := &caller{}

		assert.NoError(tree.Dispatch(cmds, c, "time set 6000"))
		assert.NoError(tree.Dispatch(cmds, c, "TIME QUERY"))
		assert.ErrorIs(tree.Dispatch(cmds, c, "time set -1x"), tree.ErrNoMatchingChild)
		assert.Equal([]string{"set 6000", "query"}, c.ran)

		pkt := tree.Serialize(cmds)
		value := pkt.Find("time", "set")
		if assert.NotEqual(-1, value) {
			child := pkt.Nodes[pkt.Nodes[value].Children[0]]
			assert.Equal(tree.IntegerFrom(0), *child.Parser)
		}
	})

	t.Run("permission groups guard handlers", func(t *testing.T) {
		assert := assert.New(t)
		cmds, err := Build(def, handlers, guard)
		if !assert.NoError(err) {
			return
		}

		assert.ErrorIs(tree.Dispatch(cmds, &caller{}, "fly"), errDenied)

		mod := &caller{group: "moderator"}
		assert.NoError(tree.Dispatch(cmds, mod, "fly"))
		assert.Equal([]string{"fly"}, mod.ran)
	})

	t.Run("nil guard ignores permissions", func(t *testing.T) {
		assert := assert.New(t)
		cmds, err := Build(def, handlers, nil)
		if !assert.NoError(err) {
			return
		}

		assert.NoError(tree.Dispatch(cmds, &caller{}, "fly"))
	})

	t.Run("missing handler", func(t *testing.T) {
		assert := assert.New(t)

		_, err := Build(def, map[string]tree.Handler[*caller]{"set": handlers["set"]}, guard)

		assert.ErrorIs(err, ErrUnknownHandler)
	})
}
