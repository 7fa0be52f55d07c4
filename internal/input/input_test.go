package input

import (
	"io"
	"strings"
	"testing"

	"github.com/chzyer/readline"
	"github.com/dekarrin/cmdtree/tree"
	"github.com/stretchr/testify/assert"
)

func Test_DirectCommandReader_ReadCommand(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		allowBlanks bool
		expect      []string
	}{
		{
			name:   "lines are trimmed",
			input:  "  tp alex  \nfly\n",
			expect: []string{"tp alex", "fly"},
		},
		{
			name:   "blank lines skipped",
			input:  "\n\n  \nhelp\n",
			expect: []string{"help"},
		},
		{
			name:        "blank lines returned when allowed",
			input:       "\nhelp\n",
			allowBlanks: true,
			expect:      []string{"", "help"},
		},
		{
			name:   "last line without newline",
			input:  "time query",
			expect: []string{"time query"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			r := NewDirectReader(strings.NewReader(tc.input))
			r.AllowBlank(tc.allowBlanks)
			defer r.Close()

			var actual []string
			for {
				line, err := r.ReadCommand()
				if err == io.EOF {
					break
				}
				if !assert.NoError(err) {
					return
				}
				actual = append(actual, line)
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Completer(t *testing.T) {
	assert := assert.New(t)
	cmds := tree.New[int]()
	cmds.Command("time", func(s *tree.Scope[int]) {
		s.LiteralWith("set", func(s *tree.Scope[int]) {
			s.Argument("value", tree.Integer())
		})
		s.Literal("query")
	})
	cmds.Command("tp", func(s *tree.Scope[int]) {
		s.ArgumentWith("target", tree.String(), func(s *tree.Scope[int]) {
			s.Literal("here")
		})
	})

	pc := Completer(tree.Serialize(cmds))

	top := completerNames(pc.GetChildren())
	assert.Equal([]string{"time", "tp"}, top)

	time := pc.GetChildren()[0]
	assert.Equal([]string{"set", "query"}, completerNames(time.GetChildren()))
	assert.Empty(time.GetChildren()[0].GetChildren())

	assert.Empty(pc.GetChildren()[1].GetChildren())
}

func Test_Completer_emptyPacket(t *testing.T) {
	assert := assert.New(t)

	pc := Completer(tree.Packet{})

	assert.Empty(pc.GetChildren())
}

func completerNames(items []readline.PrefixCompleterInterface) []string {
	var names []string
	for _, it := range items {
		names = append(names, strings.TrimSpace(string(it.GetName())))
	}
	return names
}
