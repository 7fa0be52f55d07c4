package cmdtree

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dekarrin/cmdtree/internal/world"
	"github.com/stretchr/testify/assert"
)

func Test_Engine_RunUntilQuit(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		group       string
		expect      []string
		expectNot   []string
		checkResult func(assert *assert.Assertions, s *world.Session)
	}{
		{
			name:   "runs commands then quits",
			input:  "gamemode creative\ntime set 6000\nquit\ntime set 1\n",
			expect: []string{"Set own game mode to Creative Mode\n", "Set the time to 6000\n", "Goodbye\n"},
			checkResult: func(assert *assert.Assertions, s *world.Session) {
				assert.Equal(world.Creative, s.Mode)
				assert.Equal(int64(6000), s.Time)
			},
		},
		{
			name:   "aliases are expanded",
			input:  "gmc\nnight\nEXIT\n",
			expect: []string{"Set own game mode to Creative Mode\n", "Set the time to 13000\n"},
		},
		{
			name:   "errors are shown and input continues",
			input:  "dance\nfly\ntime query\n",
			expect: []string{`I don't know what you mean by "dance"`, "You don't have permission to do that\n", "The time is 0\n", "Goodbye\n"},
		},
		{
			name:   "moderator commands",
			input:  "fly\n",
			group:  world.GroupModerator,
			expect: []string{"Flying enabled\n"},
		},
		{
			name:      "quit only by itself",
			input:     "quit now\n",
			expect:    []string{`I don't know what you mean by "quit"`, "Goodbye\n"},
			expectNot: []string{"Flying"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			var out bytes.Buffer
			sess := world.NewSession("steve", tc.group)

			eng, err := New(strings.NewReader(tc.input), &out, "", sess, true)
			if !assert.NoError(err) {
				return
			}
			defer eng.Close()

			err = eng.RunUntilQuit()

			assert.NoError(err)
			output := out.String()
			assert.Contains(output, "Welcome to the cmdtree shell\n(direct input mode)\n")
			for _, e := range tc.expect {
				assert.Contains(output, e)
			}
			for _, e := range tc.expectNot {
				assert.NotContains(output, e)
			}
			if tc.checkResult != nil {
				tc.checkResult(assert, eng.Session())
			}
		})
	}
}

func Test_New_customDefinition(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "commands.toml")
	cdfData := "format = \"CMDTREE\"\ntype = \"COMMANDS\"\n" +
		"[[alias]]\nalias = \"q\"\nexpansion = \"time query\"\n" +
		"[[command]]\nliteral = \"time\"\n" +
		"[[command.node]]\nliteral = \"query\"\nhandler = \"time-query\"\n"
	if !assert.NoError(os.WriteFile(path, []byte(cdfData), 0644)) {
		return
	}
	var out bytes.Buffer

	eng, err := New(strings.NewReader("q\ngamemode creative\n"), &out, path, world.NewSession("steve", ""), true)
	if !assert.NoError(err) {
		return
	}
	defer eng.Close()

	assert.NoError(eng.RunUntilQuit())
	assert.Contains(out.String(), "The time is 0\n")
	assert.Contains(out.String(), `I don't know what you mean by "gamemode"`)
}

func Test_New_badDefinition(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "commands.toml")
	cdfData := "format = \"CMDTREE\"\ntype = \"COMMANDS\"\n" +
		"[[command]]\nliteral = \"dance\"\nhandler = \"dance\"\n"
	if !assert.NoError(os.WriteFile(path, []byte(cdfData), 0644)) {
		return
	}

	_, err := New(strings.NewReader(""), &bytes.Buffer{}, path, world.NewSession("steve", ""), true)

	assert.Error(err)
}
