package command

import (
	"bufio"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

type lineReader struct {
	lines []string
}

func (lr *lineReader) ReadCommand() (string, error) {
	if len(lr.lines) == 0 {
		return "", io.EOF
	}
	line := lr.lines[0]
	lr.lines = lr.lines[1:]
	return line, nil
}

func (lr *lineReader) Close() error {
	return nil
}

func testAliases() *Aliases {
	a := NewAliases()
	a.Add("gmc", "gamemode creative")
	a.Add("gms", "gamemode survival")
	a.Add("?", "help")
	a.Add("time day", "time set 1000")
	return a
}

func Test_ExpandAliases(t *testing.T) {
	testCases := []struct {
		name   string
		tokens []string
		limit  int
		expect []string
	}{
		{
			name:   "no tokens",
			tokens: []string{},
			limit:  2,
			expect: []string{},
		},
		{
			name:   "single word alias",
			tokens: []string{"GMC"},
			limit:  2,
			expect: []string{"gamemode", "creative"},
		},
		{
			name:   "alias keeps trailing tokens and their case",
			tokens: []string{"gms", "Bob"},
			limit:  2,
			expect: []string{"gamemode", "survival", "Bob"},
		},
		{
			name:   "two word alias",
			tokens: []string{"Time", "DAY"},
			limit:  2,
			expect: []string{"time", "set", "1000"},
		},
		{
			name:   "limit too small for two word alias",
			tokens: []string{"time", "day"},
			limit:  1,
			expect: []string{"time", "day"},
		},
		{
			name:   "zero limit",
			tokens: []string{"?"},
			limit:  0,
			expect: []string{"?"},
		},
		{
			name:   "not an alias",
			tokens: []string{"tp", "alex"},
			limit:  2,
			expect: []string{"tp", "alex"},
		},
		{
			name:   "alias only at start",
			tokens: []string{"say", "gmc"},
			limit:  2,
			expect: []string{"say", "gmc"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			input := append([]string{}, tc.tokens...)

			actual := ExpandAliases(testAliases(), tc.tokens, tc.limit)

			assert.Equal(tc.expect, actual)
			assert.Equal(input, tc.tokens, "input was modified")
		})
	}
}

func Test_Aliases(t *testing.T) {
	assert := assert.New(t)
	a := testAliases()

	assert.Equal(4, a.Len())
	assert.Equal(2, a.MaxWords())
	assert.Equal([]string{"?", "GMC", "GMS", "TIME DAY"}, a.Names())

	exp, ok := a.Lookup("time   Day")
	assert.True(ok)
	assert.Equal("time set 1000", exp)

	assert.Error(a.Add("  ", "help"))
	assert.Error(a.Add("h", " "))
	assert.Equal("help me", a.Expand("  ?  me "))
}

func Test_Get(t *testing.T) {
	testCases := []struct {
		name      string
		lines     []string
		aliases   *Aliases
		expect    string
		expectErr bool
	}{
		{
			name:   "first line",
			lines:  []string{"tp alex"},
			expect: "tp alex",
		},
		{
			name:   "skips blanks",
			lines:  []string{"", "", "fly"},
			expect: "fly",
		},
		{
			name:    "expands aliases",
			lines:   []string{"gmc Bob"},
			aliases: testAliases(),
			expect:  "gamemode creative Bob",
		},
		{
			name:      "eof",
			lines:     []string{""},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			var out bytes.Buffer

			actual, err := Get(&lineReader{lines: tc.lines}, bufio.NewWriter(&out), tc.aliases)

			if tc.expectErr {
				assert.ErrorIs(err, io.EOF)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
			assert.Equal("Enter command\n", out.String())
		})
	}
}
