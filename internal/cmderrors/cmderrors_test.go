package cmderrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dekarrin/cmdtree/tree"
	"github.com/stretchr/testify/assert"
)

func Test_GameMessage(t *testing.T) {
	cmds := tree.New[int]()
	cmds.Command("time", func(s *tree.Scope[int]) {
		s.LiteralWith("set", func(s *tree.Scope[int]) {
			s.ArgumentWith("value", tree.IntegerFrom(0), func(s *tree.Scope[int]) {
				s.Handler(func(_ int, args *tree.Args) error {
					_, err := tree.Get[string](args, "value")
					return err
				})
			})
		})
	})

	testCases := []struct {
		name   string
		err    error
		expect string
	}{
		{
			name:   "interpreter error",
			err:    Interpreterf("You can't go %s", "north"),
			expect: "You can't go north",
		},
		{
			name:   "wrapped interpreter error",
			err:    fmt.Errorf("handler: %w", Interpreter("Nope", "technical")),
			expect: "Nope",
		},
		{
			name:   "permission",
			err:    Permission("moderator"),
			expect: "You don't have permission to do that",
		},
		{
			name:   "unknown command",
			err:    tree.Dispatch(cmds, 0, "fly"),
			expect: `I don't know what you mean by "fly"`,
		},
		{
			name:   "bad token after path",
			err:    tree.Dispatch(cmds, 0, "time set noon"),
			expect: `I don't know what "noon" means after "time set"`,
		},
		{
			name:   "incomplete",
			err:    tree.Dispatch(cmds, 0, "time"),
			expect: `"time" needs more to go with it`,
		},
		{
			name:   "empty",
			err:    tree.Dispatch(cmds, 0, "   "),
			expect: "Enter a command",
		},
		{
			name:   "lookup error from handler",
			err:    tree.Dispatch(cmds, 0, "time set 5"),
			expect: "Something went wrong running that command",
		},
		{
			name:   "plain error",
			err:    errors.New("disk on fire"),
			expect: "disk on fire",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.expect, GameMessage(tc.err))
		})
	}
}

func Test_Permission_is(t *testing.T) {
	assert := assert.New(t)

	err := Permission("moderator")

	assert.ErrorIs(err, ErrPermission)
	assert.Equal(`caller is not in group "moderator"`, err.Error())
}
