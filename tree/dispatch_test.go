package tree

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type call struct {
	handler string
	caller  string
	args    string
}

type callLog struct {
	calls []call
}

func (cl *callLog) record(name string) Handler[string] {
	return func(caller string, args *Args) error {
		cl.calls = append(cl.calls, call{handler: name, caller: caller, args: args.String()})
		return nil
	}
}

// gamemodeTree builds:
//
//	gamemode <mode: string>* <player: string>*
//	tp <target: string>* <destination: string>*
//	time set <value: integer(0..)>*
func gamemodeTree(cl *callLog) *Tree[string] {
	t := New[string]()
	t.Command("gamemode", func(s *Scope[string]) {
		s.ArgumentWith("mode", String(), func(s *Scope[string]) {
			s.Handler(cl.record("gamemode"))
			s.ArgumentWith("player", String(), func(s *Scope[string]) {
				s.Handler(cl.record("gamemode-player"))
			})
		})
	})
	t.Command("tp", func(s *Scope[string]) {
		s.ArgumentWith("target", String(), func(s *Scope[string]) {
			s.Handler(cl.record("tp"))
			s.ArgumentWith("destination", String(), func(s *Scope[string]) {
				s.Handler(cl.record("tp-dest"))
			})
		})
	})
	t.Command("time", func(s *Scope[string]) {
		s.LiteralWith("set", func(s *Scope[string]) {
			s.ArgumentWith("value", IntegerFrom(0), func(s *Scope[string]) {
				s.Handler(cl.record("time-set"))
			})
		})
	})
	return t
}

func Test_Dispatch(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    []call
		expectErr error
		expectAt  string
		expectTok string
	}{
		{
			name:   "single string argument",
			input:  "gamemode creative",
			expect: []call{{handler: "gamemode", caller: "steve", args: "{mode: creative}"}},
		},
		{
			name:   "shallow and deep handler - deep",
			input:  "gamemode creative Bob",
			expect: []call{{handler: "gamemode-player", caller: "steve", args: "{mode: creative, player: Bob}"}},
		},
		{
			name:   "two arguments",
			input:  "tp target destination",
			expect: []call{{handler: "tp-dest", caller: "steve", args: "{target: target, destination: destination}"}},
		},
		{
			name:   "literal then integer",
			input:  "time set 6000",
			expect: []call{{handler: "time-set", caller: "steve", args: "{value: 6000}"}},
		},
		{
			name:   "literal matched case-insensitively",
			input:  "TiMe SET 6000",
			expect: []call{{handler: "time-set", caller: "steve", args: "{value: 6000}"}},
		},
		{
			name:   "extra whitespace ignored",
			input:  "  time\tset   6000 \n",
			expect: []call{{handler: "time-set", caller: "steve", args: "{value: 6000}"}},
		},
		{
			name:      "integer parse failure",
			input:     "time set abc",
			expectErr: ErrNoMatchingChild,
			expectAt:  "time set",
			expectTok: "abc",
		},
		{
			name:      "unknown top-level command",
			input:     "foo",
			expectErr: ErrNoMatchingChild,
			expectAt:  "",
			expectTok: "foo",
		},
		{
			name:      "stops on intermediate node without handler",
			input:     "time set",
			expectErr: ErrNoHandlerAtPath,
			expectAt:  "time set",
		},
		{
			name:      "empty input ends at root",
			input:     "",
			expectErr: ErrNoHandlerAtPath,
			expectAt:  "",
		},
		{
			name:      "too many tokens",
			input:     "gamemode creative Bob extra",
			expectErr: ErrNoMatchingChild,
			expectAt:  "gamemode <mode> <player>",
			expectTok: "extra",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			cl := &callLog{}
			cmds := gamemodeTree(cl)

			err := Dispatch(cmds, "steve", tc.input)

			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				var dErr *DispatchError
				if assert.True(errors.As(err, &dErr)) {
					assert.Equal(tc.expectAt, dErr.Usage)
					assert.Equal(tc.expectTok, dErr.Token)
				}
				assert.Empty(cl.calls)
				return
			}

			assert.NoError(err)
			assert.Equal(tc.expect, cl.calls)
		})
	}
}

func Test_Dispatch_literalBeatsArgument(t *testing.T) {
	assert := assert.New(t)

	var got string
	cmds := New[struct{}]()
	cmds.Command("tp", func(s *Scope[struct{}]) {
		s.ArgumentWith("target", String(), func(s *Scope[struct{}]) {
			s.Handler(func(_ struct{}, args *Args) error {
				got, _ = Get[string](args, "target")
				return nil
			})
		})
		s.LiteralWith("home", func(s *Scope[struct{}]) {
			s.Handler(func(_ struct{}, args *Args) error {
				got = "literal home"
				return nil
			})
		})
	})

	assert.NoError(Dispatch(cmds, struct{}{}, "tp HOME"))
	assert.Equal("literal home", got)

	assert.NoError(Dispatch(cmds, struct{}{}, "tp alex"))
	assert.Equal("alex", got)
}

func Test_Dispatch_argumentFallsThroughToNextSibling(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "int", input: "set 12", expect: "int:12"},
		{name: "bool", input: "set true", expect: "bool:true"},
		{name: "double", input: "set 1.5", expect: "double:1.5"},
		{name: "string", input: "set twelve", expect: "string:twelve"},
		{name: "unsupported never matches", input: "set 0x1F", expect: "string:0x1F"},
	}

	var got string
	cmds := New[int]()
	cmds.Command("set", func(s *Scope[int]) {
		s.ArgumentWith("u", Unsupported("minecraft:block_pos"), func(s *Scope[int]) {
			s.Handler(func(_ int, args *Args) error {
				got = "unsupported"
				return nil
			})
		})
		s.ArgumentWith("i", Integer(), func(s *Scope[int]) {
			s.Handler(func(_ int, args *Args) error {
				v, err := Get[int32](args, "i")
				got = fmt.Sprintf("int:%d", v)
				return err
			})
		})
		s.ArgumentWith("b", Bool(), func(s *Scope[int]) {
			s.Handler(func(_ int, args *Args) error {
				v, err := Get[bool](args, "b")
				got = fmt.Sprintf("bool:%t", v)
				return err
			})
		})
		s.ArgumentWith("d", Double(), func(s *Scope[int]) {
			s.Handler(func(_ int, args *Args) error {
				v, err := Get[float64](args, "d")
				got = fmt.Sprintf("double:%g", v)
				return err
			})
		})
		s.ArgumentWith("s", String(), func(s *Scope[int]) {
			s.Handler(func(_ int, args *Args) error {
				v, err := Get[string](args, "s")
				got = "string:" + v
				return err
			})
		})
	})

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			got = ""

			err := Dispatch(cmds, 0, tc.input)

			assert.NoError(err)
			assert.Equal(tc.expect, got)
		})
	}
}

func Test_Dispatch_noBacktracking(t *testing.T) {
	assert := assert.New(t)

	// "a b" goes into the literal "a" and can't come back out to try <x>.
	called := false
	cmds := New[int]()
	cmds.RootScope().
		Literal("a").
		ArgumentWith("x", String(), func(s *Scope[int]) {
			s.LiteralWith("b", func(s *Scope[int]) {
				s.Handler(func(int, *Args) error {
					called = true
					return nil
				})
			})
		})

	err := Dispatch(cmds, 0, "a b")

	assert.ErrorIs(err, ErrNoMatchingChild)
	assert.False(called)

	assert.NoError(Dispatch(cmds, 0, "z b"))
	assert.True(called)
}

func Test_Dispatch_handlerErrorReturned(t *testing.T) {
	assert := assert.New(t)
	boom := errors.New("boom")

	cmds := New[int]()
	cmds.Begin("fail").Handler(func(int, *Args) error { return boom })

	err := Dispatch(cmds, 0, "fail")

	assert.Equal(boom, err)
}

func Test_Dispatch_rootHandler(t *testing.T) {
	assert := assert.New(t)

	called := 0
	cmds := New[int]()
	cmds.RootScope().Handler(func(int, *Args) error {
		called++
		return nil
	})

	assert.NoError(Dispatch(cmds, 0, ""))
	assert.NoError(Dispatch(cmds, 0, " \t "))
	assert.Equal(2, called)
}

func Test_Dispatch_depthExceeded(t *testing.T) {
	assert := assert.New(t)

	cmds := New[int]()
	cur := cmds.Root()
	input := ""
	for i := 0; i <= MaxDepth; i++ {
		var err error
		cur, err = cmds.AddLiteral(cur, fmt.Sprintf("c%d", i))
		if !assert.NoError(err) {
			return
		}
		input += fmt.Sprintf("c%d ", i)
		cmds.SetHandler(cur, func(int, *Args) error { return nil })
	}

	// one short of the full chain is exactly MaxDepth deep
	shortInput := input[:len(input)-len(fmt.Sprintf("c%d ", MaxDepth))]
	assert.NoError(Dispatch(cmds, 0, shortInput))

	err := Dispatch(cmds, 0, input)
	assert.ErrorIs(err, ErrDepthExceeded)
}

func Test_Dispatch_depthExceeded_argumentChain(t *testing.T) {
	assert := assert.New(t)

	cmds := New[int]()
	cur := cmds.Root()
	var tokens []string
	for i := 0; i <= MaxDepth; i++ {
		var err error
		cur, err = cmds.AddArgument(cur, fmt.Sprintf("a%d", i), String())
		if !assert.NoError(err) {
			return
		}
		tokens = append(tokens, "x")
		cmds.SetHandler(cur, func(int, *Args) error { return nil })
	}

	var bound int
	cmds.SetHandler(cur, func(_ int, args *Args) error {
		bound = args.Len()
		return nil
	})

	assert.NoError(Dispatch(cmds, 0, strings.Join(tokens[:MaxDepth], " ")))

	err := Dispatch(cmds, 0, strings.Join(tokens, " "))
	assert.ErrorIs(err, ErrDepthExceeded)
	assert.NotErrorIs(err, ErrTooManyArguments)

	var dErr *DispatchError
	if assert.ErrorAs(err, &dErr) {
		assert.Equal(MaxDepth+1, dErr.Depth)
	}
	assert.Equal(0, bound)
}

func Test_Dispatch_idempotent(t *testing.T) {
	assert := assert.New(t)
	cl := &callLog{}
	cmds := gamemodeTree(cl)
	before := Serialize(cmds)

	err1 := Dispatch(cmds, "steve", "gamemode creative Bob")
	err2 := Dispatch(cmds, "steve", "gamemode creative Bob")

	assert.NoError(err1)
	assert.NoError(err2)
	assert.Len(cl.calls, 2)
	assert.Equal(cl.calls[0], cl.calls[1])
	assert.Equal(before, Serialize(cmds))

	err1 = Dispatch(cmds, "steve", "gamemode")
	err2 = Dispatch(cmds, "steve", "gamemode")
	assert.Equal(err1, err2)
}

func Test_DispatchWith_reusesArgs(t *testing.T) {
	assert := assert.New(t)
	cl := &callLog{}
	cmds := gamemodeTree(cl)
	args := &Args{}

	assert.NoError(DispatchWith(cmds, "steve", "gamemode creative Bob", args))
	assert.Equal(2, args.Len())

	assert.NoError(DispatchWith(cmds, "steve", "time set 20", args))
	assert.Equal([]string{"value"}, args.Names())
}

func Test_Match(t *testing.T) {
	assert := assert.New(t)
	cmds := gamemodeTree(&callLog{})
	args := &Args{}

	id, err := Match(cmds, "time set 10", args)

	assert.NoError(err)
	assert.Equal("time set <value>", cmds.Usage(id))
	v, err := Get[int32](args, "VALUE")
	assert.NoError(err)
	assert.Equal(int32(10), v)
}

func Test_Tokenize(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []string
	}{
		{name: "empty", input: "", expect: []string{}},
		{name: "only spaces", input: "  \t\r\n", expect: []string{}},
		{name: "single", input: "help", expect: []string{"help"}},
		{name: "mixed whitespace", input: "a\tb\nc\fd\re  f", expect: []string{"a", "b", "c", "d", "e", "f"}},
		{name: "non-ascii space is not a separator", input: "a\u00a0b c", expect: []string{"a\u00a0b", "c"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := Tokenize(tc.input)

			if len(tc.expect) == 0 {
				assert.Empty(actual)
			} else {
				assert.Equal(tc.expect, actual)
			}
		})
	}
}
