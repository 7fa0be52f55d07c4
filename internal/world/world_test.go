package world

import (
	"testing"

	"github.com/dekarrin/cmdtree/internal/cdf"
	"github.com/dekarrin/cmdtree/internal/cmderrors"
	"github.com/dekarrin/cmdtree/tree"
	"github.com/dekarrin/rezi"
	"github.com/stretchr/testify/assert"
)

func Test_Run(t *testing.T) {
	testCases := []struct {
		name       string
		group      string
		setup      func(s *Session)
		input      string
		expectMsgs []string
		expectErr  string
		check      func(assert *assert.Assertions, s *Session)
	}{
		{
			name:       "gamemode",
			input:      "gamemode creative",
			expectMsgs: []string{"Set own game mode to Creative Mode"},
			check: func(assert *assert.Assertions, s *Session) {
				assert.Equal(Creative, s.Mode)
			},
		},
		{
			name:       "gamemode with own name",
			input:      "gamemode SPECTATOR steve",
			expectMsgs: []string{"Set own game mode to Spectator Mode"},
			check: func(assert *assert.Assertions, s *Session) {
				assert.Equal(Spectator, s.Mode)
			},
		},
		{
			name:      "gamemode other player",
			input:     "gamemode creative Bob",
			expectErr: `No player was found named "Bob"`,
			check: func(assert *assert.Assertions, s *Session) {
				assert.Equal(Survival, s.Mode)
			},
		},
		{
			name:      "gamemode unknown mode",
			input:     "gamemode hardcore",
			expectErr: `Unknown game mode "hardcore"`,
		},
		{
			name:       "tp to place",
			input:      "tp Village",
			expectMsgs: []string{"Teleported steve to Village (220, 71, -140)"},
			check: func(assert *assert.Assertions, s *Session) {
				assert.Equal("village", s.Location)
				assert.Equal(Places["village"], s.Pos)
			},
		},
		{
			name:       "tp self to place",
			input:      "tp @s mine",
			expectMsgs: []string{"Teleported steve to Mine (-85, 12, 310)"},
		},
		{
			name:      "tp unknown place",
			input:     "tp narnia",
			expectErr: `I don't know where "narnia" is; try one of: arena, mine, spawn, tower, village`,
		},
		{
			name:       "time set",
			input:      "time set 6000",
			expectMsgs: []string{"Set the time to 6000"},
		},
		{
			name:       "time set wraps",
			input:      "time set 30000",
			expectMsgs: []string{"Set the time to 6000"},
		},
		{
			name:       "time add negative wraps",
			setup:      func(s *Session) { s.Time = 1000 },
			input:      "time add -2000",
			expectMsgs: []string{"Set the time to 23000"},
		},
		{
			name:       "time query",
			setup:      func(s *Session) { s.Time = 18000 },
			input:      "time query",
			expectMsgs: []string{"The time is 18000"},
		},
		{
			name:      "speed needs moderator",
			input:     "speed 2",
			expectErr: "You don't have permission to do that",
			check: func(assert *assert.Assertions, s *Session) {
				assert.Equal(DefaultSpeed, s.Speed)
			},
		},
		{
			name:       "speed as moderator",
			group:      GroupModerator,
			input:      "speed 0.5",
			expectMsgs: []string{"Setting speed to 0.5"},
			check: func(assert *assert.Assertions, s *Session) {
				assert.Equal(float32(0.5), s.Speed)
				assert.True(s.Flying)
			},
		},
		{
			name:       "fly toggles",
			group:      GroupModerator,
			setup:      func(s *Session) { s.Flying = true },
			input:      "fly",
			expectMsgs: []string{"Flying disabled"},
		},
		{
			name:       "xp add clamps at zero",
			group:      GroupModerator,
			setup:      func(s *Session) { s.XP = 10 },
			input:      "xp add -50",
			expectMsgs: []string{"Gave -50 experience points to steve"},
			check: func(assert *assert.Assertions, s *Session) {
				assert.Equal(int32(0), s.XP)
			},
		},
		{
			name:       "xp set",
			group:      GroupModerator,
			input:      "xp set 300",
			expectMsgs: []string{"Set steve's experience to 300"},
		},
		{
			name:       "class",
			input:      "class Mage red",
			expectMsgs: []string{"Setting rank to Mage on the Red team"},
			check: func(assert *assert.Assertions, s *Session) {
				assert.Equal("mage", s.Class)
				assert.Equal("red", s.Team)
			},
		},
		{
			name:      "class already in use",
			input:     "class scout blue",
			expectErr: "You're already using this class!",
		},
		{
			name:      "class unknown",
			input:     "class bard blue",
			expectErr: `"bard" is not a class; pick one of: archer, excavator, harvester, hunter, mage, miner, scout, stalker, tank, warrior`,
		},
		{
			name:      "unknown command",
			input:     "zombie",
			expectErr: `I don't know what you mean by "zombie"`,
		},
		{
			name:      "bad time value",
			input:     "time set noon",
			expectErr: `I don't know what "noon" means after "time set"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			cmds, err := Commands(cdf.Default())
			if !assert.NoError(err) {
				return
			}
			s := NewSession("steve", tc.group)
			if tc.setup != nil {
				tc.setup(s)
			}

			msgs, err := Run(cmds, s, tc.input)

			if tc.expectErr != "" {
				assert.Error(err)
				assert.Equal(tc.expectErr, cmderrors.GameMessage(err))
			} else {
				assert.NoError(err)
				assert.Equal(tc.expectMsgs, msgs)
			}
			if tc.check != nil {
				tc.check(assert, s)
			}
		})
	}
}

func Test_Help(t *testing.T) {
	assert := assert.New(t)
	cmds, err := Commands(cdf.Default())
	if !assert.NoError(err) {
		return
	}

	msgs, err := Run(cmds, NewSession("steve", ""), "help")

	assert.NoError(err)
	if assert.Len(msgs, 1) {
		assert.Contains(msgs[0], "Here are the commands you can use:")
		assert.Contains(msgs[0], "TIME SET <VALUE>")
		assert.Contains(msgs[0], "teleport to a place")
	}
}

func Test_PrintTree(t *testing.T) {
	assert := assert.New(t)
	cmds, err := Commands(cdf.Default())
	if !assert.NoError(err) {
		return
	}

	msgs, err := Run(cmds, NewSession("steve", ""), "tree")

	assert.NoError(err)
	if assert.Len(msgs, 1) {
		assert.Contains(msgs[0], "ROOT\n  help*\n  tree*\n  gamemode\n    <mode: string>*\n")
		assert.Contains(msgs[0], "      <value: integer(0..)>*")
	}
}

func Test_Session_InGroup(t *testing.T) {
	testCases := []struct {
		name    string
		session string
		require string
		expect  bool
	}{
		{name: "no group needed", session: GroupNormal, require: "", expect: true},
		{name: "normal for normal", session: GroupNormal, require: GroupNormal, expect: true},
		{name: "moderator for normal", session: GroupModerator, require: "Normal", expect: true},
		{name: "normal for moderator", session: GroupNormal, require: GroupModerator, expect: false},
		{name: "moderator for moderator", session: GroupModerator, require: "MODERATOR", expect: true},
		{name: "moderator for other group", session: GroupModerator, require: "builder", expect: true},
		{name: "other group for itself", session: "builder", require: "builder", expect: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSession("steve", tc.session)
			assert.Equal(t, tc.expect, s.InGroup(tc.require))
		})
	}
}

func Test_Session_binary(t *testing.T) {
	assert := assert.New(t)
	s := NewSession("steve", GroupModerator)
	s.Mode = Adventure
	s.Location = "tower"
	s.Pos = Position{X: 40.5, Y: -2, Z: 1e10}
	s.Time = 23999
	s.Speed = 0.3
	s.Flying = true
	s.XP = 1234
	s.Class = "tank"
	s.Team = "yellow"

	data := rezi.EncBinary(s)
	actual := &Session{}
	n, err := rezi.DecBinary(data, actual)

	assert.NoError(err)
	assert.Equal(len(data), n)
	assert.Equal(s, actual)
}

func Test_RequireGroup(t *testing.T) {
	assert := assert.New(t)
	called := false
	h := RequireGroup(GroupModerator, func(*Caller, *tree.Args) error {
		called = true
		return nil
	})

	err := h(&Caller{Session: NewSession("steve", "")}, &tree.Args{})
	assert.ErrorIs(err, cmderrors.ErrPermission)
	assert.False(called)

	err = h(&Caller{Session: NewSession("steve", GroupModerator)}, &tree.Args{})
	assert.NoError(err)
	assert.True(called)
}
