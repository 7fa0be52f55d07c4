package world

import (
	"fmt"
	"math"
	"strings"

	"github.com/dekarrin/cmdtree/internal/cmderrors"
	"github.com/dekarrin/cmdtree/tree"
	"github.com/dekarrin/rosed"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// title gives s in title case. A Caser keeps state between calls, so each call
// gets a new one.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// commandHelp describes each top-level command for HELP output.
var commandHelp = map[string]string{
	"help":     "show this help",
	"tree":     "show every command as a tree",
	"gamemode": "change game mode",
	"tp":       "teleport to a place",
	"time":     "set, advance, or show the time of day",
	"speed":    "set flying speed",
	"fly":      "toggle flying",
	"xp":       "give or set experience points",
	"class":    "pick a class and team",
}

// Caller is the context every command handler runs with.
type Caller struct {
	// Session is the state the command acts on.
	Session *Session

	// Commands is the tree the command was dispatched from.
	Commands *tree.Tree[*Caller]

	// Messages is the feedback produced by the command, in order.
	Messages []string
}

// Say adds a feedback message.
func (c *Caller) Say(format string, a ...interface{}) {
	c.Messages = append(c.Messages, fmt.Sprintf(format, a...))
}

// Handlers returns every named handler that command definitions can refer to.
func Handlers() map[string]tree.Handler[*Caller] {
	return map[string]tree.Handler[*Caller]{
		"help":       Help,
		"tree":       PrintTree,
		"gamemode":   SetGameMode,
		"tp":         Teleport,
		"time-set":   SetTime,
		"time-add":   AddTime,
		"time-query": QueryTime,
		"speed":      SetSpeed,
		"fly":        ToggleFly,
		"xp-add":     AddXP,
		"xp-set":     SetXP,
		"class":      SetClass,
	}
}

// RequireGroup wraps h so that it fails with a permission error for callers
// whose session is not in the given group.
func RequireGroup(group string, h tree.Handler[*Caller]) tree.Handler[*Caller] {
	return func(c *Caller, args *tree.Args) error {
		if !c.Session.InGroup(group) {
			return cmderrors.Permission(group)
		}
		return h(c, args)
	}
}

// Help lists the commands that can be run.
func Help(c *Caller, _ *tree.Args) error {
	var rows [][2]string
	if c.Commands != nil {
		var walk func(id tree.NodeID)
		walk = func(id tree.NodeID) {
			for _, child := range c.Commands.Children(id) {
				if c.Commands.Executable(child) {
					usage := c.Commands.Usage(child)
					top := strings.ToLower(strings.Fields(usage)[0])
					rows = append(rows, [2]string{strings.ToUpper(usage), commandHelp[top]})
				}
				walk(child)
			}
		}
		walk(c.Commands.Root())
	}

	if len(rows) < 1 {
		c.Say("There are no commands")
		return nil
	}

	output := rosed.
		Edit("").
		WithOptions(rosed.Options{ParagraphSeparator: "\n"}).
		InsertDefinitionsTable(0, rows, 80).
		Insert(0, "Here are the commands you can use:\n").
		String()
	c.Say("%s", output)
	return nil
}

// PrintTree shows the command tree.
func PrintTree(c *Caller, _ *tree.Args) error {
	if c.Commands == nil {
		return cmderrors.Interpreterf("There are no commands")
	}
	c.Say("%s", strings.TrimSuffix(tree.Sprint(c.Commands), "\n"))
	return nil
}

// SetGameMode handles gamemode <mode> [<player>].
func SetGameMode(c *Caller, args *tree.Args) error {
	modeName, err := tree.Get[string](args, "mode")
	if err != nil {
		return err
	}
	mode, err := ParseGameMode(modeName)
	if err != nil {
		return cmderrors.WrapInterpreterf(err, "Unknown game mode %q", modeName)
	}

	if args.Has("player") {
		player, err := tree.Get[string](args, "player")
		if err != nil {
			return err
		}
		if !c.Session.Is(player) {
			return cmderrors.Interpreterf("No player was found named %q", player)
		}
	}

	c.Session.Mode = mode
	c.Say("Set own game mode to %s Mode", title(mode.String()))
	return nil
}

// Teleport handles tp <target> [<destination>]. With one argument, target is
// where to go. With two, target is who to move.
func Teleport(c *Caller, args *tree.Args) error {
	target, err := tree.Get[string](args, "target")
	if err != nil {
		return err
	}

	dest := target
	if args.Has("destination") {
		if !c.Session.Is(target) {
			return cmderrors.Interpreterf("No player was found named %q", target)
		}
		dest, err = tree.Get[string](args, "destination")
		if err != nil {
			return err
		}
	}

	place := strings.ToLower(dest)
	pos, ok := Places[place]
	if !ok {
		return cmderrors.Interpreterf("I don't know where %q is; try one of: %s", dest, strings.Join(PlaceNames(), ", "))
	}

	c.Session.Location = place
	c.Session.Pos = pos
	c.Say("Teleported %s to %s %s", c.Session.Player, title(place), pos)
	return nil
}

// SetTime handles time set <value>.
func SetTime(c *Caller, args *tree.Args) error {
	v, err := tree.Get[int32](args, "value")
	if err != nil {
		return err
	}
	c.Session.SetTime(int64(v))
	c.Say("Set the time to %d", c.Session.Time)
	return nil
}

// AddTime handles time add <value>.
func AddTime(c *Caller, args *tree.Args) error {
	v, err := tree.Get[int32](args, "value")
	if err != nil {
		return err
	}
	c.Session.SetTime(c.Session.Time + int64(v))
	c.Say("Set the time to %d", c.Session.Time)
	return nil
}

// QueryTime handles time query.
func QueryTime(c *Caller, _ *tree.Args) error {
	c.Say("The time is %d", c.Session.Time)
	return nil
}

// SetSpeed handles speed <amount>. Setting a speed also starts flying.
func SetSpeed(c *Caller, args *tree.Args) error {
	amount, err := tree.Get[float32](args, "amount")
	if err != nil {
		return err
	}
	if amount < 0 {
		return cmderrors.Interpreterf("Speed can't be negative")
	}
	c.Session.Speed = amount
	c.Session.Flying = true
	c.Say("Setting speed to %g", amount)
	return nil
}

// ToggleFly handles fly.
func ToggleFly(c *Caller, _ *tree.Args) error {
	c.Session.Flying = !c.Session.Flying
	if c.Session.Flying {
		c.Say("Flying enabled")
	} else {
		c.Say("Flying disabled")
	}
	return nil
}

// AddXP handles xp add <amount>. Experience never drops below zero.
func AddXP(c *Caller, args *tree.Args) error {
	amount, err := tree.Get[int32](args, "amount")
	if err != nil {
		return err
	}
	total := int64(c.Session.XP) + int64(amount)
	if total < 0 {
		total = 0
	}
	if total > math.MaxInt32 {
		return cmderrors.Interpreterf("That's too much experience")
	}
	c.Session.XP = int32(total)
	c.Say("Gave %d experience points to %s", amount, c.Session.Player)
	return nil
}

// SetXP handles xp set <amount>.
func SetXP(c *Caller, args *tree.Args) error {
	amount, err := tree.Get[int32](args, "amount")
	if err != nil {
		return err
	}
	if amount < 0 {
		return cmderrors.Interpreterf("Experience can't be negative")
	}
	c.Session.XP = amount
	c.Say("Set %s's experience to %d", c.Session.Player, amount)
	return nil
}

// SetClass handles class <class> <team>.
func SetClass(c *Caller, args *tree.Args) error {
	class, err := tree.Get[string](args, "class")
	if err != nil {
		return err
	}
	team, err := tree.Get[string](args, "team")
	if err != nil {
		return err
	}
	class = strings.ToLower(class)
	team = strings.ToLower(team)

	if !contains(Classes, class) {
		return cmderrors.Interpreterf("%q is not a class; pick one of: %s", class, strings.Join(Classes, ", "))
	}
	if !contains(Teams, team) {
		return cmderrors.Interpreterf("%q is not a team; pick one of: %s", team, strings.Join(Teams, ", "))
	}

	if c.Session.Class == class && c.Session.Team == team {
		return cmderrors.Interpreterf("You're already using this class!")
	}

	c.Session.Class = class
	c.Session.Team = team
	c.Say("Setting rank to %s on the %s team", title(class), title(team))
	return nil
}
