// Package world holds the state of a player session in the demo game and the
// handlers that carry out commands against it.
package world

import (
	"fmt"
	"sort"
	"strings"
)

// Permission groups. A moderator may run anything a normal player can.
const (
	GroupNormal    = "normal"
	GroupModerator = "moderator"
)

// TicksPerDay is the length of one in-game day.
const TicksPerDay = 24000

// DefaultSpeed is the flying speed of a new session.
const DefaultSpeed float32 = 0.05

// GameMode is the mode a player is playing in.
type GameMode int

const (
	Survival GameMode = iota
	Creative
	Adventure
	Spectator
)

func (gm GameMode) String() string {
	switch gm {
	case Survival:
		return "survival"
	case Creative:
		return "creative"
	case Adventure:
		return "adventure"
	case Spectator:
		return "spectator"
	default:
		return fmt.Sprintf("GameMode(%d)", int(gm))
	}
}

// ParseGameMode gives the GameMode with the given name. Matching is
// case-insensitive.
func ParseGameMode(s string) (GameMode, error) {
	switch strings.ToLower(s) {
	case "survival":
		return Survival, nil
	case "creative":
		return Creative, nil
	case "adventure":
		return Adventure, nil
	case "spectator":
		return Spectator, nil
	default:
		return Survival, fmt.Errorf("not a game mode: %q", s)
	}
}

// Position is a point in the world.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

// Places is every named location that can be teleported to.
var Places = map[string]Position{
	"spawn":   {X: 0, Y: 64, Z: 0},
	"village": {X: 220, Y: 71, Z: -140},
	"mine":    {X: -85, Y: 12, Z: 310},
	"tower":   {X: 40, Y: 160, Z: 40},
	"arena":   {X: -300, Y: 64, Z: -300},
}

// Classes is every class a player can take.
var Classes = []string{"archer", "excavator", "harvester", "hunter", "mage", "miner", "scout", "stalker", "tank", "warrior"}

// Teams is every team a player can join.
var Teams = []string{"blue", "green", "red", "yellow"}

// Session is the state of one player.
type Session struct {
	Player   string   `json:"player"`
	Group    string   `json:"group"`
	Mode     GameMode `json:"mode"`
	Location string   `json:"location"`
	Pos      Position `json:"position"`
	Time     int64    `json:"time"`
	Speed    float32  `json:"speed"`
	Flying   bool     `json:"flying"`
	XP       int32    `json:"xp"`
	Class    string   `json:"class"`
	Team     string   `json:"team"`
}

// NewSession creates a session for a new player at spawn. If group is empty,
// GroupNormal is used.
func NewSession(player, group string) *Session {
	if group == "" {
		group = GroupNormal
	}
	return &Session{
		Player:   player,
		Group:    strings.ToLower(group),
		Mode:     Survival,
		Location: "spawn",
		Pos:      Places["spawn"],
		Speed:    DefaultSpeed,
		Class:    "scout",
		Team:     "blue",
	}
}

// InGroup returns whether the session may run commands that require the given
// permission group.
func (s *Session) InGroup(group string) bool {
	group = strings.ToLower(group)
	if group == "" || group == GroupNormal {
		return true
	}
	return s.Group == group || s.Group == GroupModerator
}

// Is returns whether name refers to this session's player.
func (s *Session) Is(name string) bool {
	return name == "@s" || strings.EqualFold(name, s.Player)
}

// SetTime sets the time of day, wrapping it into a single day.
func (s *Session) SetTime(t int64) {
	s.Time = ((t % TicksPerDay) + TicksPerDay) % TicksPerDay
}

// PlaceNames returns the names of all Places in sorted order.
func PlaceNames() []string {
	names := make([]string, 0, len(Places))
	for k := range Places {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func contains(list []string, s string) bool {
	for i := range list {
		if list[i] == s {
			return true
		}
	}
	return false
}
