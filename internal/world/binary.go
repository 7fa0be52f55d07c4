package world

import (
	"fmt"
	"strconv"

	"github.com/dekarrin/rezi"
)

// MarshalBinary encodes the session into bytes.
func (s Session) MarshalBinary() ([]byte, error) {
	var data []byte
	data = append(data, rezi.EncString(s.Player)...)
	data = append(data, rezi.EncString(s.Group)...)
	data = append(data, rezi.EncInt(int(s.Mode))...)
	data = append(data, rezi.EncString(s.Location)...)
	data = append(data, rezi.EncString(formatFloat(s.Pos.X))...)
	data = append(data, rezi.EncString(formatFloat(s.Pos.Y))...)
	data = append(data, rezi.EncString(formatFloat(s.Pos.Z))...)
	data = append(data, rezi.EncInt(int(s.Time))...)
	data = append(data, rezi.EncString(strconv.FormatFloat(float64(s.Speed), 'g', -1, 32))...)
	data = append(data, rezi.EncBool(s.Flying)...)
	data = append(data, rezi.EncInt(int(s.XP))...)
	data = append(data, rezi.EncString(s.Class)...)
	data = append(data, rezi.EncString(s.Team)...)
	return data, nil
}

// UnmarshalBinary decodes a session previously encoded with MarshalBinary.
func (s *Session) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	s.Player, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("player: %w", err)
	}
	data = data[n:]

	s.Group, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("group: %w", err)
	}
	data = data[n:]

	var mode int
	mode, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("mode: %w", err)
	}
	s.Mode = GameMode(mode)
	data = data[n:]

	s.Location, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("location: %w", err)
	}
	data = data[n:]

	for _, coord := range []struct {
		name string
		dest *float64
	}{{"x", &s.Pos.X}, {"y", &s.Pos.Y}, {"z", &s.Pos.Z}} {
		*coord.dest, n, err = decFloat(data, 64)
		if err != nil {
			return fmt.Errorf("position %s: %w", coord.name, err)
		}
		data = data[n:]
	}

	var t int
	t, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("time: %w", err)
	}
	s.Time = int64(t)
	data = data[n:]

	var speed float64
	speed, n, err = decFloat(data, 32)
	if err != nil {
		return fmt.Errorf("speed: %w", err)
	}
	s.Speed = float32(speed)
	data = data[n:]

	s.Flying, n, err = rezi.DecBool(data)
	if err != nil {
		return fmt.Errorf("flying: %w", err)
	}
	data = data[n:]

	var xp int
	xp, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("xp: %w", err)
	}
	s.XP = int32(xp)
	data = data[n:]

	s.Class, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("class: %w", err)
	}
	data = data[n:]

	s.Team, _, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("team: %w", err)
	}

	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func decFloat(data []byte, bitSize int) (float64, int, error) {
	str, n, err := rezi.DecString(data)
	if err != nil {
		return 0, 0, err
	}
	f, err := strconv.ParseFloat(str, bitSize)
	if err != nil {
		return 0, 0, err
	}
	return f, n, nil
}
