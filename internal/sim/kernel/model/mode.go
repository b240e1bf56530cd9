package model

import "fmt"

// Mode is the game-level state machine.
type Mode uint8

const (
	ModeTitle Mode = iota
	ModePlaying
	ModeWon
	ModeLost
)

func (m Mode) String() string {
	switch m {
	case ModePlaying:
		return "playing"
	case ModeWon:
		return "won"
	case ModeLost:
		return "lost"
	default:
		return "title"
	}
}

func ParseMode(s string) (Mode, bool) {
	for _, m := range []Mode{ModeTitle, ModePlaying, ModeWon, ModeLost} {
		if m.String() == s {
			return m, true
		}
	}
	return ModeTitle, false
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	v, ok := ParseMode(string(b))
	if !ok {
		return fmt.Errorf("unknown mode %q", string(b))
	}
	*m = v
	return nil
}
