package hockey

// Side identifies a player. The zero value means "nobody", which is also how
// Puck.Advance reports that no goal was scored.
type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "PLAYER 1"
	case SideRight:
		return "PLAYER 2"
	default:
		return "none"
	}
}

// Key is the short lowercase name used in JSON and the database.
func (s Side) Key() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return ""
	}
}

// ParseSide is the inverse of Key. Unknown names map to SideNone.
func ParseSide(key string) Side {
	switch key {
	case "left":
		return SideLeft
	case "right":
		return SideRight
	default:
		return SideNone
	}
}

// Opponent returns the other player.
func (s Side) Opponent() Side {
	switch s {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	default:
		return SideNone
	}
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.Key()), nil
}

func (s *Side) UnmarshalText(b []byte) error {
	*s = ParseSide(string(b))
	return nil
}
