// Package gesture recognises simple hand poses from landmarks and turns
// held poses into match control signals.
package gesture

// Kind is a recognised hand pose.
type Kind int

const (
	KindNone Kind = iota
	KindPoint
	KindOpenPalm
	KindFist
	KindThumbsUp
	KindVictory
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindOpenPalm:
		return "open_palm"
	case KindFist:
		return "fist"
	case KindThumbsUp:
		return "thumbs_up"
	case KindVictory:
		return "victory"
	default:
		return "none"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Signal is a match control request produced by a gesture.
type Signal int

const (
	SignalNone Signal = iota
	SignalStart
	SignalReset
)

func (s Signal) String() string {
	switch s {
	case SignalStart:
		return "start"
	case SignalReset:
		return "reset"
	default:
		return "none"
	}
}
