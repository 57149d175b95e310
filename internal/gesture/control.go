package gesture

import "github.com/ayusman/airpuck/internal/detector"

// Control watches up to two hands and raises a Signal once each time a
// control pose becomes stable. A thumbs-up from either player starts the
// match; both players showing an open palm resets it.
type Control struct {
	left  *Stabilizer
	right *Stabilizer
	last  Signal
}

func NewControl(holdFrames int) *Control {
	return &Control{
		left:  NewStabilizer(holdFrames),
		right: NewStabilizer(holdFrames),
	}
}

// Observe feeds the hands of one frame and returns the signal they raise.
// A pose that is held keeps returning SignalNone after its first report.
func (c *Control) Observe(hands []detector.HandLandmarks) Signal {
	l, r := assignHands(hands)
	sig := resolve(c.left.Push(Classify(l)), c.right.Push(Classify(r)))

	if sig == c.last {
		return SignalNone
	}
	c.last = sig
	return sig
}

func (c *Control) Reset() {
	c.left.Reset()
	c.right.Reset()
	c.last = SignalNone
}

func resolve(left, right Kind) Signal {
	switch {
	case left == KindOpenPalm && right == KindOpenPalm:
		return SignalReset
	case left == KindThumbsUp || right == KindThumbsUp:
		return SignalStart
	default:
		return SignalNone
	}
}

// assignHands splits hands into two slots by handedness. Unlabelled or
// duplicate labels fill whichever slot is still free.
func assignHands(hands []detector.HandLandmarks) (left, right *detector.HandLandmarks) {
	var rest []*detector.HandLandmarks
	for i := range hands {
		h := &hands[i]
		switch {
		case h.Handedness == "Left" && left == nil:
			left = h
		case h.Handedness == "Right" && right == nil:
			right = h
		default:
			rest = append(rest, h)
		}
	}
	for _, h := range rest {
		switch {
		case left == nil:
			left = h
		case right == nil:
			right = h
		}
	}
	return left, right
}
