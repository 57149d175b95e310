package gesture

// DefaultHoldFrames is how many consecutive frames a pose must be seen
// before it is reported.
const DefaultHoldFrames = 5

// Stabilizer filters out poses that flicker for a frame or two while a
// hand moves.
type Stabilizer struct {
	frames    int
	candidate Kind
	streak    int
}

func NewStabilizer(frames int) *Stabilizer {
	if frames < 1 {
		frames = DefaultHoldFrames
	}
	return &Stabilizer{frames: frames}
}

// Push records the pose seen in one frame and returns the stable pose, or
// KindNone while the latest pose has not been held long enough.
func (s *Stabilizer) Push(k Kind) Kind {
	if k == s.candidate {
		s.streak++
	} else {
		s.candidate = k
		s.streak = 1
	}
	if s.streak >= s.frames {
		return s.candidate
	}
	return KindNone
}

func (s *Stabilizer) Reset() {
	s.candidate = KindNone
	s.streak = 0
}
