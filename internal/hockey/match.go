package hockey

import "fmt"

// State is the phase of a match.
type State int

const (
	NotStarted State = iota
	InProgress
	Finished
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "not_started":
		*s = NotStarted
	case "in_progress":
		*s = InProgress
	case "finished":
		*s = Finished
	default:
		return fmt.Errorf("unknown match state %q", b)
	}
	return nil
}

// Inputs carries the target coordinate of each paddle for one tick. A nil
// field leaves that paddle where it is.
type Inputs struct {
	Left  *Vec
	Right *Vec
}

// Scores is the running score of a match.
type Scores struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// Of returns the score of side s.
func (s Scores) Of(side Side) int {
	switch side {
	case SideLeft:
		return s.Left
	case SideRight:
		return s.Right
	default:
		return 0
	}
}

// Event reports what a Tick did. GoalPos is where the puck crossed the
// goal line when Goal is set.
type Event struct {
	Tick       uint64
	State      State
	Goal       Side
	GoalPos    Vec
	Finished   bool
	Winner     Side
	PaddleHits []Side
	WallBounce bool
	Scores     Scores
}

// Match is the per-session owner of the puck, both paddles and the score.
type Match struct {
	table  Table
	rng    Rand
	puck   *Puck
	left   *Paddle
	right  *Paddle
	scores Scores
	state  State
	winner Side
	tick   uint64
}

// NewMatch creates a match that has not started yet. The table is copied;
// rng supplies every puck serve.
func NewMatch(t Table, rng Rand) *Match {
	m := &Match{
		table: t.clone(),
		rng:   rng,
		state: NotStarted,
	}
	m.puck = NewPuck(&m.table, rng)
	m.left = NewPaddle(&m.table, SideLeft)
	m.right = NewPaddle(&m.table, SideRight)
	return m
}

// Start begins play. It only acts on a match that has not started and
// reports whether it did.
func (m *Match) Start() bool {
	if m.state != NotStarted {
		return false
	}
	m.puck.Reset(m.rng)
	m.state = InProgress
	return true
}

// Reset restarts the match from any state: scores cleared, winner cleared,
// puck served from the centre and both paddles home.
func (m *Match) Reset() {
	m.scores = Scores{}
	m.winner = SideNone
	m.puck.Reset(m.rng)
	m.left.Home()
	m.right.Home()
	m.state = InProgress
}

// Tick advances the match by one frame.
func (m *Match) Tick(in Inputs) Event {
	m.tick++

	if in.Left != nil {
		m.left.Update(in.Left.X, in.Left.Y)
	}
	if in.Right != nil {
		m.right.Update(in.Right.X, in.Right.Y)
	}

	ev := Event{Tick: m.tick}
	if m.state != InProgress {
		return m.finishEvent(ev)
	}

	step := m.puck.Advance(m.left, m.right)
	ev.PaddleHits = step.PaddleHits
	ev.WallBounce = step.WallBounce

	if step.Goal != SideNone {
		ev.Goal = step.Goal
		ev.GoalPos = m.puck.Pos
		m.score(step.Goal)
		m.puck.Reset(m.rng)
		if m.state == Finished {
			ev.Finished = true
		}
	}
	return m.finishEvent(ev)
}

func (m *Match) finishEvent(ev Event) Event {
	ev.State = m.state
	ev.Winner = m.winner
	ev.Scores = m.scores
	return ev
}

func (m *Match) score(s Side) {
	switch s {
	case SideLeft:
		m.scores.Left++
	case SideRight:
		m.scores.Right++
	}
	if m.scores.Of(s) >= m.table.WinScore {
		m.state = Finished
		m.winner = s
	}
}

func (m *Match) State() State { return m.state }

func (m *Match) Winner() Side { return m.winner }

func (m *Match) Scores() Scores { return m.scores }

func (m *Match) Table() Table { return m.table.clone() }

func (m *Match) Puck() *Puck { return m.puck }

// Paddle returns the paddle of side s, or nil for SideNone.
func (m *Match) Paddle(s Side) *Paddle {
	switch s {
	case SideLeft:
		return m.left
	case SideRight:
		return m.right
	default:
		return nil
	}
}

// Snapshot is a detached copy of the match for rendering sinks.
type Snapshot struct {
	Tick   uint64 `json:"tick"`
	State  State  `json:"state"`
	Scores Scores `json:"scores"`
	Winner Side   `json:"winner"`
	Puck   struct {
		Pos   Vec   `json:"pos"`
		Vel   Vec   `json:"vel"`
		Trail []Vec `json:"trail"`
	} `json:"puck"`
	Left  Vec   `json:"left"`
	Right Vec   `json:"right"`
	Table Table `json:"table"`
}

// Snapshot copies the current state. The copy shares no memory with the
// match and may be handed to other goroutines.
func (m *Match) Snapshot() Snapshot {
	var s Snapshot
	s.Tick = m.tick
	s.State = m.state
	s.Scores = m.scores
	s.Winner = m.winner
	s.Puck.Pos = m.puck.Pos
	s.Puck.Vel = m.puck.Vel
	s.Puck.Trail = m.puck.Trail.Points()
	s.Left = m.left.Pos
	s.Right = m.right.Pos
	s.Table = m.table.clone()
	return s
}
