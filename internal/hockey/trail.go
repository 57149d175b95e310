package hockey

// Trail is a fixed-capacity history of recent puck positions. Once full,
// each Push evicts the oldest point.
type Trail struct {
	points []Vec
	start  int
	size   int
}

// NewTrail creates an empty trail holding at most capacity points.
func NewTrail(capacity int) *Trail {
	if capacity < 1 {
		capacity = 1
	}
	return &Trail{points: make([]Vec, capacity)}
}

// Push records p, dropping the oldest point when the trail is full.
func (t *Trail) Push(p Vec) {
	if t.size < len(t.points) {
		t.points[(t.start+t.size)%len(t.points)] = p
		t.size++
		return
	}
	t.points[t.start] = p
	t.start = (t.start + 1) % len(t.points)
}

// Points returns a copy of the trail, oldest first.
func (t *Trail) Points() []Vec {
	out := make([]Vec, t.size)
	for i := 0; i < t.size; i++ {
		out[i] = t.points[(t.start+i)%len(t.points)]
	}
	return out
}

func (t *Trail) Len() int { return t.size }

func (t *Trail) Cap() int { return len(t.points) }

// Clear empties the trail without releasing its storage.
func (t *Trail) Clear() {
	t.start = 0
	t.size = 0
}
