package app

import (
	"sync"

	"github.com/ayusman/airpuck/internal/hockey"
)

// hub holds the latest published snapshot and frame and fans them out to
// subscribers. A subscriber that has not taken the previous value misses
// the new one; publishing never blocks.
type hub struct {
	mu     sync.RWMutex
	snap   hockey.Snapshot
	jpeg   []byte
	states map[chan hockey.Snapshot]struct{}
	frames map[chan []byte]struct{}
}

func newHub() *hub {
	return &hub{
		states: make(map[chan hockey.Snapshot]struct{}),
		frames: make(map[chan []byte]struct{}),
	}
}

func (h *hub) publishState(s hockey.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.snap = s
	for ch := range h.states {
		select {
		case ch <- s:
		default:
		}
	}
}

func (h *hub) publishFrame(jpeg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.jpeg = jpeg
	for ch := range h.frames {
		select {
		case ch <- jpeg:
		default:
		}
	}
}

func (h *hub) snapshot() hockey.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap
}

func (h *hub) frame() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.jpeg
}

func (h *hub) wantsFrames() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.frames) > 0
}

func (h *hub) subscribeState() (<-chan hockey.Snapshot, func()) {
	ch := make(chan hockey.Snapshot, 1)

	h.mu.Lock()
	h.states[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.states, ch)
			h.mu.Unlock()
		})
	}
}

func (h *hub) subscribeFrames() (<-chan []byte, func()) {
	ch := make(chan []byte, 1)

	h.mu.Lock()
	h.frames[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.frames, ch)
			h.mu.Unlock()
		})
	}
}
