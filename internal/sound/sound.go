// Package sound plays short synthesised cues for match events.
package sound

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/ayusman/airpuck/internal/hockey"
)

const sampleRate = beep.SampleRate(44100)

// Cue is a named sound effect.
type Cue int

const (
	CueHit Cue = iota
	CueWall
	CueGoal
	CueWin
	CueStart
)

func (c Cue) String() string {
	switch c {
	case CueHit:
		return "hit"
	case CueWall:
		return "wall"
	case CueGoal:
		return "goal"
	case CueWin:
		return "win"
	case CueStart:
		return "start"
	default:
		return "unknown"
	}
}

// tone is one note of a cue. A zero frequency is a rest.
type tone struct {
	freq float64
	dur  time.Duration
}

var cueTones = map[Cue][]tone{
	CueHit:   {{660, 40 * time.Millisecond}},
	CueWall:  {{330, 30 * time.Millisecond}},
	CueGoal:  {{523.25, 90 * time.Millisecond}, {659.25, 90 * time.Millisecond}, {783.99, 160 * time.Millisecond}},
	CueWin:   {{523.25, 120 * time.Millisecond}, {0, 40 * time.Millisecond}, {523.25, 120 * time.Millisecond}, {1046.5, 320 * time.Millisecond}},
	CueStart: {{440, 80 * time.Millisecond}, {880, 120 * time.Millisecond}},
}

// Player mixes cues onto the default audio device. A disabled or
// uninitialised player ignores Play.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	enabled     bool
	initialized bool
}

func NewPlayer(enabled bool) *Player {
	return &Player{
		mixer:   &beep.Mixer{},
		volume:  0.3,
		enabled: enabled,
	}
}

// Initialize opens the speaker. Calling it twice is harmless.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close silences everything that is still playing.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Clear()
	p.initialized = false
}

func (p *Player) SetEnabled(on bool) {
	p.mu.Lock()
	p.enabled = on
	p.mu.Unlock()
}

func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Play queues c. It never blocks on the audio device.
func (p *Player) Play(c Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || !p.enabled {
		return
	}
	s, err := Streamer(c, p.volume)
	if err != nil || s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// PlayAll plays each cue in order of the slice.
func (p *Player) PlayAll(cues []Cue) {
	for _, c := range cues {
		p.Play(c)
	}
}

// Streamer builds the finite stream for c at the given linear volume.
func Streamer(c Cue, volume float64) (beep.Streamer, error) {
	tones, ok := cueTones[c]
	if !ok {
		return nil, nil
	}

	parts := make([]beep.Streamer, 0, len(tones))
	for _, t := range tones {
		n := sampleRate.N(t.dur)
		if t.freq == 0 {
			parts = append(parts, beep.Silence(n))
			continue
		}
		sine, err := generators.SineTone(sampleRate, t.freq)
		if err != nil {
			return nil, err
		}
		parts = append(parts, beep.Take(n, sine))
	}
	return withVolume(beep.Seq(parts...), volume), nil
}

// Duration is how long c plays.
func Duration(c Cue) time.Duration {
	var d time.Duration
	for _, t := range cueTones[c] {
		d += t.dur
	}
	return d
}

// math.Log2(0) is -Inf, so silence is handled separately.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// CuesFor maps a tick event to the cues it should trigger. A finishing
// goal plays the win cue instead of the goal cue.
func CuesFor(ev hockey.Event) []Cue {
	var cues []Cue
	if len(ev.PaddleHits) > 0 {
		cues = append(cues, CueHit)
	}
	if ev.WallBounce {
		cues = append(cues, CueWall)
	}
	switch {
	case ev.Finished:
		cues = append(cues, CueWin)
	case ev.Goal != hockey.SideNone:
		cues = append(cues, CueGoal)
	}
	return cues
}
