package capture

import "time"

// Pacer picks the capture rate. It runs at the active rate while a match
// is being played or someone moved within the timeout, and drops to the
// idle rate otherwise.
type Pacer struct {
	active     int
	idle       int
	timeout    time.Duration
	lastMotion time.Time
}

func NewPacer(activeFPS, idleFPS int, timeout time.Duration) *Pacer {
	if activeFPS <= 0 {
		activeFPS = DefaultFPS
	}
	if idleFPS <= 0 || idleFPS > activeFPS {
		idleFPS = activeFPS
	}
	return &Pacer{active: activeFPS, idle: idleFPS, timeout: timeout}
}

// Observe records one frame's motion reading taken at now and returns the
// rate to capture at.
func (p *Pacer) Observe(moving, playing bool, now time.Time) int {
	if moving {
		p.lastMotion = now
	}
	if playing || (!p.lastMotion.IsZero() && now.Sub(p.lastMotion) < p.timeout) {
		return p.active
	}
	return p.idle
}

// Interval converts a rate into a ticker period.
func Interval(fps int) time.Duration {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Second / time.Duration(fps)
}
