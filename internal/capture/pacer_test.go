package capture

import (
	"testing"
	"time"
)

func TestPacer_Observe(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p := NewPacer(30, 5, 2*time.Second)

	steps := []struct {
		name    string
		at      time.Duration
		moving  bool
		playing bool
		want    int
	}{
		{"still scene starts idle", 0, false, false, 5},
		{"motion wakes up", 100 * time.Millisecond, true, false, 30},
		{"stays awake inside timeout", 1900 * time.Millisecond, false, false, 30},
		{"falls asleep after timeout", 2200 * time.Millisecond, false, false, 5},
		{"playing is always active", 10 * time.Second, false, true, 30},
		{"idle again after play", 11 * time.Second, false, false, 5},
	}

	for _, s := range steps {
		if got := p.Observe(s.moving, s.playing, start.Add(s.at)); got != s.want {
			t.Errorf("%s: Observe() = %d, want %d", s.name, got, s.want)
		}
	}
}

func TestNewPacer_Normalises(t *testing.T) {
	tests := []struct {
		name       string
		active     int
		idle       int
		wantActive int
		wantIdle   int
	}{
		{"valid", 30, 5, 30, 5},
		{"zero active", 0, 5, DefaultFPS, 5},
		{"idle above active", 10, 20, 10, 10},
		{"zero idle", 15, 0, 15, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPacer(tt.active, tt.idle, time.Second)
			if p.active != tt.wantActive || p.idle != tt.wantIdle {
				t.Errorf("NewPacer(%d, %d) = %d/%d, want %d/%d",
					tt.active, tt.idle, p.active, p.idle, tt.wantActive, tt.wantIdle)
			}
		})
	}
}

func TestInterval(t *testing.T) {
	if got := Interval(5); got != 200*time.Millisecond {
		t.Errorf("Interval(5) = %v, want 200ms", got)
	}
	if got := Interval(0); got != time.Second/DefaultFPS {
		t.Errorf("Interval(0) = %v, want default", got)
	}
}
