package app

import (
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/airpuck/internal/capture"
	"github.com/ayusman/airpuck/internal/detector"
	"github.com/ayusman/airpuck/internal/hockey"
	"github.com/ayusman/airpuck/internal/store"
)

func newTestApp(t *testing.T, s *store.Store) (*App, *detector.MockDetector) {
	t.Helper()
	det := detector.NewMockDetector()
	a := New(Config{
		Camera:     capture.NewBlankMockCamera(2, 64, 48),
		Detector:   det,
		Store:      s,
		Seed:       1,
		HoldFrames: 2,
		ActiveFPS:  100,
		IdleFPS:    50,
	})
	t.Cleanup(a.Stop)
	return a, det
}

func blankFrame(t *testing.T) *gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { m.Close() })
	return &m
}

func TestApp_StartMatchSignal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, _ := newTestApp(t, nil)
	frame := blankFrame(t)

	if got := a.Snapshot().State; got != hockey.NotStarted {
		t.Fatalf("initial state = %v", got)
	}

	if !a.StartMatch() {
		t.Fatal("StartMatch() rejected")
	}
	ev := a.step(frame, time.Now())
	if ev.State != hockey.InProgress {
		t.Errorf("state after start = %v, want in_progress", ev.State)
	}
	if got := a.Snapshot(); got.State != hockey.InProgress || got.Tick != 1 {
		t.Errorf("published snapshot = %v tick %d", got.State, got.Tick)
	}

	// A second start while playing changes nothing.
	a.StartMatch()
	a.step(frame, time.Now())
	if got := a.Snapshot().State; got != hockey.InProgress {
		t.Errorf("state = %v", got)
	}
}

func TestApp_ThumbsUpStartsMatch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, det := newTestApp(t, nil)
	frame := blankFrame(t)
	det.SetHands(detector.ThumbsUpLandmarks())

	var ev hockey.Event
	for i := 0; i < 3 && ev.State != hockey.InProgress; i++ {
		ev = a.step(frame, time.Now())
	}
	if ev.State != hockey.InProgress {
		t.Fatalf("state = %v after holding a thumbs-up", ev.State)
	}
}

func TestApp_FingertipsDrivePaddles(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, det := newTestApp(t, nil)
	frame := blankFrame(t)
	a.StartMatch()

	det.SetHands(
		detector.PointingLandmarks("Left", 0.1, 0.8),
		detector.PointingLandmarks("Right", 0.9, 0.2),
	)
	a.step(frame, time.Now())

	snap := a.Snapshot()
	table := hockey.DefaultTable()
	if snap.Left.Y <= table.Height/2 {
		t.Errorf("left paddle y = %.1f, want lower half", snap.Left.Y)
	}
	if snap.Right.Y >= table.Height/2 {
		t.Errorf("right paddle y = %.1f, want upper half", snap.Right.Y)
	}
}

func TestApp_ResetRecordsNewMatch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	s := newTestStore(t)
	a, _ := newTestApp(t, s)
	frame := blankFrame(t)

	a.StartMatch()
	a.step(frame, time.Now())
	a.ResetMatch()
	a.step(frame, time.Now())
	a.recorder.Close()

	stats, err := s.Matches().Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Matches != 2 || stats.Abandoned != 1 {
		t.Errorf("stats = %+v, want 2 matches with 1 abandoned", stats)
	}
}

func TestApp_FramesOnlyRenderedForSubscribers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, _ := newTestApp(t, nil)
	frame := blankFrame(t)

	a.step(frame, time.Now())
	if a.Frame() != nil {
		t.Fatal("frame rendered with no subscribers")
	}

	frames, cancel := a.SubscribeFrames()
	defer cancel()
	a.step(frame, time.Now())

	select {
	case jpeg := <-frames:
		if len(jpeg) < 2 || jpeg[0] != 0xFF || jpeg[1] != 0xD8 {
			t.Errorf("frame is not a JPEG: % x", jpeg[:min(4, len(jpeg))])
		}
	default:
		t.Fatal("no frame published")
	}
}

func TestApp_Pipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, _ := newTestApp(t, nil)
	states, cancel := a.SubscribeState()
	defer cancel()

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !a.Running() {
		t.Fatal("Running() = false after Start")
	}
	a.StartMatch()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case s := <-states:
			if s.State == hockey.InProgress && s.Tick > 2 {
				a.Stop()
				if a.Running() {
					t.Error("Running() = true after Stop")
				}
				return
			}
		case <-deadline:
			t.Fatal("pipeline never started the match")
		}
	}
}
