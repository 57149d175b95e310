package gesture

import (
	"testing"

	"github.com/ayusman/airpuck/internal/detector"
)

func victory() detector.HandLandmarks {
	h := detector.OpenPalmLandmarks()
	// Fold ring and pinky back below their PIP joints.
	h.Points[detector.RingTip].Y = h.Points[detector.RingPIP].Y + 0.05
	h.Points[detector.PinkyTip].Y = h.Points[detector.PinkyPIP].Y + 0.05
	return h
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		hand detector.HandLandmarks
		want Kind
	}{
		{"fist", detector.FistLandmarks(), KindFist},
		{"thumbs up", detector.ThumbsUpLandmarks(), KindThumbsUp},
		{"open palm", detector.OpenPalmLandmarks(), KindOpenPalm},
		{"pointing", detector.PointingLandmarks("Left", 0.3, 0.4), KindPoint},
		{"victory", victory(), KindVictory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(&tt.hand); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassify_Unknown(t *testing.T) {
	h := detector.FistLandmarks()
	// Middle finger alone matches no pose.
	h.Points[detector.MiddleTip].Y = h.Points[detector.MiddlePIP].Y - 0.1

	if got := Classify(&h); got != KindNone {
		t.Errorf("Classify() = %v, want none", got)
	}
	if got := Classify(nil); got != KindNone {
		t.Errorf("Classify(nil) = %v, want none", got)
	}
}

func TestStabilizer(t *testing.T) {
	s := NewStabilizer(3)

	seq := []struct {
		in   Kind
		want Kind
	}{
		{KindFist, KindNone},
		{KindFist, KindNone},
		{KindFist, KindFist},
		{KindFist, KindFist},
		{KindPoint, KindNone},
		{KindFist, KindNone},
		{KindFist, KindNone},
		{KindFist, KindFist},
	}

	for i, step := range seq {
		if got := s.Push(step.in); got != step.want {
			t.Errorf("frame %d: Push(%v) = %v, want %v", i, step.in, got, step.want)
		}
	}
}

func TestNewStabilizer_Default(t *testing.T) {
	s := NewStabilizer(0)
	for i := 0; i < DefaultHoldFrames-1; i++ {
		if got := s.Push(KindThumbsUp); got != KindNone {
			t.Fatalf("frame %d reported %v before the hold period", i, got)
		}
	}
	if got := s.Push(KindThumbsUp); got != KindThumbsUp {
		t.Errorf("Push() = %v after %d frames, want thumbs_up", got, DefaultHoldFrames)
	}
}

func observeN(c *Control, n int, hands ...detector.HandLandmarks) []Signal {
	out := make([]Signal, n)
	for i := range out {
		out[i] = c.Observe(hands)
	}
	return out
}

func countOf(sigs []Signal, s Signal) int {
	n := 0
	for _, v := range sigs {
		if v == s {
			n++
		}
	}
	return n
}

func TestControl_ThumbsUpStartsOnce(t *testing.T) {
	c := NewControl(5)
	thumb := detector.ThumbsUpLandmarks()

	sigs := observeN(c, 20, thumb)

	if sigs[3] != SignalNone {
		t.Errorf("frame 4 = %v, want none before the hold period", sigs[3])
	}
	if sigs[4] != SignalStart {
		t.Errorf("frame 5 = %v, want start", sigs[4])
	}
	if n := countOf(sigs, SignalStart); n != 1 {
		t.Errorf("start raised %d times while held, want 1", n)
	}
}

func TestControl_ThumbsUpAgainAfterRelease(t *testing.T) {
	c := NewControl(2)
	thumb := detector.ThumbsUpLandmarks()

	observeN(c, 3, thumb)
	observeN(c, 3)
	sigs := observeN(c, 3, thumb)

	if n := countOf(sigs, SignalStart); n != 1 {
		t.Errorf("start raised %d times after re-raising the thumb, want 1", n)
	}
}

func TestControl_BothPalmsReset(t *testing.T) {
	c := NewControl(3)
	left := detector.OpenPalmLandmarks()
	left.Handedness = "Left"
	right := detector.OpenPalmLandmarks()

	sigs := observeN(c, 6, left, right)
	if n := countOf(sigs, SignalReset); n != 1 {
		t.Errorf("reset raised %d times, want 1", n)
	}
}

func TestControl_OnePalmDoesNothing(t *testing.T) {
	c := NewControl(3)
	sigs := observeN(c, 10, detector.OpenPalmLandmarks())

	for i, s := range sigs {
		if s != SignalNone {
			t.Errorf("frame %d = %v, want none", i, s)
		}
	}
}

func TestAssignHands(t *testing.T) {
	l := detector.PointingLandmarks("Left", 0.2, 0.5)
	r := detector.PointingLandmarks("Right", 0.8, 0.5)
	dup := detector.PointingLandmarks("Right", 0.6, 0.5)
	unknown := detector.PointingLandmarks("", 0.1, 0.5)

	tests := []struct {
		name      string
		hands     []detector.HandLandmarks
		wantLeft  float64
		wantRight float64
	}{
		{"labelled", []detector.HandLandmarks{r, l}, 0.2, 0.8},
		{"duplicate label", []detector.HandLandmarks{r, dup}, 0.6, 0.8},
		{"unlabelled", []detector.HandLandmarks{unknown, r}, 0.1, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, right := assignHands(tt.hands)
			if left == nil || right == nil {
				t.Fatalf("assignHands() = %v, %v; want both slots filled", left, right)
			}
			if got := left.Fingertip().X; got < tt.wantLeft-1e-9 || got > tt.wantLeft+1e-9 {
				t.Errorf("left fingertip x = %f, want %f", got, tt.wantLeft)
			}
			if got := right.Fingertip().X; got < tt.wantRight-1e-9 || got > tt.wantRight+1e-9 {
				t.Errorf("right fingertip x = %f, want %f", got, tt.wantRight)
			}
		})
	}
}

func TestAssignHands_Empty(t *testing.T) {
	if l, r := assignHands(nil); l != nil || r != nil {
		t.Error("no hands should leave both slots empty")
	}
}
