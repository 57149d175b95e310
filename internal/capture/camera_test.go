package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestNewCamera_Defaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantFPS int
	}{
		{"zero options", Options{}, DefaultFPS},
		{"explicit fps", Options{DeviceID: 1, FPS: 12}, 12},
		{"negative fps", Options{FPS: -3}, DefaultFPS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.opts)
			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
			if cam.IsOpen() {
				t.Error("camera open before Open()")
			}
		})
	}
}

func TestOptions_WithDefaults(t *testing.T) {
	got := Options{Width: 320, Mirror: true}.withDefaults()
	want := Options{Width: 320, Height: DefaultHeight, FPS: DefaultFPS, Mirror: true}
	if got != want {
		t.Errorf("withDefaults() = %+v, want %+v", got, want)
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(Options{})

	// Pacer switches between these two; junk values keep the last rate.
	for _, step := range []struct{ set, want int }{
		{5, 5},
		{DefaultFPS, DefaultFPS},
		{0, DefaultFPS},
		{-1, DefaultFPS},
	} {
		cam.SetFPS(step.set)
		if got := cam.FPS(); got != step.want {
			t.Errorf("SetFPS(%d): FPS() = %d, want %d", step.set, got, step.want)
		}
	}
}

func TestCamera_Closed(t *testing.T) {
	cam := NewCamera(Options{})

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
	if err := cam.Close(); err != nil {
		t.Errorf("Close() on a closed camera = %v, want nil", err)
	}
}

func TestMirror(t *testing.T) {
	m := gocv.NewMatWithSize(1, 3, gocv.MatTypeCV8UC1)
	defer m.Close()
	for col, v := range []uint8{10, 20, 30} {
		m.SetUCharAt(0, col, v)
	}

	mirror(&m)

	for col, want := range []uint8{30, 20, 10} {
		if got := m.GetUCharAt(0, col); got != want {
			t.Errorf("col %d = %d, want %d", col, got, want)
		}
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(Options{Width: 640, Height: 480, Mirror: true})
	if err := cam.Open(); err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Skipf("skipping test - camera returned no frame: %v", err)
	}
	if mat.Empty() {
		t.Error("ReadFrame() returned empty mat")
	}
	mat.Close()

	if err := cam.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}
