package detector

import (
	"time"

	"gocv.io/x/gocv"
)

// Detector finds hands in a frame.
type Detector interface {
	// Detect returns the hands found in frame, or an empty slice.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// MaxPlayers is the number of hands the table has a use for.
const MaxPlayers = 2

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to report, at most MaxPlayers.
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// DataDir is searched for scripts/ and venv/ after the working directory.
	DataDir string

	// IdleTimeout stops the helper process after this long without frames.
	IdleTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxHands:        MaxPlayers,
		MinConfidence:   0.7,
		MinTrackingConf: 0.5,
		IdleTimeout:     30 * time.Second,
	}
}

// withDefaults fills unset fields from DefaultConfig and keeps the rest in
// range.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxHands <= 0 || c.MaxHands > MaxPlayers {
		c.MaxHands = def.MaxHands
	}
	if c.MinConfidence <= 0 || c.MinConfidence > 1 {
		c.MinConfidence = def.MinConfidence
	}
	if c.MinTrackingConf <= 0 || c.MinTrackingConf > 1 {
		c.MinTrackingConf = def.MinTrackingConf
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = def.IdleTimeout
	}
	return c
}
