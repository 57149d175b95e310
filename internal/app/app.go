// Package app runs the air hockey table: it owns the camera, the hand
// detector and the match, and publishes what happens to every front-end.
package app

import (
	"errors"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ayusman/airpuck/internal/capture"
	"github.com/ayusman/airpuck/internal/detector"
	"github.com/ayusman/airpuck/internal/gesture"
	"github.com/ayusman/airpuck/internal/hockey"
	"github.com/ayusman/airpuck/internal/input"
	"github.com/ayusman/airpuck/internal/plugin"
	"github.com/ayusman/airpuck/internal/render"
	"github.com/ayusman/airpuck/internal/sound"
	"github.com/ayusman/airpuck/internal/store"
)

// Pipeline defaults.
const (
	// IdleFPS is the frame rate while nobody is moving and no match is on.
	IdleFPS = 5
	// ActiveFPS is the frame rate while playing.
	ActiveFPS = 30
	// IdleTimeout is how long the scene must be still before idling.
	IdleTimeout = 5 * time.Second
	// signalQueueSize bounds start/reset requests waiting for the next tick.
	signalQueueSize = 8
)

var errStopped = errors.New("app has been stopped")

// Config holds configuration options for the application.
type Config struct {
	Table    hockey.Table
	Camera   capture.Camera
	Detector detector.Detector
	Store    *store.Store
	Hooks    *plugin.Hooks
	Sound    *sound.Player

	// Seed fixes the serve sequence. Zero seeds from the clock.
	Seed uint64

	ActiveFPS    int
	IdleFPS      int
	IdleTimeout  time.Duration
	MotionThresh float64
	HoldFrames   int
}

// App is the single owner of the match. Only the pipeline goroutine
// touches it; everybody else talks to it through signals and the hub.
type App struct {
	config   Config
	camera   capture.Camera
	detector detector.Detector
	motion   *capture.MotionDetector
	pacer    *capture.Pacer
	match    *hockey.Match
	hands    *input.HandSource
	renderer *render.Renderer
	sound    *sound.Player
	recorder *Recorder
	hub      *hub
	signals  chan gesture.Signal

	// rate is the capture rate picked by the last step.
	rate int

	mu      sync.Mutex
	stopCh  chan struct{}
	done    chan struct{}
	stopped bool
}

// New creates an App. A missing camera means the default device, and a
// missing detector means MediaPipe with the mock as a fallback.
func New(config Config) *App {
	if config.ActiveFPS <= 0 {
		config.ActiveFPS = ActiveFPS
	}
	if config.IdleFPS <= 0 {
		config.IdleFPS = IdleFPS
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = IdleTimeout
	}
	if config.MotionThresh <= 0 {
		config.MotionThresh = 1.0 // Default threshold: 1% pixel change
	}
	if config.Table.Width == 0 {
		config.Table = hockey.DefaultTable()
	}

	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	hands := input.NewHandSource(config.Table, config.HoldFrames)

	a := &App{
		config:   config,
		camera:   config.Camera,
		detector: config.Detector,
		motion:   capture.NewMotionDetector(config.MotionThresh),
		pacer:    capture.NewPacer(config.ActiveFPS, config.IdleFPS, config.IdleTimeout),
		match:    hockey.NewMatch(config.Table, rng),
		hands:    hands,
		renderer: render.NewRenderer(config.Table, hands.Button()),
		sound:    config.Sound,
		recorder: NewRecorder(config.Store, config.Hooks),
		hub:      newHub(),
		signals:  make(chan gesture.Signal, signalQueueSize),
		rate:     config.IdleFPS,
	}

	if a.camera == nil {
		a.camera = capture.NewCamera(capture.Options{Mirror: true})
	}

	// Try MediaPipe first, fall back to mock detector
	if a.detector == nil {
		if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
			a.detector = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			a.detector = detector.NewMockDetector()
		}
	}

	a.hub.publishState(a.match.Snapshot())
	return a
}

// StartMatch asks the pipeline to start the match. It reports false when
// the request queue is full.
func (a *App) StartMatch() bool {
	return a.send(gesture.SignalStart)
}

// ResetMatch asks the pipeline to restart the match from 0-0.
func (a *App) ResetMatch() bool {
	return a.send(gesture.SignalReset)
}

func (a *App) send(s gesture.Signal) bool {
	select {
	case a.signals <- s:
		return true
	default:
		log.Printf("[app] signal queue full, dropping %s", s)
		return false
	}
}

// Snapshot returns the last published state of the match.
func (a *App) Snapshot() hockey.Snapshot {
	return a.hub.snapshot()
}

// Frame returns the last published JPEG, or nil before anyone asked for
// frames.
func (a *App) Frame() []byte {
	return a.hub.frame()
}

// SubscribeState returns a channel of snapshots, one per tick, and a
// function that ends the subscription.
func (a *App) SubscribeState() (<-chan hockey.Snapshot, func()) {
	return a.hub.subscribeState()
}

// SubscribeFrames returns a channel of encoded frames. Frames are only
// rendered while at least one subscriber exists.
func (a *App) SubscribeFrames() (<-chan []byte, func()) {
	return a.hub.subscribeFrames()
}

// Start opens the camera and begins the pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}
	if a.stopped {
		return errStopped
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(a.config.IdleFPS)

	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.runPipeline(a.stopCh, a.done)

	log.Println("Game pipeline started")
	return nil
}

// Stop halts the pipeline and releases every resource. The App cannot be
// started again afterwards.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return
	}
	a.stopped = true

	if a.stopCh != nil {
		close(a.stopCh)
		<-a.done
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Close()
	a.renderer.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	a.recorder.Close()
	log.Println("Game pipeline stopped")
}

// Running reports whether the pipeline is running.
func (a *App) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stopCh != nil
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	return a.detector
}
