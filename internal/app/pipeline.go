package app

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/airpuck/internal/capture"
	"github.com/ayusman/airpuck/internal/gesture"
	"github.com/ayusman/airpuck/internal/hockey"
	"github.com/ayusman/airpuck/internal/input"
	"github.com/ayusman/airpuck/internal/render"
	"github.com/ayusman/airpuck/internal/sound"
)

// runPipeline is the game loop. Each tick it:
//  1. applies queued start/reset requests
//  2. reads a frame and paces the camera on motion
//  3. detects hands and maps fingertips onto the table
//  4. advances the match and records what happened
//  5. publishes the snapshot, and a rendered frame when someone watches
func (a *App) runPipeline(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	fps := a.config.IdleFPS
	ticker := time.NewTicker(capture.Interval(fps))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			a.step(frame, now)
			frame.Close()

			if a.rate != fps {
				fps = a.rate
				a.camera.SetFPS(fps)
				ticker.Reset(capture.Interval(fps))
				log.Printf("[app] capture rate now %d fps", fps)
			}
		}
	}
}

// step runs one tick against frame. It does not close frame.
func (a *App) step(frame *gocv.Mat, now time.Time) hockey.Event {
	a.drainSignals()

	moving, _ := a.motion.Detect(frame)
	a.rate = a.pacer.Observe(moving, a.match.State() == hockey.InProgress, now)

	hands, err := a.detector.Detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		hands = nil
	}

	in := a.hands.Process(hands, a.match.State() == hockey.NotStarted)
	if in.Signal != gesture.SignalNone {
		log.Printf("[app] gesture %s", in.Signal)
		a.apply(in.Signal)
	}

	ev := a.match.Tick(in.Inputs)
	a.record(ev)
	if a.sound != nil {
		a.sound.PlayAll(sound.CuesFor(ev))
	}

	snap := a.match.Snapshot()
	a.hub.publishState(snap)

	if a.hub.wantsFrames() {
		a.publishFrame(snap, frame, in.Fingertips)
	}
	return ev
}

func (a *App) drainSignals() {
	for {
		select {
		case s := <-a.signals:
			a.apply(s)
		default:
			return
		}
	}
}

// apply acts on a start or reset request between ticks.
func (a *App) apply(s gesture.Signal) {
	switch s {
	case gesture.SignalStart:
		if !a.match.Start() {
			return
		}
	case gesture.SignalReset:
		if a.match.State() == hockey.InProgress {
			a.recorder.Abandoned()
		}
		a.match.Reset()
		a.hands.Reset()
	default:
		return
	}

	log.Printf("[app] match %s", s)
	a.recorder.Started(a.config.Table.WinScore)
	if a.sound != nil {
		a.sound.Play(sound.CueStart)
	}
}

func (a *App) record(ev hockey.Event) {
	if ev.Goal == hockey.SideNone {
		return
	}
	log.Printf("[app] goal for %s, %d - %d", ev.Goal, ev.Scores.Left, ev.Scores.Right)
	a.recorder.Goal(ev)
	if ev.Finished {
		log.Printf("[app] %s wins", ev.Winner)
		a.recorder.Finished(ev)
	}
}

func (a *App) publishFrame(snap hockey.Snapshot, frame *gocv.Mat, tips []input.Fingertip) {
	table := a.renderer.Table(snap)
	defer table.Close()

	view := frame.Clone()
	defer view.Close()
	a.renderer.Fingertips(&view, tips)

	composed := render.Compose(table, view)
	defer composed.Close()

	jpeg, err := render.EncodeJPEG(composed)
	if err != nil {
		log.Printf("[app] failed to encode frame: %v", err)
		return
	}
	a.hub.publishFrame(jpeg)
}
