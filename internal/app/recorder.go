package app

import (
	"context"
	"log"
	"sync"

	"github.com/ayusman/airpuck/internal/hockey"
	"github.com/ayusman/airpuck/internal/plugin"
	"github.com/ayusman/airpuck/internal/store"
)

// recordQueueSize bounds how far the recorder may fall behind the game
// loop before records are dropped.
const recordQueueSize = 64

type recordKind int

const (
	recordStarted recordKind = iota
	recordGoal
	recordFinished
	recordAbandoned
)

type record struct {
	kind     recordKind
	winScore int
	scorer   hockey.Side
	winner   hockey.Side
	scores   hockey.Scores
	tick     uint64
	puckY    float64
}

// Recorder persists the match history and fires plugin hooks on its own
// goroutine so that neither ever stalls a tick. Both the store and the
// hooks are optional.
type Recorder struct {
	store *store.Store
	hooks *plugin.Hooks

	queue  chan record
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool

	// current is the stored ID of the match being played. Only the
	// recorder goroutine touches it.
	current string
}

// NewRecorder starts a recorder. Matches left in progress by a previous
// run are marked abandoned first.
func NewRecorder(s *store.Store, hooks *plugin.Hooks) *Recorder {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Recorder{
		store:  s,
		hooks:  hooks,
		queue:  make(chan record, recordQueueSize),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}

	if s != nil {
		if n, err := s.Matches().AbandonOpen(); err != nil {
			log.Printf("[recorder] failed to close stale matches: %v", err)
		} else if n > 0 {
			log.Printf("[recorder] marked %d unfinished matches abandoned", n)
		}
	}

	go r.run()
	return r
}

// Started records a new match. An unfinished previous match is abandoned.
func (r *Recorder) Started(winScore int) {
	r.enqueue(record{kind: recordStarted, winScore: winScore})
}

// Goal records the goal in ev.
func (r *Recorder) Goal(ev hockey.Event) {
	r.enqueue(record{
		kind:   recordGoal,
		scorer: ev.Goal,
		scores: ev.Scores,
		tick:   ev.Tick,
		puckY:  ev.GoalPos.Y,
	})
}

// Finished records the result in ev.
func (r *Recorder) Finished(ev hockey.Event) {
	r.enqueue(record{kind: recordFinished, winner: ev.Winner, scores: ev.Scores})
}

// Abandoned closes the current match without a result.
func (r *Recorder) Abandoned() {
	r.enqueue(record{kind: recordAbandoned})
}

func (r *Recorder) enqueue(rec record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	select {
	case r.queue <- rec:
	default:
		log.Printf("[recorder] queue full, dropping record %d", rec.kind)
	}
}

// Close drains the queue and stops the recorder. The match in progress,
// if any, is left for the next start-up to abandon.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	<-r.done
	r.cancel()
}

func (r *Recorder) run() {
	defer close(r.done)
	for rec := range r.queue {
		r.handle(rec)
	}
}

func (r *Recorder) handle(rec record) {
	switch rec.kind {
	case recordStarted:
		if r.current != "" {
			r.abandon()
		}
		r.start(rec.winScore)
		r.fire(plugin.Request{Event: plugin.EventMatchStarted})

	case recordGoal:
		r.goal(rec)
		r.fire(plugin.Request{
			Event:      plugin.EventGoal,
			Scorer:     rec.scorer.Key(),
			LeftScore:  rec.scores.Left,
			RightScore: rec.scores.Right,
		})

	case recordFinished:
		r.finish(rec)
		r.fire(plugin.Request{
			Event:      plugin.EventMatchFinished,
			Winner:     rec.winner.Key(),
			LeftScore:  rec.scores.Left,
			RightScore: rec.scores.Right,
		})
		r.current = ""

	case recordAbandoned:
		r.abandon()
	}
}

func (r *Recorder) start(winScore int) {
	if r.store == nil {
		return
	}
	m := &store.Match{WinScore: winScore}
	if err := r.store.Matches().Create(m); err != nil {
		log.Printf("[recorder] failed to record match start: %v", err)
		return
	}
	r.current = m.ID
}

func (r *Recorder) goal(rec record) {
	if r.store == nil || r.current == "" {
		return
	}
	g := &store.Goal{
		MatchID:    r.current,
		Scorer:     rec.scorer.Key(),
		LeftScore:  rec.scores.Left,
		RightScore: rec.scores.Right,
		Tick:       int64(rec.tick),
		PuckY:      rec.puckY,
	}
	if err := r.store.Goals().Add(g); err != nil {
		log.Printf("[recorder] failed to record goal: %v", err)
	}
}

func (r *Recorder) finish(rec record) {
	if r.store == nil || r.current == "" {
		return
	}
	if err := r.store.Matches().Finish(r.current, rec.winner.Key(), rec.scores.Left, rec.scores.Right); err != nil {
		log.Printf("[recorder] failed to record result: %v", err)
	}
}

func (r *Recorder) abandon() {
	if r.store != nil && r.current != "" {
		if err := r.store.Matches().Abandon(r.current); err != nil {
			log.Printf("[recorder] failed to abandon match: %v", err)
		}
	}
	r.current = ""
}

func (r *Recorder) fire(req plugin.Request) {
	if r.hooks == nil {
		return
	}
	req.MatchID = r.current
	r.hooks.Fire(r.ctx, req)
}
