package app

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/ayusman/airpuck/internal/hockey"
	"github.com/ayusman/airpuck/internal/plugin"
	"github.com/ayusman/airpuck/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func goalEvent(scorer hockey.Side, left, right int) hockey.Event {
	return hockey.Event{
		Tick:    uint64(10 * (left + right)),
		State:   hockey.InProgress,
		Goal:    scorer,
		GoalPos: hockey.Vec{X: 0, Y: 240},
		Scores:  hockey.Scores{Left: left, Right: right},
	}
}

func TestRecorder_FullMatch(t *testing.T) {
	s := newTestStore(t)
	r := NewRecorder(s, nil)

	r.Started(2)
	r.Goal(goalEvent(hockey.SideRight, 0, 1))
	win := goalEvent(hockey.SideRight, 0, 2)
	win.State = hockey.Finished
	win.Finished = true
	win.Winner = hockey.SideRight
	r.Goal(win)
	r.Finished(win)
	r.Close()

	matches, err := s.Matches().List(10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	m := matches[0]
	if m.Status != store.StatusFinished || m.Winner != "right" || m.RightScore != 2 || m.WinScore != 2 {
		t.Errorf("match = %+v", m)
	}

	goals, err := s.Goals().ListByMatch(m.ID)
	if err != nil {
		t.Fatalf("ListByMatch() error = %v", err)
	}
	if len(goals) != 2 {
		t.Fatalf("got %d goals, want 2", len(goals))
	}
	if goals[0].PuckY != 240 || goals[1].RightScore != 2 {
		t.Errorf("goals = %+v", goals)
	}
}

func TestRecorder_RestartAbandonsUnfinished(t *testing.T) {
	s := newTestStore(t)
	r := NewRecorder(s, nil)

	r.Started(3)
	r.Goal(goalEvent(hockey.SideLeft, 1, 0))
	r.Started(3)
	r.Abandoned()
	r.Close()

	stats, err := s.Matches().Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Matches != 2 || stats.Abandoned != 2 || stats.Goals != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRecorder_AbandonsStaleMatchesOnStart(t *testing.T) {
	s := newTestStore(t)
	if err := s.Matches().Create(&store.Match{WinScore: 3}); err != nil {
		t.Fatal(err)
	}

	r := NewRecorder(s, nil)
	r.Close()

	stats, _ := s.Matches().Stats()
	if stats.Abandoned != 1 {
		t.Errorf("abandoned = %d, want 1", stats.Abandoned)
	}
}

func TestRecorder_WithoutStore(t *testing.T) {
	r := NewRecorder(nil, nil)
	r.Started(3)
	r.Goal(goalEvent(hockey.SideLeft, 1, 0))
	r.Close()

	// Closed recorders ignore further records.
	r.Started(3)
	r.Close()
}

func TestRecorder_FiresHooks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping shell script plugin on Windows")
	}

	root := t.TempDir()
	dir := filepath.Join(root, "logger")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	script := "#!/bin/sh\ncat >> events.log\necho >> events.log\necho '{\"success\":true}'\n"
	if err := os.WriteFile(filepath.Join(dir, "run.sh"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	manifest := plugin.Manifest{
		Name:       "logger",
		Version:    "1.0.0",
		Executable: "run.sh",
		Events:     []plugin.Event{plugin.EventMatchStarted, plugin.EventGoal, plugin.EventMatchFinished},
	}
	data, _ := json.Marshal(manifest)
	if err := os.WriteFile(filepath.Join(dir, "plugin.json"), data, 0644); err != nil {
		t.Fatal(err)
	}

	mgr := plugin.NewManager(root)
	if err := mgr.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	s := newTestStore(t)
	r := NewRecorder(s, plugin.NewHooks(mgr, plugin.NewExecutor(5*time.Second)))

	r.Started(1)
	win := goalEvent(hockey.SideLeft, 1, 0)
	win.Finished = true
	win.Winner = hockey.SideLeft
	r.Goal(win)
	r.Finished(win)
	r.Close()

	f, err := os.Open(filepath.Join(dir, "events.log"))
	if err != nil {
		t.Fatalf("no events logged: %v", err)
	}
	defer f.Close()

	var got []plugin.Request
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var req plugin.Request
		if err := json.Unmarshal(sc.Bytes(), &req); err != nil {
			t.Fatalf("bad request line %q: %v", sc.Text(), err)
		}
		got = append(got, req)
	}

	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	wantEvents := []plugin.Event{plugin.EventMatchStarted, plugin.EventGoal, plugin.EventMatchFinished}
	for i, want := range wantEvents {
		if got[i].Event != want {
			t.Errorf("event %d = %s, want %s", i, got[i].Event, want)
		}
		if got[i].MatchID == "" || got[i].MatchID != got[0].MatchID {
			t.Errorf("event %d match id = %q", i, got[i].MatchID)
		}
	}
	if got[1].Scorer != "left" || got[2].Winner != "left" || got[2].LeftScore != 1 {
		t.Errorf("payloads = %+v", got)
	}
}
