// Package tray provides a system tray menu for the air hockey table.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/airpuck/internal/hockey"
)

// Tray represents the system tray application.
type Tray struct {
	onStart func()
	onReset func()
	onSound func(enabled bool)
	onOpen  func()
	onQuit  func()
	sound   bool
	score   string
	mu      sync.RWMutex

	// Menu items stored for later updates
	menuSound *systray.MenuItem
	menuScore *systray.MenuItem
}

// New creates a new Tray. sound is the initial state of the sound toggle.
func New(sound bool) *Tray {
	return &Tray{
		sound: sound,
		score: ScoreLine(hockey.Snapshot{}),
	}
}

// OnStart sets the callback for the Start Match item.
func (t *Tray) OnStart(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onStart = fn
}

// OnReset sets the callback for the Reset Match item.
func (t *Tray) OnReset(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReset = fn
}

// OnSound sets the callback called when sound is toggled.
func (t *Tray) OnSound(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSound = fn
}

// OnOpen sets the callback for the Open in Browser item.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray from outside the menu.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Air Puck")
	systray.SetTooltip("Air Puck webcam air hockey")

	menuStart := systray.AddMenuItem("Start Match", "Start a new match")
	menuReset := systray.AddMenuItem("Reset Match", "Reset the score and serve again")
	systray.AddSeparator()

	t.mu.Lock()
	t.menuScore = systray.AddMenuItem(t.score, "Current score")
	t.menuScore.Disable()
	t.menuSound = systray.AddMenuItem(soundTitle(t.sound), "Toggle sound effects")
	t.mu.Unlock()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open in Browser...", "Open the table view")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Air Puck")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-menuStart.ClickedCh:
				t.call(func() func() { return t.onStart })
			case <-menuReset.ClickedCh:
				t.call(func() func() { return t.onReset })
			case <-t.menuSound.ClickedCh:
				t.handleSound()
			case <-menuOpen.ClickedCh:
				t.call(func() func() { return t.onOpen })
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

// call runs the callback returned by get outside the lock.
func (t *Tray) call(get func() func()) {
	t.mu.RLock()
	callback := get()
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleSound handles the sound menu item click.
func (t *Tray) handleSound() {
	t.mu.Lock()
	t.sound = !t.sound
	enabled := t.sound
	if t.menuSound != nil {
		t.menuSound.SetTitle(soundTitle(enabled))
	}
	callback := t.onSound
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetSnapshot updates the score line from s. It only touches the menu
// when the text changes.
func (t *Tray) SetSnapshot(s hockey.Snapshot) {
	line := ScoreLine(s)

	t.mu.Lock()
	defer t.mu.Unlock()

	if line == t.score {
		return
	}
	t.score = line
	if t.menuScore != nil {
		t.menuScore.SetTitle(line)
	}
}

// SoundEnabled returns the current state of the sound toggle.
func (t *Tray) SoundEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sound
}

// ScoreLine is the text of the score menu item.
func ScoreLine(s hockey.Snapshot) string {
	switch s.State {
	case hockey.NotStarted:
		return "Waiting to start"
	case hockey.Finished:
		return fmt.Sprintf("%s wins %d - %d", s.Winner, s.Scores.Left, s.Scores.Right)
	default:
		return fmt.Sprintf("Score %d - %d", s.Scores.Left, s.Scores.Right)
	}
}

func soundTitle(on bool) string {
	if on {
		return "● Sound"
	}
	return "○ Sound"
}
