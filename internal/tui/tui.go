// Package tui plays the hockey match in a terminal. The keyboard stands in
// for the webcam: each key press nudges a paddle.
package tui

import (
	"fmt"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/ayusman/airpuck/internal/hockey"
	"github.com/ayusman/airpuck/internal/sound"
)

// KeyStep is how far, in table pixels, one key press moves a paddle.
const KeyStep = 25.0

var (
	styleField  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleGoal   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	stylePuck   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleTrail  = tcell.StyleDefault.Foreground(tcell.ColorMaroon)
	styleLeft   = tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true)
	styleRight  = tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
)

// Game drives a match from the keyboard. It is not safe for concurrent
// use; Run owns it.
type Game struct {
	screen tcell.Screen
	match  *hockey.Match
	sound  *sound.Player

	// Paddle targets in table coordinates.
	left  hockey.Vec
	right hockey.Vec
}

// New creates a game on an initialised screen. player may be nil.
func New(screen tcell.Screen, match *hockey.Match, player *sound.Player) *Game {
	s := match.Snapshot()
	return &Game{
		screen: screen,
		match:  match,
		sound:  player,
		left:   s.Left,
		right:  s.Right,
	}
}

// HandleKey applies one key press and reports whether the game should
// keep running.
func (g *Game) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		g.right.Y -= KeyStep
	case tcell.KeyDown:
		g.right.Y += KeyStep
	case tcell.KeyLeft:
		g.right.X -= KeyStep
	case tcell.KeyRight:
		g.right.X += KeyStep
	case tcell.KeyRune:
		switch unicode.ToLower(ev.Rune()) {
		case 'q':
			return false
		case 'w':
			g.left.Y -= KeyStep
		case 's':
			g.left.Y += KeyStep
		case 'a':
			g.left.X -= KeyStep
		case 'd':
			g.left.X += KeyStep
		case ' ':
			if g.match.Start() {
				g.play(sound.CueStart)
			}
		case 'r':
			g.match.Reset()
			g.play(sound.CueStart)
		}
	}
	return true
}

// Tick advances the match one frame towards the paddle targets.
func (g *Game) Tick() hockey.Event {
	left, right := g.left, g.right
	ev := g.match.Tick(hockey.Inputs{Left: &left, Right: &right})

	// Targets follow the clamped paddles so a held key cannot wind up
	// past the edge.
	s := g.match.Snapshot()
	g.left, g.right = s.Left, s.Right

	if g.sound != nil {
		g.sound.PlayAll(sound.CuesFor(ev))
	}
	return ev
}

// Draw renders the current match.
func (g *Game) Draw() {
	g.screen.Clear()
	w, h := g.screen.Size()
	s := g.match.Snapshot()

	g.drawField(s.Table, w, h)

	for _, p := range s.Puck.Trail {
		x, y := Project(p, s.Table, w, h)
		g.screen.SetContent(x, y, '·', nil, styleTrail)
	}
	g.put(s.Left, s.Table, w, h, '@', styleLeft)
	g.put(s.Right, s.Table, w, h, '@', styleRight)
	g.put(s.Puck.Pos, s.Table, w, h, 'O', stylePuck)

	g.text(0, fmt.Sprintf("%d : %d", s.Scores.Left, s.Scores.Right), styleText, w)

	msg := h * 3 / 4
	switch s.State {
	case hockey.NotStarted:
		g.text(msg, "SPACE to start", styleText, w)
	case hockey.Finished:
		g.text(msg, fmt.Sprintf("%s WINS!  R to play again", s.Winner), styleText, w)
	}

	g.screen.Show()
}

func (g *Game) drawField(t hockey.Table, w, h int) {
	top, bottom := 1, h-1
	for x := 0; x < w; x++ {
		g.screen.SetContent(x, top, '─', nil, styleBorder)
		g.screen.SetContent(x, bottom, '─', nil, styleBorder)
	}

	goalTop, goalBottom := t.GoalBand()
	_, gy0 := Project(hockey.Vec{Y: goalTop}, t, w, h)
	_, gy1 := Project(hockey.Vec{Y: goalBottom}, t, w, h)
	for y := top + 1; y < bottom; y++ {
		edge, style := '│', styleBorder
		if y >= gy0 && y <= gy1 {
			edge, style = '┃', styleGoal
		}
		g.screen.SetContent(0, y, edge, nil, style)
		g.screen.SetContent(w-1, y, edge, nil, style)
	}

	cx, _ := Project(t.Center(), t, w, h)
	for y := top + 1; y < bottom; y++ {
		g.screen.SetContent(cx, y, '┆', nil, styleField)
	}
}

func (g *Game) put(p hockey.Vec, t hockey.Table, w, h int, r rune, style tcell.Style) {
	x, y := Project(p, t, w, h)
	g.screen.SetContent(x, y, r, nil, style)
}

// text centres s on row y.
func (g *Game) text(y int, s string, style tcell.Style, w int) {
	x := (w - len([]rune(s))) / 2
	for _, r := range s {
		if x >= 0 && x < w {
			g.screen.SetContent(x, y, r, nil, style)
		}
		x++
	}
}

func (g *Game) play(c sound.Cue) {
	if g.sound != nil {
		g.sound.Play(c)
	}
}

// Run polls the keyboard and ticks the match at fps until the player
// quits.
func (g *Game) Run(fps int) {
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	g.Draw()
	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !g.HandleKey(ev) {
					return
				}
			case *tcell.EventResize:
				g.screen.Sync()
			}
		case <-ticker.C:
			g.Tick()
			g.Draw()
		}
	}
}

// Project maps a table position to a terminal cell. Row 0 holds the score
// and rows 1 and h-1 the rails, so the field spans columns 1..w-2 and rows
// 2..h-2. Positions off the table are clamped to its edge.
func Project(p hockey.Vec, t hockey.Table, w, h int) (x, y int) {
	cols := max(w-2, 1)
	rows := max(h-3, 1)

	x = 1 + int(p.X/t.Width*float64(cols-1)+0.5)
	y = 2 + int(p.Y/t.Height*float64(rows-1)+0.5)
	return min(max(x, 1), cols), min(max(y, 2), rows+1)
}
