// Package input turns detected hands into paddle targets and start
// presses for the hockey match.
package input

import (
	"github.com/ayusman/airpuck/internal/detector"
	"github.com/ayusman/airpuck/internal/gesture"
	"github.com/ayusman/airpuck/internal/hockey"
)

// Fingertip is an index fingertip in table coordinates and the side it
// was assigned to.
type Fingertip struct {
	Side hockey.Side `json:"side"`
	Pos  hockey.Vec  `json:"pos"`
}

// Frame is everything the hands said during one camera frame.
type Frame struct {
	Inputs     hockey.Inputs
	Fingertips []Fingertip
	Signal     gesture.Signal
}

// HandSource maps hands onto a table and tracks the start controls across
// frames. It is not safe for concurrent use.
type HandSource struct {
	table   hockey.Table
	button  StartButton
	hold    int
	streak  int
	control *gesture.Control
}

// NewHandSource creates a source for table. holdFrames applies both to
// the start button and to control gestures.
func NewHandSource(table hockey.Table, holdFrames int) *HandSource {
	if holdFrames < 1 {
		holdFrames = gesture.DefaultHoldFrames
	}
	return &HandSource{
		table:   table,
		button:  DefaultStartButton(table),
		hold:    holdFrames,
		control: gesture.NewControl(holdFrames),
	}
}

func (s *HandSource) Button() StartButton { return s.button }

// Process maps one frame of hands. armed enables the on-screen start
// button; it should be set while the match waits to start.
func (s *HandSource) Process(hands []detector.HandLandmarks, armed bool) Frame {
	tips := Map(s.table, hands)

	f := Frame{
		Fingertips: tips,
		Signal:     s.control.Observe(hands),
	}
	for _, tip := range tips {
		pos := tip.Pos
		switch tip.Side {
		case hockey.SideLeft:
			f.Inputs.Left = &pos
		case hockey.SideRight:
			f.Inputs.Right = &pos
		}
	}

	if s.pressed(tips, armed) && f.Signal == gesture.SignalNone {
		f.Signal = gesture.SignalStart
	}
	return f
}

// pressed reports a start press on the frame where a fingertip has been
// on the button for exactly the hold period.
func (s *HandSource) pressed(tips []Fingertip, armed bool) bool {
	if !armed {
		s.streak = 0
		return false
	}

	for _, tip := range tips {
		if s.button.Hit(tip.Pos) {
			s.streak++
			return s.streak == s.hold
		}
	}
	s.streak = 0
	return false
}

// Reset forgets any partially held gesture or button press.
func (s *HandSource) Reset() {
	s.streak = 0
	s.control.Reset()
}

// Map assigns each hand to a side and converts its index fingertip from
// normalised image coordinates into table coordinates. Hands labelled
// "Left" drive the left paddle and "Right" the right one. A missing or
// repeated label falls back to the half of the frame the fingertip is in.
// At most one fingertip is returned per side.
func Map(table hockey.Table, hands []detector.HandLandmarks) []Fingertip {
	var tips []Fingertip
	taken := map[hockey.Side]bool{}

	add := func(side hockey.Side, p detector.Point3D) {
		taken[side] = true
		tips = append(tips, Fingertip{
			Side: side,
			Pos:  hockey.Vec{X: p.X * table.Width, Y: p.Y * table.Height},
		})
	}

	var unsure []detector.Point3D
	for i := range hands {
		side := labelSide(hands[i].Handedness)
		tip := hands[i].Fingertip()
		if side == hockey.SideNone || taken[side] {
			unsure = append(unsure, tip)
			continue
		}
		add(side, tip)
	}

	for _, tip := range unsure {
		side := hockey.SideLeft
		if tip.X >= 0.5 {
			side = hockey.SideRight
		}
		if taken[side] {
			side = side.Opponent()
		}
		if !taken[side] {
			add(side, tip)
		}
	}
	return tips
}

func labelSide(handedness string) hockey.Side {
	switch handedness {
	case "Left":
		return hockey.SideLeft
	case "Right":
		return hockey.SideRight
	default:
		return hockey.SideNone
	}
}
