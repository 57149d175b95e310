package input

import "github.com/ayusman/airpuck/internal/hockey"

// StartButton is the on-screen button players touch to start a match.
type StartButton struct {
	Min hockey.Vec `json:"min"`
	Max hockey.Vec `json:"max"`
}

// DefaultStartButton is a 300x100 button in the centre of table.
func DefaultStartButton(table hockey.Table) StartButton {
	c := table.Center()
	return StartButton{
		Min: hockey.Vec{X: c.X - 150, Y: c.Y - 50},
		Max: hockey.Vec{X: c.X + 150, Y: c.Y + 50},
	}
}

// Hit reports whether p lies on the button, edges included.
func (b StartButton) Hit(p hockey.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}
