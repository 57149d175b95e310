// Package hockey implements the air-hockey simulation: puck physics,
// paddle clamping and the match state machine.
//
// The package is single-threaded by contract. A Match is owned by exactly
// one goroutine, which calls Tick once per frame; nothing in here blocks,
// performs I/O or locks.
package hockey

import (
	"errors"
	"fmt"
	"slices"
)

// Table holds the geometry and tuning of a hockey table. All lengths are in
// table pixels and all speeds in table pixels per tick.
type Table struct {
	Width        float64 `toml:"width" json:"width"`
	Height       float64 `toml:"height" json:"height"`
	PuckRadius   float64 `toml:"puck_radius" json:"puck_radius"`
	PaddleRadius float64 `toml:"paddle_radius" json:"paddle_radius"`

	// GoalHeight is the vertical size of the goal mouth centred on each end.
	GoalHeight float64 `toml:"goal_height" json:"goal_height"`
	// GoalDepth is only used when drawing the goals.
	GoalDepth float64 `toml:"goal_depth" json:"goal_depth"`

	WinScore int `toml:"win_score" json:"win_score"`

	PaddleRange  float64 `toml:"paddle_range" json:"paddle_range"`
	PaddleMargin float64 `toml:"paddle_margin" json:"paddle_margin"`
	HomeInset    float64 `toml:"home_inset" json:"home_inset"`

	TrailCapacity int `toml:"trail_capacity" json:"trail_capacity"`

	WallRebound    float64 `toml:"wall_rebound" json:"wall_rebound"`
	CollisionBoost float64 `toml:"collision_boost" json:"collision_boost"`
	MaxSpeed       float64 `toml:"max_speed" json:"max_speed"`
	Separation     float64 `toml:"separation" json:"separation"`

	ServeSpeedsX []float64 `toml:"serve_speeds_x" json:"serve_speeds_x"`
	ServeSpeedsY []float64 `toml:"serve_speeds_y" json:"serve_speeds_y"`
}

// DefaultTable returns the standard 1000x500 table.
func DefaultTable() Table {
	return Table{
		Width:          1000,
		Height:         500,
		PuckRadius:     20,
		PaddleRadius:   30,
		GoalHeight:     30,
		GoalDepth:      100,
		WinScore:       3,
		PaddleRange:    280,
		PaddleMargin:   50,
		HomeInset:      100,
		TrailCapacity:  6,
		WallRebound:    1.15,
		CollisionBoost: 1.5,
		MaxSpeed:       20,
		Separation:     1,
		ServeSpeedsX:   []float64{10, 11, 12},
		ServeSpeedsY:   []float64{7, 8, 9},
	}
}

// clone returns a copy of t that shares no serve speed slices with it.
func (t Table) clone() Table {
	t.ServeSpeedsX = slices.Clone(t.ServeSpeedsX)
	t.ServeSpeedsY = slices.Clone(t.ServeSpeedsY)
	return t
}

// ErrInvalidTable is wrapped by every error returned from Validate.
var ErrInvalidTable = errors.New("invalid table")

// Validate reports the first inconsistency in the tuning.
func (t Table) Validate() error {
	switch {
	case t.Width <= 0 || t.Height <= 0:
		return fmt.Errorf("%w: dimensions %gx%g", ErrInvalidTable, t.Width, t.Height)
	case t.PuckRadius <= 0 || t.PaddleRadius <= 0:
		return fmt.Errorf("%w: radii must be positive", ErrInvalidTable)
	case 2*t.PuckRadius >= t.Height || 2*t.PaddleRadius >= t.Height:
		return fmt.Errorf("%w: table too short for its radii", ErrInvalidTable)
	case t.GoalHeight <= 0 || t.GoalHeight > t.Height:
		return fmt.Errorf("%w: goal height %g", ErrInvalidTable, t.GoalHeight)
	case t.WinScore <= 0:
		return fmt.Errorf("%w: win score %d", ErrInvalidTable, t.WinScore)
	case t.TrailCapacity <= 0:
		return fmt.Errorf("%w: trail capacity %d", ErrInvalidTable, t.TrailCapacity)
	case t.WallRebound <= 1 || t.CollisionBoost <= 1:
		return fmt.Errorf("%w: rebound and boost factors must exceed 1", ErrInvalidTable)
	case t.MaxSpeed <= 0:
		return fmt.Errorf("%w: max speed %g", ErrInvalidTable, t.MaxSpeed)
	case t.Separation < 0:
		return fmt.Errorf("%w: separation %g", ErrInvalidTable, t.Separation)
	case len(t.ServeSpeedsX) == 0 || len(t.ServeSpeedsY) == 0:
		return fmt.Errorf("%w: serve speed sets must not be empty", ErrInvalidTable)
	case !allPositive(t.ServeSpeedsX) || !allPositive(t.ServeSpeedsY):
		return fmt.Errorf("%w: serve speeds must be positive", ErrInvalidTable)
	case t.PaddleRange < 0 || t.PaddleMargin < 0:
		return fmt.Errorf("%w: paddle range %g and margin %g must not be negative", ErrInvalidTable, t.PaddleRange, t.PaddleMargin)
	case t.HomeInset < t.PaddleMargin || t.HomeInset > t.Width/2:
		return fmt.Errorf("%w: home inset %g", ErrInvalidTable, t.HomeInset)
	}
	return nil
}

func allPositive(speeds []float64) bool {
	for _, v := range speeds {
		if v <= 0 {
			return false
		}
	}
	return true
}

// Center returns the centre of the table.
func (t Table) Center() Vec {
	return Vec{X: t.Width / 2, Y: t.Height / 2}
}

// GoalBand returns the inclusive vertical range of the goal mouth.
func (t Table) GoalBand() (top, bottom float64) {
	return t.Height/2 - t.GoalHeight/2, t.Height/2 + t.GoalHeight/2
}

// InGoalBand reports whether y lies inside the goal mouth.
func (t Table) InGoalBand(y float64) bool {
	top, bottom := t.GoalBand()
	return y >= top && y <= bottom
}

// HomeX returns the resting x coordinate of the paddle on side s.
func (t Table) HomeX(s Side) float64 {
	if s == SideRight {
		return t.Width - t.HomeInset
	}
	return t.HomeInset
}
