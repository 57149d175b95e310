package hockey

import "math"

// Rand is the randomness a puck serve needs. *rand.Rand from math/rand/v2
// satisfies it; tests pass a seeded one.
type Rand interface {
	IntN(n int) int
}

// Puck is the single moving object on the table.
type Puck struct {
	Pos   Vec
	Vel   Vec
	Trail *Trail

	table *Table
}

// Step describes what happened to the puck during one Advance.
type Step struct {
	// Goal is the side that scored, or SideNone.
	Goal       Side
	PaddleHits []Side
	WallBounce bool
}

// NewPuck creates a puck on t and serves it with rng.
func NewPuck(t *Table, rng Rand) *Puck {
	p := &Puck{
		table: t,
		Trail: NewTrail(t.TrailCapacity),
	}
	p.Reset(rng)
	return p
}

// Reset puts the puck on the centre spot with a fresh random serve and an
// empty trail.
func (p *Puck) Reset(rng Rand) {
	t := p.table
	p.Pos = t.Center()
	p.Vel = Vec{
		X: pickSpeed(rng, t.ServeSpeedsX),
		Y: pickSpeed(rng, t.ServeSpeedsY),
	}
	p.capSpeed()
	p.Trail.Clear()
}

func pickSpeed(rng Rand, speeds []float64) float64 {
	s := speeds[rng.IntN(len(speeds))]
	if rng.IntN(2) == 0 {
		return -s
	}
	return s
}

// Speed returns the magnitude of the puck velocity.
func (p *Puck) Speed() float64 { return p.Vel.Len() }

// Advance moves the puck by one tick, resolves wall and paddle collisions
// and checks the goal lines.
func (p *Puck) Advance(left, right *Paddle) Step {
	var step Step

	p.Trail.Push(p.Pos)
	p.Pos = p.Pos.Add(p.Vel)

	if p.bounceRails(true) {
		step.WallBounce = true
	}

	for _, paddle := range []*Paddle{left, right} {
		if paddle != nil && p.hit(paddle) {
			step.PaddleHits = append(step.PaddleHits, paddle.Side)
		}
	}

	if scorer := p.goal(); scorer != SideNone {
		step.Goal = scorer
		return step
	}

	if p.bounceEnds() {
		step.WallBounce = true
	}
	// A paddle push can shove the puck back through a rail.
	if p.bounceRails(false) {
		step.WallBounce = true
	}
	return step
}

// bounceRails resolves the top and bottom walls. The rebound factor is only
// applied to a genuine wall hit, not to the correction after a paddle push.
func (p *Puck) bounceRails(lively bool) bool {
	t := p.table
	r := t.PuckRadius
	factor := 1.0
	if lively {
		factor = t.WallRebound
	}

	var incoming bool
	switch {
	case p.Pos.Y-r <= 0:
		incoming = p.Vel.Y < 0
		p.Pos.Y = r
		p.Vel.Y = math.Abs(p.Vel.Y) * factor
	case p.Pos.Y+r >= t.Height:
		incoming = p.Vel.Y > 0
		p.Pos.Y = t.Height - r
		p.Vel.Y = -math.Abs(p.Vel.Y) * factor
	default:
		return false
	}
	p.capSpeed()
	return incoming
}

// bounceEnds keeps the puck on the table when it reaches an end wall
// outside the goal mouth.
func (p *Puck) bounceEnds() bool {
	t := p.table
	r := t.PuckRadius

	switch {
	case p.Pos.X-r <= 0:
		p.Pos.X = r
		p.Vel.X = math.Abs(p.Vel.X)
	case p.Pos.X+r >= t.Width:
		p.Pos.X = t.Width - r
		p.Vel.X = -math.Abs(p.Vel.X)
	default:
		return false
	}
	return true
}

func (p *Puck) hit(paddle *Paddle) bool {
	t := p.table
	reach := t.PuckRadius + t.PaddleRadius
	dist := p.Pos.Dist(paddle.Pos)
	if dist >= reach {
		return false
	}

	angle := math.Atan2(p.Pos.Y-paddle.Pos.Y, p.Pos.X-paddle.Pos.X)
	dir := Vec{X: math.Cos(angle), Y: math.Sin(angle)}

	speed := math.Min(p.Speed()*t.CollisionBoost, t.MaxSpeed)
	p.Vel = dir.Scale(speed)

	overlap := reach - dist + t.Separation
	p.Pos = p.Pos.Add(dir.Scale(overlap))
	return true
}

// goal returns the side that scored. Crossing the left end line inside
// the goal mouth is a point for the right player and vice versa.
func (p *Puck) goal() Side {
	t := p.table
	r := t.PuckRadius

	switch {
	case p.Pos.X-r <= 0:
		if t.InGoalBand(p.Pos.Y) {
			return SideRight
		}
	case p.Pos.X+r >= t.Width:
		if t.InGoalBand(p.Pos.Y) {
			return SideLeft
		}
	}
	return SideNone
}

func (p *Puck) capSpeed() {
	s := p.Speed()
	if s > p.table.MaxSpeed {
		p.Vel = p.Vel.Scale(p.table.MaxSpeed / s)
	}
}
