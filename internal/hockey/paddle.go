package hockey

// Paddle is a player's striker. Its position is driven by an external input
// coordinate and always kept inside the player's zone.
type Paddle struct {
	Pos   Vec
	HomeX float64
	Side  Side

	table *Table
}

// NewPaddle creates a paddle for side s resting at its home position.
func NewPaddle(t *Table, s Side) *Paddle {
	p := &Paddle{
		HomeX: t.HomeX(s),
		Side:  s,
		table: t,
	}
	p.Home()
	return p
}

// Update moves the paddle towards (x, y). Coordinates outside the paddle's
// zone are clamped, never rejected.
func (p *Paddle) Update(x, y float64) {
	minX, maxX := p.XRange()
	t := p.table
	p.Pos = Vec{
		X: clamp(x, minX, maxX),
		Y: clamp(y, t.PaddleRadius, t.Height-t.PaddleRadius),
	}
}

// XRange returns the horizontal limits of the paddle's zone: the movement
// range around home, never past the centre line or the edge margin.
func (p *Paddle) XRange() (lo, hi float64) {
	t := p.table
	half := t.Width / 2
	if p.Side == SideRight {
		return max(p.HomeX-t.PaddleRange, half), t.Width - t.PaddleMargin
	}
	return t.PaddleMargin, min(p.HomeX+t.PaddleRange, half)
}

// Home puts the paddle back on its resting spot.
func (p *Paddle) Home() {
	p.Pos = Vec{X: p.HomeX, Y: p.table.Height / 2}
}
