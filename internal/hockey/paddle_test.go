package hockey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaddle_Home(t *testing.T) {
	table := DefaultTable()

	left := NewPaddle(&table, SideLeft)
	right := NewPaddle(&table, SideRight)

	assert.Equal(t, Vec{X: 100, Y: 250}, left.Pos)
	assert.Equal(t, Vec{X: 900, Y: 250}, right.Pos)
}

func TestPaddle_Update(t *testing.T) {
	tests := []struct {
		name string
		side Side
		in   Vec
		want Vec
	}{
		{"left inside zone", SideLeft, Vec{X: 200, Y: 300}, Vec{X: 200, Y: 300}},
		{"left past edge margin", SideLeft, Vec{X: -500, Y: 250}, Vec{X: 50, Y: 250}},
		{"left past range", SideLeft, Vec{X: 900, Y: 250}, Vec{X: 380, Y: 250}},
		{"left above table", SideLeft, Vec{X: 200, Y: -40}, Vec{X: 200, Y: 30}},
		{"left below table", SideLeft, Vec{X: 200, Y: 9000}, Vec{X: 200, Y: 470}},
		{"right inside zone", SideRight, Vec{X: 800, Y: 100}, Vec{X: 800, Y: 100}},
		{"right past edge margin", SideRight, Vec{X: 1200, Y: 250}, Vec{X: 950, Y: 250}},
		{"right past range", SideRight, Vec{X: 0, Y: 250}, Vec{X: 620, Y: 250}},
		{"right corner", SideRight, Vec{X: 5000, Y: 5000}, Vec{X: 950, Y: 470}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := DefaultTable()
			p := NewPaddle(&table, tt.side)
			p.Update(tt.in.X, tt.in.Y)
			assert.Equal(t, tt.want, p.Pos)
		})
	}
}

func TestPaddle_XRange_StaysOnOwnHalf(t *testing.T) {
	table := DefaultTable()
	table.PaddleRange = 800

	left := NewPaddle(&table, SideLeft)
	right := NewPaddle(&table, SideRight)

	_, leftHi := left.XRange()
	rightLo, _ := right.XRange()
	assert.Equal(t, 500.0, leftHi)
	assert.Equal(t, 500.0, rightLo)
}

func TestPaddle_Update_AlwaysInRange(t *testing.T) {
	table := DefaultTable()
	rng := seeded(3)

	for _, side := range []Side{SideLeft, SideRight} {
		p := NewPaddle(&table, side)
		lo, hi := p.XRange()
		for i := 0; i < 5000; i++ {
			x := float64(rng.IntN(40000)) - 20000
			y := float64(rng.IntN(40000)) - 20000
			p.Update(x, y)

			if p.Pos.X < lo || p.Pos.X > hi {
				t.Fatalf("%v x = %f outside [%f, %f]", side, p.Pos.X, lo, hi)
			}
			if p.Pos.Y < table.PaddleRadius || p.Pos.Y > table.Height-table.PaddleRadius {
				t.Fatalf("%v y = %f outside table", side, p.Pos.Y)
			}
		}
	}
}

func TestPaddle_Home(t *testing.T) {
	table := DefaultTable()
	p := NewPaddle(&table, SideRight)
	p.Update(700, 60)
	p.Home()
	assert.Equal(t, Vec{X: 900, Y: 250}, p.Pos)
}
