package hockey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrail_PushEvictsOldest(t *testing.T) {
	tr := NewTrail(3)
	for i := 1; i <= 5; i++ {
		tr.Push(Vec{X: float64(i)})
	}

	assert.Equal(t, 3, tr.Len())
	assert.Equal(t, []Vec{{X: 3}, {X: 4}, {X: 5}}, tr.Points())
}

func TestTrail_PointsIsACopy(t *testing.T) {
	tr := NewTrail(2)
	tr.Push(Vec{X: 1, Y: 1})

	pts := tr.Points()
	pts[0] = Vec{X: 99}

	assert.Equal(t, []Vec{{X: 1, Y: 1}}, tr.Points())
}

func TestTrail_Clear(t *testing.T) {
	tr := NewTrail(4)
	tr.Push(Vec{X: 1})
	tr.Push(Vec{X: 2})
	tr.Clear()

	assert.Zero(t, tr.Len())
	assert.Empty(t, tr.Points())

	tr.Push(Vec{X: 7})
	assert.Equal(t, []Vec{{X: 7}}, tr.Points())
}

func TestNewTrail_MinimumCapacity(t *testing.T) {
	tr := NewTrail(0)
	assert.Equal(t, 1, tr.Cap())

	tr.Push(Vec{X: 1})
	tr.Push(Vec{X: 2})
	assert.Equal(t, []Vec{{X: 2}}, tr.Points())
}
