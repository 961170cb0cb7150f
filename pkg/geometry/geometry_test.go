package geometry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRectEdges(t *testing.T) {
	r := NewRect(10, 20, 30, 40)
	require.Equal(t, 40, r.Right())
	require.Equal(t, 60, r.Bottom())
	require.Equal(t, Point{X: 25, Y: 40}, r.Center())
	require.Equal(t, 1200, r.Area())
}

func TestRectContains(t *testing.T) {
	r := NewRect(0, 0, 100, 50)
	require.True(t, r.Contains(Point{X: 0, Y: 0}))
	require.True(t, r.Contains(Point{X: 100, Y: 50}))
	require.False(t, r.Contains(Point{X: 101, Y: 25}))
	require.False(t, r.Contains(Point{X: 50, Y: -1}))
}

func TestRectIntersect(t *testing.T) {
	a := NewRect(0, 0, 100, 100)
	b := NewRect(50, 50, 100, 100)
	require.Equal(t, NewRect(50, 50, 50, 50), a.Intersect(b))

	c := NewRect(200, 200, 10, 10)
	require.True(t, a.Intersect(c).Empty())
}

func TestRectIoU(t *testing.T) {
	a := NewRect(0, 0, 100, 100)
	require.InDelta(t, 1.0, a.IoU(a), 1e-9)

	b := NewRect(50, 0, 100, 100)
	// overlap 50x100 = 5000, union 15000
	require.InDelta(t, 1.0/3.0, a.IoU(b), 1e-9)

	require.Zero(t, a.IoU(NewRect(500, 500, 10, 10)))
}

func TestBoxValid(t *testing.T) {
	require.True(t, NewBox(0, 0, 1, 1).Valid())
	require.False(t, NewBox(5, 5, 5, 10).Valid())
	require.False(t, NewBox(5, 5, 10, 5).Valid())
	require.Equal(t, 20, NewBox(10, 10, 30, 40).Width())
	require.Equal(t, 30, NewBox(10, 10, 30, 40).Height())
}
