package selection

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Sawamura-Jun/Batch-Cropper/internal/app"
	"github.com/Sawamura-Jun/Batch-Cropper/pkg/geometry"
)

func newTestEngine() *Engine {
	e := NewEngine(app.DefaultConfig())
	e.SetPanelSize(geometry.NewSize(800, 600))
	e.SetSourceSize(geometry.NewSize(1600, 1200))
	return e
}

func requireRectValid(t *testing.T, e *Engine) {
	t.Helper()
	r, ok := e.Rect()
	require.True(t, ok)
	require.GreaterOrEqual(t, r.Width, 4)
	require.GreaterOrEqual(t, r.Height, 4)
	require.GreaterOrEqual(t, r.X, 0)
	require.GreaterOrEqual(t, r.Y, 0)
	require.LessOrEqual(t, r.Right(), e.Geometry().Display.Width)
	require.LessOrEqual(t, r.Bottom(), e.Geometry().Display.Height)
}

func TestCreateScenario(t *testing.T) {
	e := newTestEngine()
	e.Create(geometry.NewPoint(100, 100), geometry.NewPoint(300, 300))

	r, ok := e.Rect()
	require.True(t, ok)
	require.Equal(t, geometry.NewRect(100, 100, 200, 200), r)

	box, ok := e.SourceBox()
	require.True(t, ok)
	require.Equal(t, geometry.NewBox(200, 200, 600, 600), box)
}

func TestCreateSwappedCorners(t *testing.T) {
	e := newTestEngine()
	e.Create(geometry.NewPoint(300, 300), geometry.NewPoint(100, 100))

	r, _ := e.Rect()
	require.Equal(t, geometry.NewRect(100, 100, 200, 200), r)
}

func TestCreateZeroDrag(t *testing.T) {
	e := newTestEngine()
	e.Create(geometry.NewPoint(400, 300), geometry.NewPoint(400, 300))
	requireRectValid(t, e)

	r, _ := e.Rect()
	require.Equal(t, 4, r.Width)
	require.Equal(t, 4, r.Height)
}

func TestCreateClampsOutsidePoints(t *testing.T) {
	e := newTestEngine()
	e.Create(geometry.NewPoint(-200, -100), geometry.NewPoint(5000, 5000))

	r, _ := e.Rect()
	require.Equal(t, geometry.NewRect(0, 0, 800, 600), r)
}

func TestCreateAspectLockedDominantAxis(t *testing.T) {
	e := newTestEngine()
	e.SetLock(AspectLock{Enabled: true, W: 16, H: 9})

	// horizontal drag dominates, width is derived from height
	e.Create(geometry.NewPoint(100, 100), geometry.NewPoint(300, 160))
	r, _ := e.Rect()
	require.Equal(t, 100, r.X)
	require.Equal(t, 100, r.Y)
	require.Equal(t, 60, r.Height)
	require.InDelta(t, 16.0/9.0, float64(r.Width)/float64(r.Height), 0.02)

	// vertical drag dominates, height is derived from width
	e.Create(geometry.NewPoint(100, 100), geometry.NewPoint(160, 300))
	r, _ = e.Rect()
	require.Equal(t, 60, r.Width)
	require.InDelta(t, 16.0/9.0, float64(r.Width)/float64(r.Height), 0.02)
}

func TestCreateAspectLockedNegativeDirection(t *testing.T) {
	e := newTestEngine()
	e.SetLock(AspectLock{Enabled: true, W: 16, H: 9})
	e.Create(geometry.NewPoint(300, 300), geometry.NewPoint(100, 240))

	r, _ := e.Rect()
	// grows away from the anchor: up and to the left
	require.Equal(t, 300, r.Right())
	require.Equal(t, 300, r.Bottom())
	require.Equal(t, 60, r.Height)
	require.InDelta(t, 16.0/9.0, float64(r.Width)/float64(r.Height), 0.02)
}

func TestCreateAspectLockedZeroAxis(t *testing.T) {
	e := newTestEngine()
	e.SetLock(AspectLock{Enabled: true, W: 16, H: 9})
	e.Create(geometry.NewPoint(100, 100), geometry.NewPoint(300, 100))

	r, _ := e.Rect()
	require.NotZero(t, r.Height)
	require.InDelta(t, 16.0/9.0, float64(r.Width)/float64(r.Height), 0.02)
}

func TestMoveSlidesBackInBounds(t *testing.T) {
	e := newTestEngine()
	orig := geometry.NewRect(100, 100, 200, 200)

	e.MoveBy(orig, -500, -500)
	r, _ := e.Rect()
	require.Equal(t, geometry.NewRect(0, 0, 200, 200), r)

	e.MoveBy(orig, 10000, 10000)
	r, _ = e.Rect()
	require.Equal(t, geometry.NewRect(600, 400, 200, 200), r)
}

func TestMoveNeverResizes(t *testing.T) {
	e := newTestEngine()
	orig := geometry.NewRect(250, 180, 140, 90)
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 100; i++ {
		e.MoveBy(orig, rng.Intn(2001)-1000, rng.Intn(2001)-1000)
		r, _ := e.Rect()
		require.Equal(t, orig.Width, r.Width)
		require.Equal(t, orig.Height, r.Height)
		requireRectValid(t, e)
	}
}

func TestResizeFreeSingleEdges(t *testing.T) {
	e := newTestEngine()
	orig := geometry.NewRect(200, 150, 200, 150)

	e.ResizeTo(orig, HandleRight, geometry.NewPoint(500, 400))
	r, _ := e.Rect()
	require.Equal(t, geometry.NewRect(200, 150, 300, 150), r)

	e.ResizeTo(orig, HandleLeft, geometry.NewPoint(50, 0))
	r, _ = e.Rect()
	require.Equal(t, geometry.NewRect(50, 150, 350, 150), r)

	e.ResizeTo(orig, HandleTop, geometry.NewPoint(700, 100))
	r, _ = e.Rect()
	require.Equal(t, geometry.NewRect(200, 100, 200, 200), r)

	e.ResizeTo(orig, HandleBottom, geometry.NewPoint(0, 500))
	r, _ = e.Rect()
	require.Equal(t, geometry.NewRect(200, 150, 200, 350), r)
}

func TestResizeFreeCorner(t *testing.T) {
	e := newTestEngine()
	orig := geometry.NewRect(200, 150, 200, 150)

	e.ResizeTo(orig, HandleBottomRight, geometry.NewPoint(500, 500))
	r, _ := e.Rect()
	require.Equal(t, geometry.NewRect(200, 150, 300, 350), r)

	e.ResizeTo(orig, HandleTopLeft, geometry.NewPoint(100, 50))
	r, _ = e.Rect()
	require.Equal(t, geometry.NewRect(100, 50, 300, 250), r)
}

func TestResizeFreeMinSizeGuard(t *testing.T) {
	e := newTestEngine()
	orig := geometry.NewRect(200, 150, 200, 150)

	// dragging the left edge past the right edge stops at minimum width
	e.ResizeTo(orig, HandleLeft, geometry.NewPoint(1000, 200))
	r, _ := e.Rect()
	require.Equal(t, 4, r.Width)
	require.Equal(t, 400, r.Right())

	e.ResizeTo(orig, HandleTop, geometry.NewPoint(200, 1000))
	r, _ = e.Rect()
	require.Equal(t, 4, r.Height)
	require.Equal(t, 300, r.Bottom())
}

func TestResizeLockedRightEdgePivots(t *testing.T) {
	e := newTestEngine()
	e.SetLock(AspectLock{Enabled: true, W: 2, H: 1})
	orig := geometry.NewRect(300, 200, 200, 100)

	e.ResizeTo(orig, HandleRight, geometry.NewPoint(700, 0))
	r, _ := e.Rect()
	// left edge stays anchored, vertical center stays put
	require.Equal(t, 300, r.X)
	require.Equal(t, geometry.NewRect(300, 150, 400, 200), r)
	require.Equal(t, orig.Center().Y, r.Center().Y)
	require.InDelta(t, 2.0, float64(r.Width)/float64(r.Height), 0.02)
}

func TestResizeLockedLeftEdgePivots(t *testing.T) {
	e := newTestEngine()
	e.SetLock(AspectLock{Enabled: true, W: 2, H: 1})
	orig := geometry.NewRect(300, 200, 200, 100)

	e.ResizeTo(orig, HandleLeft, geometry.NewPoint(100, 500))
	r, _ := e.Rect()
	require.Equal(t, 500, r.Right())
	require.Equal(t, geometry.NewRect(100, 150, 400, 200), r)
}

func TestResizeLockedTopEdgePivots(t *testing.T) {
	e := newTestEngine()
	e.SetLock(AspectLock{Enabled: true, W: 1, H: 1})
	orig := geometry.NewRect(300, 200, 200, 200)

	e.ResizeTo(orig, HandleTop, geometry.NewPoint(0, 100))
	r, _ := e.Rect()
	// bottom edge stays anchored, horizontal center stays put
	require.Equal(t, 400, r.Bottom())
	require.Equal(t, geometry.NewRect(250, 100, 300, 300), r)
}

func TestResizeLockedCornerAnchorsOpposite(t *testing.T) {
	e := newTestEngine()
	e.SetLock(AspectLock{Enabled: true, W: 1, H: 1})
	orig := geometry.NewRect(100, 100, 200, 200)

	e.ResizeTo(orig, HandleBottomRight, geometry.NewPoint(500, 400))
	r, _ := e.Rect()
	require.Equal(t, geometry.NewRect(100, 100, 300, 300), r)

	e.ResizeTo(orig, HandleTopLeft, geometry.NewPoint(80, 50))
	r, _ = e.Rect()
	require.Equal(t, 300, r.Right())
	require.Equal(t, 300, r.Bottom())
	require.Equal(t, geometry.NewRect(80, 80, 220, 220), r)
}

func TestRescaleUniform(t *testing.T) {
	e := newTestEngine()
	e.SetRect(geometry.NewRect(100, 100, 200, 200))

	e.SetPanelSize(geometry.NewSize(400, 300))
	r, _ := e.Rect()
	require.Equal(t, geometry.NewRect(50, 50, 100, 100), r)

	e.SetPanelSize(geometry.NewSize(800, 600))
	r, _ = e.Rect()
	require.Equal(t, geometry.NewRect(100, 100, 200, 200), r)
}

func TestRescaleKeepsRatioUnderLock(t *testing.T) {
	e := newTestEngine()
	e.SetLock(AspectLock{Enabled: true, W: 16, H: 9})
	e.Create(geometry.NewPoint(100, 100), geometry.NewPoint(500, 400))
	requireRectValid(t, e)

	for _, panel := range []geometry.Size{
		geometry.NewSize(640, 480),
		geometry.NewSize(1200, 900),
		geometry.NewSize(900, 700),
	} {
		e.SetPanelSize(panel)
		requireRectValid(t, e)
		r, _ := e.Rect()
		require.InDelta(t, 16.0/9.0, float64(r.Width)/float64(r.Height), 0.02)
	}
}

func TestApplyAspectScenario(t *testing.T) {
	e := newTestEngine()
	e.SetRect(geometry.NewRect(0, 0, 200, 200))
	e.SetLock(AspectLock{Enabled: true, W: 16, H: 9})
	e.ApplyAspect()

	r, _ := e.Rect()
	require.InDelta(t, 16.0/9.0, float64(r.Width)/float64(r.Height), 0.02)
	require.InDelta(t, 100, r.Center().X, 1.5)
	require.InDelta(t, 100, r.Center().Y, 1.5)
	requireRectValid(t, e)
}

func TestApplyAspectFallsBackToHeight(t *testing.T) {
	e := newTestEngine()
	e.SetRect(geometry.NewRect(0, 200, 790, 100))
	e.SetLock(AspectLock{Enabled: true, W: 1, H: 10})
	e.ApplyAspect()

	r, _ := e.Rect()
	require.InDelta(t, 0.1, float64(r.Width)/float64(r.Height), 0.02)
	requireRectValid(t, e)
}

func TestInitRectDefault(t *testing.T) {
	e := newTestEngine()
	e.InitRect()
	r, _ := e.Rect()
	require.Equal(t, geometry.NewRect(300, 200, 200, 200), r)
}

func TestInitRectLockedWide(t *testing.T) {
	e := newTestEngine()
	e.SetLock(AspectLock{Enabled: true, W: 16, H: 9})
	e.InitRect()

	r, _ := e.Rect()
	require.InDelta(t, 16.0/9.0, float64(r.Width)/float64(r.Height), 0.02)
	require.InDelta(t, 400, r.Center().X, 1.5)
	require.InDelta(t, 300, r.Center().Y, 1.5)
}

func TestInitRectLockedTall(t *testing.T) {
	e := newTestEngine()
	e.SetLock(AspectLock{Enabled: true, W: 9, H: 16})
	e.InitRect()

	r, _ := e.Rect()
	require.InDelta(t, 9.0/16.0, float64(r.Width)/float64(r.Height), 0.02)
	requireRectValid(t, e)
}

func TestSetSourceBoxRoundTrip(t *testing.T) {
	e := newTestEngine()
	e.SetSourceBox(geometry.NewBox(200, 200, 600, 600))

	r, _ := e.Rect()
	require.Equal(t, geometry.NewRect(100, 100, 200, 200), r)

	box, _ := e.SourceBox()
	require.Equal(t, geometry.NewBox(200, 200, 600, 600), box)
}

func TestSetSourceSizePreservesClippedRect(t *testing.T) {
	e := newTestEngine()
	e.SetRect(geometry.NewRect(500, 400, 250, 150))

	// a new image with the same display keeps the rect untouched
	e.SetSourceSize(geometry.NewSize(3200, 2400))
	r, _ := e.Rect()
	require.Equal(t, geometry.NewRect(500, 400, 250, 150), r)

	// a much narrower display clips it back inside
	e.SetSourceSize(geometry.NewSize(100, 1000))
	requireRectValid(t, e)
}

func TestSetSourceSizeSeedsDefaultRect(t *testing.T) {
	e := NewEngine(app.DefaultConfig())
	e.SetPanelSize(geometry.NewSize(800, 600))
	_, ok := e.Rect()
	require.False(t, ok)

	e.SetSourceSize(geometry.NewSize(1600, 1200))
	_, ok = e.Rect()
	require.True(t, ok)
	requireRectValid(t, e)
}

func TestEngineSuspendedWithoutGeometry(t *testing.T) {
	e := NewEngine(app.DefaultConfig())

	e.Create(geometry.NewPoint(0, 0), geometry.NewPoint(100, 100))
	_, ok := e.Rect()
	require.False(t, ok)

	e.SetRect(geometry.NewRect(10, 10, 50, 50))
	_, ok = e.Rect()
	require.False(t, ok)

	_, ok = e.SourceBox()
	require.False(t, ok)
}

func TestResetDropsSelection(t *testing.T) {
	e := newTestEngine()
	requireRectValid(t, e)

	e.Reset()
	_, ok := e.Rect()
	require.False(t, ok)
	require.False(t, e.Geometry().Valid())
}

func TestCursorAt(t *testing.T) {
	e := newTestEngine()
	e.SetRect(geometry.NewRect(300, 200, 200, 200))

	require.Equal(t, CursorSizeNWSE, e.CursorAt(geometry.NewPoint(300, 200)))
	require.Equal(t, CursorSizeNWSE, e.CursorAt(geometry.NewPoint(500, 400)))
	require.Equal(t, CursorSizeNESW, e.CursorAt(geometry.NewPoint(500, 200)))
	require.Equal(t, CursorSizeWE, e.CursorAt(geometry.NewPoint(300, 300)))
	require.Equal(t, CursorSizeNS, e.CursorAt(geometry.NewPoint(400, 200)))
	require.Equal(t, CursorMove, e.CursorAt(geometry.NewPoint(400, 300)))
	require.Equal(t, CursorCross, e.CursorAt(geometry.NewPoint(50, 50)))
	require.Equal(t, CursorArrow, e.CursorAt(geometry.NewPoint(-50, 50)))
}

// TestInvariantUnderRandomOps hammers the engine with arbitrary operation
// sequences; the rectangle must stay inside the display at or above the
// minimum size throughout, and hold the locked ratio when large enough for
// rounding not to dominate.
func TestInvariantUnderRandomOps(t *testing.T) {
	e := newTestEngine()
	rng := rand.New(rand.NewSource(42))
	handles := []Handle{
		HandleTopLeft, HandleTop, HandleTopRight, HandleRight,
		HandleBottomRight, HandleBottom, HandleBottomLeft, HandleLeft,
	}

	randPoint := func() geometry.Point {
		return geometry.NewPoint(rng.Intn(1200)-200, rng.Intn(1000)-200)
	}

	for i := 0; i < 2000; i++ {
		switch rng.Intn(6) {
		case 0:
			e.Create(randPoint(), randPoint())
		case 1:
			r, _ := e.Rect()
			e.MoveBy(r, rng.Intn(1000)-500, rng.Intn(1000)-500)
		case 2:
			r, _ := e.Rect()
			e.ResizeTo(r, handles[rng.Intn(len(handles))], randPoint())
		case 3:
			e.SetPanelSize(geometry.NewSize(100+rng.Intn(1500), 100+rng.Intn(1200)))
		case 4:
			if rng.Intn(2) == 0 {
				e.SetLock(AspectLock{Enabled: true, W: 16, H: 9})
			} else {
				e.SetLock(AspectLock{})
			}
			e.ApplyAspect()
		case 5:
			e.SetSourceBox(geometry.NewBox(
				rng.Intn(1600), rng.Intn(1200),
				rng.Intn(1600)+1, rng.Intn(1200)+1))
		}

		requireRectValid(t, e)
	}
}
