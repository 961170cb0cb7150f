package selection

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Sawamura-Jun/Batch-Cropper/pkg/geometry"
)

func TestComputeGeometryHalfScale(t *testing.T) {
	g := ComputeGeometry(geometry.NewSize(800, 600), geometry.NewSize(1600, 1200))
	require.True(t, g.Valid())
	require.InDelta(t, 0.5, g.Scale, 1e-9)
	require.Equal(t, geometry.NewSize(800, 600), g.Display)
	require.Equal(t, geometry.Point{}, g.Offset)
}

func TestComputeGeometryLetterbox(t *testing.T) {
	// wide panel, image constrained by height
	g := ComputeGeometry(geometry.NewSize(1000, 600), geometry.NewSize(1600, 1200))
	require.InDelta(t, 0.5, g.Scale, 1e-9)
	require.Equal(t, geometry.NewSize(800, 600), g.Display)
	require.Equal(t, geometry.Point{X: 100, Y: 0}, g.Offset)

	p := g.PanelToDisplay(geometry.Point{X: 150, Y: 40})
	require.Equal(t, geometry.Point{X: 50, Y: 40}, p)
	require.Equal(t, geometry.Point{X: 150, Y: 40}, g.DisplayToPanel(p))
}

func TestComputeGeometryUpscalesSmallImage(t *testing.T) {
	g := ComputeGeometry(geometry.NewSize(800, 600), geometry.NewSize(80, 60))
	require.InDelta(t, 10.0, g.Scale, 1e-9)
	require.Equal(t, geometry.NewSize(800, 600), g.Display)
}

func TestComputeGeometryZeroPanel(t *testing.T) {
	g := ComputeGeometry(geometry.Size{}, geometry.NewSize(1600, 1200))
	require.False(t, g.Valid())

	g = ComputeGeometry(geometry.NewSize(800, 600), geometry.Size{})
	require.False(t, g.Valid())
}

func TestClampToDisplay(t *testing.T) {
	g := ComputeGeometry(geometry.NewSize(800, 600), geometry.NewSize(1600, 1200))
	require.Equal(t, geometry.Point{}, g.ClampToDisplay(geometry.Point{X: -50, Y: -10}))
	require.Equal(t, geometry.Point{X: 800, Y: 600}, g.ClampToDisplay(geometry.Point{X: 2000, Y: 900}))
	require.True(t, g.InDisplay(geometry.Point{X: 800, Y: 600}))
	require.False(t, g.InDisplay(geometry.Point{X: 801, Y: 600}))
}

func TestSourceBoxScenario(t *testing.T) {
	g := ComputeGeometry(geometry.NewSize(800, 600), geometry.NewSize(1600, 1200))
	box := g.SourceBox(geometry.NewRect(100, 100, 200, 200))
	require.Equal(t, geometry.NewBox(200, 200, 600, 600), box)
}

func TestSourceBoxNeverEmpty(t *testing.T) {
	g := ComputeGeometry(geometry.NewSize(800, 600), geometry.NewSize(1600, 1200))

	box := g.SourceBox(geometry.NewRect(400, 300, 0, 0))
	require.True(t, box.Valid())

	// degenerate rect at the far corner still yields a 1px box inside bounds
	box = g.SourceBox(geometry.NewRect(800, 600, 0, 0))
	require.True(t, box.Valid())
	require.LessOrEqual(t, box.X2, 1600)
	require.LessOrEqual(t, box.Y2, 1200)
}

func TestSourceBoxClampsOverflow(t *testing.T) {
	g := ComputeGeometry(geometry.NewSize(800, 600), geometry.NewSize(1600, 1200))
	box := g.SourceBox(geometry.NewRect(-10, -10, 900, 700))
	require.Equal(t, geometry.NewBox(0, 0, 1600, 1200), box)
}

func TestSourceBoxCoversSelection(t *testing.T) {
	// odd scale so floor/ceil actually matter
	g := ComputeGeometry(geometry.NewSize(640, 480), geometry.NewSize(1000, 750))
	r := geometry.NewRect(33, 47, 101, 59)
	box := g.SourceBox(r)

	sx := float64(g.Source.Width) / float64(g.Display.Width)
	sy := float64(g.Source.Height) / float64(g.Display.Height)
	require.LessOrEqual(t, float64(box.X1), float64(r.X)*sx)
	require.LessOrEqual(t, float64(box.Y1), float64(r.Y)*sy)
	require.GreaterOrEqual(t, float64(box.X2), float64(r.Right())*sx)
	require.GreaterOrEqual(t, float64(box.Y2), float64(r.Bottom())*sy)
}

func TestRoundTripIoU(t *testing.T) {
	g := ComputeGeometry(geometry.NewSize(800, 600), geometry.NewSize(1333, 997))
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		w := 120 + rng.Intn(g.Display.Width-120)
		h := 120 + rng.Intn(g.Display.Height-120)
		x := rng.Intn(g.Display.Width - w + 1)
		y := rng.Intn(g.Display.Height - h + 1)
		r := geometry.NewRect(x, y, w, h)

		back := g.DisplayRect(g.SourceBox(r))
		require.Greater(t, r.IoU(back), 0.95, "rect %+v came back as %+v", r, back)
	}
}
