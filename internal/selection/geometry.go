package selection

import (
	"math"

	"github.com/Sawamura-Jun/Batch-Cropper/pkg/geometry"
)

// DisplayGeometry maps between panel, display and source coordinate spaces.
// The display area is the scaled image, centered in the panel; its size is
// source scaled by min(panelW/sourceW, panelH/sourceH).
type DisplayGeometry struct {
	Panel   geometry.Size  `json:"panel"`
	Source  geometry.Size  `json:"source"`
	Scale   float64        `json:"scale"`
	Display geometry.Size  `json:"display"`
	Offset  geometry.Point `json:"offset"`
}

// ComputeGeometry derives the display geometry for a source image shown in a
// panel. A zero-area panel or source yields an invalid geometry.
func ComputeGeometry(panel, source geometry.Size) DisplayGeometry {
	g := DisplayGeometry{Panel: panel, Source: source}
	if panel.Empty() || source.Empty() {
		return g
	}
	sx := float64(panel.Width) / float64(source.Width)
	sy := float64(panel.Height) / float64(source.Height)
	g.Scale = math.Min(sx, sy)
	g.Display = geometry.Size{
		Width:  int(math.Round(float64(source.Width) * g.Scale)),
		Height: int(math.Round(float64(source.Height) * g.Scale)),
	}
	g.Offset = geometry.Point{
		X: (panel.Width - g.Display.Width) / 2,
		Y: (panel.Height - g.Display.Height) / 2,
	}
	return g
}

// Valid reports whether the geometry can host a selection rectangle.
func (g DisplayGeometry) Valid() bool {
	return g.Scale > 0 && !g.Display.Empty()
}

// PanelToDisplay converts a panel point to display space. No clamping.
func (g DisplayGeometry) PanelToDisplay(p geometry.Point) geometry.Point {
	return geometry.Point{X: p.X - g.Offset.X, Y: p.Y - g.Offset.Y}
}

// DisplayToPanel converts a display point back to panel space.
func (g DisplayGeometry) DisplayToPanel(p geometry.Point) geometry.Point {
	return geometry.Point{X: p.X + g.Offset.X, Y: p.Y + g.Offset.Y}
}

// ClampToDisplay clamps a display point into [0, displayW] x [0, displayH].
func (g DisplayGeometry) ClampToDisplay(p geometry.Point) geometry.Point {
	return geometry.Point{
		X: clamp(p.X, 0, g.Display.Width),
		Y: clamp(p.Y, 0, g.Display.Height),
	}
}

// InDisplay reports whether a display point lies within the display area.
func (g DisplayGeometry) InDisplay(p geometry.Point) bool {
	return p.X >= 0 && p.X <= g.Display.Width && p.Y >= 0 && p.Y <= g.Display.Height
}

// SourceBox converts a display rectangle to a source-space crop box. The
// top-left corner is floored and the bottom-right ceiled so the box never
// shrinks below the selected area; the result is clamped into the source
// bounds and is never empty, even for a zero-area input.
func (g DisplayGeometry) SourceBox(r geometry.Rect) geometry.Box {
	sx := float64(g.Source.Width) / float64(g.Display.Width)
	sy := float64(g.Source.Height) / float64(g.Display.Height)

	x1 := int(math.Floor(float64(r.X) * sx))
	y1 := int(math.Floor(float64(r.Y) * sy))
	x2 := int(math.Ceil(float64(r.Right()) * sx))
	y2 := int(math.Ceil(float64(r.Bottom()) * sy))

	x1 = clamp(x1, 0, g.Source.Width-1)
	y1 = clamp(y1, 0, g.Source.Height-1)
	x2 = clamp(x2, x1+1, g.Source.Width)
	y2 = clamp(y2, y1+1, g.Source.Height)

	return geometry.Box{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// DisplayRect converts a source-space box back to a display rectangle by
// rounding. The result is not normalized; callers clamp it through the
// engine.
func (g DisplayGeometry) DisplayRect(b geometry.Box) geometry.Rect {
	sx := float64(g.Display.Width) / float64(g.Source.Width)
	sy := float64(g.Display.Height) / float64(g.Source.Height)

	x1 := int(math.Round(float64(b.X1) * sx))
	y1 := int(math.Round(float64(b.Y1) * sy))
	x2 := int(math.Round(float64(b.X2) * sx))
	y2 := int(math.Round(float64(b.Y2) * sy))

	return geometry.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
