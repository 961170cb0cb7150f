package selection

import (
	"math"

	"github.com/Sawamura-Jun/Batch-Cropper/pkg/geometry"
)

// Handle identifies one of the eight grab points on the selection border.
type Handle int

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
)

func (h Handle) String() string {
	switch h {
	case HandleTopLeft:
		return "top_left"
	case HandleTop:
		return "top"
	case HandleTopRight:
		return "top_right"
	case HandleRight:
		return "right"
	case HandleBottomRight:
		return "bottom_right"
	case HandleBottom:
		return "bottom"
	case HandleBottomLeft:
		return "bottom_left"
	case HandleLeft:
		return "left"
	default:
		return "none"
	}
}

func (h Handle) isLeft() bool {
	return h == HandleTopLeft || h == HandleLeft || h == HandleBottomLeft
}

func (h Handle) isRight() bool {
	return h == HandleTopRight || h == HandleRight || h == HandleBottomRight
}

func (h Handle) isTop() bool {
	return h == HandleTopLeft || h == HandleTop || h == HandleTopRight
}

func (h Handle) isBottom() bool {
	return h == HandleBottomLeft || h == HandleBottom || h == HandleBottomRight
}

func (h Handle) isCorner() bool {
	switch h {
	case HandleTopLeft, HandleTopRight, HandleBottomLeft, HandleBottomRight:
		return true
	}
	return false
}

// Cursor is a toolkit-independent pointer shape requested by the
// interaction layer.
type Cursor int

const (
	CursorArrow Cursor = iota
	CursorCross
	CursorMove
	CursorSizeNWSE
	CursorSizeNESW
	CursorSizeWE
	CursorSizeNS
)

// HandleRect pairs a handle with its hit rectangle in display space.
type HandleRect struct {
	Handle Handle
	Rect   geometry.Rect
}

// handleOrder is the hit-test priority: corners and edges interleaved
// clockwise from the top-left.
var handleOrder = []Handle{
	HandleTopLeft, HandleTop, HandleTopRight, HandleRight,
	HandleBottomRight, HandleBottom, HandleBottomLeft, HandleLeft,
}

// handlePoint returns the display-space midpoint of a handle on rect r.
func handlePoint(r geometry.Rect, h Handle) (float64, float64) {
	cx := float64(r.X) + float64(r.Width)/2
	cy := float64(r.Y) + float64(r.Height)/2
	switch h {
	case HandleTopLeft:
		return float64(r.X), float64(r.Y)
	case HandleTop:
		return cx, float64(r.Y)
	case HandleTopRight:
		return float64(r.Right()), float64(r.Y)
	case HandleRight:
		return float64(r.Right()), cy
	case HandleBottomRight:
		return float64(r.Right()), float64(r.Bottom())
	case HandleBottom:
		return cx, float64(r.Bottom())
	case HandleBottomLeft:
		return float64(r.X), float64(r.Bottom())
	default:
		return float64(r.X), cy
	}
}

// HandleRects returns the hit rectangles for all eight handles of r, each
// size x size pixels centered on the handle midpoint.
func HandleRects(r geometry.Rect, size int) []HandleRect {
	half := size / 2
	out := make([]HandleRect, 0, len(handleOrder))
	for _, h := range handleOrder {
		px, py := handlePoint(r, h)
		out = append(out, HandleRect{
			Handle: h,
			Rect: geometry.Rect{
				X:      int(math.Round(px)) - half,
				Y:      int(math.Round(py)) - half,
				Width:  size,
				Height: size,
			},
		})
	}
	return out
}

// hitTestHandle returns the first handle whose hit rectangle contains p.
func hitTestHandle(r geometry.Rect, size int, p geometry.Point) Handle {
	for _, hr := range HandleRects(r, size) {
		if hr.Rect.Contains(p) {
			return hr.Handle
		}
	}
	return HandleNone
}

// cursorForHandle maps a handle to its resize cursor shape.
func cursorForHandle(h Handle) Cursor {
	switch h {
	case HandleTopLeft, HandleBottomRight:
		return CursorSizeNWSE
	case HandleTopRight, HandleBottomLeft:
		return CursorSizeNESW
	case HandleLeft, HandleRight:
		return CursorSizeWE
	case HandleTop, HandleBottom:
		return CursorSizeNS
	default:
		return CursorArrow
	}
}
