// Package selection implements the interactive crop selection model: the
// display geometry of a scaled preview, the selection rectangle with its
// creation/move/resize operations, aspect ratio locking, and the pointer
// interaction state machine that drives them. It is toolkit-independent;
// the UI layer feeds pointer events and renders the returned state.
package selection

import (
	"math"

	"github.com/Sawamura-Jun/Batch-Cropper/internal/app"
	"github.com/Sawamura-Jun/Batch-Cropper/pkg/geometry"
)

// Engine owns the selection rectangle in display space and every operation
// that mutates it. All mutations funnel through a single normalizer that
// keeps the rectangle inside the display bounds and at or above the minimum
// crop size.
type Engine struct {
	cfg     *app.Config
	geom    DisplayGeometry
	lock    AspectLock
	rect    geometry.Rect
	hasRect bool
}

// NewEngine creates an engine with the given configuration.
func NewEngine(cfg *app.Config) *Engine {
	return &Engine{cfg: cfg}
}

// Geometry returns the current display geometry.
func (e *Engine) Geometry() DisplayGeometry {
	return e.geom
}

// Rect returns the current selection rectangle, if any.
func (e *Engine) Rect() (geometry.Rect, bool) {
	return e.rect, e.hasRect
}

// Lock returns the current aspect lock.
func (e *Engine) Lock() AspectLock {
	return e.lock
}

// SetLock replaces the aspect lock. Applying it to an existing rectangle is
// the caller's decision (ApplyAspect or InitRect).
func (e *Engine) SetLock(l AspectLock) {
	e.lock = l
}

// HandleSize returns the configured handle hit size.
func (e *Engine) HandleSize() int {
	return e.cfg.HandleSize
}

// Reset drops the selection and source geometry.
func (e *Engine) Reset() {
	e.geom = DisplayGeometry{Panel: e.geom.Panel}
	e.rect = geometry.Rect{}
	e.hasRect = false
}

// SetSourceSize recomputes the geometry for a new active image in the same
// panel. An existing rectangle is clipped into the new display bounds so the
// selection carries over between images; otherwise a default rectangle is
// seeded.
func (e *Engine) SetSourceSize(source geometry.Size) {
	e.geom = ComputeGeometry(e.geom.Panel, source)
	if !e.geom.Valid() {
		return
	}
	if e.hasRect {
		e.rect = e.normalize(e.rect)
	} else {
		e.InitRect()
	}
}

// SetPanelSize recomputes the geometry for a resized panel and rescales an
// existing rectangle so it stays anchored to the same image region.
func (e *Engine) SetPanelSize(panel geometry.Size) {
	old := e.geom.Display
	e.geom = ComputeGeometry(panel, e.geom.Source)
	if !e.geom.Valid() || !e.hasRect {
		return
	}
	if old.Width == 0 || old.Height == 0 {
		e.rect = e.normalize(e.rect)
		return
	}
	e.rescale(old)
}

// SetRect clamps and installs a rectangle, for programmatic updates.
func (e *Engine) SetRect(r geometry.Rect) {
	if !e.geom.Valid() {
		return
	}
	e.rect = e.normalize(r)
	e.hasRect = true
}

// SourceBox returns the crop box in source space for the current rectangle.
func (e *Engine) SourceBox() (geometry.Box, bool) {
	if !e.hasRect || !e.geom.Valid() {
		return geometry.Box{}, false
	}
	return e.geom.SourceBox(e.rect), true
}

// SetSourceBox installs a rectangle from a source-space box, as entered in
// the coordinate fields.
func (e *Engine) SetSourceBox(b geometry.Box) {
	if !e.geom.Valid() {
		return
	}
	e.rect = e.normalize(e.geom.DisplayRect(b))
	e.hasRect = true
}

// InitRect seeds the default selection: a quarter of the display area,
// centered, respecting the aspect lock when active.
func (e *Engine) InitRect() {
	if !e.geom.Valid() {
		return
	}
	dw, dh := e.geom.Display.Width, e.geom.Display.Height
	var rw, rh int
	if ratio, ok := e.lock.Ratio(); ok {
		if e.lock.W < e.lock.H {
			rh = dh / 4
			rw = int(float64(rh) * ratio)
		} else {
			rw = dw / 4
			rh = int(float64(rw) / ratio)
		}
	} else {
		rw = dw / 4
		rh = rw
	}
	x := int(math.Round(float64(dw)/2 - float64(rw)/2))
	y := int(math.Round(float64(dh)/2 - float64(rh)/2))
	e.rect = e.normalize(geometry.Rect{X: x, Y: y, Width: rw, Height: rh})
	e.hasRect = true
	e.ApplyAspect()
}

// Create derives the rectangle for a creation drag from anchor to current.
// Both points are clamped into the display; under an aspect lock the
// dominant axis wins and the rectangle grows away from the anchor.
func (e *Engine) Create(anchor, current geometry.Point) {
	if !e.geom.Valid() {
		return
	}
	anchor = e.geom.ClampToDisplay(anchor)
	current = e.geom.ClampToDisplay(current)
	var r geometry.Rect
	if ratio, ok := e.lock.Ratio(); ok {
		r = e.createWithRatio(anchor, current, ratio)
	} else {
		r = geometry.Rect{
			X:      min(anchor.X, current.X),
			Y:      min(anchor.Y, current.Y),
			Width:  abs(current.X - anchor.X),
			Height: abs(current.Y - anchor.Y),
		}
	}
	e.rect = e.normalize(r)
	e.hasRect = true
}

func (e *Engine) createWithRatio(anchor, current geometry.Point, ratio float64) geometry.Rect {
	dx := current.X - anchor.X
	dy := current.Y - anchor.Y
	adx := abs(dx)
	ady := abs(dy)
	if adx == 0 && ady == 0 {
		return geometry.Rect{X: anchor.X, Y: anchor.Y}
	}
	if ady == 0 {
		ady = round(float64(adx) / ratio)
	}
	if adx == 0 {
		adx = round(float64(ady) * ratio)
	}
	cur := ratio
	if ady != 0 {
		cur = float64(adx) / float64(ady)
	}
	if cur > ratio {
		adx = round(float64(ady) * ratio)
	} else {
		ady = round(float64(adx) / ratio)
	}
	x2 := anchor.X + adx
	if dx < 0 {
		x2 = anchor.X - adx
	}
	y2 := anchor.Y + ady
	if dy < 0 {
		y2 = anchor.Y - ady
	}
	r := geometry.Rect{
		X:      min(anchor.X, x2),
		Y:      min(anchor.Y, y2),
		Width:  abs(x2 - anchor.X),
		Height: abs(y2 - anchor.Y),
	}
	return e.ensureWithin(r)
}

// MoveBy translates the gesture-start rectangle by the cumulative drag
// delta. Normalization slides it back inside the display without resizing.
func (e *Engine) MoveBy(original geometry.Rect, dx, dy int) {
	if !e.geom.Valid() {
		return
	}
	r := original
	r.X += dx
	r.Y += dy
	e.rect = e.normalize(r)
	e.hasRect = true
}

// ResizeTo re-derives the rectangle for a resize drag: original is the
// gesture-start rectangle, h the grabbed handle, p the clamped pointer.
func (e *Engine) ResizeTo(original geometry.Rect, h Handle, p geometry.Point) {
	if !e.geom.Valid() || h == HandleNone {
		return
	}
	var r geometry.Rect
	if ratio, ok := e.lock.Ratio(); ok {
		r = e.resizeWithRatio(original, h, p, ratio)
	} else {
		r = e.resizeFree(original, h, p)
	}
	e.rect = e.normalize(r)
	e.hasRect = true
}

// resizeFree moves each dragged edge to the pointer, keeping at least the
// minimum size from the opposite edge. Perpendicular edges are untouched.
func (e *Engine) resizeFree(original geometry.Rect, h Handle, p geometry.Point) geometry.Rect {
	minSize := e.cfg.MinCropSize
	dw, dh := e.geom.Display.Width, e.geom.Display.Height
	left, top := original.X, original.Y
	right, bottom := original.Right(), original.Bottom()

	if h.isLeft() {
		left = min(p.X, right-minSize)
	}
	if h.isRight() {
		right = max(p.X, left+minSize)
	}
	if h.isTop() {
		top = min(p.Y, bottom-minSize)
	}
	if h.isBottom() {
		bottom = max(p.Y, top+minSize)
	}

	left = clamp(left, 0, dw)
	right = clamp(right, 0, dw)
	top = clamp(top, 0, dh)
	bottom = clamp(bottom, 0, dh)

	return geometry.Rect{
		X:      left,
		Y:      top,
		Width:  max(minSize, right-left),
		Height: max(minSize, bottom-top),
	}
}

func (e *Engine) resizeWithRatio(original geometry.Rect, h Handle, p geometry.Point, ratio float64) geometry.Rect {
	minSize := e.cfg.MinCropSize
	dw, dh := e.geom.Display.Width, e.geom.Display.Height
	switch h {
	case HandleLeft:
		anchorX := original.Right()
		width := max(minSize, min(anchorX-p.X, anchorX))
		return e.rectFromHorizontalAnchor(anchorX, width, original, true, ratio)
	case HandleRight:
		anchorX := original.X
		width := max(minSize, min(p.X-anchorX, dw-anchorX))
		return e.rectFromHorizontalAnchor(anchorX, width, original, false, ratio)
	case HandleTop:
		anchorY := original.Bottom()
		height := max(minSize, min(anchorY-p.Y, anchorY))
		return e.rectFromVerticalAnchor(anchorY, height, original, true, ratio)
	case HandleBottom:
		anchorY := original.Y
		height := max(minSize, min(p.Y-anchorY, dh-anchorY))
		return e.rectFromVerticalAnchor(anchorY, height, original, false, ratio)
	default:
		return e.resizeCornerWithRatio(original, h, p, ratio)
	}
}

// rectFromHorizontalAnchor builds a ratio-locked rectangle growing
// horizontally from the fixed opposite edge, vertically re-centered on the
// original rectangle's center.
func (e *Engine) rectFromHorizontalAnchor(anchorX, width int, original geometry.Rect, toLeft bool, ratio float64) geometry.Rect {
	minSize := e.cfg.MinCropSize
	dw, dh := e.geom.Display.Width, e.geom.Display.Height

	width = max(minSize, min(width, dw))
	height := max(minSize, round(float64(width)/ratio))
	if height > dh {
		height = dh
		width = max(minSize, round(float64(height)*ratio))
	}
	centerY := float64(original.Y) + float64(original.Height)/2
	top := clamp(round(centerY-float64(height)/2), 0, dh-height)
	bottom := top + height

	var left, right int
	if toLeft {
		right = min(anchorX, dw)
		left = max(0, right-width)
	} else {
		left = max(0, anchorX)
		right = min(dw, left+width)
		left = right - width
	}
	return geometry.Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// rectFromVerticalAnchor is the vertical counterpart, re-centered
// horizontally.
func (e *Engine) rectFromVerticalAnchor(anchorY, height int, original geometry.Rect, toTop bool, ratio float64) geometry.Rect {
	minSize := e.cfg.MinCropSize
	dw, dh := e.geom.Display.Width, e.geom.Display.Height

	height = max(minSize, min(height, dh))
	width := max(minSize, round(float64(height)*ratio))
	if width > dw {
		width = dw
		height = max(minSize, round(float64(width)/ratio))
	}
	centerX := float64(original.X) + float64(original.Width)/2
	left := clamp(round(centerX-float64(width)/2), 0, dw-width)
	right := left + width

	var top, bottom int
	if toTop {
		bottom = min(anchorY, dh)
		top = max(0, bottom-height)
	} else {
		top = max(0, anchorY)
		bottom = min(dh, top+height)
		top = bottom - height
	}
	return geometry.Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// resizeCornerWithRatio anchors the opposite corner and rebuilds the
// rectangle outward in the drag direction, fitting the ratio by shrinking
// the disproportionate axis.
func (e *Engine) resizeCornerWithRatio(original geometry.Rect, h Handle, p geometry.Point, ratio float64) geometry.Rect {
	minSize := e.cfg.MinCropSize
	dw, dh := e.geom.Display.Width, e.geom.Display.Height

	var anchor geometry.Point
	var hsign, vsign int
	switch h {
	case HandleTopLeft:
		anchor = geometry.Point{X: original.Right(), Y: original.Bottom()}
		hsign, vsign = -1, -1
	case HandleTopRight:
		anchor = geometry.Point{X: original.X, Y: original.Bottom()}
		hsign, vsign = 1, -1
	case HandleBottomLeft:
		anchor = geometry.Point{X: original.Right(), Y: original.Y}
		hsign, vsign = -1, 1
	default:
		anchor = geometry.Point{X: original.X, Y: original.Y}
		hsign, vsign = 1, 1
	}

	dx := max(minSize, min(abs(p.X-anchor.X), dw))
	dy := max(minSize, min(abs(p.Y-anchor.Y), dh))

	width := dx
	height := round(float64(width) / ratio)
	if height > dy {
		height = dy
		width = round(float64(height) * ratio)
	}
	width = max(minSize, width)
	height = max(minSize, height)

	var left, right, top, bottom int
	if hsign < 0 {
		left, right = anchor.X-width, anchor.X
	} else {
		left, right = anchor.X, anchor.X+width
	}
	if vsign < 0 {
		top, bottom = anchor.Y-height, anchor.Y
	} else {
		top, bottom = anchor.Y, anchor.Y+height
	}
	return geometry.Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// rescale keeps the rectangle proportionally anchored to the same image
// region after the display dimensions change.
func (e *Engine) rescale(old geometry.Size) {
	sx := float64(e.geom.Display.Width) / float64(old.Width)
	sy := float64(e.geom.Display.Height) / float64(old.Height)

	cx := float64(e.rect.X) + float64(e.rect.Width)/2
	cy := float64(e.rect.Y) + float64(e.rect.Height)/2
	newW := float64(e.rect.Width) * sx
	newH := float64(e.rect.Height) * sy
	newX := cx*sx - newW/2
	newY := cy*sy - newH/2

	e.rect = e.normalize(geometry.Rect{
		X:      round(newX),
		Y:      round(newY),
		Width:  round(newW),
		Height: round(newH),
	})
}

// ApplyAspect reshapes the existing rectangle to the locked ratio around
// its unchanged center: height is recomputed from width, falling back to
// width from height when the result would leave the display.
func (e *Engine) ApplyAspect() {
	ratio, ok := e.lock.Ratio()
	if !ok || !e.hasRect || !e.geom.Valid() {
		return
	}
	minSize := e.cfg.MinCropSize
	dw, dh := e.geom.Display.Width, e.geom.Display.Height

	cx := float64(e.rect.X) + float64(e.rect.Width)/2
	cy := float64(e.rect.Y) + float64(e.rect.Height)/2
	width := e.rect.Width
	height := e.rect.Height

	if desired := round(float64(width) / ratio); desired <= dh {
		height = desired
	}
	if height <= 0 {
		height = minSize
	}
	width = round(float64(height) * ratio)
	if width > dw {
		width = dw
		height = round(float64(width) / ratio)
	}
	if height > dh {
		height = dh
		width = round(float64(height) * ratio)
	}
	width = max(minSize, width)
	height = max(minSize, height)

	e.rect = e.normalize(geometry.Rect{
		X:      round(cx - float64(width)/2),
		Y:      round(cy - float64(height)/2),
		Width:  width,
		Height: height,
	})
}

// seedAt installs a raw zero-size rectangle at the creation anchor. It is
// deliberately not normalized; pointer-up renormalizes if the drag never
// grew it.
func (e *Engine) seedAt(p geometry.Point) {
	e.rect = geometry.Rect{X: p.X, Y: p.Y}
	e.hasRect = true
}

// renormalize reapplies the invariant to the current rectangle.
func (e *Engine) renormalize() {
	if e.hasRect && e.geom.Valid() {
		e.rect = e.normalize(e.rect)
	}
}

// ensureWithin clamps a rectangle into the display bounds, shrinking it to
// fit and raising each dimension to the minimum crop size.
func (e *Engine) ensureWithin(r geometry.Rect) geometry.Rect {
	dw, dh := e.geom.Display.Width, e.geom.Display.Height
	if dw <= 0 || dh <= 0 {
		return geometry.Rect{}
	}
	minSize := e.cfg.MinCropSize
	if r.Width > dw {
		r.Width = dw
	}
	if r.Height > dh {
		r.Height = dh
	}
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	if r.Right() > dw {
		r.X = dw - r.Width
	}
	if r.Bottom() > dh {
		r.Y = dh - r.Height
	}
	r.Width = max(minSize, r.Width)
	r.Height = max(minSize, r.Height)
	r.X = clamp(r.X, 0, dw-r.Width)
	r.Y = clamp(r.Y, 0, dh-r.Height)
	return r
}

// normalize is the single invariant gate: every mutation ends here so the
// rectangle is always within bounds and at or above the minimum size.
func (e *Engine) normalize(r geometry.Rect) geometry.Rect {
	r = e.ensureWithin(r)
	minSize := e.cfg.MinCropSize
	if r.Width < minSize {
		r.Width = minSize
	}
	if r.Height < minSize {
		r.Height = minSize
	}
	return e.ensureWithin(r)
}

// CursorAt returns the pointer shape for a display-space point: resize
// cursors over handles, the move cursor inside the rectangle, the crosshair
// over empty display area and the arrow elsewhere.
func (e *Engine) CursorAt(p geometry.Point) Cursor {
	if e.hasRect {
		if h := hitTestHandle(e.rect, e.cfg.HandleSize, p); h != HandleNone {
			return cursorForHandle(h)
		}
	}
	if e.geom.InDisplay(p) {
		if e.hasRect && e.rect.Contains(p) {
			return CursorMove
		}
		return CursorCross
	}
	return CursorArrow
}

func round(v float64) int {
	return int(math.Round(v))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
