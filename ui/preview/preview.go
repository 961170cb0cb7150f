// Package preview provides the crop preview panel: the active image scaled
// to fit, the dimmed surround, and the selection rectangle with its resize
// handles, driven by pointer gestures.
package preview

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/Sawamura-Jun/Batch-Cropper/internal/app"
	"github.com/Sawamura-Jun/Batch-Cropper/internal/selection"
	"github.com/Sawamura-Jun/Batch-Cropper/internal/session"
	"github.com/Sawamura-Jun/Batch-Cropper/pkg/geometry"
)

var (
	backgroundColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	outlineColor    = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	handleFillColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// Preview displays the selected document with the crop selection on top.
type Preview struct {
	widget.BaseWidget

	cfg    *app.Config
	engine *selection.Engine
	state  selection.InteractionState

	doc        *session.Document
	generation uint64
	imgDirty   bool

	background *canvas.Rectangle
	img        *canvas.Image
	shade      [4]*canvas.Rectangle
	outline    *canvas.Rectangle
	handles    [8]*canvas.Rectangle

	cursor      desktop.Cursor
	pressed     bool
	lastPointer geometry.Point
	lastPanel   geometry.Size

	onRectChanged func(box geometry.Box)
	onWheel       func(dir int)
}

// New creates an empty preview panel.
func New(cfg *app.Config) *Preview {
	p := &Preview{
		cfg:    cfg,
		engine: selection.NewEngine(cfg),
		state:  selection.Idle(),
		cursor: desktop.DefaultCursor,
	}

	p.background = canvas.NewRectangle(backgroundColor)
	p.img = canvas.NewImageFromImage(nil)
	p.img.FillMode = canvas.ImageFillStretch
	p.img.ScaleMode = canvas.ImageScaleSmooth
	p.img.Hide()

	shadeColor := color.NRGBA{A: uint8(cfg.OverlayAlpha)}
	for i := range p.shade {
		p.shade[i] = canvas.NewRectangle(shadeColor)
		p.shade[i].Hide()
	}

	p.outline = canvas.NewRectangle(color.Transparent)
	p.outline.StrokeColor = outlineColor
	p.outline.StrokeWidth = 1
	p.outline.Hide()

	for i := range p.handles {
		p.handles[i] = canvas.NewRectangle(handleFillColor)
		p.handles[i].StrokeColor = outlineColor
		p.handles[i].StrokeWidth = 1
		p.handles[i].Hide()
	}

	p.ExtendBaseWidget(p)
	return p
}

// SetDocument switches the preview to another document, or clears it when
// doc is nil. The selection carries over between documents.
func (p *Preview) SetDocument(doc *session.Document) {
	p.doc = doc
	if doc == nil {
		p.generation = 0
		p.img.Image = nil
		p.imgDirty = true
		p.engine.Reset()
		p.Refresh()
		return
	}
	if doc.Generation != p.generation {
		p.generation = doc.Generation
		p.img.Image = doc.Image
		p.imgDirty = true
	}
	p.engine.SetSourceSize(geometry.NewSize(doc.Width(), doc.Height()))
	p.notifyRect()
	p.Refresh()
}

// SourceBox returns the current crop box in source coordinates.
func (p *Preview) SourceBox() (geometry.Box, bool) {
	return p.engine.SourceBox()
}

// EditBox applies a crop box entered in the coordinate fields, where changed
// names the submitted field. Returns false when the box is rejected.
func (p *Preview) EditBox(entered geometry.Box, changed selection.Field) bool {
	if !p.engine.EditSourceBox(entered, changed) {
		return false
	}
	p.notifyRect()
	p.Refresh()
	return true
}

// Lock returns the engine's aspect lock, which an edit may have silently
// disabled.
func (p *Preview) Lock() selection.AspectLock {
	return p.engine.Lock()
}

// SetAspect installs a new aspect lock from the checkbox state and ratio
// text. Enabling the lock reshapes an existing selection to the ratio, or
// seeds the default selection when there is none.
func (p *Preview) SetAspect(enabled bool, ratio string) {
	lock := selection.AspectLock{Enabled: enabled}
	if w, h, ok := selection.ParseRatio(ratio); ok {
		lock.W, lock.H = w, h
	}
	p.engine.SetLock(lock)
	if enabled {
		if _, ok := p.engine.Rect(); ok {
			p.engine.ApplyAspect()
		} else {
			p.engine.InitRect()
		}
	}
	p.notifyRect()
	p.Refresh()
}

// OnRectChanged registers a callback invoked with the source-space crop box
// whenever the selection changes.
func (p *Preview) OnRectChanged(callback func(box geometry.Box)) {
	p.onRectChanged = callback
}

// OnWheel registers a callback for wheel scrolls over the preview, with dir
// +1 for up and -1 for down.
func (p *Preview) OnWheel(callback func(dir int)) {
	p.onWheel = callback
}

// MouseDown begins a selection gesture.
func (p *Preview) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	p.pressed = true
	p.lastPointer = pointerPos(ev.Position)
	p.step(selection.PointerEvent{Kind: selection.PointerDown, Pos: p.lastPointer})
}

// MouseUp completes a selection gesture.
func (p *Preview) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary || !p.pressed {
		return
	}
	p.pressed = false
	p.step(selection.PointerEvent{Kind: selection.PointerUp, Pos: pointerPos(ev.Position)})
}

// Dragged feeds drag movement into the active gesture.
func (p *Preview) Dragged(ev *fyne.DragEvent) {
	if !p.pressed {
		return
	}
	p.lastPointer = pointerPos(ev.Position)
	p.step(selection.PointerEvent{Kind: selection.PointerMove, Pos: p.lastPointer, Drag: true})
}

// DragEnd finishes a gesture when the release was not delivered as a mouse
// up, using the last drag position.
func (p *Preview) DragEnd() {
	if !p.pressed {
		return
	}
	p.pressed = false
	p.step(selection.PointerEvent{Kind: selection.PointerUp, Pos: p.lastPointer})
}

// MouseIn implements desktop.Hoverable.
func (p *Preview) MouseIn(ev *desktop.MouseEvent) {
	p.hoverMove(ev)
}

// MouseMoved updates the hover cursor while no gesture is active.
func (p *Preview) MouseMoved(ev *desktop.MouseEvent) {
	p.hoverMove(ev)
}

// MouseOut implements desktop.Hoverable.
func (p *Preview) MouseOut() {
	p.step(selection.PointerEvent{Kind: selection.PointerLeave})
}

func (p *Preview) hoverMove(ev *desktop.MouseEvent) {
	if p.pressed {
		// The drag events carry movement during a gesture.
		return
	}
	p.step(selection.PointerEvent{Kind: selection.PointerMove, Pos: pointerPos(ev.Position)})
}

// Scrolled forwards wheel events to the window-resize handler.
func (p *Preview) Scrolled(ev *fyne.ScrollEvent) {
	if p.onWheel == nil || ev.Scrolled.DY == 0 {
		return
	}
	if ev.Scrolled.DY > 0 {
		p.onWheel(1)
	} else {
		p.onWheel(-1)
	}
}

// Cursor implements desktop.Cursorable.
func (p *Preview) Cursor() desktop.Cursor {
	return p.cursor
}

func (p *Preview) step(ev selection.PointerEvent) {
	st, hint := selection.Step(p.engine, p.state, ev)
	p.state = st
	if hint.SetCursor {
		p.cursor = cursorShape(hint.Cursor)
	}
	if hint.RectChanged {
		p.notifyRect()
	}
	if hint.Redraw || hint.RectChanged {
		p.Refresh()
	}
}

func (p *Preview) notifyRect() {
	if p.onRectChanged == nil {
		return
	}
	if box, ok := p.engine.SourceBox(); ok {
		p.onRectChanged(box)
	}
}

// cursorShape maps a selection cursor onto the closest desktop cursor. Fyne
// has no diagonal resize cursors, so corner handles fall back to the pointer.
func cursorShape(c selection.Cursor) desktop.Cursor {
	switch c {
	case selection.CursorCross:
		return desktop.CrosshairCursor
	case selection.CursorMove:
		return desktop.PointerCursor
	case selection.CursorSizeWE:
		return desktop.HResizeCursor
	case selection.CursorSizeNS:
		return desktop.VResizeCursor
	case selection.CursorSizeNWSE, selection.CursorSizeNESW:
		return desktop.PointerCursor
	default:
		return desktop.DefaultCursor
	}
}

func pointerPos(pos fyne.Position) geometry.Point {
	return geometry.NewPoint(int(pos.X), int(pos.Y))
}

// CreateRenderer implements fyne.Widget.
func (p *Preview) CreateRenderer() fyne.WidgetRenderer {
	return &previewRenderer{preview: p}
}

type previewRenderer struct {
	preview *Preview
}

func (r *previewRenderer) Layout(size fyne.Size) {
	p := r.preview
	p.background.Resize(size)

	panel := geometry.NewSize(int(size.Width), int(size.Height))
	if panel != p.lastPanel {
		p.lastPanel = panel
		p.engine.SetPanelSize(panel)
		p.notifyRect()
	}
	r.sync()
}

func (r *previewRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

func (r *previewRenderer) Refresh() {
	r.sync()
	if r.preview.imgDirty {
		r.preview.imgDirty = false
		r.preview.img.Refresh()
	}
	r.preview.background.Refresh()
}

// sync positions the display objects from the engine state: the scaled
// image, the four shade bands around the selection, the selection outline,
// and the handle squares.
func (r *previewRenderer) sync() {
	p := r.preview
	geom := p.engine.Geometry()
	if p.doc == nil || !geom.Valid() {
		p.img.Hide()
		r.hideSelection()
		return
	}

	p.img.Move(fyne.NewPos(float32(geom.Offset.X), float32(geom.Offset.Y)))
	p.img.Resize(fyne.NewSize(float32(geom.Display.Width), float32(geom.Display.Height)))
	p.img.Show()

	rect, ok := p.engine.Rect()
	if !ok {
		r.hideSelection()
		return
	}

	panelW := float32(p.lastPanel.Width)
	panelH := float32(p.lastPanel.Height)
	rx := float32(rect.X + geom.Offset.X)
	ry := float32(rect.Y + geom.Offset.Y)
	rw := float32(rect.Width)
	rh := float32(rect.Height)

	placeRect(p.shade[0], 0, 0, panelW, ry)
	placeRect(p.shade[1], 0, ry+rh, panelW, panelH-(ry+rh))
	placeRect(p.shade[2], 0, ry, rx, rh)
	placeRect(p.shade[3], rx+rw, ry, panelW-(rx+rw), rh)

	p.outline.Move(fyne.NewPos(rx, ry))
	p.outline.Resize(fyne.NewSize(rw, rh))
	p.outline.Show()
	p.outline.Refresh()

	for i, hr := range selection.HandleRects(rect, p.engine.HandleSize()) {
		h := p.handles[i]
		h.Move(fyne.NewPos(float32(hr.Rect.X+geom.Offset.X), float32(hr.Rect.Y+geom.Offset.Y)))
		h.Resize(fyne.NewSize(float32(hr.Rect.Width), float32(hr.Rect.Height)))
		h.Show()
		h.Refresh()
	}
}

func placeRect(rect *canvas.Rectangle, x, y, w, h float32) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	rect.Move(fyne.NewPos(x, y))
	rect.Resize(fyne.NewSize(w, h))
	rect.Show()
	rect.Refresh()
}

func (r *previewRenderer) hideSelection() {
	p := r.preview
	for _, s := range p.shade {
		s.Hide()
	}
	p.outline.Hide()
	for _, h := range p.handles {
		h.Hide()
	}
}

func (r *previewRenderer) Objects() []fyne.CanvasObject {
	p := r.preview
	objects := make([]fyne.CanvasObject, 0, 16)
	objects = append(objects, p.background, p.img)
	for _, s := range p.shade {
		objects = append(objects, s)
	}
	objects = append(objects, p.outline)
	for _, h := range p.handles {
		objects = append(objects, h)
	}
	return objects
}

func (r *previewRenderer) Destroy() {}
