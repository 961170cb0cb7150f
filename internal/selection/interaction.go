package selection

import (
	"github.com/Sawamura-Jun/Batch-Cropper/pkg/geometry"
)

// Mode tags the interaction state. Exactly one mode is active at a time.
type Mode int

const (
	ModeIdle Mode = iota
	ModeCreating
	ModeMoving
	ModeResizing
)

func (m Mode) String() string {
	switch m {
	case ModeCreating:
		return "creating"
	case ModeMoving:
		return "moving"
	case ModeResizing:
		return "resizing"
	default:
		return "idle"
	}
}

// InteractionState is a tagged union over the gesture modes. Anchor is valid
// in every non-idle mode, Original in moving and resizing, Handle only in
// resizing; all fields are zeroed on the transition back to idle.
type InteractionState struct {
	Mode     Mode
	Anchor   geometry.Point
	Original geometry.Rect
	Handle   Handle
}

// Idle returns the initial interaction state.
func Idle() InteractionState {
	return InteractionState{}
}

// PointerKind discriminates pointer events.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerLeave
)

// PointerEvent is one pointer input in panel space. Drag reports whether
// the primary button is held during a move.
type PointerEvent struct {
	Kind PointerKind
	Pos  geometry.Point
	Drag bool
}

// RenderHint tells the hosting UI what to do after a step: repaint, refresh
// the coordinate readouts, change the pointer shape, or acquire/release
// pointer capture.
type RenderHint struct {
	Redraw      bool
	RectChanged bool
	Cursor      Cursor
	SetCursor   bool
	Capture     bool
	Release     bool
}

// Step advances the interaction state machine by one pointer event, driving
// the engine's geometry operations. It is the single entry point for
// pointer input; the UI layer feeds events and acts on the returned hint.
func Step(e *Engine, st InteractionState, ev PointerEvent) (InteractionState, RenderHint) {
	switch ev.Kind {
	case PointerDown:
		return stepDown(e, ev)
	case PointerMove:
		return stepMove(e, st, ev)
	case PointerUp:
		return stepUp(e, st, ev)
	case PointerLeave:
		if st.Mode == ModeIdle {
			return st, RenderHint{SetCursor: true, Cursor: CursorArrow}
		}
		// capture is held; an in-progress drag survives leaving the panel
		return st, RenderHint{}
	}
	return st, RenderHint{}
}

// stepDown hit-tests in priority order: resize handle, rectangle interior,
// display area, elsewhere.
func stepDown(e *Engine, ev PointerEvent) (InteractionState, RenderHint) {
	if !e.geom.Valid() {
		return Idle(), RenderHint{}
	}
	dp := e.geom.PanelToDisplay(ev.Pos)

	if rect, ok := e.Rect(); ok {
		if h := hitTestHandle(rect, e.cfg.HandleSize, dp); h != HandleNone {
			st := InteractionState{
				Mode:     ModeResizing,
				Handle:   h,
				Anchor:   e.geom.ClampToDisplay(dp),
				Original: rect,
			}
			return st, RenderHint{Redraw: true, Capture: true}
		}
		if rect.Contains(dp) {
			st := InteractionState{
				Mode:     ModeMoving,
				Anchor:   e.geom.ClampToDisplay(dp),
				Original: rect,
			}
			return st, RenderHint{Redraw: true, Capture: true}
		}
	}
	if e.geom.InDisplay(dp) {
		anchor := e.geom.ClampToDisplay(dp)
		e.seedAt(anchor)
		st := InteractionState{Mode: ModeCreating, Anchor: anchor}
		return st, RenderHint{Redraw: true, Capture: true}
	}
	return Idle(), RenderHint{}
}

func stepMove(e *Engine, st InteractionState, ev PointerEvent) (InteractionState, RenderHint) {
	if !e.geom.Valid() {
		return st, RenderHint{}
	}
	dp := e.geom.PanelToDisplay(ev.Pos)

	if ev.Drag && st.Mode != ModeIdle {
		p := e.geom.ClampToDisplay(dp)
		switch st.Mode {
		case ModeCreating:
			e.Create(st.Anchor, p)
		case ModeMoving:
			e.MoveBy(st.Original, p.X-st.Anchor.X, p.Y-st.Anchor.Y)
		case ModeResizing:
			e.ResizeTo(st.Original, st.Handle, p)
		}
		return st, RenderHint{Redraw: true, RectChanged: true}
	}
	return st, RenderHint{SetCursor: true, Cursor: e.CursorAt(dp)}
}

// stepUp ends the gesture: anchors are cleared, capture released, and a
// creation that never left the sub-minimum seed is renormalized.
func stepUp(e *Engine, st InteractionState, ev PointerEvent) (InteractionState, RenderHint) {
	prev := st.Mode
	if prev == ModeCreating {
		e.renormalize()
	}
	hint := RenderHint{
		Release:     prev != ModeIdle,
		Redraw:      prev != ModeIdle,
		RectChanged: prev != ModeIdle,
		SetCursor:   true,
		Cursor:      e.CursorAt(e.geom.PanelToDisplay(ev.Pos)),
	}
	return Idle(), hint
}
