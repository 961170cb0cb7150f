package selection

import (
	"math"

	"github.com/Sawamura-Jun/Batch-Cropper/pkg/geometry"
)

// Field names one of the four coordinate entry fields.
type Field int

const (
	FieldX1 Field = iota
	FieldY1
	FieldX2
	FieldY2
)

func (f Field) String() string {
	switch f {
	case FieldX1:
		return "x1"
	case FieldY1:
		return "y1"
	case FieldX2:
		return "x2"
	case FieldY2:
		return "y2"
	}
	return "unknown"
}

// EditSourceBox applies a manually entered crop box, where changed names the
// field the user submitted. Editing a start coordinate slides the box without
// resizing it. Editing an end coordinate resizes from the fixed start corner;
// under an aspect lock the cross axis is derived from the ratio. When the
// resulting box still deviates from the locked ratio beyond the tolerance the
// lock silently disables instead of rejecting the edit.
//
// Returns false without touching the selection when the entered box is
// invalid or no selection geometry exists.
func (e *Engine) EditSourceBox(entered geometry.Box, changed Field) bool {
	if !e.geom.Valid() || !entered.Valid() {
		return false
	}
	old, ok := e.SourceBox()
	if !ok {
		old = entered
	}
	x1 := float64(entered.X1)
	y1 := float64(entered.Y1)
	x2 := float64(entered.X2)
	y2 := float64(entered.Y2)
	if ratio, locked := e.lock.Ratio(); locked {
		switch changed {
		case FieldX1:
			x2 = float64(old.X2) + (x1 - float64(old.X1))
		case FieldY1:
			y2 = float64(old.Y2) + (y1 - float64(old.Y1))
		case FieldX2:
			y2 = y1 + (x2-x1)/ratio
		case FieldY2:
			x2 = x1 + (y2-y1)*ratio
		}
		if y2-y1 > 0 && math.Abs((x2-x1)/(y2-y1)-ratio) > RatioBreakTolerance {
			e.lock.Enabled = false
		}
	}
	box := geometry.Box{X1: round(x1), Y1: round(y1), X2: round(x2), Y2: round(y2)}
	if !box.Valid() {
		return false
	}
	e.SetSourceBox(box)
	return true
}
