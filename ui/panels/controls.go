// Package panels provides the control panel and thumbnail strip.
package panels

import (
	"errors"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/Sawamura-Jun/Batch-Cropper/internal/batch"
	"github.com/Sawamura-Jun/Batch-Cropper/internal/selection"
	"github.com/Sawamura-Jun/Batch-Cropper/internal/session"
	"github.com/Sawamura-Jun/Batch-Cropper/pkg/geometry"
	"github.com/Sawamura-Jun/Batch-Cropper/ui/preview"
)

// coordFields orders the coordinate entries as they appear in the panel.
var coordFields = []selection.Field{
	selection.FieldX1, selection.FieldY1, selection.FieldX2, selection.FieldY2,
}

// coordLabels maps each field to its entry label.
var coordLabels = map[selection.Field]string{
	selection.FieldX1: "XS",
	selection.FieldY1: "YS",
	selection.FieldX2: "XE",
	selection.FieldY2: "YE",
}

// ControlPanel is the right-hand panel: import buttons, the coordinate
// readout fields, the aspect lock, and the batch action buttons.
type ControlPanel struct {
	sess      *session.Session
	preview   *preview.Preview
	window    fyne.Window
	container fyne.CanvasObject

	coords      map[selection.Field]*widget.Entry
	aspectCheck *widget.Check
	aspectEntry *widget.Entry

	revertButton *widget.Button

	// Suppresses selection-driven field updates while a manual edit is
	// being applied.
	editing bool

	// Import actions owned by the main window
	onOpen       func()
	onPaste      func()
	onScreenshot func()
	onCopy       func()
}

// NewControlPanel creates the control panel wired to the session and the
// preview widget.
func NewControlPanel(sess *session.Session, pv *preview.Preview) *ControlPanel {
	cp := &ControlPanel{
		sess:    sess,
		preview: pv,
		coords:  make(map[selection.Field]*widget.Entry, len(coordFields)),
	}

	form := widget.NewForm()
	for _, field := range coordFields {
		entry := widget.NewEntry()
		f := field
		entry.OnSubmitted = func(string) {
			cp.onCoordSubmitted(f)
		}
		cp.coords[field] = entry
		form.Append(coordLabels[field], entry)
	}

	cp.aspectCheck = widget.NewCheck("Lock aspect", func(bool) {
		cp.onAspectChanged()
	})
	cp.aspectEntry = widget.NewEntry()
	cp.aspectEntry.SetText("1:1")
	cp.aspectEntry.OnSubmitted = func(string) {
		cp.onAspectChanged()
	}
	cp.aspectCheck.Checked = true

	openButton := widget.NewButton("Open...", func() { cp.fire(cp.onOpen) })
	pasteButton := widget.NewButton("Paste", func() { cp.fire(cp.onPaste) })
	shotButton := widget.NewButton("Screenshot", func() { cp.fire(cp.onScreenshot) })
	copyButton := widget.NewButton("Copy", func() { cp.fire(cp.onCopy) })

	applyButton := widget.NewButton("Crop & Save", func() { cp.onApplyCrop() })
	reduceButton := widget.NewButton("Reduce PNG & Save", func() { cp.onReduceColors() })
	cp.revertButton = widget.NewButton("Revert", func() { cp.onRevert() })
	cp.revertButton.Disable()
	clearButton := widget.NewButton("Clear", func() { cp.sess.Clear() })

	cp.container = container.NewVBox(
		widget.NewCard("Import", "", container.NewGridWithColumns(2,
			openButton, pasteButton, shotButton, copyButton,
		)),
		widget.NewCard("Selection", "", container.NewVBox(
			form,
			container.NewBorder(nil, nil, cp.aspectCheck, nil, cp.aspectEntry),
		)),
		widget.NewCard("Batch", "", container.NewVBox(
			applyButton, reduceButton, cp.revertButton, clearButton,
		)),
	)

	pv.OnRectChanged(func(box geometry.Box) {
		cp.SetBox(box)
	})

	sess.On(session.EventHistoryChanged, func(interface{}) {
		cp.refreshRevert()
	})
	sess.On(session.EventDocumentsChanged, func(interface{}) {
		if cp.sess.Len() == 0 {
			cp.ClearBox()
		}
	})

	// Push the default 1:1 lock into the selection engine.
	cp.onAspectChanged()

	return cp
}

// Container returns the panel container.
func (cp *ControlPanel) Container() fyne.CanvasObject {
	return cp.container
}

// SetWindow sets the parent window for dialogs.
func (cp *ControlPanel) SetWindow(w fyne.Window) {
	cp.window = w
}

// OnOpen registers the open-dialog action.
func (cp *ControlPanel) OnOpen(callback func()) { cp.onOpen = callback }

// OnPaste registers the clipboard import action.
func (cp *ControlPanel) OnPaste(callback func()) { cp.onPaste = callback }

// OnScreenshot registers the screen capture action.
func (cp *ControlPanel) OnScreenshot(callback func()) { cp.onScreenshot = callback }

// OnCopy registers the copy-to-clipboard action.
func (cp *ControlPanel) OnCopy(callback func()) { cp.onCopy = callback }

func (cp *ControlPanel) fire(callback func()) {
	if callback != nil {
		callback()
	}
}

// SetBox fills the coordinate fields from a source-space crop box, unless
// the user is mid-edit.
func (cp *ControlPanel) SetBox(box geometry.Box) {
	if cp.editing {
		return
	}
	cp.coords[selection.FieldX1].SetText(strconv.Itoa(box.X1))
	cp.coords[selection.FieldY1].SetText(strconv.Itoa(box.Y1))
	cp.coords[selection.FieldX2].SetText(strconv.Itoa(box.X2))
	cp.coords[selection.FieldY2].SetText(strconv.Itoa(box.Y2))
}

// ClearBox blanks the coordinate fields.
func (cp *ControlPanel) ClearBox() {
	for _, entry := range cp.coords {
		entry.SetText("")
	}
}

// AspectState returns the ratio text and lock state for persistence.
func (cp *ControlPanel) AspectState() (string, bool) {
	return cp.aspectEntry.Text, cp.aspectCheck.Checked
}

// SetAspectState restores the ratio text and lock state, applying them to
// the selection.
func (cp *ControlPanel) SetAspectState(ratio string, locked bool) {
	if ratio != "" {
		cp.aspectEntry.SetText(ratio)
	}
	cp.aspectCheck.Checked = locked
	cp.aspectCheck.Refresh()
	cp.onAspectChanged()
}

// validatedBox parses the four coordinate fields. A parse failure or an
// inverted box is reported as an error without touching the selection.
func (cp *ControlPanel) validatedBox() (geometry.Box, error) {
	values := make(map[selection.Field]int, len(coordFields))
	for _, field := range coordFields {
		v, err := strconv.Atoi(strings.TrimSpace(cp.coords[field].Text))
		if err != nil {
			return geometry.Box{}, errors.New("coordinates must be whole numbers")
		}
		values[field] = v
	}
	box := geometry.Box{
		X1: values[selection.FieldX1],
		Y1: values[selection.FieldY1],
		X2: values[selection.FieldX2],
		Y2: values[selection.FieldY2],
	}
	if !box.Valid() {
		return geometry.Box{}, errors.New("XE must be greater than XS and YE greater than YS")
	}
	return box, nil
}

func (cp *ControlPanel) onCoordSubmitted(changed selection.Field) {
	cp.editing = true
	defer func() { cp.editing = false }()

	box, err := cp.validatedBox()
	if err != nil {
		dialog.ShowError(err, cp.window)
		return
	}
	if !cp.preview.EditBox(box, changed) {
		return
	}
	if !cp.preview.Lock().Enabled && cp.aspectCheck.Checked {
		// The edit broke the locked ratio; mirror the disabled lock.
		cp.aspectCheck.Checked = false
		cp.aspectCheck.Refresh()
	}

	// Show the applied box, which normalization may have adjusted.
	cp.editing = false
	if final, ok := cp.preview.SourceBox(); ok {
		cp.SetBox(final)
	}
}

func (cp *ControlPanel) onAspectChanged() {
	cp.preview.SetAspect(cp.aspectCheck.Checked, cp.aspectEntry.Text)
}

func (cp *ControlPanel) onApplyCrop() {
	if cp.sess.Len() == 0 {
		return
	}
	box, err := cp.validatedBox()
	if err != nil {
		dialog.ShowError(err, cp.window)
		return
	}
	if _, err := batch.ApplyCrop(cp.sess, box); err != nil &&
		!errors.Is(err, batch.ErrNoDocuments) {
		dialog.ShowError(err, cp.window)
	}
}

func (cp *ControlPanel) onReduceColors() {
	_, err := batch.ReduceColors(cp.sess)
	switch {
	case errors.Is(err, batch.ErrNoDocuments):
		dialog.ShowInformation("Reduce Colors", "No files loaded to reduce.", cp.window)
	case errors.Is(err, batch.ErrNotAllPNG):
		dialog.ShowInformation("Reduce Colors", "Color reduction supports PNG files only.", cp.window)
	case err != nil:
		dialog.ShowError(err, cp.window)
	}
}

func (cp *ControlPanel) onRevert() {
	if err := cp.sess.Revert(); err != nil && !errors.Is(err, session.ErrNoHistory) {
		dialog.ShowError(err, cp.window)
	}
}

func (cp *ControlPanel) refreshRevert() {
	if cp.sess.CanRevert() {
		cp.revertButton.Enable()
	} else {
		cp.revertButton.Disable()
	}
}
