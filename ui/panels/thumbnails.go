package panels

import (
	"image"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/anthonynsimon/bild/transform"

	"github.com/Sawamura-Jun/Batch-Cropper/internal/session"
)

// ThumbnailStrip is the horizontal strip of document thumbnails under the
// preview. Thumbnails are cached per slot and regenerated only when the
// document generation at that slot changes.
type ThumbnailStrip struct {
	sess   *session.Session
	scroll *container.Scroll
	row    *fyne.Container

	cache map[int]thumbEntry
	items []*thumbItem

	maxW, maxH int
}

type thumbEntry struct {
	generation uint64
	img        image.Image
}

// NewThumbnailStrip creates the strip wired to session events.
func NewThumbnailStrip(sess *session.Session) *ThumbnailStrip {
	cfg := sess.Config()
	ts := &ThumbnailStrip{
		sess:  sess,
		row:   container.NewHBox(),
		cache: make(map[int]thumbEntry),
		maxW:  cfg.ThumbWidth,
		maxH:  cfg.ThumbHeight,
	}
	ts.scroll = container.NewHScroll(ts.row)
	ts.scroll.SetMinSize(fyne.NewSize(0, float32(ts.maxH)+10))

	sess.On(session.EventDocumentsChanged, func(interface{}) {
		ts.Rebuild()
	})
	sess.On(session.EventSelectionChanged, func(interface{}) {
		ts.updateSelection()
	})

	return ts
}

// Container returns the strip container.
func (ts *ThumbnailStrip) Container() fyne.CanvasObject {
	return ts.scroll
}

// Rebuild regenerates the strip from the session's documents.
func (ts *ThumbnailStrip) Rebuild() {
	docs := ts.sess.Documents()
	if len(docs) == 0 {
		ts.cache = make(map[int]thumbEntry)
	}
	ts.row.RemoveAll()
	ts.items = ts.items[:0]

	selected := ts.sess.Selected()
	for i, doc := range docs {
		entry, ok := ts.cache[i]
		if !ok || entry.generation != doc.Generation {
			entry = thumbEntry{
				generation: doc.Generation,
				img:        makeThumbnail(doc.Image, ts.maxW, ts.maxH),
			}
			ts.cache[i] = entry
		}
		item := newThumbItem(ts, i, entry.img)
		item.setSelected(i == selected)
		ts.items = append(ts.items, item)
		ts.row.Add(item)
	}
	for idx := range ts.cache {
		if idx >= len(docs) {
			delete(ts.cache, idx)
		}
	}
	ts.row.Refresh()
}

func (ts *ThumbnailStrip) updateSelection() {
	selected := ts.sess.Selected()
	for i, item := range ts.items {
		item.setSelected(i == selected)
	}
}

// makeThumbnail scales src down to fit within maxW by maxH, preserving
// aspect. Images already small enough pass through unscaled.
func makeThumbnail(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return src
	}
	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	tw := int(math.Round(float64(w) * scale))
	th := int(math.Round(float64(h) * scale))
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	return transform.Resize(src, tw, th, transform.Lanczos)
}

// thumbItem is one tappable thumbnail with a selection highlight frame.
type thumbItem struct {
	widget.BaseWidget

	strip *ThumbnailStrip
	index int

	frame *canvas.Rectangle
	image *canvas.Image
}

func newThumbItem(strip *ThumbnailStrip, index int, thumb image.Image) *thumbItem {
	ti := &thumbItem{strip: strip, index: index}
	ti.frame = canvas.NewRectangle(color.Transparent)
	ti.image = canvas.NewImageFromImage(thumb)
	ti.image.FillMode = canvas.ImageFillContain
	ti.image.ScaleMode = canvas.ImageScaleSmooth
	b := thumb.Bounds()
	ti.image.SetMinSize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
	ti.ExtendBaseWidget(ti)
	return ti
}

func (ti *thumbItem) setSelected(sel bool) {
	if sel {
		ti.frame.FillColor = theme.PrimaryColor()
	} else {
		ti.frame.FillColor = color.Transparent
	}
	ti.frame.Refresh()
}

// Tapped selects the document without moving the scroll position.
func (ti *thumbItem) Tapped(*fyne.PointEvent) {
	ti.strip.sess.Select(ti.index)
}

func (ti *thumbItem) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(ti.frame, container.NewPadded(ti.image)))
}
