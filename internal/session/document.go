// Package session holds the working set of loaded documents, the selected
// index, and the bounded undo history behind an event-emitting state type.
package session

import (
	"image"
	"sync/atomic"

	bcimage "github.com/Sawamura-Jun/Batch-Cropper/internal/image"
)

var generation atomic.Uint64

// Document is one loaded image in the working set. Documents are replaced
// wholesale by batch transforms, never mutated in place.
type Document struct {
	Path       string       // file the image was loaded from
	Image      image.Image  // decoded pixel data
	Meta       bcimage.Meta // source encoding details for round-trip saves
	Reduced    bool         // palette reduction has been applied
	Generation uint64       // unique per image value, keys render caches
}

// NewDocument wraps a loaded image. Every document gets a fresh generation
// number so renderers can compare cached work against it by value.
func NewDocument(path string, img image.Image, meta bcimage.Meta) *Document {
	return &Document{
		Path:       path,
		Image:      img,
		Meta:       meta,
		Generation: generation.Add(1),
	}
}

// Width returns the image width in pixels.
func (d *Document) Width() int {
	if d.Image == nil {
		return 0
	}
	return d.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (d *Document) Height() int {
	if d.Image == nil {
		return 0
	}
	return d.Image.Bounds().Dy()
}

// clone deep-copies the document so history snapshots stay independent of
// the live working set.
func (d *Document) clone() *Document {
	cp := NewDocument(d.Path, bcimage.Clone(d.Image), d.Meta)
	cp.Reduced = d.Reduced
	return cp
}
