// Package image provides image loading, suffix-aware saving, and
// format metadata handling for the cropper.
package image

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Meta carries per-file encoding details captured at load time so that a
// later save can round-trip the source format.
type Meta struct {
	JPEGQuality     int    // estimated encoder quality, 0 when unknown
	TIFFCompression uint16 // TIFF compression scheme (tag 259), 0 when not a TIFF
}

// Load decodes the image at path and records its encoding metadata.
func Load(path string) (image.Image, Meta, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("failed to decode image: %w", err)
	}

	var meta Meta
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		if q, err := EstimateJPEGQuality(path); err == nil {
			meta.JPEGQuality = q
		}
	case ".tif", ".tiff":
		if c, err := tiffCompression(path); err == nil {
			meta.TIFFCompression = c
		}
	}
	return img, meta, nil
}

// SupportedFormats returns the list of supported image file extensions.
func SupportedFormats() []string {
	return []string{".jpg", ".jpeg", ".png", ".bmp", ".tif", ".tiff"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
