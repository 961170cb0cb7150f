package image

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"golang.org/x/image/tiff"
)

// Suffix is appended to file names before the extension when saving
// cropper output, so originals are never overwritten.
const Suffix = "_bc"

// TIFF compression schemes from tag 259 that need special save handling.
const (
	TIFFCompressionNone   = 1
	TIFFCompressionGroup3 = 3
	TIFFCompressionGroup4 = 4
)

// AddSuffix inserts Suffix before the file extension. Paths that already
// carry the suffix are returned unchanged.
func AddSuffix(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	base = strings.TrimSuffix(base, Suffix)
	return base + Suffix + ext
}

// Save encodes img to path, choosing the encoder from the file extension.
// JPEG output reuses the quality recorded in meta, falling back to
// fallbackQuality when none was detected. Bilevel fax TIFFs are re-thresholded
// to black and white before encoding.
func Save(path string, img image.Image, meta Meta, fallbackQuality int) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".jpg", ".jpeg":
		quality := meta.JPEGQuality
		if quality <= 0 {
			quality = fallbackQuality
		}
		return imgio.Save(path, img, imgio.JPEGEncoder(quality))
	case ".png":
		return imgio.Save(path, img, imgio.PNGEncoder())
	case ".bmp":
		return imgio.Save(path, img, imgio.BMPEncoder())
	case ".tif", ".tiff":
		return saveTIFF(path, img, meta.TIFFCompression)
	default:
		return fmt.Errorf("unsupported image format %q", ext)
	}
}

// saveTIFF writes img as TIFF. Group 3/4 fax sources are converted to
// dithered black and white first. The encoder only supports deflate and
// uncompressed output, so fax and LZW schemes are written as deflate.
func saveTIFF(path string, img image.Image, compression uint16) error {
	opts := &tiff.Options{Compression: tiff.Deflate}
	switch compression {
	case TIFFCompressionGroup3, TIFFCompressionGroup4:
		img = bilevel(img)
	case TIFFCompressionNone, 0:
		opts.Compression = tiff.Uncompressed
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := tiff.Encode(f, img, opts); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode tiff: %w", err)
	}
	return f.Close()
}

// bilevel reduces img to pure black and white with Floyd-Steinberg dithering.
func bilevel(img image.Image) *image.Gray {
	bounds := img.Bounds()
	bw := image.NewPaletted(bounds, color.Palette{color.Black, color.White})
	draw.FloydSteinberg.Draw(bw, bounds, img, bounds.Min)

	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if bw.ColorIndexAt(x, y) != 0 {
				out.SetGray(x, y, color.Gray{Y: 0xff})
			}
		}
	}
	return out
}
